package state

import (
	"strconv"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging/events"
)

// Frame is one pushed view. Level holds the state retained while the frame
// is covered by others.
type Frame struct {
	Level     *Level
	View      ext.View
	CommandID string
	OnPop     func()
}

// ID returns the frame identifier.
func (f *Frame) ID() string {
	if f == nil || f.Level == nil {
		return ""
	}
	return f.Level.ID
}

// Stack is the navigation stack. Once seeded it always holds a root frame.
type Stack struct {
	frames []*Frame
	seq    int
}

// NewStack creates a stack with root as its only frame.
func NewStack(root *Frame) *Stack {
	s := &Stack{}
	s.Reset(root)
	return s
}

// NextID returns a frame ID unique for the lifetime of the stack.
func (s *Stack) NextID(prefix string) string {
	s.seq++
	return prefix + "#" + strconv.Itoa(s.seq)
}

// Reset replaces every frame with root. OnPop callbacks do not run.
func (s *Stack) Reset(root *Frame) {
	s.frames = s.frames[:0]
	if root != nil {
		s.frames = append(s.frames, root)
	}
}

// Push appends f, which becomes the focused frame.
func (s *Stack) Push(f *Frame) {
	s.frames = append(s.frames, f)
	events.Nav.Push(f.ID(), title(f), len(s.frames))
}

// Pop removes the top frame and runs its OnPop after removal. The root frame
// cannot be popped.
func (s *Stack) Pop() (*Frame, bool) {
	if len(s.frames) <= 1 {
		return nil, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	events.Nav.Pop(top.ID(), len(s.frames))
	if top.OnPop != nil {
		top.OnPop()
	}
	return top, true
}

// PopToRoot pops until only the root remains, firing OnPop top to bottom.
func (s *Stack) PopToRoot() []*Frame {
	var popped []*Frame
	for {
		f, ok := s.Pop()
		if !ok {
			break
		}
		popped = append(popped, f)
	}
	if len(popped) > 0 {
		ids := make([]string, len(popped))
		for i, f := range popped {
			ids[i] = f.ID()
		}
		events.Nav.PopToRoot(ids)
	}
	return popped
}

// Top returns the focused frame.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Find returns the live frame with the given ID.
func (s *Stack) Find(id string) *Frame {
	for _, f := range s.frames {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// Alive reports whether a frame with id is still on the stack.
func (s *Stack) Alive(id string) bool {
	return s.Find(id) != nil
}

// Frames returns the frames bottom to top.
func (s *Stack) Frames() []*Frame {
	return append([]*Frame(nil), s.frames...)
}

func title(f *Frame) string {
	if f == nil || f.Level == nil {
		return ""
	}
	return f.Level.Title
}
