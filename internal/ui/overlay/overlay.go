// Package overlay tracks the two overlay channels layered over the focused
// frame: a transient toast/HUD that never takes focus, and at most one modal
// that does.
package overlay

import (
	"time"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging/events"
)

// HUDDuration is how long a HUD stays visible.
const HUDDuration = 2 * time.Second

// NoticeKind distinguishes dismissible toasts from self-hiding HUDs.
type NoticeKind int

const (
	KindToast NoticeKind = iota
	KindHUD
)

func (k NoticeKind) String() string {
	if k == KindHUD {
		return "hud"
	}
	return "toast"
}

// Notice is the visible toast or HUD. Seq identifies this showing so late
// timers can be told apart from current ones.
type Notice struct {
	Kind  NoticeKind
	Toast ext.Toast
	Seq   int
	// FrameID is the frame whose handler raised the notice; primary actions
	// run against it.
	FrameID string
}

// Coordinator owns both overlay channels.
type Coordinator struct {
	notice *Notice
	seq    int
	modal  Modal
}

func New() *Coordinator {
	return &Coordinator{}
}

// ShowToast replaces any visible notice with t and returns its sequence.
func (c *Coordinator) ShowToast(frameID string, t ext.Toast) int {
	return c.show(Notice{Kind: KindToast, Toast: t, FrameID: frameID})
}

// ShowHUD replaces any visible notice with a HUD. Callers schedule Expire
// after HUDDuration with the returned sequence.
func (c *Coordinator) ShowHUD(title string) int {
	return c.show(Notice{Kind: KindHUD, Toast: ext.Toast{Title: title}})
}

func (c *Coordinator) show(n Notice) int {
	c.seq++
	n.Seq = c.seq
	c.notice = &n
	events.Overlay.Toast(n.Kind.String(), n.Toast.Style.String(), n.Toast.Title, n.Seq)
	return n.Seq
}

// Notice returns the visible toast or HUD.
func (c *Coordinator) Notice() *Notice {
	return c.notice
}

// DismissibleToast returns the visible notice when it is a toast rather than
// a HUD.
func (c *Coordinator) DismissibleToast() (*Notice, bool) {
	if c.notice == nil || c.notice.Kind != KindToast {
		return nil, false
	}
	return c.notice, true
}

// DismissToast hides the visible notice.
func (c *Coordinator) DismissToast(reason string) bool {
	if c.notice == nil {
		return false
	}
	events.Overlay.Dismiss(reason, c.notice.Seq)
	c.notice = nil
	return true
}

// Expire hides the notice only if seq still identifies it.
func (c *Coordinator) Expire(seq int) bool {
	if c.notice == nil || c.notice.Seq != seq {
		return false
	}
	return c.DismissToast("timeout")
}

// Open makes m the active modal, closing any open one first. The closed
// modal is returned.
func (c *Coordinator) Open(m Modal) Modal {
	prev := c.modal
	replaced := ""
	if prev != nil {
		replaced = prev.Kind().String()
		events.Overlay.ModalClose(replaced, "superseded")
	}
	c.modal = m
	events.Overlay.ModalOpen(m.Kind().String(), m.FrameID(), replaced)
	return prev
}

// Close closes the active modal and returns it.
func (c *Coordinator) Close(reason string) Modal {
	prev := c.modal
	if prev != nil {
		events.Overlay.ModalClose(prev.Kind().String(), reason)
	}
	c.modal = nil
	return prev
}

// Modal returns the active modal.
func (c *Coordinator) Modal() Modal {
	return c.modal
}

// CloseForFrame closes the modal when it belongs to frameID.
func (c *Coordinator) CloseForFrame(frameID string) bool {
	if c.modal == nil || c.modal.FrameID() != frameID {
		return false
	}
	c.Close("frame-popped")
	return true
}
