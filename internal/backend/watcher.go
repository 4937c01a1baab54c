package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/termext/internal/ext"
)

const (
	// minPollInterval bounds how often a single frame's loader may be polled.
	minPollInterval = 250 * time.Millisecond
	// fetchGap spaces fetches across all frames.
	fetchGap = 50 * time.Millisecond
)

// Event conveys refreshed sections or an error from a frame poll.
type Event struct {
	FrameID  string
	Sections []ext.Section
	Err      error
}

// FetchFunc produces the sections of one frame.
type FetchFunc func(ctx context.Context) ([]ext.Section, error)

// Watcher polls frame loaders at their refresh interval and publishes events.
// Each frame has at most one poller; Unwatch cancels it.
type Watcher struct {
	ctx    context.Context
	cancel context.CancelFunc

	events   chan Event
	wg       sync.WaitGroup
	throttle *throttle

	mu      sync.Mutex
	pollers map[string]context.CancelFunc
	stopped bool
}

// NewWatcher creates a watcher with no pollers.
func NewWatcher() *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
		throttle: newThrottle(fetchGap),
		pollers:  make(map[string]context.CancelFunc),
	}
	go func() {
		<-ctx.Done()
		w.wg.Wait()
		close(w.events)
	}()
	return w
}

// Events returns a channel of poll events. It is closed after Stop once every
// poller has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watch starts polling fetch every interval for frameID, replacing any
// existing poller for that frame.
func (w *Watcher) Watch(frameID string, interval time.Duration, fetch FetchFunc) {
	if interval <= 0 || fetch == nil {
		return
	}
	if interval < minPollInterval {
		interval = minPollInterval
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if cancel, ok := w.pollers[frameID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.pollers[frameID] = cancel
	w.wg.Add(1)
	go w.poll(ctx, frameID, interval, fetch)
}

// Unwatch cancels the poller for frameID. Fetches already running finish but
// their results are dropped.
func (w *Watcher) Unwatch(frameID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	cancel, ok := w.pollers[frameID]
	if !ok {
		return false
	}
	cancel()
	delete(w.pollers, frameID)
	return true
}

// Watching reports whether frameID has an active poller.
func (w *Watcher) Watching(frameID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pollers[frameID]
	return ok
}

// Stop cancels every poller. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.pollers = make(map[string]context.CancelFunc)
	w.mu.Unlock()
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll(ctx context.Context, frameID string, interval time.Duration, fetch FetchFunc) {
	defer w.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.throttle.wait(ctx) {
				return
			}
			sections, err := fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case w.events <- Event{FrameID: frameID, Sections: sections, Err: err}:
			}
		}
	}
}
