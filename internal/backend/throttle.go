package backend

import (
	"context"
	"sync"
	"time"
)

// throttle hands out fetch slots at least gap apart. One instance is shared
// by every poller of a Watcher.
type throttle struct {
	gap time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(gap time.Duration) *throttle {
	return &throttle{gap: gap}
}

// reserve claims the next free slot and returns how long until it starts.
func (t *throttle) reserve() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	slot := t.next
	if slot.Before(now) {
		slot = now
	}
	t.next = slot.Add(t.gap)
	return slot.Sub(now)
}

// wait blocks until the caller's slot. It reports false when ctx ends first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.gap <= 0 {
		return ctx.Err() == nil
	}
	d := t.reserve()
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
