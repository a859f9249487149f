package diagrams

import (
	"sync"
	"time"
)

// monotonicClock never returns the same instant twice, so snapshots written by
// this process always have distinct timestamps.
type monotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newMonotonicClock(now func() time.Time) *monotonicClock {
	if now == nil {
		now = time.Now
	}
	return &monotonicClock{now: now}
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Round(0)
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

// After returns Now, bumped past floor when floor is ahead of the wall clock.
// Writes stamp with After(current updated_at) so a restored record dated in
// the future never outranks the snapshot written on top of it.
func (c *monotonicClock) After(floor time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Round(0)
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	if !t.After(floor) {
		t = floor.UTC().Add(time.Nanosecond)
	}
	c.last = t
	return t
}
