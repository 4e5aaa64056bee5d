// Package testutil holds deterministic time and ID sources for tests.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a wall clock that only moves when told to.
//
// Its Now method has the signature of time.Now, so it can be passed
// wherever a command takes a clock. Safe for concurrent use.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// NewFixedClockOn returns a clock stopped at noon UTC of the given date.
func NewFixedClockOn(year int, month time.Month, day int) *FixedClock {
	return NewFixedClock(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// Now returns the clock's current time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AdvanceDays moves the clock n calendar days (backwards when n < 0).
func (c *FixedClock) AdvanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}
