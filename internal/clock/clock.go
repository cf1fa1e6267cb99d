// Package clock lets handlers and commands read "now" through an interface
// so tests can pin the local day.
package clock

import (
	"sync"
	"time"

	"taskodo/internal/datekey"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// TodayKey is the local date key of c.Now().
func TodayKey(c Clock) string {
	return datekey.ToLocalDateKey(c.Now())
}

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// AdvanceDays moves the clock by whole calendar days.
func (c *FakeClock) AdvanceDays(n int) {
	c.mu.Lock()
	c.t = c.t.AddDate(0, 0, n)
	c.mu.Unlock()
}
