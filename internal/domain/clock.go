package domain

import (
	"sync"
	"time"
)

// Clock provides the injected "now" so tests can pin time deterministically.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock is deterministic and test-friendly.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(start time.Time) *FixedClock {
	return &FixedClock{t: start}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
