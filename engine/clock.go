package engine

import (
	"sync"
	"time"
)

// TimeProvider supplies wall-clock time.
type TimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// SystemTime is the real clock.
var SystemTime TimeProvider = systemTime{}

// FakeClock is a manually advanced TimeProvider.
type FakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Clock turns wall-clock samples into tick deltas in seconds, capped at
// maxDT so a stall never teleports bodies.
type Clock struct {
	src   TimeProvider
	maxDT float64
	last  time.Time
}

func NewClock(src TimeProvider, maxDT float64) *Clock {
	if src == nil {
		src = SystemTime
	}
	return &Clock{src: src, maxDT: maxDT, last: src.Now()}
}

// Step returns the seconds elapsed since the previous step and the current
// time. Time running backwards yields zero.
func (c *Clock) Step() (float64, time.Time) {
	now := c.src.Now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		dt = 0
	}
	if c.maxDT > 0 && dt > c.maxDT {
		dt = c.maxDT
	}
	return dt, now
}

// Restart forgets the previous sample, so the next step measures from now.
func (c *Clock) Restart() {
	c.last = c.src.Now()
}

func (c *Clock) Now() time.Time {
	return c.src.Now()
}
