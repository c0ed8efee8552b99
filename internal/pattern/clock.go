package pattern

import (
	"sync"
	"time"
)

// Clock abstracts the passage of time a pattern's play loop waits on
// and measures, so tests can drive a pattern through its whole schedule
// without actually sleeping or touching the wall clock.
type Clock interface {
	Sleep(d time.Duration)
	// ElapsedSeconds reports how long this clock has been running — the
	// "now" a MusicPattern evaluates its modulator arrows against.
	ElapsedSeconds() float64
}

// RealClock sleeps and measures on the wall clock. Its zero value is
// ready to use; elapsed time is measured from the first call to either
// method, not from construction, so a RealClock sitting unused in a
// struct literal doesn't start its stopwatch early.
type RealClock struct {
	once  sync.Once
	start time.Time
}

func (c *RealClock) init() { c.once.Do(func() { c.start = time.Now() }) }

func (c *RealClock) Sleep(d time.Duration) {
	c.init()
	time.Sleep(d)
}

func (c *RealClock) ElapsedSeconds() float64 {
	c.init()
	return time.Since(c.start).Seconds()
}

// ImmediateClock returns from Sleep without waiting, accumulating the
// total requested duration as its elapsed time, so a test can assert on
// how long a pattern "would" have taken without the test itself taking
// that long.
type ImmediateClock struct {
	Elapsed time.Duration
}

func (c *ImmediateClock) Sleep(d time.Duration) { c.Elapsed += d }

func (c *ImmediateClock) ElapsedSeconds() float64 { return c.Elapsed.Seconds() }
