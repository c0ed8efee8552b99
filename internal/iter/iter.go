// Package iter implements the small deterministic sequence generators a
// MusicPattern draws its chord/sustain/gap and modulator choices from.
// Every generator here is seeded explicitly — nothing reaches for the
// global math/rand source — so a pattern replays identically given the
// same seed, in tests and at a live performance alike.
package iter

import "time"

// IntSource yields an endless sequence of ints, e.g. a list of scale
// degrees or MIDI note numbers to walk through.
type IntSource interface {
	Next() int
}

// FloatSource yields an endless sequence of float64s, e.g. a modulator
// table of depth values.
type FloatSource interface {
	Next() float64
}

func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Cyclic walks values in order, wrapping back to the start forever.
type Cyclic struct {
	values []int
	pos    int
}

func NewCyclic(values []int) *Cyclic { return &Cyclic{values: values} }

func (c *Cyclic) Next() int {
	if len(c.values) == 0 {
		return 0
	}
	v := c.values[c.pos%len(c.values)]
	c.pos++
	return v
}

// Shuffled walks a Fisher-Yates permutation of values, reshuffling with
// a fresh permutation each time it wraps, so no value repeats within a
// pass but the pass order itself is randomized per lap.
type Shuffled struct {
	values []int
	order  []int
	pos    int
	state  uint64
}

func NewShuffled(values []int, seed uint64) *Shuffled {
	s := &Shuffled{values: values, state: seed | 1}
	s.reshuffle()
	return s
}

func (s *Shuffled) reshuffle() {
	s.order = make([]int, len(s.values))
	for i := range s.order {
		s.order[i] = i
	}
	for i := len(s.order) - 1; i > 0; i-- {
		j := int(splitmix64(&s.state) % uint64(i+1))
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	s.pos = 0
}

func (s *Shuffled) Next() int {
	if len(s.values) == 0 {
		return 0
	}
	if s.pos >= len(s.order) {
		s.reshuffle()
	}
	v := s.values[s.order[s.pos]]
	s.pos++
	return v
}

// Random draws an independent uniform pick from values every call (with
// replacement — unlike Shuffled, repeats are allowed).
type Random struct {
	values []int
	state  uint64
}

func NewRandom(values []int, seed uint64) *Random {
	return &Random{values: values, state: seed | 1}
}

func (r *Random) Next() int {
	if len(r.values) == 0 {
		return 0
	}
	idx := int(splitmix64(&r.state) % uint64(len(r.values)))
	return r.values[idx]
}

// FloatSampler draws a uniform float64 in [low,high) each call.
type FloatSampler struct {
	low, high float64
	state     uint64
}

func NewFloatSampler(low, high float64, seed uint64) *FloatSampler {
	return &FloatSampler{low: low, high: high, state: seed | 1}
}

func (f *FloatSampler) Next() float64 {
	u := float64(splitmix64(&f.state)>>11) / float64(1<<53)
	return f.low + u*(f.high-f.low)
}

// Waiting wraps another IntSource and advances it only once every
// interval of wall-clock time has elapsed since its last advance;
// between advances it keeps returning the value it last drew. now is
// injected so a test can drive it without a real sleep — a nil now
// defaults to time.Now, the live-playback behavior.
type Waiting struct {
	inner    IntSource
	interval time.Duration
	now      func() time.Time

	started bool
	last    time.Time
	cur     int
}

func NewWaiting(inner IntSource, interval time.Duration, now func() time.Time) *Waiting {
	if now == nil {
		now = time.Now
	}
	return &Waiting{inner: inner, interval: interval, now: now}
}

func (w *Waiting) Next() int {
	t := w.now()
	if !w.started || t.Sub(w.last) >= w.interval {
		w.cur = w.inner.Next()
		w.last = t
		w.started = true
	}
	return w.cur
}
