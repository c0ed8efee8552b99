package arrow

import "sync/atomic"

// MusicEvent is the transient data one MusicPattern iteration produces:
// the chord about to sound, its sustain and gap durations, and the
// modulator values resolved for this iteration. It lives only while its
// play-step is in flight — the scheduler swaps in a fresh one (or nil)
// each time, never mutates one in place, so EventUsingArrow can read it
// from the render thread without a lock.
type MusicEvent struct {
	Notes      []int
	Sustain    float64
	Gap        float64
	Modulators map[string]float64
}

// EventUsingArrow derives a per-sample constant value from whatever
// MusicEvent is currently bound, broadcasting it across the output
// block the way Const does. Unbound (nil) reads as 0.
type EventUsingArrow struct {
	derive func(*MusicEvent) float64
	event  atomic.Pointer[MusicEvent]
}

// NewEventUsingArrow builds a node that calls derive on whatever
// MusicEvent is bound via Bind to produce its output value.
func NewEventUsingArrow(derive func(*MusicEvent) float64) *EventUsingArrow {
	return &EventUsingArrow{derive: derive}
}

// Bind attaches ev as the event this node derives its value from. A nil
// ev clears the binding back to 0.
func (n *EventUsingArrow) Bind(ev *MusicEvent) { n.event.Store(ev) }

func (n *EventUsingArrow) SetSampleRate(float64) {}

func (n *EventUsingArrow) Process(inputs, outputs []float64) {
	v := 0.0
	if ev := n.event.Load(); ev != nil && n.derive != nil {
		v = n.derive(ev)
	}
	for i := range outputs {
		outputs[i] = v
	}
}
