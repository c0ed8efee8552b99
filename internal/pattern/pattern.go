// Package pattern implements the music-event scheduler: a MusicPattern
// pulls one chord, one sustain, and one gap duration from three
// independent sources every cycle, evaluates its modulator table, binds
// a MusicEvent any EventUsingArrow nodes in the graph can read, and
// drives NoteOn/NoteOff calls against a polyphonic instrument in time —
// with an injected Clock so the same scheduler runs identically in
// tests and in a live render.
package pattern

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/arrowgraph/arrowgraph/internal/arrow"
	"github.com/arrowgraph/arrowgraph/internal/graph"
)

// NoteSink is anything a pattern can play notes against; internal/preset.Preset
// satisfies it.
type NoteSink interface {
	NoteOn(note int, freqHz float64) bool
	NoteOff(note int)
}

// NoteSource yields the next chord to play. ok is false once the source
// is exhausted (only the "fixed" note generator ever exhausts; every
// other kind runs forever), the signal that ends a pattern's Play loop.
type NoteSource interface {
	Next() (notes []int, ok bool)
}

// DurationSource yields the next sustain or gap length in seconds.
type DurationSource interface {
	Next() (seconds float64, ok bool)
}

// Modulator is one compiled modulator entry: the handle name it writes
// through to on every cycle, and the arrow re-evaluated at the current
// clock time to produce that value.
type Modulator struct {
	Target string
	Arrow  arrow.Arrow
}

// MusicPattern is a compiled, playable schedule.
type MusicPattern struct {
	notes      NoteSource
	sustains   DurationSource
	gaps       DurationSource
	modulators []Modulator
	handles    *graph.HandleIndex

	sink  NoteSink
	clock Clock

	pauseMu sync.Mutex
	pauseCh chan struct{}
}

// NewMusicPattern assembles a playable schedule from its three
// iterators and modulator table. handles may be nil (a pattern with no
// modulators and no bound MusicEvent readers doesn't need one).
func NewMusicPattern(notes NoteSource, sustains, gaps DurationSource, modulators []Modulator, handles *graph.HandleIndex, sink NoteSink, clock Clock) *MusicPattern {
	return &MusicPattern{
		notes:      notes,
		sustains:   sustains,
		gaps:       gaps,
		modulators: modulators,
		handles:    handles,
		sink:       sink,
		clock:      clock,
	}
}

// Play runs the schedule until one of its iterators is exhausted or ctx
// is canceled. On every exit path — normal completion, cancellation, or
// a panic recovered by the caller's defer chain — any notes this
// pattern started are turned off before Play returns, so a canceled
// pattern never leaves a voice stuck open.
//
// Per cycle:
//  1. check ctx for cancellation, then wait out any pause
//  2. pull one element from notes, sustains, and gaps; stop if any is
//     exhausted
//  3. evaluate every modulator at the clock's current elapsed time and
//     write it through its handle
//  4. bind a MusicEvent carrying this cycle's notes/sustain/gap/modulator
//     values so any EventUsingArrow node can read it
//  5. NoteOn every note, sleep the sustain, NoteOff every note, sleep the
//     gap, and loop
func (p *MusicPattern) Play(ctx context.Context) error {
	var held []int
	defer func() {
		for _, n := range held {
			p.sink.NoteOff(n)
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.waitWhilePaused(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}

		notes, ok := p.notes.Next()
		if !ok {
			return nil
		}
		sustain, ok := p.sustains.Next()
		if !ok {
			return nil
		}
		gap, ok := p.gaps.Next()
		if !ok {
			return nil
		}

		now := p.clock.ElapsedSeconds()
		modVals := make(map[string]float64, len(p.modulators))
		for _, m := range p.modulators {
			v := evalAt(m.Arrow, now)
			modVals[m.Target] = v
			if p.handles != nil {
				p.handles.SetConst(m.Target, v)
			}
		}

		if p.handles != nil {
			p.handles.BindEvent(&arrow.MusicEvent{
				Notes:      notes,
				Sustain:    sustain,
				Gap:        gap,
				Modulators: modVals,
			})
		}

		for _, n := range notes {
			if p.sink.NoteOn(n, noteToFreq(n)) {
				held = append(held, n)
			}
		}
		p.clock.Sleep(secondsToDuration(sustain))
		for _, n := range notes {
			p.sink.NoteOff(n)
		}
		held = held[:0]
		p.clock.Sleep(secondsToDuration(gap))
	}
}

// Pause blocks Play at its next cycle boundary until Resume is called.
func (p *MusicPattern) Pause() {
	p.pauseMu.Lock()
	defer p.pauseMu.Unlock()
	if p.pauseCh == nil {
		p.pauseCh = make(chan struct{})
	}
}

// Resume releases a paused Play loop.
func (p *MusicPattern) Resume() {
	p.pauseMu.Lock()
	defer p.pauseMu.Unlock()
	if p.pauseCh != nil {
		close(p.pauseCh)
		p.pauseCh = nil
	}
}

func (p *MusicPattern) waitWhilePaused(ctx context.Context) {
	p.pauseMu.Lock()
	ch := p.pauseCh
	p.pauseMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case <-ch:
	case <-ctx.Done():
	}
}

// evalAt runs a (otherwise audio-rate) arrow.Arrow for a single sample
// at time t, the same evaluation a modulator gets once per note event
// rather than once per audio sample.
func evalAt(a arrow.Arrow, t float64) float64 {
	in := [1]float64{t}
	var out [1]float64
	a.Process(in[:], out[:])
	return out[0]
}

func secondsToDuration(s float64) time.Duration {
	if s < 0 {
		s = 0
	}
	return time.Duration(s * float64(time.Second))
}

// noteToFreq converts a MIDI-style note number to Hz under 12-tone equal
// temperament, A4 (note 69) at 440Hz.
func noteToFreq(note int) float64 {
	return 440.0 * math.Pow(2, float64(note-69)/12.0)
}
