package pattern

import (
	"context"
	"testing"
	"time"
)

type fakeSink struct {
	on  []int
	off []int
}

func (f *fakeSink) NoteOn(note int, freqHz float64) bool {
	f.on = append(f.on, note)
	return true
}

func (f *fakeSink) NoteOff(note int) {
	f.off = append(f.off, note)
}

// fixedNotes and constDuration are small NoteSource/DurationSource
// stand-ins for tests that don't need a full specjson.PatternSyntax to
// exercise Play's scheduling.
type fixedNotes struct {
	chords [][]int
	pos    int
}

func (f *fixedNotes) Next() ([]int, bool) {
	if f.pos >= len(f.chords) {
		return nil, false
	}
	c := f.chords[f.pos]
	f.pos++
	return c, true
}

type constDuration float64

func (c constDuration) Next() (float64, bool) { return float64(c), true }

func TestPlayChordThenSustainThenGap(t *testing.T) {
	sink := &fakeSink{}
	clock := &ImmediateClock{}
	notes := &fixedNotes{chords: [][]int{{60, 64, 67}, {60, 64, 67}}}
	p := NewMusicPattern(notes, constDuration(0.5), constDuration(0.25), nil, nil, sink, clock)
	if err := p.Play(context.Background()); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	if len(sink.on) != 6 {
		t.Fatalf("expected 6 NoteOn calls (two chords of three notes), got %d: %v", len(sink.on), sink.on)
	}
	if len(sink.off) != 6 {
		t.Fatalf("expected 6 NoteOff calls, got %d: %v", len(sink.off), sink.off)
	}
	// two cycles of 0.5s sustain + 0.25s gap = 1.5s total
	if clock.Elapsed != 1500*time.Millisecond {
		t.Fatalf("elapsed clock time = %v, want 1.5s", clock.Elapsed)
	}
}

func TestPlayStopsWhenNoteSourceIsExhausted(t *testing.T) {
	sink := &fakeSink{}
	clock := &ImmediateClock{}
	notes := &fixedNotes{chords: [][]int{{1, 2}}}
	p := NewMusicPattern(notes, constDuration(1), constDuration(0), nil, nil, sink, clock)
	if err := p.Play(context.Background()); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	if len(sink.on) != 2 || len(sink.off) != 2 {
		t.Fatalf("expected exactly one chord played through, got on=%v off=%v", sink.on, sink.off)
	}
}

func TestPlayCanceledBeforeFirstCycleTouchesNoNotes(t *testing.T) {
	sink := &fakeSink{}
	clock := &ImmediateClock{}
	notes := &fixedNotes{chords: [][]int{{1, 2}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel before Play even starts its first cycle check
	p := NewMusicPattern(notes, constDuration(1000), constDuration(0), nil, nil, sink, clock)
	err := p.Play(ctx)
	if err == nil {
		t.Fatalf("expected Play to return the context's cancellation error")
	}
	// The chord never played (ctx was already canceled), so no notes
	// were held and none need releasing.
	if len(sink.on) != 0 || len(sink.off) != 0 {
		t.Fatalf("no notes should have been touched: on=%v off=%v", sink.on, sink.off)
	}
}

func TestGroupPlaysAllPatternsConcurrently(t *testing.T) {
	sinkA := &fakeSink{}
	sinkB := &fakeSink{}
	pa := NewMusicPattern(&fixedNotes{chords: [][]int{{1}}}, constDuration(0), constDuration(0), nil, nil, sinkA, &ImmediateClock{})
	pb := NewMusicPattern(&fixedNotes{chords: [][]int{{2}}}, constDuration(0), constDuration(0), nil, nil, sinkB, &ImmediateClock{})
	g := NewGroup(pa, pb)
	if err := g.Play(context.Background()); err != nil {
		t.Fatalf("Group.Play returned error: %v", err)
	}
	if len(sinkA.on) != 1 || len(sinkB.on) != 1 {
		t.Fatalf("expected both patterns to have played their chord")
	}
}
