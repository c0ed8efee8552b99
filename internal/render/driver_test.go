package render

import (
	"testing"

	"github.com/arrowgraph/arrowgraph/internal/arrow"
)

func TestRenderBlockDuplicatesMonoAcrossChannels(t *testing.T) {
	d := NewDriver(arrow.NewConst(0.5), Config{SampleRate: 44100, Channels: 2})
	out := make([]float32, 8) // 4 frames stereo
	n := d.RenderBlock(4, out)
	if n != 4 {
		t.Fatalf("RenderBlock returned %d, want 4", n)
	}
	for i, v := range out {
		if v != 0.5 {
			t.Fatalf("out[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestRenderBlockHandlesOverrunBySplitting(t *testing.T) {
	d := NewDriver(arrow.NewConst(1), Config{SampleRate: 44100, Channels: 1})
	frames := arrow.MaxBlockSize + 10
	out := make([]float32, frames)
	n := d.RenderBlock(frames, out)
	if n != frames {
		t.Fatalf("RenderBlock returned %d, want %d", n, frames)
	}
	if d.Overruns() == 0 {
		t.Fatalf("expected Overruns() > 0 after a block bigger than MaxBlockSize")
	}
	for i, v := range out {
		if v != 1 {
			t.Fatalf("out[%d] = %v, want 1", i, v)
		}
	}
}

func TestRenderBlockClampsToOutputCapacity(t *testing.T) {
	d := NewDriver(arrow.NewConst(1), Config{SampleRate: 44100, Channels: 2})
	out := make([]float32, 4) // only room for 2 stereo frames
	n := d.RenderBlock(100, out)
	if n != 2 {
		t.Fatalf("RenderBlock returned %d, want 2 (clamped to output capacity)", n)
	}
}

func TestSilenceCheckSkipsProcessing(t *testing.T) {
	calls := 0
	probe := arrowFunc(func(in, out []float64) {
		calls++
		for i := range out {
			out[i] = 9
		}
	})
	d := NewDriver(probe, Config{SampleRate: 44100, Channels: 1})
	d.SetSilenceCheck(func() bool { return true })
	out := make([]float32, 4)
	d.RenderBlock(4, out)
	if calls != 0 {
		t.Fatalf("silent block should not call Process, got %d calls", calls)
	}
	for _, v := range out {
		if v != 0 {
			t.Fatalf("silent block output = %v, want 0", v)
		}
	}
}

func TestSubscribeReceivesRenderedBlocks(t *testing.T) {
	d := NewDriver(arrow.NewConst(0.25), Config{SampleRate: 44100, Channels: 1})
	ch := d.Subscribe()
	out := make([]float32, 4)
	d.RenderBlock(4, out)
	select {
	case block := <-ch:
		if len(block) != 4 || block[0] != 0.25 {
			t.Fatalf("subscribed block = %v, want len 4 of 0.25", block)
		}
	default:
		t.Fatalf("expected a block to be available on the subscription channel")
	}
}

type arrowFunc func(inputs, outputs []float64)

func (f arrowFunc) Process(inputs, outputs []float64) { f(inputs, outputs) }
func (f arrowFunc) SetSampleRate(float64)             {}
