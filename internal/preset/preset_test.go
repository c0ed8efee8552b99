package preset

import (
	"testing"

	"github.com/arrowgraph/arrowgraph/internal/arrow"
	"github.com/arrowgraph/arrowgraph/internal/graph"
)

// simpleVoice builds a voice whose output is just its "freq" const
// gated by an "amp" envelope that snaps instantly (zero attack/decay,
// full sustain, zero release) so tests don't need to wait out a ramp.
func simpleVoice() (arrow.Arrow, *graph.HandleIndex, error) {
	freq := arrow.NewConst(0)
	amp := arrow.NewEnvelopeNode(0, 0, 1, 0)
	amp.SetSampleRate(44100)
	root := arrow.NewProd(freq, amp)
	handles := graph.NewHandleIndex()
	handles.Consts["freq"] = []graph.Settable{freq}
	handles.ADSR["amp"] = []*arrow.EnvelopeNode{amp}
	return root, handles, nil
}

func TestPresetNoteOnProducesNonZeroOutput(t *testing.T) {
	p, err := New(2, simpleVoice)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetSampleRate(44100)

	if !p.NoteOn(60, 440) {
		t.Fatalf("NoteOn should succeed with a free slot")
	}
	out := make([]float64, 4)
	p.Process(nil, out)
	if out[0] != 440 {
		t.Fatalf("Process output = %v, want 440 (one voice at freq 440, amp 1)", out[0])
	}
}

func TestPresetDropsNoteWhenExhausted(t *testing.T) {
	p, err := New(1, simpleVoice)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetSampleRate(44100)
	if !p.NoteOn(1, 100) {
		t.Fatalf("first NoteOn should succeed")
	}
	if p.NoteOn(2, 200) {
		t.Fatalf("second NoteOn should be dropped: no free slot")
	}
	if p.ActiveVoiceCount() != 1 {
		t.Fatalf("ActiveVoiceCount = %d, want 1", p.ActiveVoiceCount())
	}
}

func TestPresetNoteOffReleasesSlotForReuse(t *testing.T) {
	p, err := New(1, simpleVoice)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetSampleRate(44100)
	p.NoteOn(1, 100)
	p.NoteOff(1)

	out := make([]float64, 1)
	// Zero-length release: the first processed sample finishes the
	// release and frees the slot. The 50ms gate-close delay only holds
	// the shared gate open; it does not hold the slot.
	for i := 0; i < 4; i++ {
		p.Process(nil, out)
	}
	if !p.NoteOn(2, 200) {
		t.Fatalf("NoteOn after the release finished should reuse the freed slot")
	}
}
