// Package preset turns a single compiled voice graph into a fixed-size
// polyphonic instrument: N identical voice copies, a Sum mixing them, a
// shared voice.Ledger assigning notes to slots, and one merged
// graph.HandleIndex so a global parameter (anything not under the
// per-voice "freq"/"amp" convention names) reaches every voice at once.
package preset

import (
	"github.com/arrowgraph/arrowgraph/internal/arrow"
	"github.com/arrowgraph/arrowgraph/internal/graph"
	"github.com/arrowgraph/arrowgraph/internal/voice"
)

// gateCloseDelaySeconds holds the preset's gate open for this long after
// every voice's amplitude envelope reports StageClosed, so a tail
// shared across voices (a filter, a chorus) doesn't cut off mid-decay.
// Resolves the "how long after release to close" open question: 50ms.
const gateCloseDelaySeconds = 0.050

// VoiceFactory compiles one fresh voice graph. Preset calls it N times,
// so named Consts inside a voice (e.g. "freq") are per-voice, never
// shared — only names repeated identically across all N calls end up
// merged in Preset.Handles.
type VoiceFactory func() (arrow.Arrow, *graph.HandleIndex, error)

type voiceSlot struct {
	root arrow.Arrow
	freq graph.Settable
	amp  *arrow.EnvelopeNode
}

// Preset is a compiled N-voice polyphonic instrument. All N voice
// subtrees feed a single Sum, which in turn sits behind one top-level
// Gate: the gate opens the instant any voice is triggered and closes
// once every voice's amplitude envelope has finished releasing (plus a
// short tail delay), rather than each voice carrying its own gate.
type Preset struct {
	voices  []*voiceSlot
	ledger  *voice.Ledger
	mix     *arrow.Sum
	gate    *arrow.Gate
	Handles *graph.HandleIndex
	rate    float64

	pendingClose   bool
	closeCountdown float64
}

// New compiles n voices from factory and assembles the polyphonic
// preset. Each voice graph must register a "freq" Const and should
// register an "amp" EnvelopeNode (a voice with no envelope is silenced
// only by the shared gate, not by anything of its own, so it sounds for
// as long as any other voice in the preset does).
func New(n int, factory VoiceFactory) (*Preset, error) {
	p := &Preset{
		ledger:  voice.New(n),
		Handles: graph.NewHandleIndex(),
		rate:    44100,
	}
	children := make([]arrow.Arrow, 0, n)
	for i := 0; i < n; i++ {
		root, handles, err := factory()
		if err != nil {
			return nil, err
		}
		vs := &voiceSlot{root: root}
		if freq := handles.Consts["freq"]; len(freq) > 0 {
			vs.freq = freq[0]
		}
		if amp := handles.ADSR["amp"]; len(amp) > 0 {
			vs.amp = amp[0]
			idx := i
			vs.amp.OnFinish(func() {
				p.ledger.ReleaseComplete(idx)
				if p.allVoicesIdle() {
					p.pendingClose = true
					p.closeCountdown = gateCloseDelaySeconds
				}
			})
		}
		p.voices = append(p.voices, vs)
		p.Handles.Merge(handles)
		children = append(children, root)
	}
	p.mix = arrow.NewSum(children...)
	p.gate = arrow.NewGate(p.mix)
	return p, nil
}

// allVoicesIdle reports whether every voice is at rest: an envelope
// voice must have finished releasing (StageClosed); an envelope-less
// voice must have its slot freed in the ledger.
func (p *Preset) allVoicesIdle() bool {
	for i, v := range p.voices {
		if v.amp != nil {
			if v.amp.Stage() != arrow.StageClosed {
				return false
			}
			continue
		}
		if p.ledger.State(i) != voice.SlotFree {
			return false
		}
	}
	return true
}

// SetSampleRate propagates the sample rate to every voice and records it
// for the gate-close countdown.
func (p *Preset) SetSampleRate(rate float64) {
	if rate > 0 {
		p.rate = rate
	}
	p.gate.SetSampleRate(rate)
}

// Process renders the gated mix of all voices and advances any pending
// delayed gate-close by the size of this block.
func (p *Preset) Process(inputs, outputs []float64) {
	p.gate.Process(inputs, outputs)
	if !p.pendingClose {
		return
	}
	blockSeconds := float64(len(outputs)) / p.rate
	p.closeCountdown -= blockSeconds
	if p.closeCountdown <= 0 {
		p.gate.Close()
		p.pendingClose = false
	}
}

// IsSilent reports whether the preset's shared gate is closed — the
// predicate render.Driver polls to skip calling Process at all between
// notes.
func (p *Preset) IsSilent() bool { return !p.gate.IsOpen() }

// NoteOn assigns note to a free voice slot and opens it at freqHz. If
// every slot is taken by a still-sounding note, the new note is dropped
// (no stealing), per the voice ledger's resolved exhaustion policy.
func (p *Preset) NoteOn(note int, freqHz float64) bool {
	idx, ok := p.ledger.TakeAvailable(note)
	if !ok {
		return false
	}
	v := p.voices[idx]
	if v.freq != nil {
		v.freq.Set(freqHz)
	}
	p.pendingClose = false
	p.gate.Open()
	if v.amp != nil {
		v.amp.Open()
	}
	return true
}

// NoteOff begins releasing note. With an amplitude envelope, the slot
// frees itself once the release stage finishes (via OnFinish); without
// one, the slot frees immediately and the shared gate closes right away
// if nothing else is sounding.
func (p *Preset) NoteOff(note int) {
	idx, ok := p.ledger.VoiceIndex(note)
	if !ok {
		return
	}
	p.ledger.BeginRelease(note)
	v := p.voices[idx]
	if v.amp != nil {
		v.amp.Close()
		return
	}
	p.ledger.ReleaseComplete(idx)
	if p.allVoicesIdle() {
		p.gate.Close()
	}
}

// ActiveVoiceCount reports how many of the N slots are currently
// sounding or releasing.
func (p *Preset) ActiveVoiceCount() int { return p.ledger.ActiveCount() }

// ReleaseAll begins releasing every sounding voice, regardless of which
// note it holds — used to fade everything out on shutdown without
// needing to know what's currently playing.
func (p *Preset) ReleaseAll() {
	for i, v := range p.voices {
		if p.ledger.State(i) == voice.SlotFree {
			continue
		}
		if v.amp != nil {
			v.amp.Close()
			continue
		}
		p.ledger.ReleaseComplete(i)
	}
	if p.allVoicesIdle() {
		p.gate.Close()
		p.pendingClose = false
	}
}
