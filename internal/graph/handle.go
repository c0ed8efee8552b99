package graph

import "github.com/arrowgraph/arrowgraph/internal/arrow"

// Settable is arrow.Settable: Const and its ConstOctave/ConstCent
// variants by promotion, plus Choruser, which registers itself under
// the name of the Const it detunes.
type Settable = arrow.Settable

// HandleIndex is the compiler's output alongside the root arrow.Arrow:
// every node the spec gave a name is reachable here by that name, split
// by category. Each category maps a name to an ORDERED LIST of node
// references, not a single node — a name can be (and, once
// internal/preset merges N voice compiles into one index, routinely is)
// given to more than one node, and writing through the name must reach
// every one of them, not just whichever was merged in last.
type HandleIndex struct {
	Consts    map[string][]Settable
	ADSR      map[string][]*arrow.EnvelopeNode
	Oscs      map[string][]*arrow.Osc
	Chorusers map[string][]*arrow.Choruser
	BasicOscs map[string][]*arrow.Osc
	Events    map[string][]*arrow.EventUsingArrow
}

// NewHandleIndex returns an index with every category initialized empty.
func NewHandleIndex() *HandleIndex {
	return &HandleIndex{
		Consts:    make(map[string][]Settable),
		ADSR:      make(map[string][]*arrow.EnvelopeNode),
		Oscs:      make(map[string][]*arrow.Osc),
		Chorusers: make(map[string][]*arrow.Choruser),
		BasicOscs: make(map[string][]*arrow.Osc),
		Events:    make(map[string][]*arrow.EventUsingArrow),
	}
}

// Merge appends src's entries onto idx's lists in place: a name present
// in both ends up referencing every node from both, the concatenation
// semantics a later SetConst/SetADSR/BindEvent call by that name needs
// in order to write through to all of them, not just the most recently
// merged voice.
func (idx *HandleIndex) Merge(src *HandleIndex) {
	if src == nil {
		return
	}
	for k, v := range src.Consts {
		idx.Consts[k] = append(idx.Consts[k], v...)
	}
	for k, v := range src.ADSR {
		idx.ADSR[k] = append(idx.ADSR[k], v...)
	}
	for k, v := range src.Oscs {
		idx.Oscs[k] = append(idx.Oscs[k], v...)
	}
	for k, v := range src.Chorusers {
		idx.Chorusers[k] = append(idx.Chorusers[k], v...)
	}
	for k, v := range src.BasicOscs {
		idx.BasicOscs[k] = append(idx.BasicOscs[k], v...)
	}
	for k, v := range src.Events {
		idx.Events[k] = append(idx.Events[k], v...)
	}
}

// SetConst writes v to every Const registered under name. Returns how
// many handles were written, 0 if the name is unknown.
func (idx *HandleIndex) SetConst(name string, v float64) int {
	handles := idx.Consts[name]
	for _, s := range handles {
		s.Set(v)
	}
	return len(handles)
}

// SetADSR writes attack/decay/sustain/release to every envelope
// registered under name. Returns how many handles were written.
func (idx *HandleIndex) SetADSR(name string, attack, decay, sustain, release float64) int {
	handles := idx.ADSR[name]
	for _, e := range handles {
		e.SetAttack(attack)
		e.SetDecay(decay)
		e.SetSustain(sustain)
		e.SetRelease(release)
	}
	return len(handles)
}

// BindEvent binds ev to every EventUsingArrow node registered in idx, so
// each one's derive function reads ev's notes/sustain/gap/modulators
// starting with its next Process call.
func (idx *HandleIndex) BindEvent(ev *arrow.MusicEvent) {
	for _, handles := range idx.Events {
		for _, e := range handles {
			e.Bind(ev)
		}
	}
}
