// Package specjson defines the JSON-serializable tree that the compiler
// in internal/graph lowers into a live arrow.Arrow, plus the sibling
// tree internal/pattern lowers into a playable MusicPattern. Parsing
// JSON itself is out of scope for the engine (the host decodes into
// these types and hands the core a typed value); this package only
// owns the shape of that typed value and its own json tags.
package specjson

// Kind tags an ArrowSyntax node with which arrow variant it lowers to.
type Kind string

const (
	KindIdentity        Kind = "identity"
	KindConst           Kind = "const"
	KindConstOctave     Kind = "const_octave"
	KindConstCent       Kind = "const_cent"
	KindReciprocalConst Kind = "reciprocal_const"
	KindReciprocal      Kind = "reciprocal"
	KindSum             Kind = "sum"
	KindProd            Kind = "prod"
	KindCompose         Kind = "compose"
	KindOsc             Kind = "osc"
	KindEnvelope        Kind = "envelope"
	KindLowPassFilter   Kind = "low_pass_filter"
	KindChoruser        Kind = "choruser"
	KindCrossfade       Kind = "crossfade"
	KindCrossfadeEqPow  Kind = "crossfade_eq_pow"
	KindNoiseSmoothStep Kind = "noise_smooth_step"
	KindRand            Kind = "rand"
	KindExpRand         Kind = "exp_rand"
	KindLine            Kind = "line"
	KindGate            Kind = "gate"
	KindEventUsingArrow Kind = "event_using_arrow"
	KindRef             Kind = "ref"
)

// ArrowSyntax is one node of the arrow expression tree as it arrives
// over the wire. Fields irrelevant to Kind are left zero.
type ArrowSyntax struct {
	Kind Kind `json:"kind"`

	// Name, when non-empty, registers this node's realized arrow under
	// a named handle so it can be looked up and mutated after compile
	// (see graph.HandleIndex).
	Name string `json:"name,omitempty"`

	// Ref names a library-section entry this node refers to (KindRef).
	Ref string `json:"ref,omitempty"`

	Value    float64 `json:"value,omitempty"`
	Low      float64 `json:"low,omitempty"`
	High     float64 `json:"high,omitempty"`
	Hold     float64 `json:"hold_seconds,omitempty"`
	Seed     uint64  `json:"seed,omitempty"`
	Start    float64 `json:"start,omitempty"`
	End      float64 `json:"end,omitempty"`
	Duration float64 `json:"duration_seconds,omitempty"`
	Cutoff   float64 `json:"cutoff_hz,omitempty"`
	Waveform string  `json:"waveform,omitempty"`

	// Voices and Cents configure a Choruser: Voices copies of Inner are
	// compiled, each driven at a symmetric detune offset spaced Cents
	// apart, of whichever Const Target names inside Inner.
	Voices int     `json:"voices,omitempty"`
	Target string  `json:"target,omitempty"`
	Cents  float64 `json:"cents,omitempty"`

	// Field selects what an EventUsingArrow node reads off its bound
	// MusicEvent: "note" (the first note, default), "sustain", "gap",
	// or any other string, read as a key into the event's Modulators.
	Field string `json:"field,omitempty"`

	Attack  float64 `json:"attack,omitempty"`
	Decay   float64 `json:"decay,omitempty"`
	Sustain float64 `json:"sustain,omitempty"`
	Release float64 `json:"release,omitempty"`

	// Children, by role. Which fields are read depends on Kind: Sum and
	// Prod read Children; Compose reads Outer/Inner; Crossfade reads
	// A/B/Mix; Osc reads Freq and (for a square wave) Width;
	// LowPassFilter/Choruser/Gate/Reciprocal read Inner.
	Children []ArrowSyntax `json:"children,omitempty"`
	Outer    *ArrowSyntax  `json:"outer,omitempty"`
	Inner    *ArrowSyntax  `json:"inner,omitempty"`
	A        *ArrowSyntax  `json:"a,omitempty"`
	B        *ArrowSyntax  `json:"b,omitempty"`
	Mix      *ArrowSyntax  `json:"mix,omitempty"`
	Freq     *ArrowSyntax  `json:"freq,omitempty"`
	Width    *ArrowSyntax  `json:"width,omitempty"`
}

// LibrarySection maps a name to a reusable ArrowSyntax subtree; KindRef
// nodes elsewhere in the spec resolve against this table at compile
// time.
type LibrarySection map[string]ArrowSyntax

// Spec is the top-level document the compiler accepts: a library of
// named, reusable subtrees plus the root expression to realize.
type Spec struct {
	Library LibrarySection `json:"library,omitempty"`
	Root    ArrowSyntax    `json:"root"`
}

// PatternSyntax is the JSON-serializable form of a MusicPattern: a
// note generator (one of the tagged variants below), sustain/gap
// duration specs, and a named modulator table, consumed by
// internal/pattern.Compile.
type PatternSyntax struct {
	Name          string              `json:"name"`
	NoteGenerator NoteGeneratorSyntax `json:"noteGenerator"`
	Sustain       *DurationSyntax     `json:"sustain,omitempty"`
	Gap           *DurationSyntax     `json:"gap,omitempty"`
	Modulators    []ModulatorSyntax   `json:"modulators,omitempty"`
	NumVoices     int                 `json:"numVoices,omitempty"`
}

// ModulatorSyntax names a Const every voice exposes under Target and
// the Arrow compiled to re-evaluate it once per scheduled event.
type ModulatorSyntax struct {
	Target string      `json:"target"`
	Arrow  ArrowSyntax `json:"arrow"`
}

// DurationKind tags how a sustain or gap duration is drawn.
type DurationKind string

const (
	DurationFixed  DurationKind = "fixed"
	DurationRandom DurationKind = "random"
	DurationList   DurationKind = "list"
)

// DurationSyntax is a sustain or gap duration spec: a fixed value, a
// uniform random draw in [min,max), or a cyclic list of values.
type DurationSyntax struct {
	Kind   DurationKind `json:"kind"`
	Value  float64      `json:"value,omitempty"`
	Min    float64      `json:"min,omitempty"`
	Max    float64      `json:"max,omitempty"`
	Values []float64    `json:"values,omitempty"`
	Seed   uint64       `json:"seed,omitempty"`
}

// NoteGeneratorKind tags which taxonomy of note source a pattern draws
// its chords from.
type NoteGeneratorKind string

const (
	NoteGenFixed            NoteGeneratorKind = "fixed"
	NoteGenScaleSampler     NoteGeneratorKind = "scaleSampler"
	NoteGenChordProgression NoteGeneratorKind = "chordProgression"
	NoteGenMelodic          NoteGeneratorKind = "melodic"
	NoteGenMidiFile         NoteGeneratorKind = "midiFile"
)

// FixedEventSyntax is one literal chord in a "fixed" note generator.
type FixedEventSyntax struct {
	Notes []int `json:"notes"`
}

// IteratorKind tags which internal/iter combinator drives a sequence.
type IteratorKind string

const (
	IterCyclic   IteratorKind = "cyclic"
	IterShuffled IteratorKind = "shuffled"
	IterRandom   IteratorKind = "random"
	IterWaiting  IteratorKind = "waiting"
)

// IteratorSyntax selects and seeds one internal/iter combinator over a
// generator's value list. Waiting nests another IteratorSyntax and
// gates how often, in wall-clock seconds, it is allowed to advance.
type IteratorSyntax struct {
	Kind                      IteratorKind    `json:"kind"`
	Seed                      uint64          `json:"seed,omitempty"`
	Iterator                  *IteratorSyntax `json:"iterator,omitempty"`
	TimeBetweenChangesSeconds float64         `json:"timeBetweenChanges,omitempty"`
}

// NoteGeneratorSyntax is the tagged union of a pattern's note-generator
// variants. Which fields apply depends on Kind.
type NoteGeneratorSyntax struct {
	Kind NoteGeneratorKind `json:"kind"`

	// fixed: a literal, finite sequence of chords.
	Events []FixedEventSyntax `json:"events,omitempty"`

	// scaleSampler, chordProgression: scale degrees relative to Root,
	// spread across Octaves (each an octave offset from Root's own
	// octave).
	Scale   []int  `json:"scale,omitempty"`
	Root    int    `json:"root,omitempty"`
	Octaves []int  `json:"octaves,omitempty"`
	Style   string `json:"style,omitempty"` // chordProgression: "triad" (default) | "power"

	// melodic: three independently sequenced dimensions — which degree,
	// which root, which octave — each its own value list plus the
	// iterator that advances through it. The note is root + degree +
	// 12*octave, with Degrees taken as semitone offsets; Scale is not
	// read for this kind.
	Degrees    []int          `json:"degrees,omitempty"`
	DegreeIter IteratorSyntax `json:"degreeIterator,omitempty"`
	Roots      []int          `json:"roots,omitempty"`
	RootIter   IteratorSyntax `json:"rootIterator,omitempty"`
	OctaveIter IteratorSyntax `json:"octaveIterator,omitempty"`

	// midiFile: out of this compiler's scope. The host pre-parses the
	// file into a "fixed" event list; pattern.Compile rejects this kind
	// with an explanatory error rather than reading Filename itself.
	Filename string `json:"filename,omitempty"`
}
