package pattern

import (
	"fmt"
	"time"

	"github.com/arrowgraph/arrowgraph/internal/graph"
	"github.com/arrowgraph/arrowgraph/internal/iter"
	"github.com/arrowgraph/arrowgraph/internal/specjson"
)

const (
	defaultSustainSeconds = 0.25
	defaultGapSeconds     = 0.0
)

// Compile lowers a specjson.PatternSyntax into a MusicPattern ready to
// Play against sink. handles is the (possibly merged, possibly nil)
// graph.HandleIndex a modulator's Target and an EventUsingArrow's bound
// MusicEvent are both written through.
func Compile(spec specjson.PatternSyntax, sink NoteSink, handles *graph.HandleIndex, clock Clock) (*MusicPattern, error) {
	notes, err := buildNoteSource(spec.NoteGenerator)
	if err != nil {
		return nil, fmt.Errorf("pattern.Compile: %w", err)
	}
	sustains, err := buildDurationSource(spec.Sustain, defaultSustainSeconds)
	if err != nil {
		return nil, fmt.Errorf("pattern.Compile: sustain: %w", err)
	}
	gaps, err := buildDurationSource(spec.Gap, defaultGapSeconds)
	if err != nil {
		return nil, fmt.Errorf("pattern.Compile: gap: %w", err)
	}
	mods, err := buildModulators(spec.Modulators)
	if err != nil {
		return nil, fmt.Errorf("pattern.Compile: %w", err)
	}
	return NewMusicPattern(notes, sustains, gaps, mods, handles, sink, clock), nil
}

// buildModulators compiles each modulator's arrow expression through
// the same graph compiler the main spec uses, so a modulator can draw
// on the full arrow library (rand, line, noise) rather than a bespoke
// evaluator.
func buildModulators(specs []specjson.ModulatorSyntax) ([]Modulator, error) {
	out := make([]Modulator, 0, len(specs))
	for i, m := range specs {
		if m.Target == "" {
			return nil, fmt.Errorf("modulators[%d]: missing \"target\"", i)
		}
		a, _, err := graph.Compile(specjson.Spec{Root: m.Arrow}, graph.DefaultCompileOptions())
		if err != nil {
			return nil, fmt.Errorf("modulators[%d] (target %q): %w", i, m.Target, err)
		}
		out = append(out, Modulator{Target: m.Target, Arrow: a})
	}
	return out, nil
}

// --- note generators ---

type fixedNoteSource struct {
	events []specjson.FixedEventSyntax
	pos    int
}

func (f *fixedNoteSource) Next() ([]int, bool) {
	if f.pos >= len(f.events) {
		return nil, false
	}
	ev := f.events[f.pos]
	f.pos++
	return ev.Notes, true
}

// odometerNoteSource combines an independently-cycling scale-degree
// source and octave source into one note per call, for "scaleSampler":
// deterministic and seedless rather than a random walk. Both sources
// advance on every call, so every degree meets every octave only when
// the two list lengths share no common factor.
type odometerNoteSource struct {
	scale   iter.IntSource
	octave  iter.IntSource
	root    int
}

func (o *odometerNoteSource) Next() ([]int, bool) {
	return []int{o.root + o.scale.Next() + 12*o.octave.Next()}, true
}

// chordProgressionSource walks scale degrees as chord roots, stacking
// diatonic thirds (triad) or a bare fifth (power chord) on top, each
// degree change paired with an independently-cycling octave offset.
type chordProgressionSource struct {
	scale   []int
	degree  iter.IntSource
	octave  iter.IntSource
	root    int
	style   string
}

func (c *chordProgressionSource) Next() ([]int, bool) {
	n := len(c.scale)
	if n == 0 {
		return nil, true
	}
	degreeIdx := c.degree.Next()
	octaveOffset := c.octave.Next()
	noteAt := func(stepsUp int) int {
		idx := degreeIdx + stepsUp
		carry := 0
		for idx >= n {
			idx -= n
			carry++
		}
		for idx < 0 {
			idx += n
			carry--
		}
		return c.root + c.scale[idx] + 12*(octaveOffset+carry)
	}
	if c.style == "power" {
		return []int{noteAt(0), noteAt(4)}, true
	}
	return []int{noteAt(0), noteAt(2), noteAt(4)}, true
}

// melodicNoteSource draws a single note per call from three
// independently sequenced dimensions — degree, root, octave — each
// driven by its own internal/iter combinator.
type melodicNoteSource struct {
	degree iter.IntSource
	root   iter.IntSource
	octave iter.IntSource
}

func (m *melodicNoteSource) Next() ([]int, bool) {
	return []int{m.root.Next() + m.degree.Next() + 12*m.octave.Next()}, true
}

func buildNoteSource(spec specjson.NoteGeneratorSyntax) (NoteSource, error) {
	switch spec.Kind {
	case specjson.NoteGenFixed, "":
		if len(spec.Events) == 0 {
			return nil, fmt.Errorf("noteGenerator: \"fixed\" requires at least one event")
		}
		return &fixedNoteSource{events: spec.Events}, nil

	case specjson.NoteGenScaleSampler:
		if len(spec.Scale) == 0 {
			return nil, fmt.Errorf("noteGenerator: \"scaleSampler\" requires a non-empty scale")
		}
		octaves := spec.Octaves
		if len(octaves) == 0 {
			octaves = []int{0}
		}
		return &odometerNoteSource{
			scale:  iter.NewCyclic(spec.Scale),
			octave: iter.NewCyclic(octaves),
			root:   spec.Root,
		}, nil

	case specjson.NoteGenChordProgression:
		if len(spec.Scale) == 0 {
			return nil, fmt.Errorf("noteGenerator: \"chordProgression\" requires a non-empty scale")
		}
		octaves := spec.Octaves
		if len(octaves) == 0 {
			octaves = []int{0}
		}
		degrees := make([]int, len(spec.Scale))
		for i := range degrees {
			degrees[i] = i
		}
		return &chordProgressionSource{
			scale:  spec.Scale,
			degree: iter.NewCyclic(degrees),
			octave: iter.NewCyclic(octaves),
			root:   spec.Root,
			style:  spec.Style,
		}, nil

	case specjson.NoteGenMelodic:
		if len(spec.Degrees) == 0 {
			return nil, fmt.Errorf("noteGenerator: \"melodic\" requires a non-empty degrees list")
		}
		roots := spec.Roots
		if len(roots) == 0 {
			roots = []int{0}
		}
		octaves := spec.Octaves
		if len(octaves) == 0 {
			octaves = []int{0}
		}
		degreeSrc, err := buildIntSource(spec.Degrees, spec.DegreeIter)
		if err != nil {
			return nil, fmt.Errorf("noteGenerator: melodic degreeIterator: %w", err)
		}
		rootSrc, err := buildIntSource(roots, spec.RootIter)
		if err != nil {
			return nil, fmt.Errorf("noteGenerator: melodic rootIterator: %w", err)
		}
		octaveSrc, err := buildIntSource(octaves, spec.OctaveIter)
		if err != nil {
			return nil, fmt.Errorf("noteGenerator: melodic octaveIterator: %w", err)
		}
		return &melodicNoteSource{degree: degreeSrc, root: rootSrc, octave: octaveSrc}, nil

	case specjson.NoteGenMidiFile:
		return nil, fmt.Errorf("noteGenerator: \"midiFile\" is out of this compiler's scope — pre-parse %q into a \"fixed\" event list and pass that instead", spec.Filename)

	default:
		return nil, fmt.Errorf("noteGenerator: unknown kind %q", spec.Kind)
	}
}

// buildIntSource resolves an IteratorSyntax over values into the
// matching internal/iter combinator, recursing once for "waiting",
// which wraps another IteratorSyntax rather than naming a kind of its
// own sequencing.
func buildIntSource(values []int, spec specjson.IteratorSyntax) (iter.IntSource, error) {
	switch spec.Kind {
	case specjson.IterCyclic, "":
		return iter.NewCyclic(values), nil
	case specjson.IterShuffled:
		return iter.NewShuffled(values, spec.Seed), nil
	case specjson.IterRandom:
		return iter.NewRandom(values, spec.Seed), nil
	case specjson.IterWaiting:
		if spec.Iterator == nil {
			return nil, fmt.Errorf("\"waiting\" iterator requires a nested \"iterator\"")
		}
		inner, err := buildIntSource(values, *spec.Iterator)
		if err != nil {
			return nil, err
		}
		interval := time.Duration(spec.TimeBetweenChangesSeconds * float64(time.Second))
		return iter.NewWaiting(inner, interval, nil), nil
	default:
		return nil, fmt.Errorf("unknown iterator kind %q", spec.Kind)
	}
}

// --- duration sources (sustain/gap) ---

type fixedDuration struct{ value float64 }

func (f fixedDuration) Next() (float64, bool) { return f.value, true }

type sampledDuration struct{ f *iter.FloatSampler }

func (s sampledDuration) Next() (float64, bool) { return s.f.Next(), true }

type cyclicDuration struct {
	values []float64
	pos    int
}

func (c *cyclicDuration) Next() (float64, bool) {
	if len(c.values) == 0 {
		return 0, true
	}
	v := c.values[c.pos%len(c.values)]
	c.pos++
	return v, true
}

func buildDurationSource(spec *specjson.DurationSyntax, fallback float64) (DurationSource, error) {
	if spec == nil {
		return fixedDuration{value: fallback}, nil
	}
	switch spec.Kind {
	case specjson.DurationFixed, "":
		return fixedDuration{value: spec.Value}, nil
	case specjson.DurationRandom:
		return sampledDuration{f: iter.NewFloatSampler(spec.Min, spec.Max, spec.Seed)}, nil
	case specjson.DurationList:
		if len(spec.Values) == 0 {
			return nil, fmt.Errorf("\"list\" duration requires a non-empty values list")
		}
		return &cyclicDuration{values: spec.Values}, nil
	default:
		return nil, fmt.Errorf("unknown duration kind %q", spec.Kind)
	}
}
