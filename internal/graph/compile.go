package graph

import (
	"fmt"
	"sort"

	"github.com/arrowgraph/arrowgraph/internal/arrow"
	"github.com/arrowgraph/arrowgraph/internal/specjson"
)

// CompileError reports where in the spec a compile failed and what kind
// of problem it was, mirroring the teacher's mml.Parser returning a
// located, descriptive error rather than a bare string.
type CompileError struct {
	Path string // dotted path into the tree, e.g. "root.children[2].freq"
	Kind string // short machine-checkable category: "unknown_kind", "cyclic_ref", "missing_ref", "missing_child"
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile: %s at %s: %s", e.Kind, e.Path, e.Msg)
}

// CompileOptions configures a single Compile call.
type CompileOptions struct {
	SampleRate float64
}

// DefaultCompileOptions returns the options used when none are given.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{SampleRate: 44100}
}

// compiler holds the state threaded through one Compile call: the
// library section for ref resolution, the handle index being built, and
// the set of refs currently on the call stack (cycle detection).
type compiler struct {
	library   specjson.LibrarySection
	handles   *HandleIndex
	resolving map[string]bool
}

// Compile lowers spec into a live arrow.Arrow and a HandleIndex of every
// node the spec named. It returns a *CompileError (wrapped as error) on
// any unknown kind, missing required child, unresolved ref, or cyclic
// library reference.
func Compile(spec specjson.Spec, opts CompileOptions) (arrow.Arrow, *HandleIndex, error) {
	c := &compiler{
		library:   spec.Library,
		handles:   NewHandleIndex(),
		resolving: make(map[string]bool),
	}
	root, err := c.lower(spec.Root, "root")
	if err != nil {
		return nil, nil, err
	}
	if opts.SampleRate <= 0 {
		opts = DefaultCompileOptions()
	}
	root.SetSampleRate(opts.SampleRate)
	return root, c.handles, nil
}

func (c *compiler) lower(n specjson.ArrowSyntax, path string) (arrow.Arrow, *CompileError) {
	var result arrow.Arrow

	switch n.Kind {
	case specjson.KindIdentity, "":
		result = arrow.Identity{}

	case specjson.KindConst:
		result = arrow.NewConst(n.Value)

	case specjson.KindConstOctave:
		result = arrow.NewConstOctave(n.Value)

	case specjson.KindConstCent:
		result = arrow.NewConstCent(n.Value)

	case specjson.KindReciprocalConst:
		result = arrow.NewReciprocalConst(n.Value)

	case specjson.KindReciprocal:
		inner, cerr := c.requireChild(n.Inner, path, "inner")
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewReciprocal(inner)

	case specjson.KindSum:
		children, cerr := c.lowerChildren(n.Children, path)
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewSum(children...)

	case specjson.KindProd:
		children, cerr := c.lowerChildren(n.Children, path)
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewProd(children...)

	case specjson.KindCompose:
		outer, cerr := c.requireChild(n.Outer, path, "outer")
		if cerr != nil {
			return nil, cerr
		}
		inner, cerr := c.requireChild(n.Inner, path, "inner")
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewCompose(outer, inner)

	case specjson.KindOsc:
		freq, cerr := c.requireChild(n.Freq, path, "freq")
		if cerr != nil {
			return nil, cerr
		}
		var width arrow.Arrow
		if n.Width != nil {
			width, cerr = c.lower(*n.Width, path+".width")
			if cerr != nil {
				return nil, cerr
			}
		}
		osc := arrow.NewOsc(freq, width, waveformFromString(n.Waveform))
		result = osc
		if n.Name != "" {
			c.handles.Oscs[n.Name] = append(c.handles.Oscs[n.Name], osc)
			c.handles.BasicOscs[n.Name] = append(c.handles.BasicOscs[n.Name], osc)
		}

	case specjson.KindEnvelope:
		env := arrow.NewEnvelopeNode(n.Attack, n.Decay, n.Sustain, n.Release)
		result = env
		if n.Name != "" {
			c.handles.ADSR[n.Name] = append(c.handles.ADSR[n.Name], env)
		}

	case specjson.KindLowPassFilter:
		inner, cerr := c.requireChild(n.Inner, path, "inner")
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewLowPassFilter(inner, n.Cutoff)

	case specjson.KindChoruser:
		ch, cerr := c.lowerChoruser(n, path)
		if cerr != nil {
			return nil, cerr
		}
		result = ch
		c.handles.Consts[n.Target] = append(c.handles.Consts[n.Target], ch)
		if n.Name != "" {
			c.handles.Chorusers[n.Name] = append(c.handles.Chorusers[n.Name], ch)
		}

	case specjson.KindCrossfade:
		a, b, mix, cerr := c.lowerABMix(n, path)
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewCrossfade(a, b, mix)

	case specjson.KindCrossfadeEqPow:
		a, b, mix, cerr := c.lowerABMix(n, path)
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewCrossfadeEqPow(a, b, mix)

	case specjson.KindNoiseSmoothStep:
		result = arrow.NewNoiseSmoothStep(n.Low, n.High, n.Hold, n.Seed)

	case specjson.KindRand:
		result = arrow.NewRand(n.Low, n.High, n.Hold, n.Seed)

	case specjson.KindExpRand:
		result = arrow.NewExpRand(n.Low, n.High, n.Hold, n.Seed)

	case specjson.KindLine:
		result = arrow.NewLine(n.Start, n.End, n.Duration)

	case specjson.KindGate:
		inner, cerr := c.requireChild(n.Inner, path, "inner")
		if cerr != nil {
			return nil, cerr
		}
		result = arrow.NewGate(inner)

	case specjson.KindEventUsingArrow:
		ev := arrow.NewEventUsingArrow(eventFieldDerive(n.Field))
		result = ev
		if n.Name != "" {
			c.handles.Events[n.Name] = append(c.handles.Events[n.Name], ev)
		}

	case specjson.KindRef:
		return c.lowerRef(n.Ref, path)

	default:
		return nil, &CompileError{Path: path, Kind: "unknown_kind", Msg: string(n.Kind)}
	}

	if n.Name != "" {
		if s, ok := result.(Settable); ok {
			c.handles.Consts[n.Name] = append(c.handles.Consts[n.Name], s)
		}
	}
	return result, nil
}

// lowerChoruser compiles n.Voices independent copies of n's inner
// subtree, each under its own isolated HandleIndex so the copies' own
// "freq"/"amp"-style names don't collide, captures each copy's list of
// Settable targets registered under n.Target, and merges everything
// else those copies named back up into c.handles — but not the target
// name itself, which the Choruser now owns and writes through to every
// copy's captured targets instead.
func (c *compiler) lowerChoruser(n specjson.ArrowSyntax, path string) (*arrow.Choruser, *CompileError) {
	if n.Inner == nil {
		return nil, &CompileError{Path: path, Kind: "missing_child", Msg: "expected an \"inner\" child"}
	}
	if n.Target == "" {
		return nil, &CompileError{Path: path, Kind: "missing_child", Msg: "choruser requires a \"target\" naming the Const it detunes"}
	}
	voices := n.Voices
	if voices < 1 {
		voices = 1
	}
	copies := make([]arrow.Arrow, voices)
	targets := make([][]arrow.Settable, voices)
	for i := 0; i < voices; i++ {
		sub := &compiler{library: c.library, handles: NewHandleIndex(), resolving: c.resolving}
		voiceCopy, cerr := sub.lower(*n.Inner, fmt.Sprintf("%s.inner#%d", path, i))
		if cerr != nil {
			return nil, cerr
		}
		copies[i] = voiceCopy
		targets[i] = sub.handles.Consts[n.Target]
		delete(sub.handles.Consts, n.Target)
		c.handles.Merge(sub.handles)
	}
	return arrow.NewChoruser(copies, targets, n.Cents), nil
}

// eventFieldDerive builds the function an EventUsingArrow node uses to
// pull one scalar out of whatever MusicEvent the scheduler binds to it.
func eventFieldDerive(field string) func(*arrow.MusicEvent) float64 {
	switch field {
	case "sustain":
		return func(ev *arrow.MusicEvent) float64 { return ev.Sustain }
	case "gap":
		return func(ev *arrow.MusicEvent) float64 { return ev.Gap }
	case "note", "":
		return func(ev *arrow.MusicEvent) float64 {
			if len(ev.Notes) == 0 {
				return 0
			}
			return float64(ev.Notes[0])
		}
	default:
		return func(ev *arrow.MusicEvent) float64 { return ev.Modulators[field] }
	}
}

func (c *compiler) lowerABMix(n specjson.ArrowSyntax, path string) (a, b, mix arrow.Arrow, cerr *CompileError) {
	a, cerr = c.requireChild(n.A, path, "a")
	if cerr != nil {
		return
	}
	b, cerr = c.requireChild(n.B, path, "b")
	if cerr != nil {
		return
	}
	mix, cerr = c.requireChild(n.Mix, path, "mix")
	return
}

func (c *compiler) requireChild(child *specjson.ArrowSyntax, path, field string) (arrow.Arrow, *CompileError) {
	if child == nil {
		return nil, &CompileError{Path: path, Kind: "missing_child", Msg: "expected a \"" + field + "\" child"}
	}
	return c.lower(*child, path+"."+field)
}

func (c *compiler) lowerChildren(children []specjson.ArrowSyntax, path string) ([]arrow.Arrow, *CompileError) {
	out := make([]arrow.Arrow, 0, len(children))
	for i, ch := range children {
		lowered, cerr := c.lower(ch, fmt.Sprintf("%s.children[%d]", path, i))
		if cerr != nil {
			return nil, cerr
		}
		out = append(out, lowered)
	}
	return out, nil
}

func (c *compiler) lowerRef(name string, path string) (arrow.Arrow, *CompileError) {
	if c.resolving[name] {
		return nil, &CompileError{Path: path, Kind: "cyclic_ref", Msg: "library reference cycle at " + name}
	}
	sub, ok := c.library[name]
	if !ok {
		return nil, &CompileError{Path: path, Kind: "missing_ref", Msg: "no library entry named " + name}
	}
	c.resolving[name] = true
	defer delete(c.resolving, name)
	return c.lower(sub, path+"#"+name)
}

func waveformFromString(s string) arrow.Waveform {
	switch s {
	case "triangle":
		return arrow.WaveTriangle
	case "sawtooth":
		return arrow.WaveSawtooth
	case "square":
		return arrow.WaveSquare
	case "noise":
		return arrow.WaveNoise
	default:
		return arrow.WaveSine
	}
}

// HandleNames returns every name registered in idx, across all
// categories, deduplicated and sorted, so the result does not depend on
// map iteration order.
func HandleNames(idx *HandleIndex) []string {
	seen := make(map[string]bool)
	for k := range idx.Consts {
		seen[k] = true
	}
	for k := range idx.ADSR {
		seen[k] = true
	}
	for k := range idx.Oscs {
		seen[k] = true
	}
	for k := range idx.Chorusers {
		seen[k] = true
	}
	for k := range idx.BasicOscs {
		seen[k] = true
	}
	for k := range idx.Events {
		seen[k] = true
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
