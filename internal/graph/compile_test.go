package graph

import (
	"testing"

	"github.com/arrowgraph/arrowgraph/internal/specjson"
)

func TestCompileSimpleConstSum(t *testing.T) {
	spec := specjson.Spec{
		Root: specjson.ArrowSyntax{
			Kind: specjson.KindSum,
			Children: []specjson.ArrowSyntax{
				{Kind: specjson.KindConst, Value: 1, Name: "a"},
				{Kind: specjson.KindConst, Value: 2, Name: "b"},
			},
		},
	}
	root, handles, err := Compile(spec, DefaultCompileOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	out := make([]float64, 4)
	root.Process(nil, out)
	for _, v := range out {
		if v != 3 {
			t.Fatalf("sum output = %v, want 3", v)
		}
	}
	if len(handles.Consts) != 2 {
		t.Fatalf("expected 2 named consts, got %d", len(handles.Consts))
	}
	handles.SetConst("a", 10)
	root.Process(nil, out)
	if out[0] != 12 {
		t.Fatalf("after SetConst(a,10), sum = %v, want 12", out[0])
	}
}

func TestCompileMissingChildErrors(t *testing.T) {
	spec := specjson.Spec{
		Root: specjson.ArrowSyntax{Kind: specjson.KindGate},
	}
	_, _, err := Compile(spec, DefaultCompileOptions())
	if err == nil {
		t.Fatalf("expected an error for a gate with no inner child")
	}
	cerr, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if cerr.Kind != "missing_child" {
		t.Fatalf("err.Kind = %q, want missing_child", cerr.Kind)
	}
}

func TestCompileUnknownKindErrors(t *testing.T) {
	spec := specjson.Spec{Root: specjson.ArrowSyntax{Kind: "bogus"}}
	_, _, err := Compile(spec, DefaultCompileOptions())
	if err == nil {
		t.Fatalf("expected an error for an unknown kind")
	}
}

func TestCompileRefResolvesLibraryEntry(t *testing.T) {
	spec := specjson.Spec{
		Library: specjson.LibrarySection{
			"one": {Kind: specjson.KindConst, Value: 1},
		},
		Root: specjson.ArrowSyntax{Kind: specjson.KindRef, Ref: "one"},
	}
	root, _, err := Compile(spec, DefaultCompileOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	out := make([]float64, 1)
	root.Process(nil, out)
	if out[0] != 1 {
		t.Fatalf("ref-resolved const = %v, want 1", out[0])
	}
}

func TestCompileCyclicRefErrors(t *testing.T) {
	spec := specjson.Spec{
		Library: specjson.LibrarySection{
			"a": {Kind: specjson.KindRef, Ref: "b"},
			"b": {Kind: specjson.KindRef, Ref: "a"},
		},
		Root: specjson.ArrowSyntax{Kind: specjson.KindRef, Ref: "a"},
	}
	_, _, err := Compile(spec, DefaultCompileOptions())
	if err == nil {
		t.Fatalf("expected a cyclic_ref error")
	}
	cerr, ok := err.(*CompileError)
	if !ok || cerr.Kind != "cyclic_ref" {
		t.Fatalf("err = %v, want *CompileError{Kind: cyclic_ref}", err)
	}
}

func TestHandleIndexMerge(t *testing.T) {
	spec := specjson.Spec{Root: specjson.ArrowSyntax{Kind: specjson.KindConst, Value: 5, Name: "x"}}
	_, h1, err := Compile(spec, DefaultCompileOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	_, h2, err := Compile(spec, DefaultCompileOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	merged := NewHandleIndex()
	merged.Merge(h1)
	merged.Merge(h2)
	if n := merged.SetConst("x", 9); n != 2 {
		t.Fatalf("SetConst(x) touched %d handles, want 2 (merge concatenates, it doesn't overwrite)", n)
	}
}

func TestCatalogIsSortedAndDeterministic(t *testing.T) {
	idx := NewHandleIndex()
	idx.Consts["zebra"] = nil
	idx.ADSR["alpha"] = nil
	cat := Catalog(idx)
	if len(cat) != 2 {
		t.Fatalf("expected 2 catalog entries, got %d", len(cat))
	}
	if cat[0].ID != "alpha" || cat[1].ID != "zebra" {
		t.Fatalf("catalog not sorted: %+v", cat)
	}
}
