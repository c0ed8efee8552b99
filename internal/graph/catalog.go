package graph

import "sort"

// ParamKind categorizes a catalog entry for UI tooling (spec.md §9's
// duck-typed named parameters).
type ParamKind string

const (
	ParamConst  ParamKind = "const"
	ParamADSR   ParamKind = "adsr"
	ParamOsc    ParamKind = "osc"
	ParamChorus ParamKind = "choruser"
	ParamEvent  ParamKind = "event"
)

// ParamEntry describes one named, controllable handle.
type ParamEntry struct {
	ID   string    `json:"id"`
	Kind ParamKind `json:"kind"`
}

// Catalog walks idx and returns a sorted, deterministic list of every
// named handle, for UI tooling that wants to enumerate "what can be
// controlled" without knowing the graph shape.
func Catalog(idx *HandleIndex) []ParamEntry {
	var entries []ParamEntry
	for k := range idx.Consts {
		entries = append(entries, ParamEntry{ID: k, Kind: ParamConst})
	}
	for k := range idx.ADSR {
		entries = append(entries, ParamEntry{ID: k, Kind: ParamADSR})
	}
	for k := range idx.Oscs {
		entries = append(entries, ParamEntry{ID: k, Kind: ParamOsc})
	}
	for k := range idx.Chorusers {
		entries = append(entries, ParamEntry{ID: k, Kind: ParamChorus})
	}
	for k := range idx.Events {
		entries = append(entries, ParamEntry{ID: k, Kind: ParamEvent})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ID != entries[j].ID {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Kind < entries[j].Kind
	})
	return entries
}
