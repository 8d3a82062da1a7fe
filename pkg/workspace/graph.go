package workspace

import (
	"sort"
)

// Name identifies a workspace within one Graph
type Name string

// Record holds the direct internal dependencies of a workspace
type Record struct {
	WorkspaceDependencies []Name `json:"workspaceDependencies,omitempty" yaml:"workspaceDependencies,omitempty"`
}

// Graph maps workspace names to their records.
//
// A Graph is treated as immutable once handed to a query. None of the
// functions in this module modify a Graph they receive.
type Graph map[Name]Record

// Dependencies returns the direct dependencies of name, or nil when name is a
// leaf or absent from the graph. The returned slice must not be modified.
func (g Graph) Dependencies(name Name) []Name {
	rec, ok := g[name]
	if !ok {
		return nil
	}
	return rec.WorkspaceDependencies
}

// Has reports whether name is a key of the graph
func (g Graph) Has(name Name) bool {
	_, ok := g[name]
	return ok
}

// Names returns the graph keys in ascending order
func (g Graph) Names() []Name {
	return SortedKeys(g)
}

// EdgeCount returns the number of dependency edges in the graph
func (g Graph) EdgeCount() int {
	count := 0
	for _, rec := range g {
		count += len(rec.WorkspaceDependencies)
	}
	return count
}

// Clone returns a deep copy of the graph
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	out := make(Graph, len(g))
	for name, rec := range g {
		var deps []Name
		if rec.WorkspaceDependencies != nil {
			deps = make([]Name, len(rec.WorkspaceDependencies))
			copy(deps, rec.WorkspaceDependencies)
		}
		out[name] = Record{WorkspaceDependencies: deps}
	}
	return out
}

// SortNames sorts names in place in ascending order
func SortNames(names []Name) {
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
}

// Strings converts names to plain strings
func Strings(names []Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// NamesOf converts plain strings to names
func NamesOf(values ...string) []Name {
	out := make([]Name, len(values))
	for i, v := range values {
		out[i] = Name(v)
	}
	return out
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[V any](m map[Name]V) []Name {
	keys := make([]Name, 0, len(m))
	for name := range m {
		keys = append(keys, name)
	}
	SortNames(keys)
	return keys
}
