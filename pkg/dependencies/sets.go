package dependencies

import (
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// ComputeDescendantSet returns every workspace transitively depended upon by
// any of origins. Origins are never part of the result, even when a cycle
// leads back to them.
func ComputeDescendantSet(origins []workspace.Name, graph workspace.Graph, breakOnCycle bool) (workspace.Set, error) {
	result := make(workspace.Set)
	for _, origin := range origins {
		deps, err := Traverse(origin, graph, breakOnCycle)
		if err != nil {
			return nil, err
		}
		for _, name := range deps.order {
			result.Add(name)
		}
	}

	for _, origin := range origins {
		result.Remove(origin)
	}
	return result, nil
}

// ComputeAncestorSet returns every workspace that transitively depends on any
// of origins. It is the descendant set of origins in the inverted graph.
func ComputeAncestorSet(origins []workspace.Name, graph workspace.Graph, breakOnCycle bool) (workspace.Set, error) {
	return ComputeDescendantSet(origins, InvertDependencyDirection(graph), breakOnCycle)
}
