package dependencies

import (
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// InvertDependencyDirection returns the graph with every edge reversed, so
// each key maps to the workspaces that depend on it directly.
//
// Dependants are visited in ascending name order and their dependency lists
// in declared order, which makes the output deterministic. Duplicate edges
// collapse into one entry. A workspace nothing depends on has no key in the
// result.
func InvertDependencyDirection(graph workspace.Graph) workspace.Graph {
	inverted := make(workspace.Graph)
	seen := make(map[workspace.Name]workspace.Set)

	for _, dependant := range graph.Names() {
		for _, dependency := range graph[dependant].WorkspaceDependencies {
			names, ok := seen[dependency]
			if !ok {
				names = make(workspace.Set)
				seen[dependency] = names
			}
			if names.Has(dependant) {
				continue
			}
			names.Add(dependant)

			rec := inverted[dependency]
			rec.WorkspaceDependencies = append(rec.WorkspaceDependencies, dependant)
			inverted[dependency] = rec
		}
	}

	return inverted
}
