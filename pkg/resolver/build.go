package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpmorganchase/modular-sub002/pkg/observability"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// ErrInvalidSnapshot is wrapped by every validation failure in BuildGraph
var ErrInvalidSnapshot = errors.New("invalid workspace snapshot")

// BuildGraph resolves a snapshot and converts it into a validated graph.
//
// Empty workspace names and empty dependency names are rejected. A dependency
// listed twice is kept once. A workspace depending on itself is kept with a
// warning, like any other cycle it is rejected or tolerated by the query.
// Dependencies that are not workspaces of the snapshot stay in the graph as
// leaves.
func BuildGraph(ctx context.Context, r Resolver, logger *observability.Logger) (workspace.Graph, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}

	snapshot, err := r.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspaces: %w", err)
	}

	raw := snapshot.Graph()
	types := snapshot.Types()
	graph := make(workspace.Graph, len(raw))
	buildable := 0
	for _, name := range raw.Names() {
		log := logger.WithWorkspace(string(name))

		if name == "" {
			return nil, fmt.Errorf("%w: empty workspace name", ErrInvalidSnapshot)
		}

		seen := workspace.NewSet()
		var deps []workspace.Name
		for _, dep := range raw.Dependencies(name) {
			switch {
			case dep == "":
				return nil, fmt.Errorf("%w: %s has an empty dependency name", ErrInvalidSnapshot, name)
			case seen.Has(dep):
				log.WithField("dependency", string(dep)).Warn("duplicate workspace dependency ignored")
				continue
			case dep == name:
				log.Warn("workspace depends on itself")
			case !raw.Has(dep):
				log.WithField("dependency", string(dep)).Debug("dependency is not a workspace of the snapshot")
			}
			seen.Add(dep)
			deps = append(deps, dep)
		}

		if mismatched := snapshot.Workspaces[name].MismatchedWorkspaceDependencies; len(mismatched) > 0 {
			log.WithField("mismatched", workspace.Strings(mismatched)).
				Warn("workspace depends on versions that do not match the monorepo")
		}

		if t, ok := types[name]; ok {
			log.WithField("type", t.String()).Debug("workspace type")
			if t.IsBuildable() {
				buildable++
			}
		}

		graph[name] = workspace.Record{WorkspaceDependencies: deps}
	}

	logger.WithFields(map[string]interface{}{
		"root":       snapshot.Root,
		"workspaces": len(graph),
		"edges":      graph.EdgeCount(),
		"typed":      len(types),
		"buildable":  buildable,
	}).Info("workspace graph built")

	return graph, nil
}
