package resolver

import (
	"context"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// Resolver produces the workspaces of one monorepo
type Resolver interface {
	Resolve(ctx context.Context) (*Snapshot, error)
}

// WorkspaceInfo describes a single workspace as reported by the package manager.
// Only dependencies on other workspaces of the same monorepo are listed.
type WorkspaceInfo struct {
	Location                        string           `json:"location" yaml:"location"`
	Type                            workspace.Type   `json:"type,omitempty" yaml:"type,omitempty"`
	WorkspaceDependencies           []workspace.Name `json:"workspaceDependencies" yaml:"workspaceDependencies"`
	MismatchedWorkspaceDependencies []workspace.Name `json:"mismatchedWorkspaceDependencies" yaml:"mismatchedWorkspaceDependencies"`
}

// Snapshot is the set of workspaces found under Root at one point in time
type Snapshot struct {
	Root       string
	Workspaces map[workspace.Name]WorkspaceInfo
}

// Graph returns the dependency graph of the snapshot. Dependency lists are
// copied, so the graph does not share memory with the snapshot.
func (s *Snapshot) Graph() workspace.Graph {
	g := make(workspace.Graph, len(s.Workspaces))
	for name, info := range s.Workspaces {
		var deps []workspace.Name
		if len(info.WorkspaceDependencies) > 0 {
			deps = append(deps, info.WorkspaceDependencies...)
		}
		g[name] = workspace.Record{WorkspaceDependencies: deps}
	}
	return g
}

// Types returns the tagged type of every workspace that has one
func (s *Snapshot) Types() map[workspace.Name]workspace.Type {
	types := make(map[workspace.Name]workspace.Type)
	for name, info := range s.Workspaces {
		if info.Type != workspace.TypeUnknown {
			types[name] = info.Type
		}
	}
	return types
}

// StaticResolver returns a fixed snapshot
type StaticResolver struct {
	Snapshot *Snapshot
}

// NewStaticResolver builds a resolver from plain dependency lists
func NewStaticResolver(root string, deps map[workspace.Name][]workspace.Name) *StaticResolver {
	workspaces := make(map[workspace.Name]WorkspaceInfo, len(deps))
	for name, list := range deps {
		workspaces[name] = WorkspaceInfo{
			Location:              string(name),
			WorkspaceDependencies: list,
		}
	}
	return &StaticResolver{Snapshot: &Snapshot{Root: root, Workspaces: workspaces}}
}

// Resolve implements Resolver
func (r *StaticResolver) Resolve(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Snapshot, nil
}
