// Package resolver turns workspace metadata produced outside this module into
// the workspace.Graph the dependency engine queries.
//
// # Overview
//
// Scanning package manifests is done by the package manager. A Resolver only
// hands over its result as a Snapshot, which mirrors the output of
// `yarn workspaces info --json`:
//
//	{
//	  "app": {
//	    "location": "packages/app",
//	    "type": "app",
//	    "workspaceDependencies": ["view-a", "shared"],
//	    "mismatchedWorkspaceDependencies": []
//	  }
//	}
//
// FileResolver reads such a snapshot from a JSON or YAML file. Relative paths
// are resolved against the root it was constructed with; nothing is looked up
// from process-wide state.
//
// # Usage Example
//
//	r := resolver.NewFileResolver(cfg.Root, cfg.GraphFile)
//	graph, err := resolver.BuildGraph(ctx, r, logger)
//	if err != nil {
//		return err
//	}
//	engine, err := dependencies.NewEngine(graph)
//
// # Related Packages
//
//   - pkg/workspace: Graph and Type definitions
//   - pkg/dependencies: Queries over the built graph
//   - pkg/config: Provides the root and snapshot file
package resolver
