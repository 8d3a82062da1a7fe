// Package workspace defines the data model shared by the dependency engine and
// the code that builds it.
//
// # Overview
//
// A Graph maps each workspace Name to a Record holding its direct internal
// dependencies. Only edges between packages of the same monorepo appear in a
// Graph; external npm dependencies are filtered out before a Graph is built.
//
// A name referenced as a dependency but absent as a key is a leaf. A Record
// with no dependencies is a leaf as well, so callers never need to
// distinguish the two cases.
//
// # Usage Example
//
//	g := workspace.Graph{
//		"app":    {WorkspaceDependencies: []workspace.Name{"ui-kit"}},
//		"ui-kit": {},
//	}
//	for _, name := range g.Names() {
//		fmt.Println(name, g.Dependencies(name))
//	}
//
// # Workspace Types
//
// Type is a closed enumeration of the roles a workspace plays in the build
// (app, esm-view, view, package, source, root). It is carried next to the
// Graph by the resolver and never consulted by the graph algorithms.
//
// # Related Packages
//
//   - pkg/dependencies: Traversal, descendant/ancestor sets and build order
//   - pkg/resolver: Builds a Graph from a workspace snapshot
package workspace
