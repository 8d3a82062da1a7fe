// Package dependencies answers dependency questions about a monorepo's
// workspace graph.
//
// # Overview
//
// Given a workspace.Graph it computes what a workspace depends on
// transitively (with depth levels), what depends on a workspace, and the
// order in which workspaces must be built. All functions are pure: they never
// modify the graph, never perform I/O and can run concurrently on one graph.
//
// # Key Features
//
// Traversal: Traverse walks dependencies depth first and reports, for every
// reachable workspace, the deepest level it was reached at.
// Sets: ComputeDescendantSet and ComputeAncestorSet answer multi-origin
// queries; origins are never part of their own result.
// Inversion: InvertDependencyDirection reverses every edge, which is how
// ancestor queries reuse the descendant algorithm.
// Build Order: ComputeBuildOrder groups workspaces into stages, deepest first.
// Cycles: every query either tolerates cycles or fails with a *CycleError.
//
// # Usage Example
//
//	deps, err := dependencies.Traverse("app", graph, false)
//	for _, name := range deps.Names() {
//		level, _ := deps.Level(name)
//		fmt.Printf("%s at level %d\n", name, level)
//	}
//
// Reject cyclic graphs:
//
//	_, err := dependencies.ComputeDescendantSet(origins, graph, true)
//	if cycleErr, ok := dependencies.AsCycleError(err); ok {
//		fmt.Println("cycle:", cycleErr.Path)
//	}
//
// Rebuild what changed:
//
//	plan, err := dependencies.ComputeBuildOrder(changed, graph, dependencies.BuildOrderOptions{
//		IncludeDescendants: true,
//		IncludeAncestors:   true,
//		BreakOnCycle:       true,
//	})
//	for _, stage := range plan.Stages {
//		fmt.Println(stage.Level, stage.Workspaces)
//	}
//
// Engine wraps one snapshot with an LRU traversal cache and Prometheus
// metrics for long-running callers such as the graph explorer server.
//
// # Related Packages
//
//   - pkg/workspace: Graph data model
//   - pkg/resolver: Builds the Graph from a workspace snapshot
package dependencies
