// Package cli provides the modular command-line interface for querying the
// workspace dependency graph.
//
// # Overview
//
// Every command loads the workspace snapshot named by the configuration (see
// pkg/config), builds the graph and runs one query against it. Flags must
// come before workspace names.
//
// # Commands
//
// traverse: Dependencies of one workspace with their depth level
//
//	modular traverse -root . app
//
// descendants / ancestors: Everything the workspaces depend on, or everything
// depending on them
//
//	modular descendants view-a view-b
//	modular ancestors -format json shared
//
// order: Build stages, deepest dependencies first
//
//	modular order app
//	modular order -ancestors -descendants=false shared  # rebuild what changed
//
// levels: Traverse several workspaces concurrently
//
//	modular levels -concurrency 4
//
// invert / dot: Show the reversed graph, or render it for Graphviz
//
//	modular dot | dot -Tsvg > graph.svg
//
// serve: HTTP graph explorer with health checks and Prometheus metrics
//
//	modular serve -addr :8080 -watch
//
// watch: Print the build order again whenever the snapshot changes
//
//	modular watch app
//
// # Cycles
//
// Queries fail on dependency cycles unless -break-on-cycle=false is given or
// MODULAR_BREAK_ON_CYCLE is false, in which case cycles are tolerated.
//
// # Related Packages
//
//   - pkg/dependencies: Graph queries
//   - pkg/resolver: Snapshot loading
//   - pkg/config: Configuration
package cli
