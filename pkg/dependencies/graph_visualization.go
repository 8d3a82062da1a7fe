package dependencies

import (
	"fmt"
	"strings"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// CytoscapeNode represents a node in Cytoscape.js format
type CytoscapeNode struct {
	Data CytoscapeNodeData `json:"data"`
}

// CytoscapeNodeData contains node data for Cytoscape.js
type CytoscapeNodeData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"` // "current", "dependency", "dependent"
	Level int    `json:"level,omitempty"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains edge data for Cytoscape.js
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"` // "direct", "transitive"
}

// CytoscapeGraph represents the complete graph in Cytoscape.js format
type CytoscapeGraph struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// Direction selects which side of a workspace a visualization shows
type Direction string

const (
	DirectionDependencies Direction = "dependencies"
	DirectionDependents   Direction = "dependents"
	DirectionBoth         Direction = "both"
)

// ParseDirection validates a direction, defaulting to DirectionDependencies
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return DirectionDependencies, nil
	case DirectionDependencies, DirectionDependents, DirectionBoth:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid direction %q", s)
	}
}

// BuildCytoscapeGraph builds a Cytoscape.js graph centred on origin. With
// transitive set, every reachable workspace in the chosen direction is
// included together with the edges between them; otherwise only direct
// neighbours are. Cycles are tolerated.
func BuildCytoscapeGraph(graph workspace.Graph, origin workspace.Name, direction Direction, transitive bool) CytoscapeGraph {
	return buildCytoscapeGraph(graph, func() workspace.Graph { return InvertDependencyDirection(graph) }, origin, direction, transitive)
}

// buildCytoscapeGraph only calls inverted when dependents are requested
func buildCytoscapeGraph(graph workspace.Graph, inverted func() workspace.Graph, origin workspace.Name, direction Direction, transitive bool) CytoscapeGraph {
	cytoGraph := CytoscapeGraph{
		Nodes: make([]CytoscapeNode, 0),
		Edges: make([]CytoscapeEdge, 0),
	}

	nodes := map[workspace.Name]bool{origin: true}
	cytoGraph.Nodes = append(cytoGraph.Nodes, CytoscapeNode{
		Data: CytoscapeNodeData{ID: string(origin), Name: string(origin), Type: "current"},
	})
	edges := make(map[string]bool)

	addSide := func(g workspace.Graph, nodeType string, reversed bool) {
		var reached []workspace.Name
		levels := map[workspace.Name]int{}
		if transitive {
			deps, _ := Traverse(origin, g, false)
			reached = deps.Names()
			levels = deps.Levels()
		} else {
			for _, dep := range g.Dependencies(origin) {
				reached = append(reached, dep)
				levels[dep] = 1
			}
		}

		scope := workspace.NewSet(reached...)
		scope.Add(origin)

		for _, name := range reached {
			if !nodes[name] {
				nodes[name] = true
				cytoGraph.Nodes = append(cytoGraph.Nodes, CytoscapeNode{
					Data: CytoscapeNodeData{ID: string(name), Name: string(name), Type: nodeType, Level: levels[name]},
				})
			}
		}

		from := []workspace.Name{origin}
		if transitive {
			from = append(from, reached...)
		}
		for _, src := range from {
			for _, dst := range g.Dependencies(src) {
				if !scope.Has(dst) {
					continue
				}
				source, target := src, dst
				if reversed {
					source, target = dst, src
				}
				id := string(source) + "->" + string(target)
				if edges[id] {
					continue
				}
				edges[id] = true

				edgeType := "direct"
				if src != origin {
					edgeType = "transitive"
				}
				cytoGraph.Edges = append(cytoGraph.Edges, CytoscapeEdge{
					Data: CytoscapeEdgeData{ID: id, Source: string(source), Target: string(target), Type: edgeType},
				})
			}
		}
	}

	if direction == DirectionDependencies || direction == DirectionBoth {
		addSide(graph, "dependency", false)
	}
	if direction == DirectionDependents || direction == DirectionBoth {
		// edges of the inverted graph point from dependency to dependant
		addSide(inverted(), "dependent", true)
	}

	return cytoGraph
}

// RenderDOT renders the whole graph in Graphviz DOT format. Workspaces and
// edges are emitted in sorted order so the output is stable.
func RenderDOT(graph workspace.Graph) string {
	var b strings.Builder
	b.WriteString("digraph workspaces {\n")
	b.WriteString("  rankdir=LR;\n")

	names := workspace.NewSet(graph.Names()...)
	for _, rec := range graph {
		for _, dep := range rec.WorkspaceDependencies {
			names.Add(dep)
		}
	}
	for _, name := range names.Sorted() {
		fmt.Fprintf(&b, "  %q;\n", string(name))
	}
	for _, name := range graph.Names() {
		deps := append([]workspace.Name(nil), graph.Dependencies(name)...)
		workspace.SortNames(deps)
		for _, dep := range deps {
			fmt.Fprintf(&b, "  %q -> %q;\n", string(name), string(dep))
		}
	}

	b.WriteString("}\n")
	return b.String()
}
