package dependencies

import (
	"fmt"
	"math/rand"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

var names = workspace.NamesOf

// acyclicGraph is the graph used throughout the package tests:
//
//	a -> b, c
//	b -> d
//	c -> b
//	e -> a, b, c
func acyclicGraph() workspace.Graph {
	return workspace.Graph{
		"a": {WorkspaceDependencies: names("b", "c")},
		"b": {WorkspaceDependencies: names("d")},
		"c": {WorkspaceDependencies: names("b")},
		"d": {WorkspaceDependencies: names()},
		"e": {WorkspaceDependencies: names("a", "b", "c")},
	}
}

// cyclicGraph closes the loop a -> b -> d -> a
func cyclicGraph() workspace.Graph {
	return workspace.Graph{
		"a": {WorkspaceDependencies: names("b", "c")},
		"b": {WorkspaceDependencies: names("d")},
		"c": {WorkspaceDependencies: names()},
		"d": {WorkspaceDependencies: names("a")},
	}
}

func nodeName(i int) workspace.Name {
	return workspace.Name(fmt.Sprintf("n%02d", i))
}

// randomDAG only creates edges from lower to higher indices
func randomDAG(r *rand.Rand, size int, density float64) workspace.Graph {
	g := make(workspace.Graph, size)
	for i := 0; i < size; i++ {
		var deps []workspace.Name
		for j := i + 1; j < size; j++ {
			if r.Float64() < density {
				deps = append(deps, nodeName(j))
			}
		}
		r.Shuffle(len(deps), func(a, b int) { deps[a], deps[b] = deps[b], deps[a] })
		g[nodeName(i)] = workspace.Record{WorkspaceDependencies: deps}
	}
	return g
}

// randomGraph may contain cycles and self loops
func randomGraph(r *rand.Rand, size int, density float64) workspace.Graph {
	g := make(workspace.Graph, size)
	for i := 0; i < size; i++ {
		var deps []workspace.Name
		for j := 0; j < size; j++ {
			if r.Float64() < density {
				deps = append(deps, nodeName(j))
			}
		}
		g[nodeName(i)] = workspace.Record{WorkspaceDependencies: deps}
	}
	return g
}

// longestLevels computes the reference levels for randomDAG graphs
func longestLevels(g workspace.Graph, size, origin int) map[workspace.Name]int {
	level := make(map[int]int)
	level[origin] = 0
	for i := origin; i < size; i++ {
		l, ok := level[i]
		if !ok {
			continue
		}
		for _, dep := range g.Dependencies(nodeName(i)) {
			var j int
			fmt.Sscanf(string(dep), "n%02d", &j)
			if cur, ok := level[j]; !ok || l+1 > cur {
				level[j] = l + 1
			}
		}
	}
	out := make(map[workspace.Name]int)
	for i, l := range level {
		if i != origin {
			out[nodeName(i)] = l
		}
	}
	return out
}

// reachable is a plain BFS used as a reference for set queries
func reachable(g workspace.Graph, from workspace.Name) workspace.Set {
	seen := workspace.NewSet()
	queue := append([]workspace.Name(nil), g.Dependencies(from)...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen.Has(n) {
			continue
		}
		seen.Add(n)
		queue = append(queue, g.Dependencies(n)...)
	}
	return seen
}

func edgeSet(g workspace.Graph) map[[2]workspace.Name]bool {
	out := make(map[[2]workspace.Name]bool)
	for from, rec := range g {
		for _, to := range rec.WorkspaceDependencies {
			out[[2]workspace.Name{from, to}] = true
		}
	}
	return out
}
