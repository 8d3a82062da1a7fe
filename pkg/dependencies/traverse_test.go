package dependencies

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraverse_Acyclic(t *testing.T) {
	tests := []struct {
		origin   workspace.Name
		expected map[workspace.Name]int
	}{
		{"a", map[workspace.Name]int{"c": 1, "b": 2, "d": 3}},
		{"e", map[workspace.Name]int{"a": 1, "c": 2, "b": 3, "d": 4}},
		{"c", map[workspace.Name]int{"b": 1, "d": 2}},
		{"d", map[workspace.Name]int{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.origin), func(t *testing.T) {
			deps, err := Traverse(tt.origin, acyclicGraph(), false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, deps.Levels())
			assert.Equal(t, len(tt.expected), deps.Len())
			assert.ElementsMatch(t, deps.Names(), deps.Keys().Sorted())
			assert.False(t, deps.Has(tt.origin), "origin must not be its own dependency")

			// identical result when cycles are rejected
			strict, err := Traverse(tt.origin, acyclicGraph(), true)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strict.Levels())
		})
	}
}

func TestTraverse_VisitationOrder(t *testing.T) {
	g := workspace.Graph{
		"root": {WorkspaceDependencies: names("x", "y")},
		"x":    {WorkspaceDependencies: names("x1")},
	}

	deps, err := Traverse("root", g, false)
	require.NoError(t, err)
	assert.Equal(t, names("x", "x1", "y"), deps.Names())

	level, ok := deps.Level("x1")
	assert.True(t, ok)
	assert.Equal(t, 2, level)

	_, ok = deps.Level("root")
	assert.False(t, ok)
}

func TestTraverse_Promotion(t *testing.T) {
	// c is a direct dependency of a and also sits behind b
	g := workspace.Graph{
		"a": {WorkspaceDependencies: names("c", "b")},
		"b": {WorkspaceDependencies: names("c")},
		"c": {WorkspaceDependencies: names("d")},
	}

	deps, err := Traverse("a", g, true)
	require.NoError(t, err)
	assert.Equal(t, map[workspace.Name]int{"b": 1, "c": 2, "d": 3}, deps.Levels())
}

func TestTraverse_OrderIndependentLevels(t *testing.T) {
	g := acyclicGraph()
	reversed := g.Clone()
	for name, rec := range reversed {
		deps := rec.WorkspaceDependencies
		for i, j := 0, len(deps)-1; i < j; i, j = i+1, j-1 {
			deps[i], deps[j] = deps[j], deps[i]
		}
		reversed[name] = rec
	}

	for _, origin := range g.Names() {
		want, err := Traverse(origin, g, false)
		require.NoError(t, err)
		got, err := Traverse(origin, reversed, false)
		require.NoError(t, err)
		assert.Equal(t, want.Levels(), got.Levels(), "origin %s", origin)
	}
}

func TestTraverse_MissingNodes(t *testing.T) {
	g := workspace.Graph{
		"a": {WorkspaceDependencies: names("ghost")},
		"b": {},
	}

	deps, err := Traverse("a", g, true)
	require.NoError(t, err)
	assert.Equal(t, map[workspace.Name]int{"ghost": 1}, deps.Levels())

	deps, err = Traverse("nowhere", g, true)
	require.NoError(t, err)
	assert.Equal(t, 0, deps.Len())

	deps, err = Traverse("a", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 0, deps.Len())
}

func TestTraverse_DoesNotMutateGraph(t *testing.T) {
	for _, g := range []workspace.Graph{acyclicGraph(), cyclicGraph()} {
		before := g.Clone()
		for _, origin := range g.Names() {
			Traverse(origin, g, false)
			Traverse(origin, g, true)
		}
		assert.Equal(t, before, g)
	}
}

func TestTraverse_CycleBreak(t *testing.T) {
	_, err := Traverse("a", cyclicGraph(), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycleDetected))

	cycleErr, ok := AsCycleError(err)
	require.True(t, ok)
	assert.Equal(t, workspace.Name("a"), cycleErr.Origin)
	require.GreaterOrEqual(t, len(cycleErr.Path), 3)
	assert.Equal(t, workspace.Name("a"), cycleErr.Path[0])

	// the last name closes the cycle, so it appears earlier on the path
	last := cycleErr.Path[len(cycleErr.Path)-1]
	assert.Contains(t, cycleErr.Path[1:len(cycleErr.Path)-1], last)
	assert.Contains(t, err.Error(), " -> ")
}

func TestTraverse_CycleTolerated(t *testing.T) {
	deps, err := Traverse("a", cyclicGraph(), false)
	require.NoError(t, err)

	keys := deps.Keys()
	for _, name := range names("a", "b", "c", "d") {
		assert.True(t, keys.Has(name), "expected %s in %v", name, deps.Levels())
	}
	for _, name := range deps.Names() {
		level, _ := deps.Level(name)
		assert.Greater(t, level, 0)
	}
}

func TestTraverse_AdversarialCycles(t *testing.T) {
	tests := []struct {
		name    string
		graph   workspace.Graph
		origins []workspace.Name
		// hasCycle lists origins from which a cycle is reachable
		hasCycle map[workspace.Name]bool
	}{
		{
			name: "self loop",
			graph: workspace.Graph{
				"a": {WorkspaceDependencies: names("a")},
			},
			origins:  names("a"),
			hasCycle: map[workspace.Name]bool{"a": true},
		},
		{
			name: "two disjoint cycles",
			graph: workspace.Graph{
				"x": {WorkspaceDependencies: names("y")},
				"y": {WorkspaceDependencies: names("x", "z")},
				"z": {WorkspaceDependencies: names("w")},
				"w": {WorkspaceDependencies: names("z")},
			},
			origins:  names("x", "z"),
			hasCycle: map[workspace.Name]bool{"x": true, "z": true},
		},
		{
			name: "cycle reachable from several entry points",
			graph: workspace.Graph{
				"p": {WorkspaceDependencies: names("q")},
				"r": {WorkspaceDependencies: names("s", "leaf")},
				"q": {WorkspaceDependencies: names("s")},
				"s": {WorkspaceDependencies: names("q")},
				"t": {WorkspaceDependencies: names("leaf")},
			},
			origins:  names("p", "r", "t"),
			hasCycle: map[workspace.Name]bool{"p": true, "r": true},
		},
		{
			name: "shared node reached twice without a cycle",
			graph: workspace.Graph{
				"top":   {WorkspaceDependencies: names("left", "right")},
				"left":  {WorkspaceDependencies: names("base")},
				"right": {WorkspaceDependencies: names("base")},
			},
			origins:  names("top"),
			hasCycle: map[workspace.Name]bool{},
		},
		{
			name: "cycle behind a diamond",
			graph: workspace.Graph{
				"top":   {WorkspaceDependencies: names("left", "right")},
				"left":  {WorkspaceDependencies: names("base")},
				"right": {WorkspaceDependencies: names("base")},
				"base":  {WorkspaceDependencies: names("loop")},
				"loop":  {WorkspaceDependencies: names("base")},
			},
			origins:  names("top", "left"),
			hasCycle: map[workspace.Name]bool{"top": true, "left": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, origin := range tt.origins {
				_, err := Traverse(origin, tt.graph, true)
				if tt.hasCycle[origin] {
					assert.ErrorIs(t, err, ErrCycleDetected, "origin %s", origin)
				} else {
					assert.NoError(t, err, "origin %s", origin)
				}

				deps, err := Traverse(origin, tt.graph, false)
				require.NoError(t, err)
				assert.Equal(t, reachable(tt.graph, origin), deps.Keys(), "origin %s", origin)
			}
		})
	}
}

func TestTraverse_LongChain(t *testing.T) {
	const size = 100000
	g := make(workspace.Graph, size)
	for i := 0; i < size-1; i++ {
		g[workspace.Name(fmt.Sprintf("w%d", i))] = workspace.Record{
			WorkspaceDependencies: []workspace.Name{workspace.Name(fmt.Sprintf("w%d", i+1))},
		}
	}

	deps, err := Traverse("w0", g, true)
	require.NoError(t, err)
	assert.Equal(t, size-1, deps.Len())

	level, ok := deps.Level(workspace.Name(fmt.Sprintf("w%d", size-1)))
	require.True(t, ok)
	assert.Equal(t, size-1, level)
}

func TestTraverse_RandomDAGMatchesLongestPath(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iteration := 0; iteration < 50; iteration++ {
		size := 5 + r.Intn(25)
		g := randomDAG(r, size, 0.2)

		for origin := 0; origin < size; origin++ {
			deps, err := Traverse(nodeName(origin), g, true)
			require.NoError(t, err)
			assert.Equal(t, longestLevels(g, size, origin), deps.Levels(),
				"iteration %d origin %s", iteration, nodeName(origin))
		}
	}
}

func TestTraverse_RandomGraphsTerminate(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iteration := 0; iteration < 50; iteration++ {
		size := 3 + r.Intn(15)
		g := randomGraph(r, size, 0.25)

		for _, origin := range g.Names() {
			deps, err := Traverse(origin, g, false)
			require.NoError(t, err)

			// tolerant traversal still reaches everything reachable
			assert.Equal(t, reachable(g, origin), deps.Keys())

			// strict traversal fails exactly when the origin reaches a cycle
			_, strictErr := Traverse(origin, g, true)
			assert.Equal(t, reachesCycle(g, origin), strictErr != nil,
				"iteration %d origin %s", iteration, origin)
		}
	}
}

// reachesCycle reports whether some node reachable from origin can reach itself
func reachesCycle(g workspace.Graph, origin workspace.Name) bool {
	candidates := reachable(g, origin)
	for name := range candidates {
		if reachable(g, name).Has(name) {
			return true
		}
	}
	return false
}

func TestOrderedDependencyMap_JSON(t *testing.T) {
	deps, err := Traverse("a", acyclicGraph(), false)
	require.NoError(t, err)

	data, err := deps.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2,"c":1,"d":3}`, string(data))
}

func TestCycleError_Error(t *testing.T) {
	err := &CycleError{Origin: "a", Path: names("a", "b", "a")}
	assert.Equal(t, "cycle detected: a -> b -> a", err.Error())
	assert.Equal(t, "cycle detected", (&CycleError{}).Error())

	var nilErr *CycleError
	assert.Equal(t, "", nilErr.Error())

	_, ok := AsCycleError(errors.New("other"))
	assert.False(t, ok)

	wrapped := fmt.Errorf("build failed: %w", err)
	got, ok := AsCycleError(wrapped)
	require.True(t, ok)
	assert.Same(t, err, got)
}
