package dependencies

import (
	"encoding/json"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// OrderedDependencyMap maps every workspace reachable from an origin to the
// deepest level it was reached at. Names are kept in visitation order.
//
// An OrderedDependencyMap is never modified after Traverse returns, so it can
// be shared between goroutines.
type OrderedDependencyMap struct {
	order  []workspace.Name
	levels map[workspace.Name]int
}

func newOrderedDependencyMap() *OrderedDependencyMap {
	return &OrderedDependencyMap{levels: make(map[workspace.Name]int)}
}

// record stores level for name, keeping the maximum seen so far. It reports
// whether the stored level changed.
func (m *OrderedDependencyMap) record(name workspace.Name, level int) bool {
	prev, ok := m.levels[name]
	if !ok {
		m.order = append(m.order, name)
		m.levels[name] = level
		return true
	}
	if level > prev {
		m.levels[name] = level
		return true
	}
	return false
}

// Level returns the level of name
func (m *OrderedDependencyMap) Level(name workspace.Name) (int, bool) {
	level, ok := m.levels[name]
	return level, ok
}

// Has reports whether name was reached
func (m *OrderedDependencyMap) Has(name workspace.Name) bool {
	_, ok := m.levels[name]
	return ok
}

// Len returns the number of reached workspaces
func (m *OrderedDependencyMap) Len() int {
	return len(m.order)
}

// Names returns the reached workspaces in visitation order
func (m *OrderedDependencyMap) Names() []workspace.Name {
	out := make([]workspace.Name, len(m.order))
	copy(out, m.order)
	return out
}

// Levels returns a copy of the name to level mapping
func (m *OrderedDependencyMap) Levels() map[workspace.Name]int {
	out := make(map[workspace.Name]int, len(m.levels))
	for name, level := range m.levels {
		out[name] = level
	}
	return out
}

// Keys returns the reached workspaces as a set
func (m *OrderedDependencyMap) Keys() workspace.Set {
	return workspace.NewSet(m.order...)
}

// MarshalJSON encodes the map as a JSON object of name to level
func (m *OrderedDependencyMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.levels)
}

// frame is one entry of the traversal stack. Exit frames pop their workspace
// off the active path once every dependency pushed above them is processed.
type frame struct {
	name  workspace.Name
	level int
	exit  bool
}

// Traverse walks the dependencies of origin depth first and returns every
// reachable workspace with the deepest level it was found at. Level 1 means a
// direct dependency.
//
// The walk keeps the exact active branch. When a workspace already on that
// branch is reached again the graph has a cycle: with breakOnCycle a
// *CycleError is returned, otherwise that occurrence is not descended into
// and the walk carries on. The origin is not on the branch when the walk
// starts, so it can show up in the result when a cycle leads back to it.
//
// A workspace is only expanded again when it is reached at a deeper level
// than before. Because the active branch never repeats a workspace, levels are
// bounded by the number of workspaces and the walk always terminates.
func Traverse(origin workspace.Name, graph workspace.Graph, breakOnCycle bool) (*OrderedDependencyMap, error) {
	visited := newOrderedDependencyMap()

	var stack []frame
	pushDependencies := func(deps []workspace.Name, level int) {
		// reversed so the first declared dependency is visited first
		for i := len(deps) - 1; i >= 0; i-- {
			stack = append(stack, frame{name: deps[i], level: level})
		}
	}
	pushDependencies(graph.Dependencies(origin), 1)

	onPath := make(map[workspace.Name]bool)
	var path []workspace.Name

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.exit {
			delete(onPath, current.name)
			path = path[:len(path)-1]
			continue
		}

		if onPath[current.name] {
			if breakOnCycle {
				cyclePath := make([]workspace.Name, 0, len(path)+2)
				cyclePath = append(cyclePath, origin)
				cyclePath = append(cyclePath, path...)
				cyclePath = append(cyclePath, current.name)
				return nil, &CycleError{Origin: origin, Path: cyclePath}
			}
			continue
		}

		if !visited.record(current.name, current.level) {
			// already expanded at this depth or deeper
			continue
		}

		deps := graph.Dependencies(current.name)
		if len(deps) == 0 {
			continue
		}

		onPath[current.name] = true
		path = append(path, current.name)
		stack = append(stack, frame{name: current.name, exit: true})
		pushDependencies(deps, current.level+1)
	}

	return visited, nil
}
