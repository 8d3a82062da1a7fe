package dependencies

import (
	"sort"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// BuildOrderOptions controls which workspaces a BuildPlan covers
type BuildOrderOptions struct {
	// IncludeDescendants adds everything the selected workspaces depend on
	IncludeDescendants bool
	// IncludeAncestors adds every workspace depending on a target, the set
	// that has to be rebuilt after the targets changed
	IncludeAncestors bool
	// BreakOnCycle fails the plan when a cycle is reachable from a selected workspace
	BreakOnCycle bool
}

// DefaultBuildOrderOptions builds targets together with their dependencies and
// rejects cycles
func DefaultBuildOrderOptions() BuildOrderOptions {
	return BuildOrderOptions{
		IncludeDescendants: true,
		BreakOnCycle:       true,
	}
}

// Stage is a group of workspaces sharing a level. Workspaces in one stage do
// not depend on each other in an acyclic graph and can be processed in
// parallel.
type Stage struct {
	Level      int              `json:"level"`
	Workspaces []workspace.Name `json:"workspaces"`
}

// BuildPlan lists stages deepest level first, so every workspace comes after
// the workspaces it depends on
type BuildPlan struct {
	Targets []workspace.Name `json:"targets"`
	Stages  []Stage          `json:"stages"`
}

// Order flattens the plan into a single processing sequence
func (p *BuildPlan) Order() []workspace.Name {
	var out []workspace.Name
	for _, stage := range p.Stages {
		out = append(out, stage.Workspaces...)
	}
	return out
}

// Len returns the number of workspaces in the plan
func (p *BuildPlan) Len() int {
	n := 0
	for _, stage := range p.Stages {
		n += len(stage.Workspaces)
	}
	return n
}

// ComputeBuildOrder computes the order in which targets (and, depending on
// opts, their dependencies and dependants) must be processed.
//
// Selected workspaces start at level 0. Every workspace reached from a
// selected one takes the deepest level seen across all traversals, so a
// workspace is always scheduled before anything that depends on it,
// however indirectly.
func ComputeBuildOrder(targets []workspace.Name, graph workspace.Graph, opts BuildOrderOptions) (*BuildPlan, error) {
	selected := workspace.NewSet(targets...)

	if opts.IncludeAncestors {
		ancestors, err := ComputeAncestorSet(targets, graph, opts.BreakOnCycle)
		if err != nil {
			return nil, err
		}
		for name := range ancestors {
			selected.Add(name)
		}
	}

	levels := make(map[workspace.Name]int, len(selected))
	for name := range selected {
		levels[name] = 0
	}

	for _, origin := range selected.Sorted() {
		deps, err := Traverse(origin, graph, opts.BreakOnCycle)
		if err != nil {
			return nil, err
		}
		for _, name := range deps.order {
			if !opts.IncludeDescendants && !selected.Has(name) {
				continue
			}
			if level := deps.levels[name]; level > levels[name] {
				levels[name] = level
			}
		}
	}

	return newBuildPlan(targets, levels), nil
}

func newBuildPlan(targets []workspace.Name, levels map[workspace.Name]int) *BuildPlan {
	byLevel := make(map[int][]workspace.Name)
	for name, level := range levels {
		byLevel[level] = append(byLevel[level], name)
	}

	keys := make([]int, 0, len(byLevel))
	for level := range byLevel {
		keys = append(keys, level)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	plan := &BuildPlan{
		Targets: append([]workspace.Name(nil), targets...),
		Stages:  make([]Stage, 0, len(keys)),
	}
	for _, level := range keys {
		names := byLevel[level]
		workspace.SortNames(names)
		plan.Stages = append(plan.Stages, Stage{Level: level, Workspaces: names})
	}
	return plan
}
