package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jpmorganchase/modular-sub002/pkg/dependencies"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

func newTraverseCommand(app *App) *Command {
	return &Command{
		Name:        "traverse",
		Description: "List the dependencies of a workspace with their depth level",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("traverse")
			flags := addGraphFlags(fs)
			if err := flags.parse(fs, args); err != nil {
				return err
			}
			if fs.NArg() != 1 {
				return fmt.Errorf("traverse requires exactly one workspace name")
			}
			origin := workspace.Name(fs.Arg(0))

			s, err := app.open(ctx, flags)
			if err != nil {
				return err
			}
			deps, err := s.engine.Traverse(origin, s.cfg.Graph.BreakOnCycle)
			if err != nil {
				return err
			}

			if flags.format == formatJSON {
				return app.writeJSON(deps)
			}
			for _, name := range byLevel(deps) {
				level, _ := deps.Level(name)
				fmt.Fprintf(app.Out, "%d\t%s\n", level, name)
			}
			return nil
		},
	}
}

func newDescendantsCommand(app *App) *Command {
	return newSetCommand(app, "descendants", "List every workspace the given workspaces depend on",
		(*dependencies.Engine).Descendants)
}

func newAncestorsCommand(app *App) *Command {
	return newSetCommand(app, "ancestors", "List every workspace depending on the given workspaces",
		(*dependencies.Engine).Ancestors)
}

func newSetCommand(app *App, name, description string, query func(*dependencies.Engine, []workspace.Name, bool) (workspace.Set, error)) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet(name)
			flags := addGraphFlags(fs)
			if err := flags.parse(fs, args); err != nil {
				return err
			}
			origins, err := requireNames(fs, 1)
			if err != nil {
				return err
			}

			s, err := app.open(ctx, flags)
			if err != nil {
				return err
			}
			set, err := query(s.engine, origins, s.cfg.Graph.BreakOnCycle)
			if err != nil {
				return err
			}

			if flags.format == formatJSON {
				return app.writeJSON(set)
			}
			for _, n := range set.Sorted() {
				fmt.Fprintln(app.Out, n)
			}
			return nil
		},
	}
}

func newInvertCommand(app *App) *Command {
	return &Command{
		Name:        "invert",
		Description: "Show which workspaces depend directly on each workspace",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("invert")
			flags := addGraphFlags(fs)
			if err := flags.parse(fs, args); err != nil {
				return err
			}

			s, err := app.open(ctx, flags)
			if err != nil {
				return err
			}
			inverted := s.engine.Inverted()

			if flags.format == formatJSON {
				return app.writeJSON(inverted)
			}
			for _, name := range inverted.Names() {
				fmt.Fprintf(app.Out, "%s <- %s\n", name, strings.Join(workspace.Strings(inverted.Dependencies(name)), ", "))
			}
			return nil
		},
	}
}

func newLevelsCommand(app *App) *Command {
	return &Command{
		Name:        "levels",
		Description: "Traverse several workspaces concurrently (all workspaces when none are given)",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("levels")
			flags := addGraphFlags(fs)
			concurrency := fs.Int("concurrency", 0, "Maximum concurrent traversals (default from configuration)")
			if err := flags.parse(fs, args); err != nil {
				return err
			}

			s, err := app.open(ctx, flags)
			if err != nil {
				return err
			}
			origins := workspace.NamesOf(fs.Args()...)
			if len(origins) == 0 {
				origins = s.engine.Graph().Names()
			}
			limit := s.cfg.Graph.Concurrency
			if *concurrency > 0 {
				limit = *concurrency
			}

			results, err := s.engine.TraverseAll(ctx, origins, s.cfg.Graph.BreakOnCycle, limit)
			if err != nil {
				return err
			}

			if flags.format == formatJSON {
				return app.writeJSON(results)
			}
			for _, origin := range workspace.SortedKeys(results) {
				deps := results[origin]
				parts := make([]string, 0, deps.Len())
				for _, name := range deps.Keys().Sorted() {
					level, _ := deps.Level(name)
					parts = append(parts, fmt.Sprintf("%s=%d", name, level))
				}
				fmt.Fprintf(app.Out, "%s: %s\n", origin, strings.Join(parts, " "))
			}
			return nil
		},
	}
}

func newDOTCommand(app *App) *Command {
	return &Command{
		Name:        "dot",
		Description: "Render the workspace graph in Graphviz DOT format",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("dot")
			flags := addGraphFlags(fs)
			if err := flags.parse(fs, args); err != nil {
				return err
			}

			s, err := app.open(ctx, flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, dependencies.RenderDOT(s.engine.Graph()))
			return nil
		},
	}
}

// byLevel orders names by level, then by name
func byLevel(deps *dependencies.OrderedDependencyMap) []workspace.Name {
	names := deps.Names()
	sort.SliceStable(names, func(i, j int) bool {
		li, _ := deps.Level(names[i])
		lj, _ := deps.Level(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}
