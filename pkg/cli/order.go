package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpmorganchase/modular-sub002/pkg/dependencies"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

func newOrderCommand(app *App) *Command {
	return &Command{
		Name:        "order",
		Description: "Print the stages in which workspaces must be built",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("order")
			flags := addGraphFlags(fs)
			ancestors := fs.Bool("ancestors", false, "Also build every workspace depending on the targets")
			descendants := fs.Bool("descendants", true, "Also build every workspace the targets depend on")
			if err := flags.parse(fs, args); err != nil {
				return err
			}
			targets, err := requireNames(fs, 1)
			if err != nil {
				return err
			}

			s, err := app.open(ctx, flags)
			if err != nil {
				return err
			}
			plan, err := s.engine.BuildOrder(targets, dependencies.BuildOrderOptions{
				IncludeAncestors:   *ancestors,
				IncludeDescendants: *descendants,
				BreakOnCycle:       s.cfg.Graph.BreakOnCycle,
			})
			if err != nil {
				return err
			}

			return app.writePlan(plan, flags.format)
		},
	}
}

func (a *App) writePlan(plan *dependencies.BuildPlan, format string) error {
	if format == formatJSON {
		return a.writeJSON(plan)
	}
	for i, stage := range plan.Stages {
		fmt.Fprintf(a.Out, "stage %d: %s\n", i+1, strings.Join(workspace.Strings(stage.Workspaces), " "))
	}
	return nil
}
