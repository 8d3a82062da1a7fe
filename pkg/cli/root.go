package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// Version is reported by the health endpoint of the graph explorer
var Version = "dev"

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args []string) error
	Subcommands map[string]*Command
}

// App carries what every subcommand writes to
type App struct {
	Out    io.Writer
	Err    io.Writer
	Logger *logrus.Logger
}

// NewApp writes results to stdout and diagnostics to stderr
func NewApp(logger *logrus.Logger) *App {
	if logger == nil {
		logger = logrus.New()
	}
	return &App{Out: os.Stdout, Err: os.Stderr, Logger: logger}
}

// NewRootCommand creates the root command
func NewRootCommand(app *App) *Command {
	root := &Command{
		Name:        "modular",
		Description: "Modular - workspace dependency graph tools",
		Subcommands: make(map[string]*Command),
	}

	for _, cmd := range []*Command{
		newTraverseCommand(app),
		newDescendantsCommand(app),
		newAncestorsCommand(app),
		newInvertCommand(app),
		newLevelsCommand(app),
		newDOTCommand(app),
		newOrderCommand(app),
		newServeCommand(app),
		newWatchCommand(app),
	} {
		root.Subcommands[cmd.Name] = cmd
	}

	return root
}

// Execute runs the subcommand named by args[0]
func (c *Command) Execute(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return c.usage(out)
	}

	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		return c.usage(out)
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		err := subcmd.Run(ctx, args[1:])
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage(out io.Writer) error {
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "Usage: %s <command> [flags] [workspaces]\n\n", c.Name)
	fmt.Fprintf(out, "Commands:\n")
	for _, name := range names {
		fmt.Fprintf(out, "  %-15s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}
