package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/jpmorganchase/modular-sub002/pkg/config"
	"github.com/jpmorganchase/modular-sub002/pkg/dependencies"
	"github.com/jpmorganchase/modular-sub002/pkg/observability"
	"github.com/jpmorganchase/modular-sub002/pkg/resolver"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// graphFlags are shared by every command that loads the workspace graph
type graphFlags struct {
	root         string
	graphFile    string
	breakOnCycle bool
	format       string

	breakOnCycleSet bool
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func addGraphFlags(fs *flag.FlagSet) *graphFlags {
	f := &graphFlags{}
	fs.StringVar(&f.root, "root", "", "Monorepo root (default $MODULAR_ROOT or the working directory)")
	fs.StringVar(&f.graphFile, "graph", "", "Workspace snapshot file, relative to the root")
	fs.BoolVar(&f.breakOnCycle, "break-on-cycle", false, "Fail when a dependency cycle is found instead of skipping the closing edge (default $MODULAR_BREAK_ON_CYCLE or false)")
	fs.StringVar(&f.format, "format", formatText, "Output format (text, json)")
	return f
}

// parse parses args and records which optional flags were given
func (f *graphFlags) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "break-on-cycle" {
			f.breakOnCycleSet = true
		}
	})
	if f.format != formatText && f.format != formatJSON {
		return fmt.Errorf("invalid format %q (must be text or json)", f.format)
	}
	return nil
}

// config loads the configuration and applies flag overrides
func (f *graphFlags) config() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.root != "" {
		cfg, err = config.Load(f.root)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	if f.graphFile != "" {
		cfg.GraphFile = f.graphFile
	}
	if f.breakOnCycleSet {
		cfg.Graph.BreakOnCycle = f.breakOnCycle
	}
	return cfg, nil
}

// session is a loaded graph ready to be queried
type session struct {
	cfg    *config.Config
	engine *dependencies.Engine
	logger *observability.Logger
}

func (a *App) open(ctx context.Context, f *graphFlags) (*session, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, a.Err)
	engine, err := loadEngine(ctx, cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	a.Logger.WithFields(map[string]interface{}{
		"root":       cfg.Root,
		"workspaces": len(engine.Graph()),
	}).Debug("Workspace graph loaded")

	return &session{cfg: cfg, engine: engine, logger: logger}, nil
}

// loadEngine resolves the snapshot named by cfg and wraps it in an engine
func loadEngine(ctx context.Context, cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) (*dependencies.Engine, error) {
	graph, err := resolver.BuildGraph(ctx, resolver.NewFileResolver(cfg.Root, cfg.GraphFile), logger)
	if err != nil {
		return nil, err
	}
	return dependencies.NewEngine(graph,
		dependencies.WithCacheSize(cfg.Graph.CacheSize),
		dependencies.WithLogger(logger),
		dependencies.WithMetrics(metrics),
	)
}

func (a *App) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireNames(fs *flag.FlagSet, min int) ([]workspace.Name, error) {
	if fs.NArg() < min {
		return nil, fmt.Errorf("%s requires at least %d workspace name(s)", fs.Name(), min)
	}
	return workspace.NamesOf(fs.Args()...), nil
}
