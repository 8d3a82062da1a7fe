package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jpmorganchase/modular-sub002/pkg/dependencies"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce groups bursts of file events into one reload
const DefaultDebounce = 200 * time.Millisecond

// snapshotWatcher calls reload whenever the snapshot file changes
type snapshotWatcher struct {
	path     string
	debounce time.Duration
	reload   func(ctx context.Context) error
	logger   *logrus.Logger
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file, because package managers and editors replace the file
// instead of writing it in place.
func (w *snapshotWatcher) Run(ctx context.Context) error {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve snapshot path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	w.logger.Infof("Watching %s for changes", path)

	debounce := w.debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debugf("Snapshot event: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.reload(ctx); err != nil {
				w.logger.Errorf("Failed to reload workspace graph: %v", err)
				continue
			}
			w.logger.Info("Workspace graph reloaded")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("Watcher error: %v", err)
		}
	}
}

func newWatchCommand(app *App) *Command {
	return &Command{
		Name:        "watch",
		Description: "Print the build order again whenever the workspace snapshot changes",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("watch")
			flags := addGraphFlags(fs)
			ancestors := fs.Bool("ancestors", false, "Also build every workspace depending on the targets")
			debounce := fs.Duration("debounce", DefaultDebounce, "Quiet period before reloading")
			if err := flags.parse(fs, args); err != nil {
				return err
			}
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			targets := workspace.NamesOf(fs.Args()...)

			ctx, stop := signalContext(ctx)
			defer stop()

			printPlan := func(ctx context.Context) error {
				s, err := app.open(ctx, flags)
				if err != nil {
					return err
				}
				selected := targets
				if len(selected) == 0 {
					selected = s.engine.Graph().Names()
				}
				plan, err := s.engine.BuildOrder(selected, dependencies.BuildOrderOptions{
					IncludeAncestors:   *ancestors,
					IncludeDescendants: true,
					BreakOnCycle:       s.cfg.Graph.BreakOnCycle,
				})
				if err != nil {
					return err
				}
				return app.writePlan(plan, flags.format)
			}

			if err := printPlan(ctx); err != nil {
				app.Logger.Errorf("Failed to compute build order: %v", err)
			}

			w := &snapshotWatcher{
				path:     cfg.GraphPath(),
				debounce: *debounce,
				reload:   printPlan,
				logger:   app.Logger,
			}
			return w.Run(ctx)
		},
	}
}
