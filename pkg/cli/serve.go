package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jpmorganchase/modular-sub002/pkg/config"
	"github.com/jpmorganchase/modular-sub002/pkg/dependencies"
	"github.com/jpmorganchase/modular-sub002/pkg/httputil"
	"github.com/jpmorganchase/modular-sub002/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// explorer serves graph queries for the snapshot it currently holds
type explorer struct {
	cfg      *config.Config
	logger   *observability.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	current  atomic.Pointer[dependencies.Engine]
}

func newExplorer(cfg *config.Config, logger *observability.Logger) *explorer {
	e := &explorer{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	if cfg.Observability.MetricsEnabled {
		e.metrics = observability.NewMetrics(e.registry)
	}
	return e
}

func (e *explorer) engine() *dependencies.Engine {
	return e.current.Load()
}

// reload swaps in a freshly resolved snapshot. The previous engine keeps
// serving when resolving fails.
func (e *explorer) reload(ctx context.Context) error {
	engine, err := loadEngine(ctx, e.cfg, e.logger, e.metrics)
	e.metrics.RecordReload(err)
	if err != nil {
		return err
	}
	e.current.Store(engine)
	return nil
}

func (e *explorer) handler() http.Handler {
	router := mux.NewRouter()
	router.Use(httputil.RequestIDMiddleware(e.logger))
	router.Use(observability.RecoveryMiddleware(e.logger))
	router.Use(httputil.LoggingMiddleware)
	if e.metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(e.metrics, dependencies.RouteName))
	}
	dependencies.NewReloadingHandlers(e.engine).RegisterRoutes(router)

	checker := observability.NewHealthChecker(Version)
	checker.AddCheck("workspace_graph", func(ctx context.Context) error {
		if e.engine() == nil {
			return errors.New("workspace graph not loaded")
		}
		return nil
	}, true)

	root := http.NewServeMux()
	observability.RegisterHealthRoutes(root, checker)
	if e.metrics != nil {
		root.Handle("/metrics", observability.MetricsHandler(e.registry))
	}
	root.Handle("/", router)
	return root
}

func newServeCommand(app *App) *Command {
	return &Command{
		Name:        "serve",
		Description: "Serve graph queries over HTTP",
		Run: func(ctx context.Context, args []string) error {
			fs := app.newFlagSet("serve")
			flags := addGraphFlags(fs)
			addr := fs.String("addr", "", "Listen address (default from configuration)")
			watch := fs.Bool("watch", false, "Reload the snapshot when it changes")
			if err := flags.parse(fs, args); err != nil {
				return err
			}
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			if *addr != "" {
				cfg.Server.Addr = *addr
			}

			logger := observability.NewLogger(cfg.Observability.LogLevel, app.Err)
			exp := newExplorer(cfg, logger)
			if err := exp.reload(ctx); err != nil {
				return err
			}

			ctx, stop := signalContext(ctx)
			defer stop()

			if *watch {
				w := &snapshotWatcher{path: cfg.GraphPath(), reload: exp.reload, logger: app.Logger}
				go func() {
					defer observability.RecoverPanic(logger, "snapshot watcher")
					if err := w.Run(ctx); err != nil {
						app.Logger.Errorf("Snapshot watcher stopped: %v", err)
					}
				}()
			}

			server := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      exp.handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			app.Logger.WithFields(logrus.Fields{
				"addr":  cfg.Server.Addr,
				"watch": *watch,
			}).Info("Starting workspace graph explorer")

			return observability.ServeUntilDone(ctx, server, logger, cfg.Server.ShutdownTimeout)
		},
	}
}
