// Package observability provides structured logging, Prometheus metrics and
// health checks for the modular CLI and its graph explorer server.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)
//	logger.WithField("origin", "app").Debug("traversal complete")
//
// Context-aware logging:
//
//	ctx = observability.WithLogger(ctx, logger)
//	observability.FromContext(ctx).WithError(err).Error("query failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.ObserveQuery("descendants", start, result.Len(), err, false)
//
// Metrics methods are safe to call on a nil *Metrics, which disables them.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version)
//	checker.AddCheck("graph", func(ctx context.Context) error { return nil }, true)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # Related Packages
//
//   - pkg/config: Log level and server configuration
//   - pkg/dependencies: Records query metrics through Engine
package observability
