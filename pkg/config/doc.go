// Package config provides configuration for the workspace graph tools.
//
// # Overview
//
// Configuration is built for one explicit monorepo root. Defaults are
// overlaid with the optional modular.yaml file in that root, then with
// environment variables. The resulting value is passed to whatever needs it;
// there is no process-wide configuration.
//
// # Configuration Structure
//
// Graph settings:
//
//	MODULAR_ROOT="."                      # monorepo root
//	MODULAR_GRAPH_FILE="workspaces.json"  # yarn workspaces info output, .json or .yaml
//	MODULAR_BREAK_ON_CYCLE="true"
//	MODULAR_CACHE_SIZE="1024"
//	MODULAR_CONCURRENCY="8"
//
// Server settings:
//
//	MODULAR_SERVE_ADDR="127.0.0.1:8080"
//	MODULAR_SHUTDOWN_TIMEOUT="10s"
//
// Observability settings:
//
//	MODULAR_LOG_LEVEL="info"  # debug, info, warn, error
//	MODULAR_METRICS_ENABLED="true"
//
// The same settings in modular.yaml:
//
//	graphFile: workspaces.json
//	breakOnCycle: true
//	cacheSize: 1024
//	concurrency: 8
//	logLevel: info
//	metrics: true
//	serve:
//	  addr: 127.0.0.1:8080
//	  shutdownTimeout: 10s
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := resolver.NewFileResolver(cfg.Root, cfg.GraphFile)
//
// # Related Packages
//
//   - pkg/resolver: Reads the snapshot named by GraphFile
//   - pkg/observability: Uses observability configuration
package config
