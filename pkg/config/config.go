package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jpmorganchase/modular-sub002/pkg/observability"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the modular root
const FileName = "modular.yaml"

// Config holds all application configuration
type Config struct {
	// Root is the monorepo root every relative path is resolved against
	Root string

	// GraphFile is the workspace snapshot produced by the package manager
	GraphFile string

	// Graph query configuration
	Graph GraphConfig

	// Server configuration for the graph explorer
	Server ServerConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// GraphConfig holds dependency engine settings
type GraphConfig struct {
	BreakOnCycle bool
	CacheSize    int
	Concurrency  int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// fileConfig is the layout of modular.yaml. Unset fields keep their defaults.
type fileConfig struct {
	GraphFile    string `yaml:"graphFile"`
	BreakOnCycle *bool  `yaml:"breakOnCycle"`
	CacheSize    int    `yaml:"cacheSize"`
	Concurrency  int    `yaml:"concurrency"`
	LogLevel     string `yaml:"logLevel"`
	Metrics      *bool  `yaml:"metrics"`
	Serve        struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdownTimeout"`
	} `yaml:"serve"`
}

// Default returns the configuration used when nothing is overridden
func Default(root string) *Config {
	return &Config{
		Root:      root,
		GraphFile: "workspaces.json",
		Graph: GraphConfig{
			BreakOnCycle: false,
			CacheSize:    1024,
			Concurrency:  8,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.InfoLevel,
			MetricsEnabled: true,
		},
	}
}

// LoadConfig loads configuration for the root named by MODULAR_ROOT, or the
// working directory when it is unset
func LoadConfig() (*Config, error) {
	return Load(getEnv("MODULAR_ROOT", "."))
}

// Load builds the configuration for root. Defaults are overlaid with
// root/modular.yaml when present, then with environment variables.
func Load(root string) (*Config, error) {
	cfg := Default(root)

	if err := cfg.loadFile(filepath.Join(root, FileName)); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", FileName, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", FileName, err)
	}

	if fc.GraphFile != "" {
		c.GraphFile = fc.GraphFile
	}
	if fc.BreakOnCycle != nil {
		c.Graph.BreakOnCycle = *fc.BreakOnCycle
	}
	if fc.CacheSize != 0 {
		c.Graph.CacheSize = fc.CacheSize
	}
	if fc.Concurrency != 0 {
		c.Graph.Concurrency = fc.Concurrency
	}
	if fc.LogLevel != "" {
		c.Observability.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.Metrics != nil {
		c.Observability.MetricsEnabled = *fc.Metrics
	}
	if fc.Serve.Addr != "" {
		c.Server.Addr = fc.Serve.Addr
	}
	if fc.Serve.ShutdownTimeout != "" {
		timeout, err := time.ParseDuration(fc.Serve.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse %s: invalid shutdownTimeout: %w", FileName, err)
		}
		c.Server.ShutdownTimeout = timeout
	}
	return nil
}

func (c *Config) loadEnv() {
	c.GraphFile = getEnv("MODULAR_GRAPH_FILE", c.GraphFile)

	c.Graph.BreakOnCycle = getEnvBool("MODULAR_BREAK_ON_CYCLE", c.Graph.BreakOnCycle)
	c.Graph.CacheSize = getEnvInt("MODULAR_CACHE_SIZE", c.Graph.CacheSize)
	c.Graph.Concurrency = getEnvInt("MODULAR_CONCURRENCY", c.Graph.Concurrency)

	c.Server.Addr = getEnv("MODULAR_SERVE_ADDR", c.Server.Addr)
	c.Server.ShutdownTimeout = getEnvDuration("MODULAR_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	if level := getEnv("MODULAR_LOG_LEVEL", ""); level != "" {
		c.Observability.LogLevel = parseLogLevel(level)
	}
	c.Observability.MetricsEnabled = getEnvBool("MODULAR_METRICS_ENABLED", c.Observability.MetricsEnabled)
}

// GraphPath returns the snapshot file location, resolved against Root
func (c *Config) GraphPath() string {
	if filepath.IsAbs(c.GraphFile) {
		return c.GraphFile
	}
	return filepath.Join(c.Root, c.GraphFile)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("modular root is required")
	}
	if c.GraphFile == "" {
		return fmt.Errorf("graph file is required")
	}
	if c.Graph.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.Graph.CacheSize)
	}
	if c.Graph.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Graph.Concurrency)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// parseLogLevel parses a log level string, falling back to info
func parseLogLevel(level string) observability.LogLevel {
	parsed, err := observability.ParseLogLevel(level)
	if err != nil {
		return observability.InfoLevel
	}
	return parsed
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
