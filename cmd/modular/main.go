package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jpmorganchase/modular-sub002/pkg/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := setupLogger(getEnv("MODULAR_LOG_LEVEL", "info"))

	// Create root command
	app := cli.NewApp(logger)
	rootCmd := cli.NewRootCommand(app)

	// Execute command
	if err := rootCmd.Execute(context.Background(), os.Args[1:], app.Out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
