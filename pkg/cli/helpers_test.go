package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const acyclicSnapshot = `{
  "a": {"location": "packages/a", "type": "app", "workspaceDependencies": ["b", "c"], "mismatchedWorkspaceDependencies": []},
  "b": {"location": "packages/b", "type": "package", "workspaceDependencies": ["d"], "mismatchedWorkspaceDependencies": []},
  "c": {"location": "packages/c", "type": "view", "workspaceDependencies": ["b"], "mismatchedWorkspaceDependencies": []},
  "d": {"location": "packages/d", "type": "package", "workspaceDependencies": [], "mismatchedWorkspaceDependencies": []},
  "e": {"location": "packages/e", "type": "app", "workspaceDependencies": ["a", "b", "c"], "mismatchedWorkspaceDependencies": []}
}`

const cyclicSnapshot = `{
  "a": {"location": "packages/a", "workspaceDependencies": ["b", "c"], "mismatchedWorkspaceDependencies": []},
  "b": {"location": "packages/b", "workspaceDependencies": ["d"], "mismatchedWorkspaceDependencies": []},
  "c": {"location": "packages/c", "workspaceDependencies": [], "mismatchedWorkspaceDependencies": []},
  "d": {"location": "packages/d", "workspaceDependencies": ["a"], "mismatchedWorkspaceDependencies": []}
}`

var modularEnv = []string{
	"MODULAR_ROOT",
	"MODULAR_GRAPH_FILE",
	"MODULAR_BREAK_ON_CYCLE",
	"MODULAR_CACHE_SIZE",
	"MODULAR_CONCURRENCY",
	"MODULAR_SERVE_ADDR",
	"MODULAR_SHUTDOWN_TIMEOUT",
	"MODULAR_LOG_LEVEL",
	"MODULAR_METRICS_ENABLED",
}

// setupRoot creates a monorepo root holding workspaces.json
func setupRoot(t *testing.T, snapshot string) string {
	t.Helper()
	for _, key := range modularEnv {
		t.Setenv(key, "")
	}
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "workspaces.json"), []byte(snapshot), 0o644))
	return root
}

func newTestApp() (*App, *bytes.Buffer) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &App{Out: &out, Err: io.Discard, Logger: logger}, &out
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app, out := newTestApp()
	err := NewRootCommand(app).Execute(context.Background(), args, out)
	return out.String(), err
}
