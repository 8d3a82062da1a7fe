package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workspaces.json")
	require.NoError(t, os.WriteFile(path, []byte(acyclicSnapshot), 0o644))

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	var reloads int32
	w := &snapshotWatcher{
		path:     path,
		debounce: 10 * time.Millisecond,
		reload: func(ctx context.Context) error {
			atomic.AddInt32(&reloads, 1)
			return nil
		},
		logger: logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))

	// the watch is registered asynchronously, so keep touching the file
	require.Eventually(t, func() bool {
		os.WriteFile(path, []byte(cyclicSnapshot), 0o644)
		return atomic.LoadInt32(&reloads) > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestSnapshotWatcher_MissingDirectory(t *testing.T) {
	w := &snapshotWatcher{
		path:   filepath.Join(t.TempDir(), "missing", "workspaces.json"),
		reload: func(ctx context.Context) error { return nil },
		logger: logrus.New(),
	}

	err := w.Run(context.Background())
	assert.Error(t, err)
}

func TestWatchCommand_PrintsPlan(t *testing.T) {
	root := setupRoot(t, acyclicSnapshot)
	app, out := newTestApp()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewRootCommand(app).Execute(ctx, []string{"watch", "-root", root, "a"}, out)
	}()

	// cancelling stops the watcher once the first plan has been printed
	time.Sleep(500 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, "stage 1: d\nstage 2: b\nstage 3: c\nstage 4: a\n", out.String())
}
