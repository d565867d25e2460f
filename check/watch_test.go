package check

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/ntt/config"
	tt "github.com/gnolang/ntt/internal/types"
)

type report struct {
	filename string
	issues   []tt.Issue
	err      error
}

func TestWatcherRechecksWrittenFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reports := make(chan report, 16)

	w, err := NewWatcher(newEngine(t, config.Default()), zap.NewNop(), func(filename string, issues []tt.Issue, err error) {
		reports <- report{filename, issues, err}
	})
	require.NoError(t, err)
	w.Delay = 20 * time.Millisecond
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "main.ntt")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case r := <-reports:
		require.NoError(t, r.err)
		assert.Equal(t, path, r.filename)
		require.Len(t, r.issues, 1)
		assert.Equal(t, "missing-semicolon", r.issues[0].Rule)
	case <-time.After(5 * time.Second):
		t.Fatal("no report received")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.NoError(t, w.Close())
}

func TestWatcherAddMissingDir(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher(newEngine(t, config.Default()), nil, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
}
