package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.hlx")
	ignored := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("fn main() {}"), 0o644))

	w, err := New([]string{watched}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ctx context.Context, changed []string) error {
			changes <- changed
			return nil
		})
	}()

	// Give the watcher a moment to start reading events
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(ignored, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("fn main() { 1 }"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{watched}, changed)
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestRunStopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hlx")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New([]string{path}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("boom")
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context, []string) error { return boom })
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-ctx.Done():
		t.Fatal("Run did not return")
	}
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "a.hlx")})
	assert.Error(t, err)
}
