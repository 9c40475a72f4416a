package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/internal/config"
)

func watchConfig() *config.Config {
	return &config.Config{
		IgnoreDirs:      []string{".git", "node_modules"},
		WatchDebounceMs: 50,
	}
}

func TestRunFiresAfterChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	w := New(watchConfig(), zap.NewNop(), func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, dir) }()

	// Give the watcher time to register before touching the tree.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "new.go"), []byte("package new\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange not called after a file write")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}

func TestRunStopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	w := New(watchConfig(), zap.NewNop(), func(context.Context) error { return boom })

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), dir) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "x.txt"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("Run() = %v, want the callback error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after a callback error")
	}
}

func TestRunMissingRoot(t *testing.T) {
	w := New(watchConfig(), zap.NewNop(), func(context.Context) error { return nil })
	if err := w.Run(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing root")
	}
}
