package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcher_DebouncesBurst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := New([]string{dir}, 150*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu    sync.Mutex
		calls [][]string
	)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) error {
			mu.Lock()
			calls = append(calls, changed)
			mu.Unlock()
			cancel()
			return nil
		})
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	for _, name := range []string{"a.typ", "b.typ", "c.typ"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#let x = 1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("handler calls = %d, want 1", len(calls))
	}
	if len(calls[0]) != 3 {
		t.Errorf("changed = %v, want 3 paths", calls[0])
	}
}

func TestWatcher_NoPaths(t *testing.T) {
	t.Parallel()

	if err := New(nil, 0).Run(context.Background(), nil); err == nil {
		t.Error("Run() error = nil, want error")
	}
}

func TestWatcher_MissingPath(t *testing.T) {
	t.Parallel()

	w := New([]string{filepath.Join(t.TempDir(), "missing")}, 0)
	if err := w.Run(context.Background(), nil); err == nil {
		t.Error("Run() error = nil, want error")
	}
}
