package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "query.sq")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(watched, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(watched)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = w.Close() }()
	w.SetDebounce(0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) { changes <- path })
	}()

	// Files outside the watch set are ignored
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte("2"), 0o644); err != nil {
		t.Fatal(err)
	}

	want, err := filepath.Abs(watched)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changes:
		if got != want {
			t.Errorf("onChange(%q), want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "data.jsonl")
	if err := os.WriteFile(watched, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(watched)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = w.Close() }()
	w.SetDebounce(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	go func() { _ = w.Run(ctx, func(path string) { changes <- path }) }()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(watched, []byte{byte('0' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case path := <-changes:
		t.Errorf("second change %q reported inside the debounce period", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "query.sq")); err == nil {
		t.Error("New() expected error for a file in a missing directory")
	}
}
