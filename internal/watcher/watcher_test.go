package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcherTriggersOnSourceFile(t *testing.T) {
	dir := t.TempDir()
	var triggers int32
	w := NewWatcher(dir, func() { atomic.AddInt32(&triggers, 1) },
		WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "menu.md"), "APPETIZERS")
	if !waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&triggers) >= 1 }) {
		t.Fatal("no trigger after source file write")
	}
}

func TestWatcherIgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()
	var triggers int32
	w := NewWatcher(dir, func() { atomic.AddInt32(&triggers, 1) },
		WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "notes.tmp"), "scratch")
	time.Sleep(300 * time.Millisecond)
	if n := atomic.LoadInt32(&triggers); n != 0 {
		t.Errorf("triggered %d times for non-source file", n)
	}
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	var triggers int32
	w := NewWatcher(dir, func() { atomic.AddInt32(&triggers, 1) },
		WithDebounce(200*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(dir, "menu.md"), "APPETIZERS")
		time.Sleep(20 * time.Millisecond)
	}
	if !waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&triggers) >= 1 }) {
		t.Fatal("burst never triggered")
	}
	time.Sleep(300 * time.Millisecond)
	if n := atomic.LoadInt32(&triggers); n != 1 {
		t.Errorf("burst triggered %d times, want 1", n)
	}
}

func TestWatcherFollowsNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	var triggers int32
	w := NewWatcher(dir, func() { atomic.AddInt32(&triggers, 1) },
		WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	sub := filepath.Join(dir, "csv")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Let the watcher pick up the new directory before writing into it.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(sub, "coupons.csv"), "restaurant,discount\n")
	if !waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&triggers) >= 1 }) {
		t.Fatal("write inside new subdirectory never triggered")
	}
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/root/csv/coupons.csv", true},
		{"/root/menu.MD", true},
		{"/root/pdf/menu.pdf", true},
		{"/root/doc/allergens.docx", true},
		{"/root/results_20250101_120000.json", true},
		{"/root/.menu.md.swp", false},
		{"/root/readme", false},
	}
	for _, tt := range tests {
		if got := isSourceFile(tt.path); got != tt.want {
			t.Errorf("isSourceFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStartMissingRootFails(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	w := NewWatcher(root, func() {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing root")
	}
}
