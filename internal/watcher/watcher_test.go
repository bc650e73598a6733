package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	notePath := filepath.Join(dir, "note.md")
	if err := os.WriteFile(notePath, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(dir, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	events := w.Events(ctx)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(notePath, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		if ev.Path != notePath {
			t.Fatalf("got event for %q, want %q", ev.Path, notePath)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for write event")
	}
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	events := w.Events(ctx)

	os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644)

	select {
	case ev, ok := <-events:
		if ok {
			t.Fatalf("expected no events for non-markdown file, got %+v", ev)
		}
	case <-time.After(400 * time.Millisecond):
		// expected: no event surfaced before the channel closes with ctx
	}
}
