package vaultmgr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RamXX/vlt/internal/batch"
	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/vaultquery"
	"github.com/RamXX/vlt/internal/vlterrors"
)

func newTestVault(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	m, err := New(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func write(t *testing.T, m *Manager, path, content string) {
	t.Helper()
	if err := m.WriteFile(path, []byte(content)); err != nil {
		t.Fatal(err)
	}
}

func TestWriteFileUpdatesIndexAndGraph(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "a.md", "leaf a")
	write(t, m, "b.md", "leaf b")
	write(t, m, "index.md", "see [[a]] and [[b]]")

	fw := m.ForwardLinks("index.md")
	if len(fw) != 2 {
		t.Fatalf("forward links = %v", fw)
	}
	bl := m.Backlinks("a.md")
	if len(bl) != 1 || bl[0] != "index.md" {
		t.Fatalf("backlinks(a.md) = %v", bl)
	}
}

func TestScanBuildsGraphFromDisk(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "index.md"), []byte("[[a]]"), 0o644)
	os.WriteFile(filepath.Join(dir, "a.md"), []byte("leaf"), 0o644)

	m, err := New(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}

	if bl := m.Backlinks("a.md"); len(bl) != 1 || bl[0] != "index.md" {
		t.Fatalf("backlinks(a.md) = %v", bl)
	}
}

func TestEditFileDryRunDoesNotWrite(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "note.md", "hello world")

	result, err := m.EditFile("note.md", []editengine.Block{{Search: "world", Replace: "there"}}, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if string(result.Content) != "hello there" {
		t.Fatalf("got %q", result.Content)
	}

	data, err := m.ReadFile("note.md")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" {
		t.Fatalf("dry run should not persist; got %q", data)
	}
}

func TestEditFileCommits(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "note.md", "hello world")

	_, err := m.EditFile("note.md", []editengine.Block{{Search: "world", Replace: "there"}}, "", false)
	if err != nil {
		t.Fatal(err)
	}

	data, err := m.ReadFile("note.md")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello there" {
		t.Fatalf("got %q", data)
	}
}

func TestDeleteFileRemovesFromGraph(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "a.md", "leaf")
	write(t, m, "index.md", "[[a]]")

	if err := m.DeleteFile("a.md"); err != nil {
		t.Fatal(err)
	}
	if broken := m.BrokenLinks(); len(broken) != 1 {
		t.Fatalf("expected a.md link to be broken, got %v", broken)
	}
}

func TestMoveFileUpdatesGraph(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "a.md", "leaf")
	write(t, m, "index.md", "[[a]]")

	if err := m.MoveFile("a.md", "renamed.md"); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Note("a.md"); ok {
		t.Fatal("a.md should no longer be indexed")
	}
	if _, ok := m.Note("renamed.md"); !ok {
		t.Fatal("renamed.md should be indexed")
	}
}

func TestPathTraversalRejected(t *testing.T) {
	m := newTestVault(t)
	err := m.WriteFile("../outside.md", []byte("x"))
	if !vlterrors.Is(err, vlterrors.PathTraversal) {
		t.Fatalf("want PathTraversal, got %v", err)
	}
}

func TestExecuteBatchResyncsIndex(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "a.md", "original")

	result := m.ExecuteBatch([]batch.Op{
		{Kind: batch.WriteFile, Path: "a.md", Content: []byte("updated")},
	})
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	data, err := m.ReadFile("a.md")
	if err != nil || string(data) != "updated" {
		t.Fatalf("got %q, err=%v", data, err)
	}
}

func TestOrphansAfterWrite(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "lonely.md", "no links here")

	orphans := m.Orphans()
	if len(orphans) != 1 || orphans[0] != "lonely.md" {
		t.Fatalf("got %v", orphans)
	}
}

func TestSearchRequiresFTSPath(t *testing.T) {
	m := newTestVault(t)
	_, err := m.Search(context.Background(), "anything", 10)
	if !vlterrors.Is(err, vlterrors.ConfigError) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestSearchFindsWrittenContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".vlt"), 0o755); err != nil {
		t.Fatal(err)
	}
	m, err := New(dir, Options{FTSPath: filepath.Join(dir, ".vlt", "fts.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	write(t, m, "rocket.md", "# Rocket Notes\n\nThe launch window opens tomorrow.")
	write(t, m, "grocery.md", "# Grocery List\n\nMilk and eggs.")

	results, err := m.Search(context.Background(), "launch", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != "rocket.md" {
		t.Fatalf("got %+v", results)
	}
}

func TestDeleteFileRemovesFromSearchIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".vlt"), 0o755); err != nil {
		t.Fatal(err)
	}
	m, err := New(dir, Options{FTSPath: filepath.Join(dir, ".vlt", "fts.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	write(t, m, "note.md", "unique searchable phrase here")
	if err := m.DeleteFile("note.md"); err != nil {
		t.Fatal(err)
	}

	results, err := m.Search(context.Background(), "searchable", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after delete, got %+v", results)
	}
}

func TestTagsAndTasksWiredThroughIndex(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "a.md", "#project/work note\n\n- [ ] ship it\n")

	tags := m.Tags(vaultquery.SortAlpha)
	if len(tags) != 1 || tags[0].Tag != "project/work" {
		t.Fatalf("got %+v", tags)
	}

	paths := m.NotesWithTag("project")
	if len(paths) != 1 || paths[0] != "a.md" {
		t.Fatalf("got %v", paths)
	}

	tasks := m.Tasks()
	if len(tasks) != 1 || tasks[0].Completed {
		t.Fatalf("got %+v", tasks)
	}

	result, err := m.ToggleTask("a.md", tasks[0].Line)
	if err != nil {
		t.Fatal(err)
	}
	if result.NewHash == result.OldHash {
		t.Fatal("expected content to change")
	}

	tasks = m.Tasks()
	if len(tasks) != 1 || !tasks[0].Completed {
		t.Fatalf("expected task toggled to done, got %+v", tasks)
	}
}

func TestPathsReflectsIndexedFiles(t *testing.T) {
	m := newTestVault(t)
	write(t, m, "a.md", "leaf")
	write(t, m, "b.md", "leaf")

	paths := m.Paths()
	if len(paths) != 2 {
		t.Fatalf("got %v", paths)
	}
}
