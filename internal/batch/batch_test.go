package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/vlterrors"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateConflictsDeleteTwice(t *testing.T) {
	ops := []Op{
		{Kind: DeleteFile, Path: "a.md"},
		{Kind: DeleteFile, Path: "a.md"},
	}
	if err := ValidateConflicts(ops); !vlterrors.Is(err, vlterrors.Conflict) {
		t.Fatalf("want Conflict, got %v", err)
	}
}

func TestValidateConflictsMoveDestinationCollision(t *testing.T) {
	ops := []Op{
		{Kind: MoveFile, Path: "a.md", Dest: "c.md"},
		{Kind: MoveFile, Path: "b.md", Dest: "c.md"},
	}
	if err := ValidateConflicts(ops); !vlterrors.Is(err, vlterrors.Conflict) {
		t.Fatalf("want Conflict, got %v", err)
	}
}

func TestValidateConflictsEditAfterDelete(t *testing.T) {
	ops := []Op{
		{Kind: DeleteFile, Path: "a.md"},
		{Kind: Edit, Path: "a.md"},
	}
	if err := ValidateConflicts(ops); !vlterrors.Is(err, vlterrors.Conflict) {
		t.Fatalf("want Conflict, got %v", err)
	}
}

func TestValidateConflictsWriteThenDeleteSamePath(t *testing.T) {
	ops := []Op{
		{Kind: WriteFile, Path: "a.md", Content: []byte("1")},
		{Kind: DeleteFile, Path: "a.md"},
		{Kind: WriteFile, Path: "b.md", Content: []byte("2")},
	}
	if err := ValidateConflicts(ops); !vlterrors.Is(err, vlterrors.Conflict) {
		t.Fatalf("want Conflict, got %v", err)
	}
}

func TestValidateConflictsCleanBatchPasses(t *testing.T) {
	ops := []Op{
		{Kind: CreateFile, Path: "a.md"},
		{Kind: WriteFile, Path: "b.md"},
		{Kind: DeleteFile, Path: "c.md"},
	}
	if err := ValidateConflicts(ops); err != nil {
		t.Fatalf("expected no conflict, got %v", err)
	}
}

func TestExecuteCommitsAllOperations(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "existing.md", "old content")

	ops := []Op{
		{Kind: CreateFile, Path: filepath.Join(dir, "new.md"), Content: []byte("hello")},
		{Kind: WriteFile, Path: filepath.Join(dir, "existing.md"), Content: []byte("new content")},
	}

	result := Execute(dir, ops)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.ExecutedCount != 2 {
		t.Fatalf("executed count = %d, want 2", result.ExecutedCount)
	}

	data, err := os.ReadFile(filepath.Join(dir, "new.md"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("new.md content = %q, err=%v", data, err)
	}
	data, err = os.ReadFile(filepath.Join(dir, "existing.md"))
	if err != nil || string(data) != "new content" {
		t.Fatalf("existing.md content = %q, err=%v", data, err)
	}
}

func TestExecuteRollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.md", "original a")

	ops := []Op{
		{Kind: WriteFile, Path: filepath.Join(dir, "a.md"), Content: []byte("modified a")},
		{Kind: DeleteFile, Path: filepath.Join(dir, "does-not-exist.md")},
	}

	result := Execute(dir, ops)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.FailingIndex != 1 {
		t.Fatalf("failing index = %d, want 1", result.FailingIndex)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.md"))
	if err != nil || string(data) != "original a" {
		t.Fatalf("a.md should have been rolled back, got %q, err=%v", data, err)
	}
}

func TestExecuteEditOperation(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "note.md", "hello world")

	ops := []Op{
		{Kind: Edit, Path: filepath.Join(dir, "note.md"), EditBlocks: []editengine.Block{{Search: "world", Replace: "there"}}},
	}

	result := Execute(dir, ops)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.EditResults[0] == nil {
		t.Fatal("expected an edit result for op 0")
	}

	data, _ := os.ReadFile(filepath.Join(dir, "note.md"))
	if string(data) != "hello there" {
		t.Fatalf("got %q", data)
	}
}

func TestExecuteUpdateLinks(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "index.md", "see [[old-name]] for details")

	ops := []Op{
		{Kind: UpdateLinks, Path: filepath.Join(dir, "index.md"), OldTarget: "old-name", NewTarget: "new-name"},
	}

	result := Execute(dir, ops)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "index.md"))
	if string(data) != "see [[new-name]] for details" {
		t.Fatalf("got %q", data)
	}
}

func TestExecuteMoveFile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "src.md", "payload")

	ops := []Op{
		{Kind: MoveFile, Path: filepath.Join(dir, "src.md"), Dest: filepath.Join(dir, "dst.md")},
	}

	result := Execute(dir, ops)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if _, err := os.Stat(filepath.Join(dir, "src.md")); !os.IsNotExist(err) {
		t.Fatal("src.md should no longer exist")
	}
	data, err := os.ReadFile(filepath.Join(dir, "dst.md"))
	if err != nil || string(data) != "payload" {
		t.Fatalf("dst.md content = %q, err=%v", data, err)
	}
}
