package pathsafe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RamXX/vlt/internal/vlterrors"
)

func TestValidateRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	_, err := Validate(root, "../outside.md")
	if err == nil {
		t.Fatal("expected traversal error, got nil")
	}
	if !vlterrors.Is(err, vlterrors.PathTraversal) {
		t.Fatalf("expected PathTraversal kind, got %v", err)
	}
}

func TestValidateAcceptsInsideRoot(t *testing.T) {
	root := t.TempDir()
	got, err := Validate(root, "notes/a.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "notes", "a.md")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestValidateAllowsNonExistentPath(t *testing.T) {
	root := t.TempDir()
	_, err := Validate(root, "new/does-not-exist.md")
	if err != nil {
		t.Fatalf("unexpected error for non-existent path: %v", err)
	}
}

func TestValidateRejectsEscapingSymlink(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	_, err := Validate(root, "escape/file.md")
	if err == nil {
		t.Fatal("expected error for escaping symlink")
	}
	if !vlterrors.Is(err, vlterrors.PathTraversal) {
		t.Fatalf("expected PathTraversal, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir available")
	}
	got := ExpandHome("~/vaults/main")
	want := filepath.Join(home, "vaults", "main")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRelativeTo(t *testing.T) {
	root := "/vault"
	rel, err := RelativeTo(root, "/vault/folder/note.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel != "folder/note.md" {
		t.Fatalf("got %q", rel)
	}
}
