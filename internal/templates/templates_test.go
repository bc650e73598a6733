package templates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RamXX/vlt/internal/vlterrors"
)

type fakeWriter struct {
	written map[string][]byte
}

func (w *fakeWriter) WriteFile(path string, content []byte) error {
	if w.written == nil {
		w.written = map[string][]byte{}
	}
	w.written[path] = content
	return nil
}

func TestSubstituteKnownVariables(t *testing.T) {
	now := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	out := Substitute("# {{title}}\ncreated {{date}} at {{time}}\n", "My Note", now)
	want := "# My Note\ncreated 2026-03-05 at 14:30\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestSubstituteCustomFormat(t *testing.T) {
	now := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	out := Substitute("{{date:YYYY/MM/DD}}", "", now)
	if out != "2026/03/05" {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteLeavesUnknownVariables(t *testing.T) {
	out := Substitute("{{foo}}", "x", time.Now())
	if out != "{{foo}}" {
		t.Fatalf("got %q", out)
	}
}

func TestDiscoverFolderDefaultsToTemplatesDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	folder, err := DiscoverFolder(dir)
	if err != nil {
		t.Fatal(err)
	}
	if folder != "templates" {
		t.Fatalf("got %q", folder)
	}
}

func TestDiscoverFolderMissingReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := DiscoverFolder(dir)
	if !vlterrors.Is(err, vlterrors.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestApplyWritesSubstitutedNote(t *testing.T) {
	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	if err := os.Mkdir(tmplDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmplDir, "daily.md"), []byte("# {{title}}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &fakeWriter{}
	if err := Apply(w, dir, "daily", "2026-03-05", "2026-03-05.md"); err != nil {
		t.Fatal(err)
	}
	if string(w.written["2026-03-05.md"]) != "# 2026-03-05\n" {
		t.Fatalf("got %q", w.written["2026-03-05.md"])
	}
}

func TestApplyRejectsExistingNote(t *testing.T) {
	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	if err := os.Mkdir(tmplDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmplDir, "daily.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "existing.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &fakeWriter{}
	err := Apply(w, dir, "daily", "x", "existing.md")
	if !vlterrors.Is(err, vlterrors.ValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
