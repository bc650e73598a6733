package bookmarks

import (
	"testing"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	f, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Items) != 0 {
		t.Fatalf("expected empty items, got %v", f.Items)
	}
}

func TestAddSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if !Add(&f, "notes/a.md") {
		t.Fatal("expected Add to succeed")
	}
	if Add(&f, "notes/a.md") {
		t.Fatal("expected duplicate Add to report false")
	}
	if err := Save(dir, &f); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	paths := Flatten(reloaded.Items)
	if len(paths) != 1 || paths[0] != "notes/a.md" {
		t.Fatalf("got %v", paths)
	}
}

func TestRemoveDescendsIntoGroups(t *testing.T) {
	f := File{Items: []Item{
		{Type: "group", Title: "work", Items: []Item{
			{Type: "file", Path: "a.md"},
			{Type: "file", Path: "b.md"},
		}},
	}}

	if !Remove(&f, "b.md") {
		t.Fatal("expected Remove to find nested bookmark")
	}
	paths := Flatten(f.Items)
	if len(paths) != 1 || paths[0] != "a.md" {
		t.Fatalf("got %v", paths)
	}
	if Remove(&f, "missing.md") {
		t.Fatal("expected Remove of unknown path to report false")
	}
}
