package vaultquery

import (
	"testing"

	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/parser"
	"github.com/RamXX/vlt/internal/posidx"
	"github.com/RamXX/vlt/internal/vlterrors"
)

type fakeSource struct {
	notes map[string]*parser.ParsedNote
}

func (s *fakeSource) Paths() []string {
	var paths []string
	for p := range s.notes {
		paths = append(paths, p)
	}
	return paths
}

func (s *fakeSource) Note(path string) (*parser.ParsedNote, bool) {
	n, ok := s.notes[path]
	return n, ok
}

func newSource() *fakeSource {
	return &fakeSource{notes: map[string]*parser.ParsedNote{
		"a.md": {
			Tags: []parser.Tag{{Name: "Project/Work"}, {Name: "misc"}},
			Tasks: []parser.TaskItem{
				{Text: "write report", IsCompleted: false, Position: posidx.Position{Line: 3}},
			},
		},
		"b.md": {
			Frontmatter: &parser.Frontmatter{Fields: map[string]any{"tags": []any{"project"}}},
			Tags:        []parser.Tag{{Name: "misc"}},
		},
	}}
}

func TestTagsAggregatesAndDedupes(t *testing.T) {
	src := newSource()
	tags := Tags(src, SortAlpha)

	byTag := map[string]int{}
	for _, tc := range tags {
		byTag[tc.Tag] = tc.Count
	}
	if byTag["misc"] != 2 {
		t.Fatalf("expected misc count 2, got %d", byTag["misc"])
	}
	if byTag["project/work"] != 1 {
		t.Fatalf("expected project/work count 1, got %d", byTag["project/work"])
	}
}

func TestNotesWithTagMatchesSubtags(t *testing.T) {
	src := newSource()
	paths := NotesWithTag(src, "project")
	if len(paths) != 2 {
		t.Fatalf("expected 2 notes, got %v", paths)
	}
}

func TestTasksOrdersByPathThenLine(t *testing.T) {
	src := newSource()
	tasks := Tasks(src)
	if len(tasks) != 1 || tasks[0].Path != "a.md" {
		t.Fatalf("got %v", tasks)
	}
}

type fakeEditor struct {
	lastBlocks []editengine.Block
}

func (e *fakeEditor) EditFile(path string, blocks []editengine.Block, expectedHash string, dryRun bool) (*editengine.Result, error) {
	e.lastBlocks = blocks
	return &editengine.Result{}, nil
}

func TestToggleTaskBuildsCheckboxFlip(t *testing.T) {
	src := newSource()
	ed := &fakeEditor{}

	if _, err := ToggleTask(ed, src, "a.md", 3); err != nil {
		t.Fatal(err)
	}
	if len(ed.lastBlocks) != 1 {
		t.Fatalf("expected one block, got %d", len(ed.lastBlocks))
	}
	if ed.lastBlocks[0].Search != "- [ ] write report" {
		t.Fatalf("got search %q", ed.lastBlocks[0].Search)
	}
	if ed.lastBlocks[0].Replace != "- [x] write report" {
		t.Fatalf("got replace %q", ed.lastBlocks[0].Replace)
	}
}

func TestToggleTaskMissingLineReportsNotFound(t *testing.T) {
	src := newSource()
	ed := &fakeEditor{}
	_, err := ToggleTask(ed, src, "a.md", 99)
	if !vlterrors.Is(err, vlterrors.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
