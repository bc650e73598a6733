// Package vaultquery implements vault-wide read-only queries that span
// every parsed note: tag aggregation and task listing, adapted from the
// teacher's tags.go and tasks.go. Both were originally their own
// filepath.WalkDir passes that re-read and re-parsed every Markdown file
// from scratch; here they instead walk the Vault Manager's already-parsed
// index (component C3's output), since the manager keeps one parse per
// note in memory anyway. The teacher's Dataview/Tasks-plugin emoji
// metadata extraction (due dates, priorities, recurrence) is dropped: it
// amounts to evaluating a second metadata mini-language on top of the
// checkbox syntax, which strays into template/dataview expression
// evaluation the module explicitly stays out of. What remains -- listing
// and toggling checkbox tasks -- is a straight read of parser.TaskItem.
package vaultquery

import (
	"sort"
	"strings"

	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/parser"
	"github.com/RamXX/vlt/internal/vlterrors"
)

// NoteSource is the subset of vaultmgr.Manager tag and task queries need.
type NoteSource interface {
	Paths() []string
	Note(path string) (*parser.ParsedNote, bool)
}

// TagCount is one tag and the number of notes it appears in.
type TagCount struct {
	Tag   string
	Count int
}

// SortBy selects the ordering Tags returns results in.
type SortBy int

const (
	SortAlpha SortBy = iota
	SortCount
)

// Tags aggregates every tag (inline and frontmatter) across the vault,
// lower-cased and deduplicated per note, sorted per sortBy.
func Tags(src NoteSource, sortBy SortBy) []TagCount {
	counts := make(map[string]int)
	for _, path := range src.Paths() {
		note, ok := src.Note(path)
		if !ok {
			continue
		}
		for _, tag := range noteTags(note) {
			counts[tag]++
		}
	}

	result := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		result = append(result, TagCount{Tag: tag, Count: n})
	}

	switch sortBy {
	case SortCount:
		sort.Slice(result, func(i, j int) bool {
			if result[i].Count != result[j].Count {
				return result[i].Count > result[j].Count
			}
			return result[i].Tag < result[j].Tag
		})
	default:
		sort.Slice(result, func(i, j int) bool { return result[i].Tag < result[j].Tag })
	}
	return result
}

// NotesWithTag returns the sorted vault-relative paths of notes tagged
// with tag or any of its subtags (e.g. "project" matches "project/work"),
// matching case-insensitively.
func NotesWithTag(src NoteSource, tag string) []string {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))

	var paths []string
	for _, path := range src.Paths() {
		note, ok := src.Note(path)
		if !ok {
			continue
		}
		for _, t := range noteTags(note) {
			if t == tag || strings.HasPrefix(t, tag+"/") {
				paths = append(paths, path)
				break
			}
		}
	}
	sort.Strings(paths)
	return paths
}

func noteTags(note *parser.ParsedNote) []string {
	seen := make(map[string]bool)
	var result []string

	add := func(name string) {
		lower := strings.ToLower(name)
		if !seen[lower] {
			seen[lower] = true
			result = append(result, lower)
		}
	}

	for _, t := range note.Tags {
		add(t.Name)
	}
	for _, t := range parser.FrontmatterList(note.Frontmatter, "tags") {
		add(t)
	}
	return result
}

// Task is one checkbox item located somewhere in the vault.
type Task struct {
	Path      string
	Line      int
	Text      string
	Completed bool
}

// Tasks lists every checkbox task across the vault, ordered by path then
// line number.
func Tasks(src NoteSource) []Task {
	var tasks []Task
	for _, path := range src.Paths() {
		note, ok := src.Note(path)
		if !ok {
			continue
		}
		for _, item := range note.Tasks {
			tasks = append(tasks, Task{
				Path:      path,
				Line:      item.Position.Line,
				Text:      item.Text,
				Completed: item.IsCompleted,
			})
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Path != tasks[j].Path {
			return tasks[i].Path < tasks[j].Path
		}
		return tasks[i].Line < tasks[j].Line
	})
	return tasks
}

// Editor is the subset of vaultmgr.Manager ToggleTask needs: an editing
// entry point guarded by the same SEARCH/REPLACE hash-matching machinery
// every other mutation goes through.
type Editor interface {
	EditFile(path string, blocks []editengine.Block, expectedHash string, dryRun bool) (*editengine.Result, error)
}

// ToggleTask flips the checkbox state of the task at line (1-based) in
// path between "- [ ]" and "- [x]", applied through the edit engine's
// SEARCH/REPLACE path so the change is all-or-nothing like any other edit.
// No expected hash is passed, so the edit is not hash-guarded.
func ToggleTask(ed Editor, src NoteSource, path string, line int) (*editengine.Result, error) {
	note, ok := src.Note(path)
	if !ok {
		return nil, vlterrors.New(vlterrors.NotFound, "note not indexed: %s", path)
	}

	for _, item := range note.Tasks {
		if item.Position.Line != line {
			continue
		}
		search := checkboxLine(item.IndentColumns, item.Text, item.IsCompleted)
		replace := checkboxLine(item.IndentColumns, item.Text, !item.IsCompleted)
		block := editengine.Block{Search: search, Replace: replace}
		return ed.EditFile(path, []editengine.Block{block}, "", false)
	}
	return nil, vlterrors.New(vlterrors.NotFound, "no task at %s:%d", path, line)
}

func checkboxLine(indent int, text string, completed bool) string {
	mark := " "
	if completed {
		mark = "x"
	}
	return strings.Repeat(" ", indent) + "- [" + mark + "] " + text
}
