// Package bookmarks manages Obsidian's .obsidian/bookmarks.json file as a
// vault-maintenance utility layered on top of the Vault Manager, adapted
// from the teacher's bookmarks.go: the same item/group JSON shape and
// flatten/contains/add/remove recursion, now writing through
// internal/atomicfile instead of a bare os.WriteFile so a crash mid-write
// can never leave bookmarks.json half-written.
package bookmarks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/RamXX/vlt/internal/atomicfile"
	"github.com/RamXX/vlt/internal/vlterrors"
)

// File is the top-level structure of .obsidian/bookmarks.json.
type File struct {
	Items []Item `json:"items"`
}

// Item is a single bookmark entry. Groups carry nested items.
type Item struct {
	Type  string `json:"type"`
	Ctime int64  `json:"ctime"`
	Path  string `json:"path,omitempty"`
	Title string `json:"title,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Path returns the filesystem path of bookmarks.json under vaultRoot.
func Path(vaultRoot string) string {
	return filepath.Join(vaultRoot, ".obsidian", "bookmarks.json")
}

// Load reads and parses bookmarks.json, returning an empty File (no error)
// if the file does not exist yet.
func Load(vaultRoot string) (File, error) {
	data, err := os.ReadFile(Path(vaultRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return File{Items: []Item{}}, nil
		}
		return File{}, vlterrors.Wrap(vlterrors.Io, err, "read bookmarks.json")
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, vlterrors.Wrap(vlterrors.ParseError, err, "parse bookmarks.json")
	}
	if f.Items == nil {
		f.Items = []Item{}
	}
	return f, nil
}

// Save writes f to .obsidian/bookmarks.json atomically, creating the
// .obsidian directory if needed.
func Save(vaultRoot string, f *File) error {
	dir := filepath.Join(vaultRoot, ".obsidian")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "create .obsidian directory")
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "marshal bookmarks.json")
	}
	return atomicfile.Write(Path(vaultRoot), data)
}

// Flatten recursively collects every file-type bookmark path, descending
// into groups, in document order.
func Flatten(items []Item) []string {
	var paths []string
	for _, item := range items {
		switch item.Type {
		case "file":
			paths = append(paths, item.Path)
		case "group":
			paths = append(paths, Flatten(item.Items)...)
		}
	}
	return paths
}

func contains(items []Item, path string) bool {
	for _, item := range items {
		if item.Type == "file" && item.Path == path {
			return true
		}
		if item.Type == "group" && contains(item.Items, path) {
			return true
		}
	}
	return false
}

// Add appends a file bookmark for path to the top-level items, reporting
// false if path is already bookmarked (no-op).
func Add(f *File, path string) bool {
	if contains(f.Items, path) {
		return false
	}
	f.Items = append(f.Items, Item{
		Type:  "file",
		Ctime: time.Now().UnixMilli(),
		Path:  path,
	})
	return true
}

// Remove deletes the file bookmark matching path, searching recursively
// into groups, reporting false if no match was found.
func Remove(f *File, path string) bool {
	return removeFrom(&f.Items, path)
}

func removeFrom(items *[]Item, path string) bool {
	for i, item := range *items {
		if item.Type == "file" && item.Path == path {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return true
		}
		if item.Type == "group" {
			if removeFrom(&(*items)[i].Items, path) {
				return true
			}
		}
	}
	return false
}
