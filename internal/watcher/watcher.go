// Package watcher implements the fs-event-to-rescan trigger (D4) via
// `fsnotify/fsnotify`, grounded on the watch-then-rescan pattern common
// across the retrieval pack's vault tools (mdnotes, tapper,
// Yakitrak-obsidian-cli, obsfind all watch the vault root for changes).
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/RamXX/vlt/internal/vlterrors"
)

func fsInfo(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Event is a debounced filesystem change notification for a single
// Markdown file.
type Event struct {
	Path string // absolute path
	Op   fsnotify.Op
}

// Watcher wraps fsnotify with a coarse per-file debounce so rapid save
// sequences (common with editors that write-then-rename) coalesce into a
// single rescan trigger.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// New starts watching root (recursively, following newly created
// subdirectories) for Markdown file changes.
func New(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "create fs watcher")
	}

	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{fsw: fsw, debounce: debounce}, nil
}

// addRecursive registers a watch on root and every non-hidden
// subdirectory, since fsnotify does not watch subtrees automatically.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != filepath.Base(root) && (strings.HasPrefix(name, ".") || name == ".trash") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "watch %s recursively", root)
	}
	return nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Events returns a channel of debounced Markdown file change events.
// Non-.md files and hidden/.trash directories are filtered at the source.
// A Create event for a new directory is watched immediately so nested
// notes are picked up without a full rescan.
func (w *Watcher) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	pending := map[string]*time.Timer{}

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create != 0 {
					if info, err := fsInfo(ev.Name); err == nil && info.IsDir() {
						addRecursive(w.fsw, ev.Name)
						continue
					}
				}
				if !strings.HasSuffix(ev.Name, ".md") {
					continue
				}
				if strings.Contains(ev.Name, string(filepath.Separator)+".") {
					continue
				}
				path := ev.Name
				op := ev.Op
				if t, exists := pending[path]; exists {
					t.Stop()
				}
				pending[path] = time.AfterFunc(w.debounce, func() {
					select {
					case out <- Event{Path: path, Op: op}:
					case <-ctx.Done():
					}
				})
			case <-w.fsw.Errors:
				// Best-effort: a watcher error does not terminate the stream;
				// the caller's next Scan reconciles any missed events.
			}
		}
	}()

	return out
}
