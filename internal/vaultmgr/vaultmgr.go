// Package vaultmgr implements the Vault Manager (component C9): a
// concurrency-safe facade composing C2 (path safety) through C8 (batch
// executor) behind the coherent API described in spec §4.9. It holds the
// vault root, a concurrent parsed-file index, and the Link Graph, and
// keeps both up to date as files are scanned, written, edited, moved, or
// deleted.
package vaultmgr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/RamXX/vlt/internal/atomicfile"
	"github.com/RamXX/vlt/internal/batch"
	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/ftsindex"
	"github.com/RamXX/vlt/internal/graph"
	"github.com/RamXX/vlt/internal/logging"
	"github.com/RamXX/vlt/internal/parser"
	"github.com/RamXX/vlt/internal/pathsafe"
	"github.com/RamXX/vlt/internal/posidx"
	"github.com/RamXX/vlt/internal/resolver"
	"github.com/RamXX/vlt/internal/vaultquery"
	"github.com/RamXX/vlt/internal/vlterrors"
)

// Options configures a Manager beyond its vault root.
type Options struct {
	MaxFileSize     int        // bytes; 0 uses parser.DefaultMaxFileSize
	ScanConcurrency int        // max concurrently open files during Scan; 0 means unlimited
	ScanRateLimit   rate.Limit // files/sec throttle during Scan; 0 means unlimited
	Logger          *zap.Logger
	FTSPath         string // path to the full-text index database; "" disables D6 indexing
}

// Manager is the thread-safe vault facade. The parsed-file index is a
// concurrent map (entry-level atomic replacement); the Link Graph carries
// its own internal RWMutex. indexMu only protects resolver snapshot
// rebuilds, which must see a consistent index.
type Manager struct {
	Root    string
	opts    Options
	index   sync.Map // path -> *parser.ParsedNote
	graph   *graph.Graph
	indexMu sync.Mutex
	limiter *rate.Limiter
	log     *zap.Logger
	fts     *ftsindex.Index // nil when Options.FTSPath is empty
}

// New constructs a Manager rooted at vaultRoot. The root must already
// exist as a directory.
func New(vaultRoot string, opts Options) (*Manager, error) {
	info, err := os.Stat(vaultRoot)
	if err != nil || !info.IsDir() {
		return nil, vlterrors.New(vlterrors.InvalidPath, "vault root is not a directory").WithPath(vaultRoot)
	}
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = parser.DefaultMaxFileSize
	}

	var limiter *rate.Limiter
	if opts.ScanRateLimit > 0 {
		limiter = rate.NewLimiter(opts.ScanRateLimit, 1)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	var fts *ftsindex.Index
	if opts.FTSPath != "" {
		fts, err = ftsindex.Open(opts.FTSPath)
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		Root:    vaultRoot,
		opts:    opts,
		graph:   graph.New(),
		limiter: limiter,
		log:     log,
		fts:     fts,
	}, nil
}

// Close releases resources held by the Manager, including the full-text
// index connection if one was opened.
func (m *Manager) Close() error {
	if m.fts != nil {
		return m.fts.Close()
	}
	return nil
}

// resolvePath validates a vault-relative or absolute candidate against the
// vault root via C2, returning the absolute filesystem path.
func (m *Manager) resolvePath(candidate string) (string, error) {
	return pathsafe.Validate(m.Root, pathsafe.ExpandHome(candidate))
}

// relPath returns path relative to the vault root, slash-normalized, the
// canonical key used by the parsed-file index and the Link Graph.
func (m *Manager) relPath(absPath string) (string, error) {
	return pathsafe.RelativeTo(m.Root, absPath)
}

func (m *Manager) note(relPath string) (*parser.ParsedNote, bool) {
	v, ok := m.index.Load(relPath)
	if !ok {
		return nil, false
	}
	return v.(*parser.ParsedNote), true
}

// snapshot builds a resolver.Snapshot from the current parsed-file index.
func (m *Manager) snapshot() *resolver.Snapshot {
	var notes []resolver.NoteInfo
	m.index.Range(func(key, value any) bool {
		note := value.(*parser.ParsedNote)
		notes = append(notes, resolver.NoteInfo{
			Path:    key.(string),
			Aliases: parser.FrontmatterList(note.Frontmatter, "aliases"),
		})
		return true
	})
	return resolver.NewSnapshot(notes)
}

// ParseFile parses content under sourcePath (a vault-relative path) using
// the current max-file-size limit, without touching the index or graph.
func (m *Manager) ParseFile(content []byte, sourcePath string) (*parser.ParsedNote, error) {
	return parser.Parse(content, sourcePath, m.opts.MaxFileSize)
}

// updateIndexAndGraph re-parses rel's content, stores it in the index,
// rebuilds the resolver snapshot, resolves every link, and replaces rel's
// outgoing edges in the Link Graph.
func (m *Manager) updateIndexAndGraph(rel string, content []byte) (*parser.ParsedNote, error) {
	note, err := m.ParseFile(content, rel)
	if err != nil {
		return nil, err
	}

	m.index.Store(rel, note)
	m.graph.SetExists(rel, true)

	m.indexMu.Lock()
	snap := m.snapshot()
	m.indexMu.Unlock()

	edges := make([]graph.Edge, 0, len(note.Links))
	for i := range note.Links {
		link := &note.Links[i]
		link.SourcePath = rel
		snap.ResolveLink(link)
		if link.Kind == parser.ExternalLink {
			continue
		}
		target := link.ResolvedTarget
		if target == "" {
			continue
		}
		edges = append(edges, graph.Edge{Target: target, Kind: link.Kind, SourcePosition: link.Position})
	}
	m.graph.ReplaceEdgesOf(rel, edges)

	if m.fts != nil {
		if err := m.fts.Upsert(context.Background(), rel, content, note); err != nil {
			m.log.Warn("fts upsert failed", zap.String("path", rel), zap.Error(err))
		}
	}

	return note, nil
}

func (m *Manager) removeFromIndexAndGraph(rel string) {
	m.index.Delete(rel)
	m.graph.ReplaceEdgesOf(rel, nil)
	m.graph.SetExists(rel, false)
	if m.fts != nil {
		if err := m.fts.Remove(context.Background(), rel); err != nil {
			m.log.Warn("fts remove failed", zap.String("path", rel), zap.Error(err))
		}
	}
}

// Scan walks the vault root, parsing every Markdown file into the
// parsed-file index and replacing each scanned note's outgoing edges in
// the Link Graph; entries already held for files no longer on disk are
// not removed. Hidden directories and .trash are skipped, matching the
// teacher's existing walk conventions. Concurrency is bounded by Options.ScanConcurrency and
// throttled by Options.ScanRateLimit (D11).
func (m *Manager) Scan(ctx context.Context) error {
	var paths []string
	err := filepath.WalkDir(m.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || name == ".trash" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "walk vault root")
	}
	m.log.Info("scan starting", zap.Int("file_count", len(paths)), zap.String("root", m.Root))

	concurrency := m.opts.ScanConcurrency
	if concurrency <= 0 {
		concurrency = len(paths)
		if concurrency == 0 {
			concurrency = 1
		}
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	errs := make([]error, len(paths))

	for i, p := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if m.limiter != nil {
			if err := m.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			rel, err := m.relPath(path)
			if err != nil {
				errs[i] = err
				return
			}
			content, err := atomicfile.Read(path)
			if err != nil {
				errs[i] = err
				return
			}
			if _, err := m.updateIndexAndGraph(rel, content); err != nil {
				errs[i] = err
			}
		}(i, p)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			m.log.Error("scan failed", zap.Error(e))
			return e
		}
	}

	// Each parallel parse resolved its links against a partial index;
	// resolve every note's links again now that all of them are indexed.
	snap := m.snapshot()
	for _, rel := range m.Paths() {
		note, _ := m.note(rel)
		edges := make([]graph.Edge, 0, len(note.Links))
		for i := range note.Links {
			link := &note.Links[i]
			if snap.ResolveLink(link); link.Kind != parser.ExternalLink && link.ResolvedTarget != "" {
				edges = append(edges, graph.Edge{Target: link.ResolvedTarget, Kind: link.Kind, SourcePosition: link.Position})
			}
		}
		m.graph.ReplaceEdgesOf(rel, edges)
	}
	m.log.Info("scan complete", zap.Int("file_count", len(paths)))
	return nil
}

// ReadFile returns the raw content of a vault-relative path.
func (m *Manager) ReadFile(path string) ([]byte, error) {
	abs, err := m.resolvePath(path)
	if err != nil {
		return nil, err
	}
	return atomicfile.Read(abs)
}

// WriteFile atomically writes content to path (creating it if absent) and
// re-parses it to update the index and graph before returning.
func (m *Manager) WriteFile(path string, content []byte) error {
	abs, err := m.resolvePath(path)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(abs, content); err != nil {
		return err
	}
	rel, err := m.relPath(abs)
	if err != nil {
		return err
	}
	m.log.Info("wrote file", zap.String("path", rel), zap.Int("bytes", len(content)))
	_, err = m.updateIndexAndGraph(rel, content)
	return err
}

// EditFile applies a SEARCH/REPLACE edit payload to path via the Edit
// Engine (C7), writing the result atomically unless dryRun is set.
func (m *Manager) EditFile(path string, blocks []editengine.Block, expectedHash string, dryRun bool) (*editengine.Result, error) {
	abs, err := m.resolvePath(path)
	if err != nil {
		return nil, err
	}
	content, err := atomicfile.Read(abs)
	if err != nil {
		return nil, err
	}

	result, err := editengine.Apply(content, blocks, expectedHash)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return result, nil
	}

	if err := atomicfile.Write(abs, result.Content); err != nil {
		return nil, err
	}
	rel, err := m.relPath(abs)
	if err != nil {
		return nil, err
	}
	m.log.Info("edited file", zap.String("path", rel), zap.String("old_hash", result.OldHash), zap.String("new_hash", result.NewHash))
	if _, err := m.updateIndexAndGraph(rel, result.Content); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteFile removes path and drops it from the index and graph.
func (m *Manager) DeleteFile(path string) error {
	abs, err := m.resolvePath(path)
	if err != nil {
		return err
	}
	rel, err := m.relPath(abs)
	if err != nil {
		return err
	}
	if err := atomicfile.Delete(abs); err != nil {
		return err
	}
	m.removeFromIndexAndGraph(rel)
	return nil
}

// MoveFile relocates src to dst, updating the index and graph for both
// the vacated and the new path.
func (m *Manager) MoveFile(src, dst string) error {
	absSrc, err := m.resolvePath(src)
	if err != nil {
		return err
	}
	absDst, err := m.resolvePath(dst)
	if err != nil {
		return err
	}
	relSrc, err := m.relPath(absSrc)
	if err != nil {
		return err
	}

	if err := atomicfile.Move(absSrc, absDst); err != nil {
		return err
	}
	m.removeFromIndexAndGraph(relSrc)

	relDst, err := m.relPath(absDst)
	if err != nil {
		return err
	}
	content, err := atomicfile.Read(absDst)
	if err != nil {
		return err
	}
	_, err = m.updateIndexAndGraph(relDst, content)
	return err
}

// CopyFile duplicates src's content to dst, parsing and indexing dst.
func (m *Manager) CopyFile(src, dst string) error {
	absSrc, err := m.resolvePath(src)
	if err != nil {
		return err
	}
	absDst, err := m.resolvePath(dst)
	if err != nil {
		return err
	}
	if err := atomicfile.Copy(absSrc, absDst); err != nil {
		return err
	}
	relDst, err := m.relPath(absDst)
	if err != nil {
		return err
	}
	content, err := atomicfile.Read(absDst)
	if err != nil {
		return err
	}
	_, err = m.updateIndexAndGraph(relDst, content)
	return err
}

// ExecuteBatch resolves every operation's path(s) through Path Safety
// (C2), runs the batch through the Batch Executor (C8), then re-parses
// every successfully touched path to resynchronize the index and graph.
func (m *Manager) ExecuteBatch(ops []batch.Op) batch.Result {
	resolved := make([]batch.Op, len(ops))
	for i, op := range ops {
		abs, err := m.resolvePath(op.Path)
		if err != nil {
			return batch.Result{Success: false, FailingIndex: i, Error: err}
		}
		op.Path = abs
		if op.Dest != "" {
			absDst, err := m.resolvePath(op.Dest)
			if err != nil {
				return batch.Result{Success: false, FailingIndex: i, Error: err}
			}
			op.Dest = absDst
		}
		resolved[i] = op
	}

	result := batch.Execute(m.Root, resolved)
	if !result.Success {
		m.log.Warn("batch execution failed", zap.Int("failing_index", result.FailingIndex), zap.Error(result.Error))
		return result
	}
	m.log.Info("batch executed", zap.Int("op_count", len(ops)))

	touched := map[string]bool{}
	for _, op := range resolved {
		if p, err := m.relPath(op.Path); err == nil {
			touched[p] = true
		}
		if op.Dest != "" {
			if p, err := m.relPath(op.Dest); err == nil {
				touched[p] = true
			}
		}
	}
	for rel := range touched {
		abs := filepath.Join(m.Root, filepath.FromSlash(rel))
		content, err := atomicfile.Read(abs)
		if err != nil {
			m.removeFromIndexAndGraph(rel)
			continue
		}
		m.updateIndexAndGraph(rel, content)
	}
	return result
}

// Backlinks returns the distinct set of notes linking to path.
func (m *Manager) Backlinks(path string) []string { return m.graph.Backlinks(path) }

// ForwardLinks returns the distinct set of notes path links to.
func (m *Manager) ForwardLinks(path string) []string { return m.graph.ForwardLinks(path) }

// Related runs the bounded-hop undirected neighborhood query (C5).
func (m *Manager) Related(path string, maxHops int) []graph.RelatedNode {
	return m.graph.Related(path, maxHops)
}

// Orphans returns notes with no incoming or outgoing links.
func (m *Manager) Orphans() []string { return m.graph.Orphans() }

// Stats returns the Link Graph's derived connectivity statistics.
func (m *Manager) Stats() graph.Stats { return m.graph.StatsSnapshot() }

// BrokenLinks returns every edge whose target is not backed by a file.
func (m *Manager) BrokenLinks() []graph.Edge { return m.graph.BrokenLinks() }

// Search runs a full-text query (D6) over indexed note content, returning
// the top-ranked matching vault-relative paths. Returns ConfigError if no
// FTS index was configured via Options.FTSPath.
func (m *Manager) Search(ctx context.Context, query string, limit int) ([]ftsindex.Result, error) {
	if m.fts == nil {
		return nil, vlterrors.New(vlterrors.ConfigError, "full-text index not enabled for this vault")
	}
	return m.fts.Search(ctx, query, limit)
}

// Note returns the cached parsed representation of a vault-relative path,
// if it has been scanned or written since the last Scan.
func (m *Manager) Note(path string) (*parser.ParsedNote, bool) { return m.note(path) }

// Paths returns every vault-relative path currently held in the parsed-file
// index, in no particular order. Callers that need a stable order (tag and
// task listings, notably) sort the result themselves.
func (m *Manager) Paths() []string {
	var paths []string
	m.index.Range(func(key, _ any) bool {
		paths = append(paths, key.(string))
		return true
	})
	return paths
}

// Tags aggregates every tag across the vault (internal/vaultquery's tag
// query, layered on top of C3's per-note Tags/Frontmatter output).
func (m *Manager) Tags(sortBy vaultquery.SortBy) []vaultquery.TagCount {
	return vaultquery.Tags(m, sortBy)
}

// NotesWithTag returns notes tagged with tag or one of its subtags.
func (m *Manager) NotesWithTag(tag string) []string {
	return vaultquery.NotesWithTag(m, tag)
}

// Tasks lists every checkbox task across the vault.
func (m *Manager) Tasks() []vaultquery.Task {
	return vaultquery.Tasks(m)
}

// ToggleTask flips the checkbox state of the task at path:line through the
// edit engine.
func (m *Manager) ToggleTask(path string, line int) (*editengine.Result, error) {
	return vaultquery.ToggleTask(m, m, path, line)
}

// Position exposes the posidx line/column helper for a piece of content,
// used by callers (CLI, MCP tools) reporting positions outside the parser.
func Position(content []byte, offset, length int) posidx.Position {
	idx := posidx.New(content)
	return idx.Position(offset, length)
}
