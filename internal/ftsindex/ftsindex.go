// Package ftsindex implements the full-text search index (D6): a
// black-box (path, score) lookup over vault note content backing
// cmdSearch-style queries. It is grounded on the retrieval pack's
// SQLite-FTS5-over-notes pattern (ryotapoi-mdhop, ali01-mnemosyne,
// Yakitrak-obsidian-cli, zach-snell-obx, weakphish-yapper all keep a
// searchable index alongside the parsed vault) and on
// theRebelliousNerd-codenerd's `database/sql` + `modernc.org/sqlite`
// wiring (cmd/query-kb/main.go: `sql.Open("sqlite", path)` over the
// pure-Go driver, no cgo).
package ftsindex

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/RamXX/vlt/internal/parser"
	"github.com/RamXX/vlt/internal/vlterrors"
)

const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS notes USING fts5(
	path UNINDEXED,
	title,
	body,
	tags
);
`

// Index is a SQLite FTS5-backed full-text index over vault notes. One
// Index instance owns one database connection (SetMaxOpenConns(1)), so
// concurrent calls, such as the Vault Manager's parallel scan upserts,
// are serialized by *sql.DB waiting for that connection.
type Index struct {
	db *sql.DB
}

// Open creates (or reopens) the FTS5 index at dbPath. Pass ":memory:"
// for an ephemeral, process-local index.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "open fts index %s", dbPath)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, vlterrors.Wrap(vlterrors.Io, err, "set wal mode")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, vlterrors.Wrap(vlterrors.Io, err, "create fts schema")
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Result is one ranked hit from a Search call.
type Result struct {
	Path  string
	Score float64
}

// Upsert replaces the indexed content for path with the given note body
// and its already-parsed structured data. Callers invoke this from the
// same re-parse step the Vault Manager runs after WriteFile/EditFile/Scan
// so the index never drifts from the Link Graph.
func (idx *Index) Upsert(ctx context.Context, path string, body []byte, note *parser.ParsedNote) error {
	title := noteTitle(note)
	tags := noteTags(note)

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "begin fts upsert for %s", path)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE path = ?", path); err != nil {
		tx.Rollback()
		return vlterrors.Wrap(vlterrors.Io, err, "clear fts row for %s", path)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO notes (path, title, body, tags) VALUES (?, ?, ?, ?)",
		path, title, string(body), tags,
	); err != nil {
		tx.Rollback()
		return vlterrors.Wrap(vlterrors.Io, err, "insert fts row for %s", path)
	}
	if err := tx.Commit(); err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "commit fts upsert for %s", path)
	}
	return nil
}

// Remove deletes path from the index, e.g. on DeleteFile or MoveFile's
// source path.
func (idx *Index) Remove(ctx context.Context, path string) error {
	if _, err := idx.db.ExecContext(ctx, "DELETE FROM notes WHERE path = ?", path); err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "remove %s from fts index", path)
	}
	return nil
}

// Search runs an FTS5 MATCH query and returns the top `limit` hits
// ranked by bm25 score (lower is better in SQLite's convention; Score
// here is the negated bm25 rank so higher is more relevant to callers).
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := idx.db.QueryContext(ctx,
		`SELECT path, bm25(notes) AS rank FROM notes WHERE notes MATCH ? ORDER BY rank LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "search fts index for %q", query)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var path string
		var rank float64
		if err := rows.Scan(&path, &rank); err != nil {
			return nil, vlterrors.Wrap(vlterrors.Io, err, "scan fts result")
		}
		out = append(out, Result{Path: path, Score: -rank})
	}
	if err := rows.Err(); err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "iterate fts results")
	}
	return out, nil
}

// Count returns the number of notes currently indexed.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.QueryRowContext(ctx, "SELECT count(*) FROM notes").Scan(&n); err != nil {
		return 0, vlterrors.Wrap(vlterrors.Io, err, "count fts rows")
	}
	return n, nil
}

func noteTitle(note *parser.ParsedNote) string {
	if note == nil {
		return ""
	}
	if note.Frontmatter != nil {
		if t, ok := note.Frontmatter.Fields["title"].(string); ok && t != "" {
			return t
		}
	}
	for _, h := range note.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	if len(note.Headings) > 0 {
		return note.Headings[0].Text
	}
	return ""
}

func noteTags(note *parser.ParsedNote) string {
	if note == nil {
		return ""
	}
	names := make([]string, 0, len(note.Tags))
	for _, t := range note.Tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, " ")
}
