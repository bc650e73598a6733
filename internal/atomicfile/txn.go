package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RamXX/vlt/internal/vlterrors"
)

// opRecord is one staged mutation inside a Transaction.
type opRecord struct {
	path           string
	existedBefore  bool
	shadowPath     string // pre-image copy, set when existedBefore
	stagedPath     string // new content awaiting commit; empty for a delete
	deleteOnCommit bool
	committed      bool
}

// Transaction stages a sequence of file mutations under a per-transaction
// directory inside the vault root, and commits or rolls them all back
// together (spec §4.6, used by the Batch Executor, C8). Shadow copies of
// every touched file's pre-image are kept so a rollback can restore exact
// prior state even after a partial commit.
type Transaction struct {
	ID   string
	root string
	dir  string
	ops  []*opRecord
	done bool
}

// Begin creates a new transaction rooted under vaultRoot/.vlt/tx/<id>,
// kept on the same filesystem as vault content so every commit rename is
// atomic.
func Begin(vaultRoot string) (*Transaction, error) {
	id := NewTransactionID()
	dir := filepath.Join(vaultRoot, ".vlt", "tx", id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "create transaction directory")
	}
	return &Transaction{ID: id, root: vaultRoot, dir: dir}, nil
}

// StageWrite records an intent to write content to path, capturing a
// shadow copy of the current content (if any) for rollback.
func (t *Transaction) StageWrite(path string, content []byte) error {
	rec, err := t.shadow(path)
	if err != nil {
		return err
	}

	stagedPath := filepath.Join(t.dir, fmt.Sprintf("staged-%d", len(t.ops)))
	if err := Write(stagedPath, content); err != nil {
		return err
	}
	rec.stagedPath = stagedPath
	t.ops = append(t.ops, rec)
	return nil
}

// StageDelete records an intent to delete path, capturing its pre-image.
func (t *Transaction) StageDelete(path string) error {
	rec, err := t.shadow(path)
	if err != nil {
		return err
	}
	if !rec.existedBefore {
		return vlterrors.New(vlterrors.FileNotFound, "cannot delete nonexistent file").WithPath(path)
	}
	rec.deleteOnCommit = true
	t.ops = append(t.ops, rec)
	return nil
}

func (t *Transaction) shadow(path string) (*opRecord, error) {
	rec := &opRecord{path: path}
	data, err := os.ReadFile(path)
	if err == nil {
		rec.existedBefore = true
		shadowPath := filepath.Join(t.dir, fmt.Sprintf("shadow-%d", len(t.ops)))
		if err := Write(shadowPath, data); err != nil {
			return nil, err
		}
		rec.shadowPath = shadowPath
	} else if !os.IsNotExist(err) {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "read %s for shadow copy", path)
	}
	return rec, nil
}

// CommitResult reports how far a commit progressed.
type CommitResult struct {
	CommittedCount int
	FailingIndex   int
	Err            error
}

// Commit replaces every staged target by rename, in submission order. On
// the first failure it stops, rolls back everything committed so far (and
// any partially-applied target), and returns a CommitResult describing the
// failure point. The transaction directory is always cleaned up.
func (t *Transaction) Commit() CommitResult {
	defer t.cleanup()

	for i, rec := range t.ops {
		var err error
		if rec.deleteOnCommit {
			err = os.Remove(rec.path)
		} else {
			err = os.Rename(rec.stagedPath, rec.path)
		}
		if err != nil {
			t.rollback(i)
			return CommitResult{CommittedCount: i, FailingIndex: i, Err: vlterrors.Wrap(vlterrors.Io, err, "commit operation %d on %s", i, rec.path)}
		}
		rec.committed = true
	}
	t.done = true
	return CommitResult{CommittedCount: len(t.ops), FailingIndex: -1}
}

// Rollback restores every staged file to its pre-transaction state,
// whether or not it was committed. Safe to call standalone (e.g. batch
// pre-flight abort after some StageWrite calls but before Commit).
func (t *Transaction) Rollback() {
	defer t.cleanup()
	t.rollback(len(t.ops))
}

// rollback restores ops[0] through ops[upTo] inclusive (committed ones and
// staged deletes among them) to their pre-transaction state.
func (t *Transaction) rollback(upTo int) {
	for i := 0; i < upTo+1 && i < len(t.ops); i++ {
		rec := t.ops[i]
		if !rec.committed && !rec.deleteOnCommit {
			continue
		}
		if rec.existedBefore {
			os.Rename(rec.shadowPath, rec.path)
		} else if rec.committed || pathExists(rec.path) {
			os.Remove(rec.path)
		}
	}
	t.done = true
}

func (t *Transaction) cleanup() {
	os.RemoveAll(t.dir)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
