// Package batch implements the batch executor (component C8): a closed
// set of file operations validated for conflicts, then executed
// all-or-nothing through a single Atomic File Ops transaction (spec §4.8).
package batch

import (
	"fmt"

	"github.com/RamXX/vlt/internal/atomicfile"
	"github.com/RamXX/vlt/internal/editengine"
	"github.com/RamXX/vlt/internal/vlterrors"
)

// Kind is one of the closed set of batchable operations.
type Kind string

const (
	CreateFile Kind = "CreateFile"
	WriteFile  Kind = "WriteFile"
	DeleteFile Kind = "DeleteFile"
	MoveFile   Kind = "MoveFile"
	CopyFile   Kind = "CopyFile"
	UpdateLinks Kind = "UpdateLinks"
	Edit       Kind = "Edit"
)

// Op is a single operation within a batch. Which fields are meaningful
// depends on Kind: Path is always the primary target; Dest is used by
// MoveFile/CopyFile; Content by CreateFile/WriteFile; EditBlocks/ExpectedHash
// by Edit; OldTarget/NewTarget by UpdateLinks.
type Op struct {
	Kind         Kind
	Path         string
	Dest         string
	Content      []byte
	EditBlocks   []editengine.Block
	ExpectedHash string
	OldTarget    string
	NewTarget    string
}

// Result is the outcome of executing a batch.
type Result struct {
	Success       bool
	ExecutedCount int
	FailingIndex  int
	Error         error
	EditResults   map[int]*editengine.Result
}

// ValidateConflicts implements the pre-flight conflict checks of spec §4.8,
// rejecting batches before any filesystem interaction. It returns a
// Conflict error describing the first conflict found, or nil.
func ValidateConflicts(ops []Op) error {
	destructiveTarget := map[string]int{} // path -> op index of a Delete/Move-source/overwrite
	createdPaths := map[string]bool{}
	moveDestinations := map[string]int{}
	deletedPaths := map[string]bool{}

	for i, op := range ops {
		switch op.Kind {
		case DeleteFile:
			if prev, ok := destructiveTarget[op.Path]; ok {
				return conflictErr(i, prev, op.Path)
			}
			destructiveTarget[op.Path] = i
			deletedPaths[op.Path] = true
		case MoveFile:
			if prev, ok := destructiveTarget[op.Path]; ok {
				return conflictErr(i, prev, op.Path)
			}
			destructiveTarget[op.Path] = i
			if prev, ok := moveDestinations[op.Dest]; ok {
				return conflictErr(i, prev, op.Dest)
			}
			moveDestinations[op.Dest] = i
		case CreateFile:
			if createdPaths[op.Path] {
				return conflictErr(i, -1, op.Path)
			}
			createdPaths[op.Path] = true
		case WriteFile:
			if prev, ok := destructiveTarget[op.Path]; ok {
				return conflictErr(i, prev, op.Path)
			}
			destructiveTarget[op.Path] = i
		case Edit:
			if deletedPaths[op.Path] {
				return vlterrors.New(vlterrors.Conflict, "edit on %s follows a delete of the same file", op.Path).WithReason(fmt.Sprintf("op %d", i))
			}
		}

		if dest := op.Dest; dest != "" {
			if prev, ok := moveDestinations[dest]; ok && prev != i {
				return conflictErr(i, prev, dest)
			}
		}
	}
	return nil
}

func conflictErr(i, prev int, path string) error {
	return vlterrors.New(vlterrors.Conflict, "operation %d conflicts with operation %d on path %s", i, prev, path).WithReason(path)
}

// Execute validates the batch, then applies every operation in submitted
// order under a single atomicfile.Transaction. Any failure rolls the whole
// transaction back and reports {success=false, executed_count,
// failing_index, error}.
func Execute(vaultRoot string, ops []Op) Result {
	if err := ValidateConflicts(ops); err != nil {
		return Result{Success: false, FailingIndex: -1, Error: err}
	}

	txn, err := atomicfile.Begin(vaultRoot)
	if err != nil {
		return Result{Success: false, FailingIndex: -1, Error: err}
	}

	editResults := map[int]*editengine.Result{}

	for i, op := range ops {
		if err := stage(txn, op, editResults, i); err != nil {
			txn.Rollback()
			return Result{Success: false, ExecutedCount: i, FailingIndex: i, Error: err}
		}
	}

	cr := txn.Commit()
	if cr.Err != nil {
		return Result{Success: false, ExecutedCount: cr.CommittedCount, FailingIndex: cr.FailingIndex, Error: cr.Err}
	}

	return Result{Success: true, ExecutedCount: len(ops), FailingIndex: -1, EditResults: editResults}
}

func stage(txn *atomicfile.Transaction, op Op, editResults map[int]*editengine.Result, index int) error {
	switch op.Kind {
	case CreateFile, WriteFile:
		return txn.StageWrite(op.Path, op.Content)
	case DeleteFile:
		return txn.StageDelete(op.Path)
	case CopyFile:
		data, err := atomicfile.Read(op.Path)
		if err != nil {
			return err
		}
		return txn.StageWrite(op.Dest, data)
	case MoveFile:
		data, err := atomicfile.Read(op.Path)
		if err != nil {
			return err
		}
		if err := txn.StageWrite(op.Dest, data); err != nil {
			return err
		}
		return txn.StageDelete(op.Path)
	case Edit:
		content, err := atomicfile.Read(op.Path)
		if err != nil {
			return err
		}
		result, err := editengine.Apply(content, op.EditBlocks, op.ExpectedHash)
		if err != nil {
			return err
		}
		editResults[index] = result
		return txn.StageWrite(op.Path, result.Content)
	case UpdateLinks:
		content, err := atomicfile.Read(op.Path)
		if err != nil {
			return err
		}
		updated := replaceLinkTarget(string(content), op.OldTarget, op.NewTarget)
		return txn.StageWrite(op.Path, []byte(updated))
	default:
		return vlterrors.New(vlterrors.ValidationError, "unknown batch operation kind %q", op.Kind)
	}
}
