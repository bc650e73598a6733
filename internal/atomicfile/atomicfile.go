// Package atomicfile implements atomic file operations (component C6):
// write-temp-then-rename, copy, move, delete, and a transaction log with
// shadow-copy rollback for multi-file batches (spec §4.6).
package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/RamXX/vlt/internal/vlterrors"
)

const defaultPerm = 0o644

// Write atomically replaces path's content with data: a temp file is
// created in path's own directory (required for same-filesystem rename
// atomicity), written, fsynced, then renamed over the target. Any error
// before the rename leaves the target untouched and removes the temp file.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vlt-tmp-*")
	if err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "create temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return vlterrors.Wrap(vlterrors.Io, err, "write temp file %s", tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return vlterrors.Wrap(vlterrors.Io, err, "fsync temp file %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "close temp file %s", tmpPath)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		os.Chmod(tmpPath, info.Mode())
	} else {
		os.Chmod(tmpPath, defaultPerm)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return vlterrors.Wrap(vlterrors.Io, err, "rename temp file over %s", path).WithPath(path)
	}
	ok = true
	return nil
}

// Read reads path's full content, translating a missing file into a
// FileNotFound error.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, vlterrors.New(vlterrors.FileNotFound, "file not found").WithPath(path)
		}
		return nil, vlterrors.Wrap(vlterrors.Io, err, "read %s", path).WithPath(path)
	}
	return data, nil
}

// Copy duplicates src's content to dst atomically via Write.
func Copy(src, dst string) error {
	data, err := Read(src)
	if err != nil {
		return err
	}
	return Write(dst, data)
}

// Move relocates src to dst. A same-filesystem rename is attempted first;
// on a cross-device error it falls back to copy-then-delete.
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && linkErr.Err == syscall.EXDEV {
			if err := Copy(src, dst); err != nil {
				return err
			}
			return Delete(src)
		}
		if errors.Is(err, os.ErrNotExist) {
			return vlterrors.New(vlterrors.FileNotFound, "source file not found").WithPath(src)
		}
		return vlterrors.Wrap(vlterrors.Io, err, "move %s to %s", src, dst).WithPath(src)
	}
	return nil
}

// Delete removes path.
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return vlterrors.New(vlterrors.FileNotFound, "file not found").WithPath(path)
		}
		return vlterrors.Wrap(vlterrors.Io, err, "delete %s", path).WithPath(path)
	}
	return nil
}

// NewTransactionID returns a fresh identifier for a batch transaction,
// used both for the shadow-copy directory name and for caller-visible
// batch reporting.
func NewTransactionID() string {
	return uuid.NewString()
}
