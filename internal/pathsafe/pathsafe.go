// Package pathsafe validates that a candidate path stays rooted inside a
// vault directory, rejecting traversal and escaping symlinks before any
// filesystem mutation is attempted.
package pathsafe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/RamXX/vlt/internal/vlterrors"
)

// ExpandHome expands a leading "~/" against the user's home directory,
// per the vault layout contract (spec §6). Paths without that prefix are
// returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Validate checks candidate (relative or absolute) against vaultRoot.
// It lexically normalizes "." and ".." without touching the filesystem,
// then — if the result exists — canonicalizes through symlinks and
// re-checks, so that a symlink escaping vaultRoot is rejected even when
// its lexical target looked safe.
//
// candidate may be given relative to vaultRoot or as an absolute path
// that is expected to fall under vaultRoot.
func Validate(vaultRoot, candidate string) (string, error) {
	root, err := filepath.Abs(ExpandHome(vaultRoot))
	if err != nil {
		return "", vlterrors.Wrap(vlterrors.InvalidPath, err, "cannot resolve vault root %q", vaultRoot)
	}

	candidate = ExpandHome(candidate)
	var joined string
	if filepath.IsAbs(candidate) {
		joined = candidate
	} else {
		joined = filepath.Join(root, candidate)
	}

	lexical := filepath.Clean(joined)
	if !withinRoot(root, lexical) {
		return "", vlterrors.New(vlterrors.PathTraversal, "path %q escapes vault root %q", candidate, root).WithPath(candidate)
	}

	// Canonicalize through symlinks when the path (or its closest existing
	// ancestor) exists, so a symlink hop out of the vault is caught.
	resolved, err := resolveSymlinks(lexical)
	if err != nil {
		return "", vlterrors.Wrap(vlterrors.Io, err, "cannot stat %q", lexical).WithPath(candidate)
	}
	if !withinRoot(root, resolved) {
		return "", vlterrors.New(vlterrors.PathTraversal, "symlink at %q escapes vault root %q", candidate, root).WithPath(candidate)
	}

	return lexical, nil
}

// withinRoot reports whether path is root itself or a descendant of root,
// comparing cleaned, separator-bounded paths.
func withinRoot(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if path == root {
		return true
	}
	prefix := root + string(filepath.Separator)
	return strings.HasPrefix(path, prefix)
}

// resolveSymlinks walks up from path to the nearest existing ancestor,
// resolves that ancestor with filepath.EvalSymlinks, and rejoins the
// non-existent suffix. This lets non-existent paths (about to be created)
// still be checked against symlinks already present in the tree.
func resolveSymlinks(path string) (string, error) {
	suffix := []string{}
	cur := path
	for {
		if _, err := os.Lstat(cur); err == nil {
			resolvedBase, err := filepath.EvalSymlinks(cur)
			if err != nil {
				return "", err
			}
			for i := len(suffix) - 1; i >= 0; i-- {
				resolvedBase = filepath.Join(resolvedBase, suffix[i])
			}
			return resolvedBase, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding an existing ancestor.
			return path, nil
		}
		suffix = append(suffix, filepath.Base(cur))
		cur = parent
	}
}

// RelativeTo returns path relative to root, using "/" separators
// regardless of OS, for use as a canonical vault-relative key.
func RelativeTo(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", vlterrors.Wrap(vlterrors.InvalidPath, err, "cannot relativize %q to %q", path, root)
	}
	return filepath.ToSlash(rel), nil
}
