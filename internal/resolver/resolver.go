// Package resolver implements the link resolver (component C4): mapping a
// link's raw target string to a canonical vault path, or leaving it
// unresolved, via the seven-rung precedence order from spec §4.4.
package resolver

import (
	"path/filepath"
	"strings"

	"github.com/RamXX/vlt/internal/parser"
)

// NoteInfo is the minimal per-note knowledge the resolver needs: its
// canonical vault-relative path, basename, and frontmatter aliases.
type NoteInfo struct {
	Path    string
	Aliases []string
}

// Snapshot is an immutable view of the vault's known paths, used to
// resolve links without re-walking the filesystem per call. Resolution
// against a fixed Snapshot is pure and idempotent, per spec §4.4.
type Snapshot struct {
	byExactPath   map[string]string // path or path without .md -> canonical path
	byBasename    map[string][]string
	byBasenameCI  map[string][]string
	byAlias       map[string][]string
	allPaths      map[string]bool
}

// NewSnapshot builds a Snapshot from the current set of known notes.
func NewSnapshot(notes []NoteInfo) *Snapshot {
	s := &Snapshot{
		byExactPath:  map[string]string{},
		byBasename:   map[string][]string{},
		byBasenameCI: map[string][]string{},
		byAlias:      map[string][]string{},
		allPaths:     map[string]bool{},
	}

	for _, n := range notes {
		s.allPaths[n.Path] = true
		s.byExactPath[n.Path] = n.Path
		withoutExt := strings.TrimSuffix(n.Path, ".md")
		if withoutExt != n.Path {
			s.byExactPath[withoutExt] = n.Path
		}

		base := filepath.Base(n.Path)
		s.byBasename[base] = append(s.byBasename[base], n.Path)
		baseNoExt := strings.TrimSuffix(base, ".md")
		if baseNoExt != base {
			s.byBasename[baseNoExt] = append(s.byBasename[baseNoExt], n.Path)
		}

		baseLower := strings.ToLower(base)
		s.byBasenameCI[baseLower] = append(s.byBasenameCI[baseLower], n.Path)
		baseNoExtLower := strings.ToLower(baseNoExt)
		if baseNoExtLower != baseLower {
			s.byBasenameCI[baseNoExtLower] = append(s.byBasenameCI[baseNoExtLower], n.Path)
		}

		for _, alias := range n.Aliases {
			key := strings.ToLower(alias)
			s.byAlias[key] = append(s.byAlias[key], n.Path)
		}
	}

	return s
}

// Resolve maps a link's raw target and its source file to a canonical
// vault path, following the precedence rungs of spec §4.4. Ambiguity (>1
// candidate at the chosen rung) is reported as unresolved ("", false).
func (s *Snapshot) Resolve(targetRaw, sourceFile string) (string, bool) {
	if targetRaw == "" {
		return "", false
	}

	// Rung 1: absolute-within-vault path, with or without .md.
	if strings.Contains(targetRaw, "/") {
		if canonical, ok := s.byExactPath[targetRaw]; ok {
			return canonical, true
		}
	}

	// Strip #heading / #^block suffix.
	name := targetRaw
	if idx := strings.Index(name, "#"); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		// [[#heading]] / [[#^block]] refer to the source file itself.
		return sourceFile, true
	}

	// Rung 1 repeated on the stripped name, in case the suffix carried the
	// only "/" in the original target.
	if strings.Contains(name, "/") {
		if canonical, ok := s.byExactPath[name]; ok {
			return canonical, true
		}
	}

	// Rung 3: exact basename match (with/without .md).
	if paths := dedupe(s.byBasename[name]); len(paths) == 1 {
		return paths[0], true
	} else if len(paths) > 1 {
		return "", false
	}

	// Rung 4: case-insensitive basename match.
	lower := strings.ToLower(name)
	if paths := dedupe(s.byBasenameCI[lower]); len(paths) == 1 {
		return paths[0], true
	} else if len(paths) > 1 {
		return "", false
	}

	// Rung 5: alias match.
	if paths := dedupe(s.byAlias[lower]); len(paths) == 1 {
		return paths[0], true
	} else if len(paths) > 1 {
		return "", false
	}

	// Rung 6: folder-qualified match relative to the source file's dir.
	dir := filepath.Dir(sourceFile)
	candidate := filepath.ToSlash(filepath.Join(dir, name))
	if s.allPaths[candidate] {
		return candidate, true
	}
	if s.allPaths[candidate+".md"] {
		return candidate + ".md", true
	}

	return "", false
}

// ResolveLink resolves a parser.Link in place, setting ResolvedTarget and
// IsValid. ExternalLink kinds are never resolved and are always valid.
func (s *Snapshot) ResolveLink(link *parser.Link) {
	if link.Kind == parser.ExternalLink {
		link.IsValid = true
		return
	}
	target, ok := s.Resolve(link.TargetRaw, link.SourcePath)
	if ok {
		link.ResolvedTarget = target
		link.IsValid = true
	} else {
		link.ResolvedTarget = ""
		link.IsValid = false
	}
}

func dedupe(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
