// Package templates applies note templates as a vault-maintenance utility
// layered on top of the Vault Manager, adapted from the teacher's
// templates.go: the same template-folder discovery and {{date}}/{{time}}/
// {{title}} substitution, now creating the resulting note through
// vaultmgr.Manager.WriteFile instead of a bare os.WriteFile so the new
// note is validated, size-checked, and picked up by the parsed-file index
// and Link Graph the same way any other write is.
package templates

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/RamXX/vlt/internal/vlterrors"
)

// Writer is the subset of vaultmgr.Manager templates needs: an atomic,
// index-updating write. Kept as an interface so this package stays
// independently testable without a full Manager.
type Writer interface {
	WriteFile(path string, content []byte) error
}

// DiscoverFolder determines the template folder for a vault. Discovery
// order: .obsidian/templates.json's "folder" key, then a default
// "templates/" directory if one exists.
func DiscoverFolder(vaultRoot string) (string, error) {
	configPath := filepath.Join(vaultRoot, ".obsidian", "templates.json")
	if data, err := os.ReadFile(configPath); err == nil {
		if folder, ok := jsonFolder(data); ok {
			return folder, nil
		}
	}

	defaultDir := filepath.Join(vaultRoot, "templates")
	if info, err := os.Stat(defaultDir); err == nil && info.IsDir() {
		return "templates", nil
	}

	return "", vlterrors.New(vlterrors.NotFound, "no template folder configured or found")
}

// List returns the relative paths (within the template folder) of every
// Markdown template file, sorted.
func List(vaultRoot string) ([]string, error) {
	folder, err := DiscoverFolder(vaultRoot)
	if err != nil {
		return nil, err
	}
	tmplDir := filepath.Join(vaultRoot, folder)

	var names []string
	err = filepath.WalkDir(tmplDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(tmplDir, path)
		if relErr != nil {
			return nil
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "walk template folder")
	}
	sort.Strings(names)
	return names, nil
}

// varPattern matches {{varname}} and {{varname:format}}.
var varPattern = regexp.MustCompile(`\{\{(date|time|title)(?::([^}]+))?\}\}`)

// Substitute replaces {{title}}, {{date}}, {{time}}, {{date:FORMAT}}, and
// {{time:FORMAT}} in content. Unknown variables are left untouched.
func Substitute(content, title string, now time.Time) string {
	return varPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := varPattern.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		name, format := sub[1], sub[2]
		switch name {
		case "title":
			return title
		case "date":
			if format != "" {
				return now.Format(momentToGoFormat(format))
			}
			return now.Format("2006-01-02")
		case "time":
			if format != "" {
				return now.Format(momentToGoFormat(format))
			}
			return now.Format("15:04")
		default:
			return match
		}
	})
}

// momentTokenReplacer maps Moment.js-style format tokens (as used by
// Obsidian's own template variables) to Go's reference-time layout,
// longest tokens first so e.g. "YYYY" is not partly consumed by "YY".
var momentTokenReplacer = strings.NewReplacer(
	"YYYY", "2006", "YY", "06",
	"MM", "01", "DD", "02",
	"HH", "15", "mm", "04", "ss", "05",
)

func momentToGoFormat(format string) string {
	return momentTokenReplacer.Replace(format)
}

// Apply reads templateName from the vault's template folder, substitutes
// its variables, and writes the result to notePath via w. Returns a
// ValidationError if notePath already exists on disk (callers should
// still expect WriteFile's own existence/path-safety checks to apply).
func Apply(w Writer, vaultRoot, templateName, noteName, notePath string) error {
	folder, err := DiscoverFolder(vaultRoot)
	if err != nil {
		return err
	}

	tmplPath := filepath.Join(vaultRoot, folder, templateName)
	if !strings.HasSuffix(tmplPath, ".md") {
		tmplPath += ".md"
	}
	data, err := os.ReadFile(tmplPath)
	if err != nil {
		return vlterrors.New(vlterrors.NotFound, "template %q not found in %s", templateName, folder)
	}

	fullPath := filepath.Join(vaultRoot, notePath)
	if _, err := os.Stat(fullPath); err == nil {
		return vlterrors.New(vlterrors.ValidationError, "note already exists: %s", notePath)
	}

	content := Substitute(string(data), noteName, time.Now())
	return w.WriteFile(notePath, []byte(content))
}

func jsonFolder(data []byte) (string, bool) {
	var raw struct {
		Folder string `json:"folder"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", false
	}
	return raw.Folder, raw.Folder != ""
}
