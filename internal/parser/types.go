// Package parser implements the two-phase hybrid Markdown + extended-syntax
// parser (component C3). Phase 1 runs a standard CommonMark pass (goldmark)
// to locate structural elements, task items and code-excluded regions;
// phase 2 scans the remaining text for wikilinks, embeds, tags, callouts,
// and frontmatter, skipping anything phase 1 marked as code-excluded.
package parser

import "github.com/RamXX/vlt/internal/posidx"

// LinkKind classifies a Link by its syntactic form and target shape.
type LinkKind string

const (
	WikiLink     LinkKind = "WikiLink"
	Embed        LinkKind = "Embed"
	MarkdownLink LinkKind = "MarkdownLink"
	ExternalLink LinkKind = "ExternalLink"
	HeadingRef   LinkKind = "HeadingRef"
	BlockRef     LinkKind = "BlockRef"
	Anchor       LinkKind = "Anchor"
)

// Link is a single cross-reference found in a note, before or after
// resolution by the link resolver (C4).
type Link struct {
	Kind            LinkKind
	SourcePath      string
	TargetRaw       string
	DisplayText     string
	HasDisplayText  bool
	Position        posidx.Position
	ResolvedTarget  string
	IsValid         bool
}

// Heading is a single `#`..`######` heading.
type Heading struct {
	Text     string
	Level    int
	Anchor   string
	Position posidx.Position
}

// Tag is a single inline #name occurrence; frontmatter tags are not
// reported here.
type Tag struct {
	Name     string
	Position posidx.Position
	IsNested bool
}

// TaskItem is a single `- [ ]`/`- [x]` checkbox line.
type TaskItem struct {
	Text          string
	IsCompleted   bool
	Position      posidx.Position
	IndentColumns int
}

// Callout is a `> [!TYPE]` blockquote annotation and its continuation
// lines.
type Callout struct {
	Kind      string
	Title     string
	HasTitle  bool
	BodyLines []string
	Position  posidx.Position
}

// Frontmatter is the YAML metadata block at the top of a note.
type Frontmatter struct {
	Fields   map[string]any
	Order    []string
	Position posidx.Position
}

// CodeRange is a byte-offset span excluded from phase-2 extension
// scanning: fenced/indented code blocks, inline code spans, raw HTML.
type CodeRange struct {
	Start int
	End   int
}

// ParsedNote is the complete structured result of parsing one note's
// content blob.
type ParsedNote struct {
	Frontmatter        *Frontmatter
	FrontmatterEndOffset int
	Headings           []Heading
	Links              []Link
	Tags               []Tag
	Tasks              []TaskItem
	Callouts           []Callout
	CodeExcludedRanges []CodeRange
	SizeBytes          int
	WordCount          int
}

// inCodeRange reports whether offset falls inside any recorded
// code-excluded range.
func inCodeRange(ranges []CodeRange, offset int) bool {
	// Ranges are produced in ascending order by the phase-1 walk; linear
	// scan is fine at typical note sizes and keeps this side-effect free.
	for _, r := range ranges {
		if offset >= r.Start && offset < r.End {
			return true
		}
		if r.Start > offset {
			break
		}
	}
	return false
}
