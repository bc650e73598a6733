package parser

import (
	"sort"
	"unicode"

	"github.com/RamXX/vlt/internal/posidx"
	"github.com/RamXX/vlt/internal/vlterrors"
)

// DefaultMaxFileSize bounds the size of a single file this parser will
// attempt to process, per spec §5's resource bound: parsing fails with
// FileTooLarge before allocation of large buffers.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MiB

// Parse runs the full two-phase parse over content, producing a
// ParsedNote. sourcePath is recorded on every Link so downstream callers
// (the link resolver, the graph) know the edge's origin. maxFileSize <= 0
// falls back to DefaultMaxFileSize.
func Parse(content []byte, sourcePath string, maxFileSize int) (*ParsedNote, error) {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if len(content) > maxFileSize {
		return nil, vlterrors.New(vlterrors.FileTooLarge, "file exceeds maximum size of %d bytes", maxFileSize).
			WithPath(sourcePath).WithSize(int64(len(content)))
	}

	idx := posidx.New(content)
	text := string(content)

	p1 := runPhase1(content, idx)

	fm, fmEnd := parseFrontmatter(text, idx)

	var links []Link
	for _, raw := range p1.mdLinks {
		kind := classifyTarget(raw.destination, false, false)
		links = append(links, Link{
			Kind:           kind,
			SourcePath:     sourcePath,
			TargetRaw:      raw.destination,
			DisplayText:    raw.displayText,
			HasDisplayText: raw.hasDisplay,
			Position:       idx.Position(raw.offset, raw.length),
		})
	}
	links = append(links, scanWikilinks(text, idx, p1.codeRanges, sourcePath)...)
	sort.Slice(links, func(i, j int) bool { return links[i].Position.ByteOffset < links[j].Position.ByteOffset })

	tags := scanTags(text, idx, p1.codeRanges)
	callouts := scanCallouts(text, idx, p1.codeRanges)

	note := &ParsedNote{
		Frontmatter:          fm,
		FrontmatterEndOffset: fmEnd,
		Headings:             p1.headings,
		Links:                links,
		Tags:                 tags,
		Tasks:                p1.tasks,
		Callouts:             callouts,
		CodeExcludedRanges:   p1.codeRanges,
		SizeBytes:            len(content),
		WordCount:            countWords(content),
	}
	return note, nil
}

func countWords(content []byte) int {
	count := 0
	inWord := false
	for _, r := range string(content) {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
