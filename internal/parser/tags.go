package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/RamXX/vlt/internal/posidx"
)

// tagPattern matches inline tags: #name preceded by whitespace, "(", or
// start of line. Name alphabet is [A-Za-z0-9_/-] per spec §3/§6; the
// teacher's tagPattern additionally accepted Unicode letters/digits
// (\p{L}\p{N}) which spec §9 leaves as an open configuration question —
// resolved here in favor of the broader Unicode alphabet, matching the
// teacher.
var tagPattern = regexp.MustCompile(`(^|[\s(])#([\p{L}\p{N}_/-]+)`)

// scanTags runs the phase-2 tag scanner, skipping matches inside
// codeRanges and pure-numeric tags (Obsidian requires at least one
// letter).
func scanTags(content string, idx *posidx.Index, codeRanges []CodeRange) []Tag {
	if !mightContainTags(content) {
		return nil
	}

	var tags []Tag
	for _, m := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		nameStart, nameEnd := m[4], m[5]
		if nameStart < 0 {
			continue
		}
		name := content[nameStart:nameEnd]
		if !hasLetter(name) {
			continue
		}
		// The "#" itself sits immediately before the name.
		hashOffset := nameStart - 1
		if inCodeRange(codeRanges, hashOffset) {
			continue
		}
		tags = append(tags, Tag{
			Name:     name,
			Position: idx.Position(hashOffset, nameEnd-hashOffset),
			IsNested: strings.Contains(name, "/"),
		})
	}
	return tags
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
