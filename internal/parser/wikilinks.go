package parser

import (
	"strings"

	"github.com/RamXX/vlt/internal/posidx"
	"regexp"
)

// wikiLinkPattern matches wikilinks and embeds: [[Title]], ![[Title]],
// [[Title#Heading]], [[Title#^block-id]], [[Title|Display]],
// [[#Heading]], [[#^block-id]]. Adapted from the teacher's
// wikiLinkPattern (wikilinks.go), unchanged in shape.
var wikiLinkPattern = regexp.MustCompile(`(!?)\[\[([^\]#|]*?)(?:#(\^?[^\]|]*))?(?:\|([^\]]*))?\]\]`)

// scanWikilinks runs the phase-2 wikilink/embed scanner over content,
// skipping any match whose start offset falls inside codeRanges.
func scanWikilinks(content string, idx *posidx.Index, codeRanges []CodeRange, sourcePath string) []Link {
	if !mightContainWikilinks(content) {
		return nil
	}

	var links []Link
	for _, m := range wikiLinkPattern.FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		if inCodeRange(codeRanges, start) {
			continue
		}

		embed := m[2] >= 0 && m[3] > m[2]
		title := strings.TrimSpace(submatch(content, m, 2))
		fragment := submatch(content, m, 3)
		display := submatch(content, m, 4)
		hasDisplay := m[8] >= 0

		target := title
		if fragment != "" {
			target = title + "#" + fragment
		}
		if target == "" && fragment == "" {
			continue
		}

		kind := classifyTarget(target, embed, true)

		links = append(links, Link{
			Kind:           kind,
			SourcePath:     sourcePath,
			TargetRaw:      target,
			DisplayText:    display,
			HasDisplayText: hasDisplay,
			Position:       idx.Position(start, end-start),
		})
	}
	return links
}

// submatch returns the text of regex submatch group g from a
// FindAllStringSubmatchIndex-style index slice, or "" if the group did
// not participate in the match.
func submatch(content string, m []int, g int) string {
	lo, hi := m[2*g], m[2*g+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return content[lo:hi]
}
