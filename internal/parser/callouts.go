package parser

import (
	"regexp"
	"strings"

	"github.com/RamXX/vlt/internal/posidx"
)

// calloutOpenPattern matches a callout's opening line: "> [!TYPE]" with an
// optional title following on the same line.
var calloutOpenPattern = regexp.MustCompile(`^>\s*\[!([A-Za-z0-9_-]+)\]\s*(.*)$`)

// scanCallouts runs the phase-2 callout scanner: a callout opens on a line
// matching "> [!TYPE]( TITLE)?" and continues on subsequent lines
// beginning with ">".
func scanCallouts(content string, idx *posidx.Index, codeRanges []CodeRange) []Callout {
	if !mightContainCallouts(content) {
		return nil
	}

	lines := strings.Split(content, "\n")
	var callouts []Callout

	i := 0
	for i < len(lines) {
		m := calloutOpenPattern.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		lineStart := idx.LineStart(i + 1)
		if inCodeRange(codeRanges, lineStart) {
			i++
			continue
		}

		kind := strings.ToLower(m[1])
		title := strings.TrimSpace(m[2])

		var body []string
		j := i + 1
		for j < len(lines) && strings.HasPrefix(strings.TrimLeft(lines[j], " \t"), ">") {
			trimmed := strings.TrimPrefix(strings.TrimLeft(lines[j], " \t"), ">")
			trimmed = strings.TrimPrefix(trimmed, " ")
			body = append(body, trimmed)
			j++
		}

		endLine := j - 1
		if endLine < i {
			endLine = i
		}
		startOffset := idx.LineStart(i + 1)
		endOffset := idx.LineEnd(endLine + 1)

		callouts = append(callouts, Callout{
			Kind:      kind,
			Title:     title,
			HasTitle:  title != "",
			BodyLines: body,
			Position:  idx.Position(startOffset, endOffset-startOffset),
		})

		i = j
	}

	return callouts
}
