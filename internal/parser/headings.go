package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRun = regexp.MustCompile(`\s+`)
var hyphenRun = regexp.MustCompile(`-{2,}`)

// HeadingAnchor derives a heading anchor deterministically from its text:
// lowercase, collapse whitespace runs to a single "-", drop characters
// that are neither alphanumeric nor "-", then collapse repeated "-" runs
// (spec §9 open question, resolved: collapse, matching common
// markdown-it/Obsidian anchor behavior).
func HeadingAnchor(text string) string {
	lower := strings.ToLower(text)
	collapsedWS := whitespaceRun.ReplaceAllString(lower, "-")

	var b strings.Builder
	for _, r := range collapsedWS {
		if r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return hyphenRun.ReplaceAllString(b.String(), "-")
}
