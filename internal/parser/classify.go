package parser

import "strings"

// classifyTarget determines a Link's Kind from its raw target string and
// whether it was written as a wikilink ([[...]]/![[...]]) or a markdown
// URL ([text](url)), per spec §4.3's classification table.
func classifyTarget(target string, embed, isWikilink bool) LinkKind {
	if embed {
		return Embed
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "mailto:") {
		return ExternalLink
	}
	if strings.Contains(target, "#^") {
		return BlockRef
	}
	if strings.HasPrefix(target, "#") {
		return Anchor
	}
	if strings.Contains(target, "#") {
		return HeadingRef
	}
	if isWikilink {
		return WikiLink
	}
	return MarkdownLink
}
