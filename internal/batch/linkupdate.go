package batch

import "regexp"

// wikilinkTargetPattern captures the title portion of a [[target]] or
// [[target#heading|display]] wikilink, ignoring any embed marker.
var wikilinkTargetPattern = regexp.MustCompile(`(!?\[\[)([^\]#|]*)`)

// markdownLinkTargetPattern captures the destination portion of a
// [display](target) Markdown link.
var markdownLinkTargetPattern = regexp.MustCompile(`(\]\()([^)\s]*)(\s*\))`)

// replaceLinkTarget rewrites every wikilink or Markdown-link reference to
// oldTarget within content so it instead points at newTarget, used by the
// UpdateLinks batch operation (spec §4.8) after a note move/rename.
func replaceLinkTarget(content, oldTarget, newTarget string) string {
	content = wikilinkTargetPattern.ReplaceAllStringFunc(content, func(m string) string {
		sub := wikilinkTargetPattern.FindStringSubmatch(m)
		if sub[2] == oldTarget {
			return sub[1] + newTarget
		}
		return m
	})
	content = markdownLinkTargetPattern.ReplaceAllStringFunc(content, func(m string) string {
		sub := markdownLinkTargetPattern.FindStringSubmatch(m)
		if sub[2] == oldTarget {
			return sub[1] + newTarget + sub[3]
		}
		return m
	})
	return content
}
