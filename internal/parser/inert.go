package parser

import "regexp"

// The phase-1 CommonMark pass (commonmark.go) is the authority on
// code-excluded ranges. These patterns exist only as the "cheap sentinel
// check" pre-filter spec §4.3 calls for: before running an expensive
// phase-2 pattern, cheaply check whether its trigger characters occur at
// all, to avoid engine setup on plain prose. Adapted from the teacher's
// mask-based exclusion, which used to be the sole exclusion mechanism;
// here it only decides whether a scan is worth attempting.
var (
	doubleBracketSentinel = regexp.MustCompile(`\[\[`)
	hashSentinel          = regexp.MustCompile(`(?:^|[\s(])#`)
	calloutSentinel       = regexp.MustCompile(`(?m)^>\s*\[!`)
	taskSentinel          = regexp.MustCompile(`(?m)^[\t ]*- \[`)
)

func mightContainWikilinks(text string) bool { return doubleBracketSentinel.MatchString(text) }
func mightContainTags(text string) bool      { return hashSentinel.MatchString(text) }
func mightContainCallouts(text string) bool  { return calloutSentinel.MatchString(text) }
func mightContainTasks(text string) bool     { return taskSentinel.MatchString(text) }
