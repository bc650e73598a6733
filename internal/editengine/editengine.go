// Package editengine implements the hash-guarded SEARCH/REPLACE edit
// language (component C7): exact, whitespace-tolerant, and line-trim fuzzy
// matching, all-or-nothing application, and dry-run unified-diff preview
// (spec §4.7).
package editengine

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/RamXX/vlt/internal/vlterrors"
)

// Block is one SEARCH/REPLACE pair parsed from an edit payload.
type Block struct {
	Search  string
	Replace string
}

var blockPattern = regexp.MustCompile(`(?s)<<<<<<< SEARCH\r?\n(.*?)\r?\n=======\r?\n(.*?)\r?\n>>>>>>> REPLACE`)

// ParseBlocks extracts zero or more SEARCH/REPLACE blocks from an edit
// payload, in document order.
func ParseBlocks(payload string) []Block {
	matches := blockPattern.FindAllStringSubmatch(payload, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Search: m[1], Replace: m[2]})
	}
	return blocks
}

// Hash returns the hex-encoded SHA-256 of content, the unit the hash-guard
// and result payloads are expressed in.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Result is the outcome of a successful Apply.
type Result struct {
	OldHash string
	NewHash string
	Content []byte
	Diff    string
}

// Apply runs every block against content in order, all-or-nothing: the
// first failing block aborts the whole call without mutating content, and
// expectedHash (if non-empty) must match content's current hash before any
// block is attempted.
func Apply(content []byte, blocks []Block, expectedHash string) (*Result, error) {
	oldHash := Hash(content)
	if expectedHash != "" && expectedHash != oldHash {
		return nil, vlterrors.New(vlterrors.StaleHash, "content hash does not match expected_hash").WithReason(oldHash)
	}

	buf := string(content)
	for _, b := range blocks {
		next, err := applyBlock(buf, b)
		if err != nil {
			return nil, err
		}
		buf = next
	}

	diff, err := unifiedDiff(string(content), buf)
	if err != nil {
		return nil, vlterrors.Wrap(vlterrors.Io, err, "compute diff")
	}

	return &Result{
		OldHash: oldHash,
		NewHash: Hash([]byte(buf)),
		Content: []byte(buf),
		Diff:    diff,
	}, nil
}

func applyBlock(buf string, b Block) (string, error) {
	if idx, ok := uniqueIndex(strings.Count(buf, b.Search), buf, b.Search); ok {
		return buf[:idx] + b.Replace + buf[idx+len(b.Search):], nil
	} else if strings.Count(buf, b.Search) > 1 {
		return "", vlterrors.New(vlterrors.Ambiguous, "search text matches more than once")
	}

	if replaced, ok := applyWhitespaceTolerant(buf, b); ok {
		return replaced, nil
	}

	if replaced, ok := applyLineTrim(buf, b); ok {
		return replaced, nil
	}

	return "", vlterrors.New(vlterrors.NoMatch, "search text not found")
}

func uniqueIndex(count int, buf, search string) (int, bool) {
	if count != 1 {
		return 0, false
	}
	return strings.Index(buf, search), true
}

// applyWhitespaceTolerant collapses runs of whitespace to a single space in
// both buffer and search text, and if exactly one match results, translates
// the match location back to the original buffer's byte offsets.
func applyWhitespaceTolerant(buf string, b Block) (string, bool) {
	normBuf, mapping := collapseWhitespaceWithMapping(buf)
	normSearch, _ := collapseWhitespaceWithMapping(b.Search)
	if normSearch == "" {
		return "", false
	}

	count := strings.Count(normBuf, normSearch)
	if count != 1 {
		return "", false
	}

	normIdx := strings.Index(normBuf, normSearch)
	startOrig := mapping[normIdx]
	var endOrig int
	if normIdx+len(normSearch) < len(mapping) {
		endOrig = mapping[normIdx+len(normSearch)]
	} else {
		endOrig = len(buf)
	}

	return buf[:startOrig] + b.Replace + buf[endOrig:], true
}

// collapseWhitespaceWithMapping collapses every run of whitespace in s to a
// single space, returning the collapsed string plus a mapping from each
// byte offset in the collapsed string to the corresponding offset in s
// (mapping has len(result)+1 entries, the last being len(s)).
func collapseWhitespaceWithMapping(s string) (string, []int) {
	var b strings.Builder
	mapping := make([]int, 0, len(s)+1)
	inWS := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if !inWS {
				b.WriteByte(' ')
				mapping = append(mapping, i)
				inWS = true
			}
			continue
		}
		inWS = false
		b.WriteByte(c)
		mapping = append(mapping, i)
	}
	mapping = append(mapping, len(s))
	return b.String(), mapping
}

// applyLineTrim compares buf against b.Search line-by-line, ignoring
// leading/trailing whitespace on each line; exactly one contiguous window
// of lines matching is required.
func applyLineTrim(buf string, b Block) (string, bool) {
	searchLines := splitLinesTrimmed(b.Search)
	if len(searchLines) == 0 {
		return "", false
	}
	bufLines := splitLinesKeepEnds(buf)

	var matchStart = -1
	for i := 0; i+len(searchLines) <= len(bufLines); i++ {
		if linesMatchTrimmed(bufLines[i:i+len(searchLines)], searchLines) {
			if matchStart != -1 {
				return "", false // ambiguous at this tier; caller falls through to NoMatch
			}
			matchStart = i
		}
	}
	if matchStart == -1 {
		return "", false
	}

	prefix := joinLines(bufLines[:matchStart])
	suffix := joinLines(bufLines[matchStart+len(searchLines):])
	return prefix + b.Replace + suffix, true
}

func splitLinesTrimmed(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(strings.TrimSuffix(l, "\r"))
	}
	return out
}

// splitLinesKeepEnds splits s into lines, each retaining its trailing
// newline (the last line may have none), so the original can be
// reconstructed by concatenation.
func splitLinesKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func linesMatchTrimmed(window []string, searchLines []string) bool {
	for i, l := range window {
		trimmed := strings.TrimSpace(strings.TrimRight(l, "\r\n"))
		if trimmed != searchLines[i] {
			return false
		}
	}
	return true
}

func joinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
	}
	return b.String()
}

func unifiedDiff(before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
