package editengine

import (
	"strings"
	"testing"

	"github.com/RamXX/vlt/internal/vlterrors"
)

func TestParseBlocksSingle(t *testing.T) {
	payload := "<<<<<<< SEARCH\nfoo\n=======\nbar\n>>>>>>> REPLACE"
	blocks := ParseBlocks(payload)
	if len(blocks) != 1 || blocks[0].Search != "foo" || blocks[0].Replace != "bar" {
		t.Fatalf("got %+v", blocks)
	}
}

func TestParseBlocksMultiple(t *testing.T) {
	payload := strings.Join([]string{
		"<<<<<<< SEARCH", "one", "=======", "1", ">>>>>>> REPLACE",
		"<<<<<<< SEARCH", "two", "=======", "2", ">>>>>>> REPLACE",
	}, "\n")
	blocks := ParseBlocks(payload)
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}
}

func TestApplyExactMatch(t *testing.T) {
	content := []byte("hello world\n")
	result, err := Apply(content, []Block{{Search: "world", Replace: "there"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if string(result.Content) != "hello there\n" {
		t.Fatalf("got %q", result.Content)
	}
	if result.OldHash == result.NewHash {
		t.Fatal("hash should change")
	}
}

func TestApplyAmbiguousExactMatch(t *testing.T) {
	content := []byte("foo bar foo")
	_, err := Apply(content, []Block{{Search: "foo", Replace: "baz"}}, "")
	if !vlterrors.Is(err, vlterrors.Ambiguous) {
		t.Fatalf("want Ambiguous, got %v", err)
	}
}

func TestApplyStaleHash(t *testing.T) {
	content := []byte("hello")
	_, err := Apply(content, []Block{{Search: "hello", Replace: "bye"}}, "deadbeef")
	if !vlterrors.Is(err, vlterrors.StaleHash) {
		t.Fatalf("want StaleHash, got %v", err)
	}
}

func TestApplyCorrectHashSucceeds(t *testing.T) {
	content := []byte("hello")
	h := Hash(content)
	result, err := Apply(content, []Block{{Search: "hello", Replace: "bye"}}, h)
	if err != nil {
		t.Fatal(err)
	}
	if string(result.Content) != "bye" {
		t.Fatalf("got %q", result.Content)
	}
}

func TestApplyWhitespaceTolerant(t *testing.T) {
	content := []byte("func  foo()   {\n  return\n}\n")
	result, err := Apply(content, []Block{{Search: "func foo() {\nreturn\n}", Replace: "func foo() {\nreturn nil\n}"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(result.Content), "return nil") {
		t.Fatalf("got %q", result.Content)
	}
}

func TestApplyLineTrimMatchDirect(t *testing.T) {
	// Exercises the line-trim tier in isolation: each line's leading and
	// trailing whitespace differs from the search text, but the exact
	// and whitespace-tolerant tiers are bypassed by calling it directly.
	buf := "prefix\n  indented line one  \n\tindented line two\t\nsuffix\n"
	search := Block{Search: "indented line one\nindented line two", Replace: "replaced"}

	replaced, ok := applyLineTrim(buf, search)
	if !ok {
		t.Fatal("expected a unique line-trim match")
	}
	if !strings.Contains(replaced, "replaced") || strings.Contains(replaced, "indented line") {
		t.Fatalf("got %q", replaced)
	}
}

func TestApplyNoMatch(t *testing.T) {
	content := []byte("hello world")
	_, err := Apply(content, []Block{{Search: "nonexistent", Replace: "x"}}, "")
	if !vlterrors.Is(err, vlterrors.NoMatch) {
		t.Fatalf("want NoMatch, got %v", err)
	}
}

func TestApplyAllOrNothingDiscardsOnFailure(t *testing.T) {
	content := []byte("hello world")
	blocks := []Block{
		{Search: "hello", Replace: "hi"},
		{Search: "missing", Replace: "x"},
	}
	result, err := Apply(content, blocks, "")
	if err == nil {
		t.Fatal("expected failure on second block")
	}
	if result != nil {
		t.Fatal("expected nil result on failure")
	}
}

func TestApplyProducesUnifiedDiff(t *testing.T) {
	content := []byte("line one\nline two\n")
	result, err := Apply(content, []Block{{Search: "line one", Replace: "line 1"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Diff, "-line one") || !strings.Contains(result.Diff, "+line 1") {
		t.Fatalf("diff missing expected lines: %q", result.Diff)
	}
}
