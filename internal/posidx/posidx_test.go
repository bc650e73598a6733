package posidx

import (
	"strings"
	"testing"
)

func linearLocate(content string, offset int) (line, column int) {
	line = 1
	lastStart := 0
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			lastStart = i + 1
		}
	}
	return line, 1 + offset - lastStart
}

func TestLocateAgreesWithLinearScan(t *testing.T) {
	content := "line one\nline two\n\nline four\nlast line no newline"
	idx := NewFromString(content)

	for offset := 0; offset <= len(content); offset++ {
		wantLine, wantCol := linearLocate(content, offset)
		gotLine, gotCol := idx.Locate(offset)
		if gotLine != wantLine || gotCol != wantCol {
			t.Fatalf("offset %d: got (%d,%d) want (%d,%d)", offset, gotLine, gotCol, wantLine, wantCol)
		}
	}
}

func TestLineCount(t *testing.T) {
	idx := NewFromString("a\nb\nc")
	if idx.LineCount() != 3 {
		t.Fatalf("want 3 lines, got %d", idx.LineCount())
	}
}

func TestEmptyContent(t *testing.T) {
	idx := NewFromString("")
	line, col := idx.Locate(0)
	if line != 1 || col != 1 {
		t.Fatalf("empty content locate(0) = (%d,%d), want (1,1)", line, col)
	}
}

func TestLineStartEnd(t *testing.T) {
	content := "abc\ndef\nghi"
	idx := NewFromString(content)
	if idx.LineStart(1) != 0 {
		t.Fatalf("line 1 start = %d, want 0", idx.LineStart(1))
	}
	if idx.LineStart(2) != 4 {
		t.Fatalf("line 2 start = %d, want 4", idx.LineStart(2))
	}
	if got := idx.LineEnd(1); got != 3 {
		t.Fatalf("line 1 end = %d, want 3", got)
	}
	if got := strings.TrimSpace(content[idx.LineStart(3):idx.LineEnd(3)]); got != "ghi" {
		t.Fatalf("line 3 slice = %q, want ghi", got)
	}
}

func TestPositionFields(t *testing.T) {
	idx := NewFromString("hello\nworld")
	pos := idx.Position(6, 5)
	if pos.Line != 2 || pos.Column != 1 || pos.ByteOffset != 6 || pos.ByteLength != 5 {
		t.Fatalf("unexpected position: %+v", pos)
	}
}
