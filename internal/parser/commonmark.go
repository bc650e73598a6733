package parser

import (
	"sort"

	"github.com/RamXX/vlt/internal/posidx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmext "github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// commonmarkEngine is the shared goldmark configuration used for the
// phase-1 pass. TaskList lets list items carrying "[ ]"/"[x]" surface as
// *east.TaskCheckBox nodes, the AST signal spec §4.3 calls "a list-item
// event's first inline token is a checkbox".
var commonmarkEngine = goldmark.New(
	goldmark.WithExtensions(gmext.TaskList),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// rawMarkdownLink is a phase-1 inline-link event, before §4.3 classification.
type rawMarkdownLink struct {
	destination string
	displayText string
	hasDisplay  bool
	offset      int
	length      int
}

// phase1Result bundles everything the CommonMark pass contributes.
type phase1Result struct {
	headings    []Heading
	tasks       []TaskItem
	mdLinks     []rawMarkdownLink
	codeRanges  []CodeRange
}

// runPhase1 walks the goldmark AST for content, producing headings, task
// items, raw markdown links, and code-excluded byte ranges.
func runPhase1(content []byte, idx *posidx.Index) phase1Result {
	doc := commonmarkEngine.Parser().Parse(text.NewReader(content))

	var res phase1Result

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			txt := extractPlainText(node, content)
			offset, length := nodeByteSpan(node, content)
			res.headings = append(res.headings, Heading{
				Text:     txt,
				Level:    node.Level,
				Anchor:   HeadingAnchor(txt),
				Position: idx.Position(offset, length),
			})

		case *ast.Link:
			offset, length := nodeByteSpan(node, content)
			res.mdLinks = append(res.mdLinks, rawMarkdownLink{
				destination: string(node.Destination),
				displayText: extractPlainText(node, content),
				hasDisplay:  node.FirstChild() != nil,
				offset:      offset,
				length:      length,
			})

		case *ast.AutoLink:
			offset, length := nodeByteSpan(node, content)
			res.mdLinks = append(res.mdLinks, rawMarkdownLink{
				destination: string(node.URL(content)),
				displayText: string(node.Label(content)),
				hasDisplay:  false,
				offset:      offset,
				length:      length,
			})

		case *ast.FencedCodeBlock:
			appendLineRanges(&res.codeRanges, node.Lines(), content)
		case *ast.CodeBlock:
			appendLineRanges(&res.codeRanges, node.Lines(), content)
		case *ast.CodeSpan:
			offset, length := nodeByteSpan(node, content)
			res.codeRanges = append(res.codeRanges, CodeRange{Start: offset, End: offset + length})
		case *ast.HTMLBlock:
			appendLineRanges(&res.codeRanges, node.Lines(), content)
			if node.HasClosure() {
				seg := node.ClosureLine
				res.codeRanges = append(res.codeRanges, CodeRange{Start: seg.Start, End: seg.Stop})
			}
		case *ast.RawHTML:
			segs := node.Segments
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				res.codeRanges = append(res.codeRanges, CodeRange{Start: seg.Start, End: seg.Stop})
			}

		case *east.TaskCheckBox:
			parent := n.Parent()
			offset, length := 0, 0
			if parent != nil {
				offset, length = nodeByteSpan(parent, content)
			}
			line, _ := idx.Locate(offset)
			indent := leadingIndent(content, idx.LineStart(line))
			res.tasks = append(res.tasks, TaskItem{
				Text:          extractPlainText(parent, content),
				IsCompleted:   node.IsChecked,
				Position:      idx.Position(offset, length),
				IndentColumns: indent,
			})
		}

		return ast.WalkContinue, nil
	})

	sort.Slice(res.codeRanges, func(i, j int) bool { return res.codeRanges[i].Start < res.codeRanges[j].Start })
	res.codeRanges = mergeRanges(res.codeRanges)

	sort.Slice(res.headings, func(i, j int) bool { return res.headings[i].Position.ByteOffset < res.headings[j].Position.ByteOffset })
	sort.Slice(res.mdLinks, func(i, j int) bool { return res.mdLinks[i].offset < res.mdLinks[j].offset })
	sort.Slice(res.tasks, func(i, j int) bool { return res.tasks[i].Position.ByteOffset < res.tasks[j].Position.ByteOffset })

	return res
}

func appendLineRanges(ranges *[]CodeRange, lines *text.Segments, content []byte) {
	if lines == nil {
		return
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		*ranges = append(*ranges, CodeRange{Start: seg.Start, End: seg.Stop})
	}
}

// mergeRanges coalesces overlapping/adjacent ranges assuming input is
// sorted ascending by Start.
func mergeRanges(ranges []CodeRange) []CodeRange {
	if len(ranges) == 0 {
		return ranges
	}
	out := make([]CodeRange, 0, len(ranges))
	cur := ranges[0]
	for _, r := range ranges[1:] {
		if r.Start <= cur.End {
			if r.End > cur.End {
				cur.End = r.End
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}

// nodeByteSpan computes the [start, end) byte span of a node by walking
// its line segments (block nodes) or, for inline nodes without Lines(),
// its text-segment descendants.
func nodeByteSpan(n ast.Node, content []byte) (offset, length int) {
	type liner interface {
		Lines() *text.Segments
	}
	if l, ok := n.(liner); ok {
		segs := l.Lines()
		if segs != nil && segs.Len() > 0 {
			start := segs.At(0).Start
			end := segs.At(segs.Len() - 1).Stop
			return start, end - start
		}
	}

	minStart, maxEnd := -1, -1
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			seg := t.Segment
			if minStart == -1 || seg.Start < minStart {
				minStart = seg.Start
			}
			if seg.Stop > maxEnd {
				maxEnd = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if minStart == -1 {
		return 0, 0
	}
	return minStart, maxEnd - minStart
}

func extractPlainText(n ast.Node, content []byte) string {
	if n == nil {
		return ""
	}
	var out []byte
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			out = append(out, t.Segment.Value(content)...)
		}
		if t, ok := c.(*ast.String); ok {
			out = append(out, t.Value...)
		}
		return ast.WalkContinue, nil
	})
	return string(out)
}

func leadingIndent(content []byte, lineStart int) int {
	n := 0
	for i := lineStart; i < len(content); i++ {
		if content[i] == ' ' {
			n++
		} else if content[i] == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}
