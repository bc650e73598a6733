package parser

import (
	"strings"

	"github.com/RamXX/vlt/internal/posidx"
	"gopkg.in/yaml.v3"
)

// extractFrontmatterBlock returns the YAML body between the opening and
// closing "---" fences and the line number (0-based, into lines) where the
// body after the closing fence starts. Mirrors the teacher's
// extractFrontmatter line-scan, kept because it correctly implements the
// "first block only, fence lines must be bare ---" contract from spec §4.3.
func extractFrontmatterBlock(lines []string) (yamlBody string, bodyStartLine int, found bool) {
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "---" {
		return "", 0, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), i + 1, true
		}
	}
	return "", 0, false
}

// parseFrontmatter extracts and YAML-decodes the frontmatter block, if any.
// Decode failures demote the frontmatter to absent rather than propagating
// a hard error, per spec §4.3's "parse failure demotes to absent" rule.
func parseFrontmatter(content string, idx *posidx.Index) (*Frontmatter, int) {
	lines := strings.Split(content, "\n")
	yamlBody, bodyStartLine, found := extractFrontmatterBlock(lines)
	if !found {
		return nil, 0
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(yamlBody), &node); err != nil {
		return nil, 0
	}
	if len(node.Content) == 0 {
		// Empty frontmatter body decodes to nil document; still "found".
		endOffset := 0
		if bodyStartLine < len(lines) {
			endOffset = idx.LineStart(bodyStartLine + 1)
		} else {
			endOffset = len(content)
		}
		return &Frontmatter{Fields: map[string]any{}, Order: nil, Position: idx.Position(0, endOffset)}, endOffset
	}

	root := node.Content[0]
	fields := map[string]any{}
	var order []string
	if root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i]
			val := root.Content[i+1]
			var decoded any
			if err := val.Decode(&decoded); err != nil {
				continue
			}
			fields[key.Value] = decoded
			order = append(order, key.Value)
		}
	}

	endOffset := idx.LineStart(bodyStartLine + 1)
	return &Frontmatter{Fields: fields, Order: order, Position: idx.Position(0, endOffset)}, endOffset
}

// frontmatterStringList extracts a field as a []string, accepting either a
// YAML sequence or a bare scalar (treated as a single-element list). This
// resolves spec §9's open question: "whether aliases accept scalar or
// only sequence" — both are accepted.
// FrontmatterList exposes frontmatterStringList for callers outside this
// package (the link resolver needs `aliases`).
func FrontmatterList(fm *Frontmatter, key string) []string {
	if fm == nil {
		return nil
	}
	return frontmatterStringList(fm.Fields, key)
}

func frontmatterStringList(fields map[string]any, key string) []string {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}
