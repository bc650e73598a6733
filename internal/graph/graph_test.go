package graph

import (
	"sort"
	"testing"

	"github.com/RamXX/vlt/internal/parser"
	"github.com/RamXX/vlt/internal/posidx"
)

func pos() posidx.Position { return posidx.Position{Line: 1, Column: 1} }

// TestBacklinksScenario is spec §8 scenario 3.
func TestBacklinksScenario(t *testing.T) {
	g := New()
	for _, p := range []string{"index.md", "a.md", "b.md"} {
		g.SetExists(p, true)
	}
	g.AddEdge("index.md", "a.md", parser.WikiLink, pos())
	g.AddEdge("index.md", "b.md", parser.WikiLink, pos())
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())
	g.AddEdge("b.md", "index.md", parser.WikiLink, pos())

	backlinks := g.Backlinks("b.md")
	sort.Strings(backlinks)
	want := []string{"a.md", "index.md"}
	if len(backlinks) != len(want) || backlinks[0] != want[0] || backlinks[1] != want[1] {
		t.Fatalf("backlinks(b.md) = %v, want %v", backlinks, want)
	}

	if orphans := g.Orphans(); len(orphans) != 0 {
		t.Fatalf("expected no orphans, got %v", orphans)
	}

	found := false
	for _, cycle := range g.Cycles() {
		if containsCycle(cycle, "index.md", "b.md") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cycle containing index.md and b.md, got %v", g.Cycles())
	}
}

func containsCycle(cycle []string, members ...string) bool {
	set := map[string]bool{}
	for _, n := range cycle {
		set[n] = true
	}
	for _, m := range members {
		if !set[m] {
			return false
		}
	}
	return true
}

func TestOrphans(t *testing.T) {
	g := New()
	g.SetExists("lonely.md", true)
	g.SetExists("a.md", true)
	g.SetExists("b.md", true)
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())

	orphans := g.Orphans()
	if len(orphans) != 1 || orphans[0] != "lonely.md" {
		t.Fatalf("got %v", orphans)
	}
}

func TestDegreeInvariant(t *testing.T) {
	g := New()
	for _, p := range []string{"a.md", "b.md", "c.md"} {
		g.SetExists(p, true)
	}
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())
	g.AddEdge("a.md", "c.md", parser.WikiLink, pos())
	g.AddEdge("b.md", "c.md", parser.WikiLink, pos())

	totalOut, totalIn := 0, 0
	for _, n := range g.Nodes() {
		totalOut += g.OutDegree(n)
		totalIn += g.InDegree(n)
	}
	edges := len(g.Edges())
	if totalOut != edges || totalIn != edges {
		t.Fatalf("sum(out)=%d sum(in)=%d edges=%d, want equal", totalOut, totalIn, edges)
	}
}

func TestBrokenLinks(t *testing.T) {
	g := New()
	g.SetExists("a.md", true)
	g.AddEdge("a.md", "missing.md", parser.WikiLink, pos())

	broken := g.BrokenLinks()
	if len(broken) != 1 || broken[0].Target != "missing.md" {
		t.Fatalf("got %+v", broken)
	}
}

func TestRelatedExcludesSelfAndRespectsHopBound(t *testing.T) {
	g := New()
	for _, p := range []string{"a.md", "b.md", "c.md", "d.md"} {
		g.SetExists(p, true)
	}
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())
	g.AddEdge("b.md", "c.md", parser.WikiLink, pos())
	g.AddEdge("c.md", "d.md", parser.WikiLink, pos())

	related := g.Related("a.md", 2)
	for _, r := range related {
		if r.Path == "a.md" {
			t.Fatal("related must exclude the source node")
		}
		if r.Hops > 2 {
			t.Fatalf("related node %s exceeds hop bound: %d", r.Path, r.Hops)
		}
	}
	if len(related) != 2 {
		t.Fatalf("want 2 related nodes within 2 hops, got %v", related)
	}
}

func TestRelatedIsUndirected(t *testing.T) {
	g := New()
	g.SetExists("a.md", true)
	g.SetExists("b.md", true)
	g.AddEdge("b.md", "a.md", parser.WikiLink, pos())

	related := g.Related("a.md", 1)
	if len(related) != 1 || related[0].Path != "b.md" {
		t.Fatalf("expected undirected traversal to find b.md, got %v", related)
	}
}

func TestStatsSnapshot(t *testing.T) {
	g := New()
	for _, p := range []string{"a.md", "b.md", "c.md"} {
		g.SetExists(p, true)
	}
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())
	g.AddEdge("b.md", "a.md", parser.WikiLink, pos())

	stats := g.StatsSnapshot()
	if stats.TotalNodes != 3 {
		t.Fatalf("total nodes = %d, want 3", stats.TotalNodes)
	}
	if stats.TotalEdges != 2 {
		t.Fatalf("total edges = %d, want 2", stats.TotalEdges)
	}
	if stats.OrphanCount != 1 {
		t.Fatalf("orphan count = %d, want 1", stats.OrphanCount)
	}
	if stats.CycleCount < 1 {
		t.Fatalf("expected at least 1 cycle, got %d", stats.CycleCount)
	}
}

func TestReplaceEdgesOf(t *testing.T) {
	g := New()
	g.SetExists("a.md", true)
	g.SetExists("b.md", true)
	g.SetExists("c.md", true)
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())

	g.ReplaceEdgesOf("a.md", []Edge{{Target: "c.md", Kind: parser.WikiLink, SourcePosition: pos()}})

	if fw := g.ForwardLinks("a.md"); len(fw) != 1 || fw[0] != "c.md" {
		t.Fatalf("forward links after replace = %v", fw)
	}
	if bl := g.Backlinks("b.md"); len(bl) != 0 {
		t.Fatalf("b.md should have no backlinks after replace, got %v", bl)
	}
}

func TestRemoveNode(t *testing.T) {
	g := New()
	g.SetExists("a.md", true)
	g.SetExists("b.md", true)
	g.AddEdge("a.md", "b.md", parser.WikiLink, pos())

	g.RemoveNode("a.md")
	if bl := g.Backlinks("b.md"); len(bl) != 0 {
		t.Fatalf("expected no backlinks after removing source node, got %v", bl)
	}
}

func TestQueriesOnUnknownPathReturnEmpty(t *testing.T) {
	g := New()
	if bl := g.Backlinks("nope.md"); len(bl) != 0 {
		t.Fatalf("expected empty, got %v", bl)
	}
	if fw := g.ForwardLinks("nope.md"); len(fw) != 0 {
		t.Fatalf("expected empty, got %v", fw)
	}
}

func TestSelfLoopCycle(t *testing.T) {
	g := New()
	g.SetExists("a.md", true)
	g.AddEdge("a.md", "a.md", parser.WikiLink, pos())
	cycles := g.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("want 1 self-loop cycle, got %v", cycles)
	}
}
