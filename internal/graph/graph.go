// Package graph implements the link graph engine (component C5): a
// directed multigraph of vault notes with resolution queries, bounded
// neighborhood traversal, orphan/cycle/broken-link detection, and derived
// statistics. Guarded by a single reader-writer lock per spec §5: reads
// run concurrently, any mutation takes the exclusive lock.
package graph

import (
	"sort"
	"sync"

	"github.com/RamXX/vlt/internal/parser"
	"github.com/RamXX/vlt/internal/posidx"
)

// Edge is a single directed, per-occurrence link between two notes.
// Parallel edges between the same pair are allowed (multigraph) to
// preserve source position provenance for UI and broken-link reporting.
type Edge struct {
	Source         string
	Target         string
	Kind           parser.LinkKind
	SourcePosition posidx.Position
}

type nodeState struct {
	exists bool
}

// Graph is the concurrency-safe directed multigraph.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*nodeState
	out   map[string][]Edge
	in    map[string][]Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: map[string]*nodeState{},
		out:   map[string][]Edge{},
		in:    map[string][]Edge{},
	}
}

// AddNode idempotently ensures path has a node, creating a placeholder
// for link targets that do not (yet) back a real file.
func (g *Graph) AddNode(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(path)
}

func (g *Graph) addNodeLocked(path string) {
	if _, ok := g.nodes[path]; !ok {
		g.nodes[path] = &nodeState{exists: false}
	}
}

// SetExists marks whether path is backed by a real file, used by the
// vault manager when a scan discovers (or removes) the underlying file.
func (g *Graph) SetExists(path string, exists bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(path)
	g.nodes[path].exists = exists
}

// AddEdge adds a parallel edge from src to dst. Both endpoints are
// ensured to exist as nodes first (creating placeholders as needed).
func (g *Graph) AddEdge(src, dst string, kind parser.LinkKind, pos posidx.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(src)
	g.addNodeLocked(dst)
	e := Edge{Source: src, Target: dst, Kind: kind, SourcePosition: pos}
	g.out[src] = append(g.out[src], e)
	g.in[dst] = append(g.in[dst], e)
}

// RemoveNode removes path and all edges incident to it.
func (g *Graph) RemoveNode(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeNodeLocked(path)
}

func (g *Graph) removeNodeLocked(path string) {
	delete(g.nodes, path)
	for _, e := range g.out[path] {
		g.in[e.Target] = removeEdge(g.in[e.Target], e)
	}
	delete(g.out, path)
	for _, e := range g.in[path] {
		g.out[e.Source] = removeEdge(g.out[e.Source], e)
	}
	delete(g.in, path)
}

func removeEdge(edges []Edge, target Edge) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// ReplaceEdgesOf atomically swaps path's outgoing edges with newEdges,
// used after re-parsing a single file. Target nodes referenced by
// newEdges are created as placeholders if they don't already exist.
func (g *Graph) ReplaceEdgesOf(path string, newEdges []Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNodeLocked(path)
	for _, e := range g.out[path] {
		g.in[e.Target] = removeEdge(g.in[e.Target], e)
	}
	g.out[path] = nil

	for _, e := range newEdges {
		e.Source = path
		g.addNodeLocked(e.Target)
		g.out[path] = append(g.out[path], e)
		g.in[e.Target] = append(g.in[e.Target], e)
	}
}

// Exists reports whether path is backed by a real file.
func (g *Graph) Exists(path string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[path]
	return ok && n.exists
}

// InDegree returns the number of edges targeting path.
func (g *Graph) InDegree(path string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.in[path])
}

// OutDegree returns the number of edges originating from path.
func (g *Graph) OutDegree(path string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.out[path])
}

// Backlinks returns the distinct set of source paths with an edge into
// path. Unknown paths return an empty collection, not an error.
func (g *Graph) Backlinks(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, e := range g.in[path] {
		if !seen[e.Source] {
			seen[e.Source] = true
			out = append(out, e.Source)
		}
	}
	sort.Strings(out)
	return out
}

// ForwardLinks returns the distinct set of target paths reachable by an
// edge from path.
func (g *Graph) ForwardLinks(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, e := range g.out[path] {
		if !seen[e.Target] {
			seen[e.Target] = true
			out = append(out, e.Target)
		}
	}
	sort.Strings(out)
	return out
}

// Edges returns a snapshot copy of every edge in the graph.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var all []Edge
	for _, edges := range g.out {
		all = append(all, edges...)
	}
	return all
}

// Nodes returns a snapshot of every known node path.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Orphans returns nodes with no incoming and no outgoing edges.
func (g *Graph) Orphans() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for p := range g.nodes {
		if len(g.out[p]) == 0 && len(g.in[p]) == 0 {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// BrokenLinks returns every edge whose target node does not back an
// existing file.
func (g *Graph) BrokenLinks() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Edge
	for _, edges := range g.out {
		for _, e := range edges {
			if n, ok := g.nodes[e.Target]; !ok || !n.exists {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// RelatedNode is one result of a bounded-hop neighborhood traversal.
type RelatedNode struct {
	Path string
	Hops int
}

// Related runs an undirected BFS over the union of edges up to maxHops,
// excluding path itself, with stable ordering by (hop distance ascending,
// path lexicographic). Undirected traversal is a deliberate asymmetry
// with Backlinks/ForwardLinks: "related" is about topical proximity, not
// reachability (spec §9).
func (g *Graph) Related(path string, maxHops int) []RelatedNode {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if maxHops <= 0 {
		return nil
	}

	dist := map[string]int{path: 0}
	queue := []string{path}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] >= maxHops {
			continue
		}
		for _, neighbor := range g.undirectedNeighbors(cur) {
			if _, seen := dist[neighbor]; seen {
				continue
			}
			dist[neighbor] = dist[cur] + 1
			queue = append(queue, neighbor)
		}
	}

	var out []RelatedNode
	for p, d := range dist {
		if p == path || d == 0 {
			continue
		}
		out = append(out, RelatedNode{Path: p, Hops: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hops != out[j].Hops {
			return out[i].Hops < out[j].Hops
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func (g *Graph) undirectedNeighbors(path string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range g.out[path] {
		if !seen[e.Target] {
			seen[e.Target] = true
			out = append(out, e.Target)
		}
	}
	for _, e := range g.in[path] {
		if !seen[e.Source] {
			seen[e.Source] = true
			out = append(out, e.Source)
		}
	}
	return out
}

// Stats are the derived connectivity metrics for the whole graph.
type Stats struct {
	TotalNodes  int
	TotalEdges  int
	OrphanCount int
	AvgDegree   float64
	Density     float64
	CycleCount  int
}

// StatsSnapshot computes §4.5's derived statistics. Cycle counting uses
// the full Johnson enumeration; for very large graphs callers should
// prefer a cheaper SCC-based estimate (spec §9 design note) by calling
// SCCCycleEstimate instead and substituting it into CycleCount.
func (g *Graph) StatsSnapshot() Stats {
	g.mu.RLock()
	totalNodes := len(g.nodes)
	totalEdges := 0
	for _, edges := range g.out {
		totalEdges += len(edges)
	}
	orphanCount := 0
	for p := range g.nodes {
		if len(g.out[p]) == 0 && len(g.in[p]) == 0 {
			orphanCount++
		}
	}
	g.mu.RUnlock()

	var avgDegree, density float64
	if totalNodes > 0 {
		avgDegree = float64(totalEdges) / float64(totalNodes)
	}
	if totalNodes >= 2 {
		density = float64(totalEdges) / float64(totalNodes*(totalNodes-1))
	}

	return Stats{
		TotalNodes:  totalNodes,
		TotalEdges:  totalEdges,
		OrphanCount: orphanCount,
		AvgDegree:   avgDegree,
		Density:     density,
		CycleCount:  len(g.Cycles()),
	}
}
