package graph

import "sort"

// Cycles returns every elementary directed cycle in the graph as a
// sequence of node paths, each cycle reported exactly once, via Johnson's
// algorithm (spec §4.5/§9). Parallel edges between the same pair of nodes
// contribute at most one logical adjacency to cycle search, since a cycle
// is a sequence of distinct nodes, not edges.
func (g *Graph) Cycles() [][]string {
	adj := g.simpleAdjacencyLocked()

	nodes := make([]string, 0, len(adj))
	for n := range adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	jc := &johnson{adj: adj}
	var all [][]string
	for _, s := range nodes {
		all = append(all, jc.circuitsFrom(s, nodes)...)
	}
	return all
}

// simpleAdjacencyLocked returns a deduplicated adjacency map (multi-edges
// collapsed to a single logical arc) as a point-in-time snapshot.
func (g *Graph) simpleAdjacencyLocked() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adj := map[string][]string{}
	for n := range g.nodes {
		adj[n] = nil
	}
	for src, edges := range g.out {
		seen := map[string]bool{}
		for _, e := range edges {
			if !seen[e.Target] {
				seen[e.Target] = true
				adj[src] = append(adj[src], e.Target)
			}
		}
		sort.Strings(adj[src])
	}
	return adj
}

// johnson implements Johnson's algorithm restricted to the subgraph of
// nodes with index >= the start node's index in the fixed node ordering,
// the classic formulation for enumerating elementary circuits once each.
type johnson struct {
	adj     map[string][]string
	blocked map[string]bool
	bSets   map[string]map[string]bool
	stack   []string
	start   string
	index   map[string]int
	result  [][]string
}

func (jc *johnson) circuitsFrom(start string, orderedNodes []string) [][]string {
	jc.start = start
	jc.index = map[string]int{}
	for i, n := range orderedNodes {
		jc.index[n] = i
	}
	jc.blocked = map[string]bool{}
	jc.bSets = map[string]map[string]bool{}
	jc.stack = nil
	jc.result = nil

	subset := jc.subgraphFrom(start, orderedNodes)
	jc.circuit(start, start, subset)
	return jc.result
}

// subgraphFrom restricts adjacency to nodes with index >= start's index.
func (jc *johnson) subgraphFrom(start string, orderedNodes []string) map[string][]string {
	startIdx := jc.index[start]
	sub := map[string][]string{}
	for _, n := range orderedNodes {
		if jc.index[n] < startIdx {
			continue
		}
		for _, m := range jc.adj[n] {
			if jc.index[m] >= startIdx {
				sub[n] = append(sub[n], m)
			}
		}
	}
	return sub
}

func (jc *johnson) circuit(v, start string, subset map[string][]string) bool {
	found := false
	jc.stack = append(jc.stack, v)
	jc.blocked[v] = true

	for _, w := range subset[v] {
		if w == start {
			cycle := append([]string{}, jc.stack...)
			cycle = append(cycle, start)
			jc.result = append(jc.result, cycle)
			found = true
		} else if !jc.blocked[w] {
			if jc.circuit(w, start, subset) {
				found = true
			}
		}
	}

	if found {
		jc.unblock(v)
	} else {
		for _, w := range subset[v] {
			if jc.bSets[w] == nil {
				jc.bSets[w] = map[string]bool{}
			}
			jc.bSets[w][v] = true
		}
	}

	jc.stack = jc.stack[:len(jc.stack)-1]
	return found
}

func (jc *johnson) unblock(v string) {
	jc.blocked[v] = false
	for w := range jc.bSets[v] {
		delete(jc.bSets[v], w)
		if jc.blocked[w] {
			jc.unblock(w)
		}
	}
}

// SCCCycleEstimate returns the number of strongly connected components
// with more than one node, a cheap O(n+e) lower-bound proxy for cycle
// presence when full enumeration (Cycles) is too expensive for very
// large vaults (spec §9 design note).
func (g *Graph) SCCCycleEstimate() int {
	adj := g.simpleAdjacencyLocked()

	index := 0
	indices := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	nonTrivialSCCs := 0

	var nodes []string
	for n := range adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			size := 0
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				size++
				if w == v {
					break
				}
			}
			if size > 1 {
				nonTrivialSCCs++
			}
		}
	}

	for _, n := range nodes {
		if _, ok := indices[n]; !ok {
			strongconnect(n)
		}
	}

	return nonTrivialSCCs
}
