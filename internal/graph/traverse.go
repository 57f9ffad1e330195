package graph

import (
	"sort"
	"strings"
)

// MaxChainLength caps how many monsters a co-occurrence chain may hold.
// An encounter has at most four monster groups.
const MaxChainLength = 4

// Chain is a sequence of monsters where each one may bring along the next.
type Chain []string

// String joins the chain with commas.
func (c Chain) String() string {
	return strings.Join(c, ",")
}

// Chains returns every maximal chain starting at start. A chain stops
// growing when it holds MaxChainLength monsters or when its last monster
// brings nobody along. Fan-out is explored breadth-first, one queue entry
// per branch, so cycles in the graph only bound the chain length.
func (g *Graph) Chains(start string) []Chain {
	var out []Chain
	seen := make(map[string]struct{})
	emit := func(c Chain) {
		key := c.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	queue := []Chain{{start}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if len(current) >= MaxChainLength {
			emit(current)
			continue
		}

		next := g.Edges[current[len(current)-1]]
		if len(next) == 0 {
			emit(current)
			continue
		}
		for _, co := range next {
			branch := make(Chain, len(current), len(current)+1)
			copy(branch, current)
			queue = append(queue, append(branch, co))
		}
	}

	return out
}

// AllChains returns the chains of every node, deduplicated and sorted by
// their comma-joined form.
func (g *Graph) AllChains() []Chain {
	seen := make(map[string]Chain)
	for _, node := range g.Nodes() {
		for _, c := range g.Chains(node) {
			seen[c.String()] = c
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Chain, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// FindCycles detects if the graph contains any cycles.
// Returns true if cycles exist, along with one example cycle.
func (g *Graph) FindCycles() (bool, []string) {
	const (
		white = 0 // unvisited
		gray  = 1 // in progress
		black = 2 // finished
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var cycleStart, cycleEnd string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray

		for _, neighbor := range g.Edges[node] {
			if color[neighbor] == gray {
				// Back edge found
				cycleStart = neighbor
				cycleEnd = node
				return true
			}
			if color[neighbor] == white {
				parent[neighbor] = node
				if dfs(neighbor) {
					return true
				}
			}
		}

		color[node] = black
		return false
	}

	hasCycle := false
	for _, node := range g.Nodes() {
		if color[node] == white && dfs(node) {
			hasCycle = true
			break
		}
	}

	if !hasCycle {
		return false, nil
	}

	cycle := []string{cycleStart}
	for node := cycleEnd; node != cycleStart; {
		cycle = append([]string{node}, cycle...)
		node = parent[node]
	}
	cycle = append([]string{cycleStart}, cycle...)

	return true, cycle
}
