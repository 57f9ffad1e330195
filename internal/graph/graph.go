// Package graph builds the monster co-occurrence graph and the
// group membership derived from the catalog.
package graph

import (
	"sort"

	"github.com/bassjack1/monsterid/internal/catalog"
	"go.uber.org/zap"
)

// Graph represents an in-memory co-occurrence graph.
type Graph struct {
	// Adjacency list: monster -> monsters it may bring along, in catalog order
	Edges map[string][]string
	// Reverse adjacency: monster -> monsters that may bring it along
	ReverseEdges map[string][]string
}

// Members maps each group key to the sorted keys of the monsters in it.
// Every catalog group is present, including groups with no monsters.
type Members map[string][]string

// Of returns the monsters of a group.
func (m Members) Of(group string) []string {
	return m[group]
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Edges:        make(map[string][]string),
		ReverseEdges: make(map[string][]string),
	}
}

// Build derives the co-occurrence graph and the group membership from the
// catalog. A monster whose group key matches no group is logged and left out
// of the membership; it can still be named directly in a query.
func Build(cat *catalog.Catalog, logger *zap.Logger) (*Graph, Members) {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := New()
	members := make(Members)
	for _, key := range cat.GroupKeys() {
		members[key] = []string{}
	}

	for _, m := range cat.Monsters() {
		g.AddNode(m.Key)
		for _, co := range m.CoOccurKeys {
			g.AddEdge(m.Key, co)
		}

		if _, ok := members[m.GroupKey]; !ok {
			logger.Warn("monster group not covered by groups table",
				zap.String("monster", m.Key),
				zap.String("group", m.GroupKey))
			continue
		}
		members[m.GroupKey] = append(members[m.GroupKey], m.Key)
	}

	for key := range members {
		sort.Strings(members[key])
	}
	return g, members
}

// AddNode adds a node without edges. Adding an existing node is a no-op.
func (g *Graph) AddNode(node string) {
	if _, ok := g.Edges[node]; !ok {
		g.Edges[node] = []string{}
	}
	if _, ok := g.ReverseEdges[node]; !ok {
		g.ReverseEdges[node] = []string{}
	}
}

// AddEdge adds a directed edge, creating both nodes as needed.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.Edges[from] = append(g.Edges[from], to)
	g.ReverseEdges[to] = append(g.ReverseEdges[to], from)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Edges)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.Edges {
		count += len(targets)
	}
	return count
}

// Nodes returns all node IDs in sorted order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.Edges))
	for node := range g.Edges {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// OutDegree returns the number of outgoing edges from a node.
func (g *Graph) OutDegree(node string) int {
	return len(g.Edges[node])
}

// InDegree returns the number of incoming edges to a node.
func (g *Graph) InDegree(node string) int {
	return len(g.ReverseEdges[node])
}

// Successors returns the monsters a node may bring along.
func (g *Graph) Successors(node string) []string {
	return g.Edges[node]
}

// Predecessors returns the monsters that may bring a node along.
func (g *Graph) Predecessors(node string) []string {
	return g.ReverseEdges[node]
}
