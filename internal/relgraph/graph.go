// Package relgraph builds the categorical relationship graph between
// geographic units, location types and administrative dependencies.
package relgraph

import (
	"gonum.org/v1/gonum/graph/simple"
)

// Group is the categorical role of a node. It controls render color only.
type Group string

const (
	GroupState      Group = "Estado"
	GroupLocation   Group = "Localizacao"
	GroupDependency Group = "Dependencia"
)

// Groups lists the node groups in column order.
var Groups = []Group{GroupState, GroupLocation, GroupDependency}

// Row is one (state, location, dependency) tuple taken from the dataset.
type Row struct {
	State      string `json:"state"`
	Location   string `json:"location"`
	Dependency string `json:"dependency"`
}

// Node is a distinct categorical value.
type Node struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Group Group  `json:"group"`
}

// Edge is an unordered co-occurrence between two labels. From is the
// endpoint that was inserted first.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a simple undirected graph keyed by label.
// The zero value is not usable; call New.
type Graph struct {
	g       *simple.UndirectedGraph
	byLabel map[string]int64
	nodes   []Node
	edges   []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		g:       simple.NewUndirectedGraph(),
		byLabel: make(map[string]int64),
	}
}

// Build deduplicates rows and inserts them into a new graph.
func Build(rows []Row) *Graph {
	g := New()
	g.AddRows(Dedupe(rows))
	return g
}

// Dedupe removes repeated rows, keeping first-occurrence order.
func Dedupe(rows []Row) []Row {
	seen := make(map[Row]bool, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// AddRows inserts each row in order.
func (g *Graph) AddRows(rows []Row) {
	for _, r := range rows {
		g.AddRow(r)
	}
}

// AddRow inserts the row's three nodes and then its two edges.
// Re-inserting a known row has no effect.
func (g *Graph) AddRow(r Row) {
	g.addNode(r.State, GroupState)
	g.addNode(r.Location, GroupLocation)
	g.addNode(r.Dependency, GroupDependency)

	g.addEdge(r.State, r.Location)
	g.addEdge(r.Location, r.Dependency)
}

// addNode creates the node on first sight. A label that reappears under
// another column keeps its original group.
func (g *Graph) addNode(label string, group Group) int64 {
	if id, ok := g.byLabel[label]; ok {
		return id
	}
	id := int64(len(g.nodes))
	g.g.AddNode(simple.Node(id))
	g.byLabel[label] = id
	g.nodes = append(g.nodes, Node{ID: id, Label: label, Group: group})
	return id
}

// addEdge links two existing nodes. Self pairs are dropped since a simple
// graph has no loops.
func (g *Graph) addEdge(a, b string) {
	aid, bid := g.byLabel[a], g.byLabel[b]
	if aid == bid || g.g.HasEdgeBetween(aid, bid) {
		return
	}
	g.g.SetEdge(g.g.NewEdge(simple.Node(aid), simple.Node(bid)))
	g.edges = append(g.edges, Edge{From: a, To: b})
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of distinct labels.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return len(g.nodes) == 0 }

// HasNode reports whether label is a node.
func (g *Graph) HasNode(label string) bool {
	_, ok := g.byLabel[label]
	return ok
}

// Node returns the node for label.
func (g *Graph) Node(label string) (Node, bool) {
	id, ok := g.byLabel[label]
	if !ok {
		return Node{}, false
	}
	return g.nodes[id], true
}

// HasEdge reports whether a and b are adjacent, in either order.
func (g *Graph) HasEdge(a, b string) bool {
	aid, ok := g.byLabel[a]
	if !ok {
		return false
	}
	bid, ok := g.byLabel[b]
	if !ok {
		return false
	}
	return g.g.HasEdgeBetween(aid, bid)
}

// Degree returns the number of neighbours of label, or 0 if unknown.
func (g *Graph) Degree(label string) int {
	id, ok := g.byLabel[label]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// GroupCounts returns the number of nodes per group.
func (g *Graph) GroupCounts() map[Group]int {
	counts := make(map[Group]int, len(Groups))
	for _, n := range g.nodes {
		counts[n.Group]++
	}
	return counts
}
