package viz

import (
	"strconv"

	"github.com/matsen/rendimento/internal/relgraph"
)

// Group colors, shared by the page and the static image.
var GroupColors = map[relgraph.Group]string{
	relgraph.GroupState:      "#4A90D9",
	relgraph.GroupLocation:   "#27AE60",
	relgraph.GroupDependency: "#E8923A",
}

const fallbackColor = "#95A5A6"

// DefaultTitle is the heading used for the graph page and image.
const DefaultTitle = "Relações entre Estado, Localização e Dependência Administrativa"

// FromGraph converts a relationship graph and its layout into GraphData.
// Nodes missing from layout sit at the origin.
func FromGraph(g *relgraph.Graph, layout relgraph.Layout) *GraphData {
	data := &GraphData{
		Title: DefaultTitle,
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		pos := layout[n.Label]
		data.Nodes = append(data.Nodes, Node{
			ID:     nodeID(n.ID),
			Label:  n.Label,
			Group:  string(n.Group),
			Color:  colorForGroup(string(n.Group)),
			Degree: g.Degree(n.Label),
			X:      pos.X,
			Y:      pos.Y,
		})
	}

	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		data.Edges = append(data.Edges, Edge{
			Source: nodeID(from.ID),
			Target: nodeID(to.ID),
		})
	}

	return data
}

func nodeID(id int64) string {
	return "n" + strconv.FormatInt(id, 10)
}

func colorForGroup(group string) string {
	if c, ok := GroupColors[relgraph.Group(group)]; ok {
		return c
	}
	return fallbackColor
}
