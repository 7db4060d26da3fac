// Package viz renders the relationship graph as an interactive page and as a
// static image.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Title string `json:"title,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one categorical value in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"` // "Estado", "Localizacao" or "Dependencia"
	Color string `json:"color"`

	// Number of incident edges, used for sizing.
	Degree int `json:"degree"`

	// Layout position in [-1, 1].
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge connects two node IDs.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
