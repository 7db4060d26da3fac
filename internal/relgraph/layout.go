package relgraph

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
)

// Default layout parameters.
const (
	DefaultSeed      = 42
	DefaultUpdates   = 50
	DefaultRepulsion = 1.0
	DefaultRate      = 0.05
	DefaultTheta     = 0.2
)

// ErrInvalidLayoutOptions is returned for negative or non-finite parameters.
var ErrInvalidLayoutOptions = errors.New("invalid layout options")

// Position is a 2D coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout maps node labels to positions.
type Layout map[string]Position

// LayoutOptions configures the spring embedder. Zero fields take defaults.
type LayoutOptions struct {
	Seed      uint64
	Updates   int
	Repulsion float64
	Rate      float64
	Theta     float64
}

// DefaultLayoutOptions returns the options used by the CLI.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Seed:      DefaultSeed,
		Updates:   DefaultUpdates,
		Repulsion: DefaultRepulsion,
		Rate:      DefaultRate,
		Theta:     DefaultTheta,
	}
}

func (o LayoutOptions) withDefaults() (LayoutOptions, error) {
	params := []struct {
		name string
		v    float64
	}{
		{"repulsion", o.Repulsion},
		{"rate", o.Rate},
		{"theta", o.Theta},
	}
	for _, p := range params {
		if p.v < 0 || math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return o, fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidLayoutOptions, p.name, p.v)
		}
	}
	if o.Updates < 0 {
		return o, fmt.Errorf("%w: updates must be non-negative, got %d", ErrInvalidLayoutOptions, o.Updates)
	}
	if o.Updates == 0 {
		o.Updates = DefaultUpdates
	}
	if o.Repulsion == 0 {
		o.Repulsion = DefaultRepulsion
	}
	if o.Rate == 0 {
		o.Rate = DefaultRate
	}
	if o.Theta == 0 {
		o.Theta = DefaultTheta
	}
	return o, nil
}

// Layout computes a force-directed placement of every node. The result is
// centred on the origin and scaled so the largest absolute coordinate is 1.
func (g *Graph) Layout(opts LayoutOptions) (Layout, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	out := make(Layout, len(g.nodes))
	switch len(g.nodes) {
	case 0:
		return out, nil
	case 1:
		out[g.nodes[0].Label] = Position{}
		return out, nil
	}

	eades := layout.EadesR2{
		Updates:   opts.Updates,
		Repulsion: opts.Repulsion,
		Rate:      opts.Rate,
		Theta:     opts.Theta,
		Src:       rand.NewPCG(opts.Seed, opts.Seed),
	}
	o := layout.NewOptimizerR2(orderedGraph{g.g}, eades.Update)
	for o.Update() {
	}

	xs := make([]float64, len(g.nodes))
	ys := make([]float64, len(g.nodes))
	for i, n := range g.nodes {
		v := o.Coord2(n.ID)
		xs[i], ys[i] = v.X, v.Y
	}
	rescale(xs, ys)
	for i, n := range g.nodes {
		out[n.Label] = Position{X: xs[i], Y: ys[i]}
	}
	return out, nil
}

// rescale centres the coordinates on their mean and divides by the largest
// absolute value.
func rescale(xs, ys []float64) {
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))

	var lim float64
	for i := range xs {
		xs[i] -= mx
		ys[i] -= my
		lim = math.Max(lim, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	if lim == 0 {
		return
	}
	for i := range xs {
		xs[i] /= lim
		ys[i] /= lim
	}
}

// orderedGraph pins node and neighbour iteration to ID order. The embedded
// graph iterates over maps, which would make both the initial placement and
// the force summation order vary from run to run.
type orderedGraph struct {
	*simple.UndirectedGraph
}

func (g orderedGraph) Nodes() graph.Nodes {
	return sortedNodes(g.UndirectedGraph.Nodes())
}

func (g orderedGraph) From(id int64) graph.Nodes {
	return sortedNodes(g.UndirectedGraph.From(id))
}

func sortedNodes(it graph.Nodes) graph.Nodes {
	nodes := graph.NodesOf(it)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return iterator.NewOrderedNodes(nodes)
}
