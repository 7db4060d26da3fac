package relgraph

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{"Minas Gerais", "Urbana", "Estadual"},
		{"Minas Gerais", "Rural", "Municipal"},
		{"Minas Gerais", "Urbana", "Privada"},
		{"Rio de Janeiro", "Urbana", "Estadual"},
		{"Rio de Janeiro", "Rural", "Municipal"},
		{"São Paulo", "Urbana", "Federal"},
		{"São Paulo", "Rural", "Estadual"},
	}
}

func TestLayout_Deterministic(t *testing.T) {
	opts := DefaultLayoutOptions()

	first, err := Build(sampleRows()).Layout(opts)
	require.NoError(t, err)
	second, err := Build(sampleRows()).Layout(opts)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layout differs between runs (-first +second):\n%s", diff)
	}
}

func TestLayout_CoversEveryNode(t *testing.T) {
	g := Build(sampleRows())
	pos, err := g.Layout(DefaultLayoutOptions())
	require.NoError(t, err)

	assert.Len(t, pos, g.NodeCount())
	for _, n := range g.Nodes() {
		p, ok := pos[n.Label]
		require.True(t, ok, "no position for %q", n.Label)
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "NaN position for %q", n.Label)
	}
}

func TestLayout_Normalized(t *testing.T) {
	pos, err := Build(sampleRows()).Layout(DefaultLayoutOptions())
	require.NoError(t, err)

	var maxAbs, sx, sy float64
	for _, p := range pos {
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		sx += p.X
		sy += p.Y
	}
	assert.InDelta(t, 1.0, maxAbs, 1e-9)
	assert.InDelta(t, 0.0, sx/float64(len(pos)), 1e-9)
	assert.InDelta(t, 0.0, sy/float64(len(pos)), 1e-9)
}

func TestLayout_SeedChangesPlacement(t *testing.T) {
	g := Build(sampleRows())

	a, err := g.Layout(LayoutOptions{Seed: 1})
	require.NoError(t, err)
	b, err := g.Layout(LayoutOptions{Seed: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLayout_SmallGraphs(t *testing.T) {
	pos, err := New().Layout(DefaultLayoutOptions())
	require.NoError(t, err)
	assert.Empty(t, pos)

	g := New()
	g.addNode("Minas Gerais", GroupState)
	pos, err = g.Layout(DefaultLayoutOptions())
	require.NoError(t, err)
	assert.Equal(t, Layout{"Minas Gerais": {}}, pos)
}

func TestLayout_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts LayoutOptions
	}{
		{"negative updates", LayoutOptions{Updates: -1}},
		{"negative repulsion", LayoutOptions{Repulsion: -0.5}},
		{"NaN rate", LayoutOptions{Rate: math.NaN()}},
		{"infinite theta", LayoutOptions{Theta: math.Inf(1)}},
	}

	g := Build(sampleRows())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Layout(tt.opts)
			assert.ErrorIs(t, err, ErrInvalidLayoutOptions)
		})
	}
}

func TestRescale_Degenerate(t *testing.T) {
	xs := []float64{3, 3}
	ys := []float64{-2, -2}
	rescale(xs, ys)
	assert.Equal(t, []float64{0, 0}, xs)
	assert.Equal(t, []float64{0, 0}, ys)
}
