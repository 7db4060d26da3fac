package viz

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Static image size.
const (
	ImageWidth  = 10 * vg.Inch
	ImageHeight = 8 * vg.Inch
)

var edgeColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}

// NewPlot draws the graph with gonum/plot: gray edges, colored markers per
// group and labels above each marker.
func NewPlot(graph *GraphData) (*plot.Plot, error) {
	if graph == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}

	p := plot.New()
	p.Title.Text = graph.Title
	if p.Title.Text == "" {
		p.Title.Text = DefaultTitle
	}
	p.HideAxes()
	p.X.Min, p.X.Max = -1.25, 1.25
	p.Y.Min, p.Y.Max = -1.2, 1.3

	byID := make(map[string]Node, len(graph.Nodes))
	for _, n := range graph.Nodes {
		byID[n.ID] = n
	}

	for _, e := range graph.Edges {
		a, okA := byID[e.Source]
		b, okB := byID[e.Target]
		if !okA || !okB {
			return nil, fmt.Errorf("edge %s-%s references unknown node", e.Source, e.Target)
		}
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return nil, fmt.Errorf("drawing edge %s-%s: %w", e.Source, e.Target, err)
		}
		line.LineStyle.Color = edgeColor
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
	}

	if graph.IsEmpty() {
		return p, nil
	}

	for _, entry := range legendEntries() {
		var xys plotter.XYs
		for _, n := range graph.Nodes {
			if n.Group == entry.Group {
				xys = append(xys, plotter.XY{X: n.X, Y: n.Y})
			}
		}
		if len(xys) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("drawing %s nodes: %w", entry.Group, err)
		}
		c, err := parseHexColor(entry.Color)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(6)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(entry.Group, scatter)
	}

	labelData := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(graph.Nodes)),
		Labels: make([]string, len(graph.Nodes)),
	}
	for i, n := range graph.Nodes {
		labelData.XYs[i] = plotter.XY{X: n.X, Y: n.Y}
		labelData.Labels[i] = n.Label
	}
	labels, err := plotter.NewLabels(labelData)
	if err != nil {
		return nil, fmt.Errorf("drawing node labels: %w", err)
	}
	labels.Offset = vg.Point{Y: vg.Points(9)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(labels)

	p.Legend.Top = true
	return p, nil
}

// RenderPNG writes the static graph image to path.
func RenderPNG(graph *GraphData, path string) error {
	p, err := NewPlot(graph)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := p.Save(ImageWidth, ImageHeight, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func parseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
