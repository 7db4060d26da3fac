// Package chart renders the report's static charts with gonum/plot.
//
// Every constructor returns a fresh *plot.Plot; nothing is drawn until the
// caller saves or encodes it.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/summary"
)

// Size is an output size in vg units.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// Default figure sizes.
var (
	BarSize = Size{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
	PieSize = Size{Width: 8 * vg.Inch, Height: 6 * vg.Inch}
)

// barWidth is the width of one bar inside a group.
const barWidth = vg.Length(22)

// Palette holds the series colors in plotting order.
var Palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

func paletteColor(i int) color.Color {
	return Palette[i%len(Palette)]
}

// groupOffset centres series i of n side by side on its category.
func groupOffset(i, n int, w vg.Length) vg.Length {
	return vg.Length(float64(i)-float64(n-1)/2) * w
}

// RatesBar plots the mean approval, failure and dropout rate per state as
// grouped bars. An empty rates slice is dataset.ErrInvalidInput.
func RatesBar(rates []summary.StateRates, year int) (*plot.Plot, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: no states to chart", dataset.ErrInvalidInput)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Taxas de Rendimento Escolar por Estado - %d (%%)", year)
	p.X.Label.Text = "Estado"
	p.Y.Label.Text = "Percentual (%)"
	p.Y.Min = 0

	states := make([]string, len(rates))
	for i, r := range rates {
		states[i] = r.State
	}

	n := len(summary.Indicators)
	for i, indicator := range summary.Indicators {
		vals := make(plotter.Values, len(rates))
		for j, r := range rates {
			vals[j] = r.Value(indicator)
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return nil, fmt.Errorf("building %s bars: %w", indicator, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = paletteColor(i)
		bars.Offset = groupOffset(i, n, barWidth)
		p.Add(bars)
		p.Legend.Add(indicator, bars)
	}

	p.Legend.Top = true
	p.NominalX(states...)
	return p, nil
}

// StageBar plots the mean dropout rate per state, one bar per teaching
// stage.
func StageBar(rates []summary.StageRate, year int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Taxa de Abandono Escolar por Etapa de Ensino (%d)", year)
	p.X.Label.Text = "Estado"
	p.Y.Label.Text = "Taxa_Abandono"
	p.Y.Min = 0

	var states []string
	stateIdx := make(map[string]int)
	for _, r := range rates {
		if _, ok := stateIdx[r.State]; !ok {
			stateIdx[r.State] = len(states)
			states = append(states, r.State)
		}
	}

	stages := summary.Stages(rates)
	for i, stage := range stages {
		vals := make(plotter.Values, len(states))
		for _, r := range rates {
			if r.Stage == stage {
				vals[stateIdx[r.State]] = r.Dropout
			}
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return nil, fmt.Errorf("building %q bars: %w", stage, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = paletteColor(i)
		bars.Offset = groupOffset(i, len(stages), barWidth)
		p.Add(bars)

		label := stage
		if label == "" {
			label = "(sem etapa)"
		}
		p.Legend.Add(label, bars)
	}

	p.Legend.Top = true
	p.NominalX(states...)
	return p, nil
}

// Save writes the plot to path; the extension picks the format.
func Save(p *plot.Plot, path string, size Size) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Encode writes the plot to w in the given format ("png", "svg", "pdf").
func Encode(p *plot.Plot, w io.Writer, size Size, format string) error {
	wt, err := p.WriterTo(size.Width, size.Height, strings.ToLower(format))
	if err != nil {
		return fmt.Errorf("preparing %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
