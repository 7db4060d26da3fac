package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matsen/rendimento/internal/summary"
)

// pieStartAngle matches the 140 degree start the report has always used.
const pieStartAngle = 140 * math.Pi / 180

// Pie is a plot.Plotter drawing labelled wedges, counter-clockwise from
// StartAngle. gonum/plot ships no pie chart.
type Pie struct {
	Values     []float64
	Labels     []string
	Colors     []color.Color
	StartAngle float64 // radians
}

// Total returns the sum of the wedge values.
func (pc *Pie) Total() float64 {
	var t float64
	for _, v := range pc.Values {
		t += v
	}
	return t
}

// Plot implements plot.Plotter.
func (pc *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	total := pc.Total()
	if total <= 0 {
		return
	}

	center := c.Center()
	radius := 0.8 * min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2

	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(11)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	angle := pc.StartAngle
	for i, v := range pc.Values {
		sweep := 2 * math.Pi * v / total

		var wedge vg.Path
		wedge.Move(center)
		wedge.Arc(center, radius, angle, sweep)
		wedge.Close()
		if len(pc.Colors) > 0 {
			c.SetColor(pc.Colors[i%len(pc.Colors)])
		} else {
			c.SetColor(paletteColor(i))
		}
		c.Fill(wedge)

		mid := angle + sweep/2
		c.FillText(sty, polar(center, 0.6*radius, mid), fmt.Sprintf("%.1f%%", 100*v/total))
		if i < len(pc.Labels) {
			c.FillText(sty, polar(center, 1.12*radius, mid), pc.Labels[i])
		}
		angle += sweep
	}
}

func polar(center vg.Point, r vg.Length, theta float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(theta)),
		Y: center.Y + r*vg.Length(math.Sin(theta)),
	}
}

// DropoutPie plots each state's share of the total dropout count.
func DropoutPie(shares []summary.Share, year int) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Proporção de Alunos que Abandonaram a Escola em %d", year)
	p.HideAxes()

	pie := &Pie{StartAngle: pieStartAngle}
	for _, s := range shares {
		pie.Values = append(pie.Values, float64(s.Count))
		pie.Labels = append(pie.Labels, s.State)
	}
	p.Add(pie)
	return p
}
