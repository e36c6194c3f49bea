package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default image size for rendered charts
const (
	DefaultWidth  = 640
	DefaultHeight = 360
)

// RenderPNG draws the chart as a PNG image
func RenderPNG(w io.Writer, c *Chart, width, height int) error {
	if c.Destroyed() {
		return fmt.Errorf("chart %s has been destroyed", c.ID)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if len(c.Datasets) == 0 {
		return fmt.Errorf("chart %s has no datasets", c.ID)
	}

	switch c.Kind {
	case Bar:
		return renderBar(w, c, width, height)
	case Line:
		return renderLine(w, c, width, height)
	case Scatter:
		return renderScatter(w, c, width, height)
	case Pie:
		return renderPie(w, c, width, height)
	default:
		return fmt.Errorf("unknown chart kind: %s", c.Kind)
	}
}

func renderBar(w io.Writer, c *Chart, width, height int) error {
	ds := c.Datasets[0]
	bars := make([]chart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		col := color(colorAt(ds.Colors, i, Blue))
		bars = append(bars, chart.Value{
			Label: labelAt(c.Labels, i),
			Value: v,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}

	bc := chart.BarChart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(width, len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: valueRange(ds.Data)},
		Bars:       bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering bar chart: %w", err)
	}
	return nil
}

func renderLine(w io.Writer, c *Chart, width, height int) error {
	ticks := make([]chart.Tick, 0, len(c.Labels))
	for i, label := range c.Labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}

	series := make([]chart.Series, 0, len(c.Datasets))
	values := make([][]float64, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		values = append(values, ds.Data)
		xs := make([]float64, len(ds.Data))
		for i := range xs {
			xs[i] = float64(i)
		}
		colors := ds.Colors
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ds.Data,
			Style: chart.Style{
				StrokeColor: color(colorAt(colors, 0, Blue)),
				StrokeWidth: 2,
				DotWidth:    4,
				DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
					return color(colorAt(colors, index, Blue))
				},
			},
		})
	}

	ch := chart.Chart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 20},
		},
		XAxis:  chart.XAxis{Ticks: ticks},
		YAxis:  chart.YAxis{Range: valueRange(values...)},
		Series: series,
	}
	// a single position gives the x axis no width
	switch {
	case len(ticks) == 1:
		ch.XAxis.Ticks = []chart.Tick{{Value: -1}, ticks[0], {Value: 1}}
	case len(ticks) == 0 && longest(values) < 2:
		ch.XAxis.Range = &chart.ContinuousRange{Min: -1, Max: 1}
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering line chart: %w", err)
	}
	return nil
}

func renderScatter(w io.Writer, c *Chart, width, height int) error {
	if !hasPoints(c) {
		return fmt.Errorf("scatter chart %s has no points", c.ID)
	}
	series := make([]chart.Series, 0, len(c.Datasets))
	var allX, allY []float64
	for _, ds := range c.Datasets {
		xs := make([]float64, len(ds.Points))
		ys := make([]float64, len(ds.Points))
		for i, p := range ds.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		allX = append(allX, xs...)
		allY = append(allY, ys...)

		colors := ds.Colors
		style := chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    5,
			DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return color(colorAt(colors, index, Blue))
			},
		}
		if ds.Overlay == Line {
			style = chart.Style{
				StrokeColor: color(colorAt(colors, 0, Red)),
				StrokeWidth: 2,
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	ch := chart.Chart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: "Usage Hours Per Day", Range: spanRange(allX)},
		YAxis:  chart.YAxis{Name: "Estimated Cost (₹)", Range: valueRange(allY)},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering scatter chart: %w", err)
	}
	return nil
}

func renderPie(w io.Writer, c *Chart, width, height int) error {
	ds := c.Datasets[0]
	values := make([]chart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		if v <= 0 {
			continue
		}
		col := color(colorAt(ds.Colors, i, Blue))
		values = append(values, chart.Value{
			Label: labelAt(c.Labels, i),
			Value: v,
			Style: chart.Style{FillColor: col},
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("pie chart %s has no positive values", c.ID)
	}

	pc := chart.PieChart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	if err := pc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering pie chart: %w", err)
	}
	return nil
}

// valueRange is the value axis: it starts at zero, like Chart.js beginAtZero,
// and never collapses to an empty span
func valueRange(values ...[]float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.05}
}

// spanRange fits the values, padding a single value on both sides
func spanRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func longest(values [][]float64) int {
	n := 0
	for _, vs := range values {
		n = max(n, len(vs))
	}
	return n
}

func hasPoints(c *Chart) bool {
	for _, ds := range c.Datasets {
		if len(ds.Points) > 0 {
			return true
		}
	}
	return false
}

func barWidth(width, n int) int {
	if n == 0 {
		return 40
	}
	bw := width / (n * 2)
	if bw > 80 {
		bw = 80
	}
	if bw < 8 {
		bw = 8
	}
	return bw
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

func colorAt(colors []string, i int, fallback string) string {
	if i < len(colors) {
		return colors[i]
	}
	return fallback
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
