package charts

import (
	"sync"

	"github.com/google/uuid"
)

// Kind is the type of chart drawn on a canvas
type Kind string

const (
	Bar     Kind = "bar"
	Line    Kind = "line"
	Scatter Kind = "scatter"
	Pie     Kind = "pie"
)

// Point is an (x, y) pair for scatter data
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dataset is one series of a chart
type Dataset struct {
	Label  string    `json:"label"`
	Data   []float64 `json:"data,omitempty"`
	Points []Point   `json:"points,omitempty"`
	Colors []string  `json:"colors,omitempty"`
	// Overlay draws this dataset as a different kind on top of the chart,
	// e.g. a regression line over a scatter.
	Overlay Kind `json:"overlay,omitempty"`
}

// Chart describes a chart instance mounted on a canvas
type Chart struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	Labels   []string  `json:"labels,omitempty"`
	Datasets []Dataset `json:"datasets"`

	mu        sync.Mutex
	destroyed bool
}

// New creates a chart with a fresh instance ID
func New(kind Kind, title string, labels []string, datasets ...Dataset) *Chart {
	return &Chart{
		ID:       uuid.NewString(),
		Kind:     kind,
		Title:    title,
		Labels:   labels,
		Datasets: datasets,
	}
}

// Destroy releases the instance; it must not be drawn again
func (c *Chart) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.mu.Unlock()
}

// Destroyed reports whether Destroy has been called
func (c *Chart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// ChartJS returns a Chart.js compatible config for browser clients
func (c *Chart) ChartJS() map[string]any {
	datasets := make([]map[string]any, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		d := map[string]any{"label": ds.Label}
		if ds.Overlay != "" {
			d["type"] = string(ds.Overlay)
			d["fill"] = false
		}
		if len(ds.Points) > 0 {
			d["data"] = ds.Points
		} else {
			d["data"] = ds.Data
		}
		if len(ds.Colors) > 0 {
			d["backgroundColor"] = ds.Colors
			if c.Kind == Line {
				d["pointBackgroundColor"] = ds.Colors
				d["borderColor"] = ds.Colors[0]
			}
		}
		datasets = append(datasets, d)
	}
	return map[string]any{
		"type": string(c.Kind),
		"data": map[string]any{
			"labels":   c.Labels,
			"datasets": datasets,
		},
		"options": map[string]any{
			"responsive": true,
			"plugins": map[string]any{
				"title": map[string]any{"display": c.Title != "", "text": c.Title},
			},
		},
	}
}
