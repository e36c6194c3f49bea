package charts

import (
	"sort"
	"sync"
)

// Board is the set of canvases a page draws charts on. Each canvas holds at
// most one live chart.
type Board struct {
	mu        sync.Mutex
	live      map[string]*Chart
	mounted   int
	destroyed int
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{live: make(map[string]*Chart)}
}

// Slot returns the handle for a canvas. A component keeps its slot as a field
// and is the only writer to that canvas.
func (b *Board) Slot(canvas string) *Slot {
	return &Slot{board: b, canvas: canvas}
}

// Get returns the live chart on a canvas
func (b *Board) Get(canvas string) (*Chart, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.live[canvas]
	return c, ok
}

// Canvases returns the canvases that currently hold a chart, sorted
func (b *Board) Canvases() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.live))
	for canvas := range b.live {
		out = append(out, canvas)
	}
	sort.Strings(out)
	return out
}

// Stats returns how many charts were mounted and destroyed over the board's life
func (b *Board) Stats() (mounted, destroyed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted, b.destroyed
}

// replace destroys the prior chart on canvas before mounting c
func (b *Board) replace(canvas string, c *Chart) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.live[canvas]; ok {
		prev.Destroy()
		b.destroyed++
		delete(b.live, canvas)
	}
	if c == nil {
		return
	}
	b.live[canvas] = c
	b.mounted++
}

// Slot is a component-owned handle on one canvas
type Slot struct {
	board  *Board
	canvas string
}

// Canvas returns the canvas ID the slot draws on
func (s *Slot) Canvas() string {
	return s.canvas
}

// Replace destroys the current chart, if any, and mounts c
func (s *Slot) Replace(c *Chart) {
	s.board.replace(s.canvas, c)
}

// Clear destroys the current chart and leaves the canvas empty
func (s *Slot) Clear() {
	s.board.replace(s.canvas, nil)
}

// Current returns the live chart on the slot's canvas
func (s *Slot) Current() (*Chart, bool) {
	return s.board.Get(s.canvas)
}
