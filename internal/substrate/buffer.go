package substrate

import "substrate/internal/core"

// Buffer is the accumulation image: the authoritative pixel state of a run.
type Buffer struct {
	grid *core.Grid[RGB]
}

// NewBuffer allocates a w*h buffer filled with bg.
func NewBuffer(w, h int, bg RGB) *Buffer {
	return &Buffer{grid: core.NewGrid(w, h, bg)}
}

// Size reports the buffer dimensions.
func (b *Buffer) Size() core.Size { return core.Size{W: b.grid.W, H: b.grid.H} }

// At returns the color at (x, y). ok is false when out of bounds.
func (b *Buffer) At(x, y int) (RGB, bool) { return b.grid.Get(x, y) }

// Set overwrites the color at (x, y); out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c RGB) bool { return b.grid.Set(x, y, c) }

// Fill paints every cell with c.
func (b *Buffer) Fill(c RGB) { b.grid.Fill(c) }

// Blend moves the cell at (x, y) toward c by alpha and returns the result.
// ok is false, and nothing changes, when the cell is out of bounds.
func (b *Buffer) Blend(x, y int, c RGB, alpha float64) (RGB, bool) {
	old, ok := b.grid.Get(x, y)
	if !ok {
		return RGB{}, false
	}
	next := old.Lerp(c, alpha)
	b.grid.Set(x, y, next)
	return next, true
}

// Pixels returns a row-major copy of the buffer contents.
func (b *Buffer) Pixels() []RGB { return b.grid.Snapshot() }
