package core

// Grid stores a 2D grid of values in row-major order. All accessors are
// bounds-checked; callers never index the backing slice directly.
type Grid[T any] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions, every cell set to fill.
func NewGrid[T any](w, h int, fill T) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &Grid[T]{W: w, H: h, data: make([]T, w*h)}
	g.Fill(fill)
	return g
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the value at (x, y). ok is false when the coordinates are out of bounds.
func (g *Grid[T]) Get(x, y int) (v T, ok bool) {
	if !g.InBounds(x, y) {
		return v, false
	}
	return g.data[y*g.W+x], true
}

// Set stores v at (x, y) and reports whether the write happened.
func (g *Grid[T]) Set(x, y int, v T) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.data[y*g.W+x] = v
	return true
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid[T]) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Snapshot returns a copy of the cells in row-major order.
func (g *Grid[T]) Snapshot() []T {
	return append([]T(nil), g.data...)
}
