package render

// HeadingLayer turns occupancy values into a translucent RGBA overlay.
type HeadingLayer struct {
	buf    []byte
	vacant func(float64) bool
	alpha  uint8
}

// NewHeadingLayer allocates a layer for w*h cells. vacant identifies cells
// that should stay transparent.
func NewHeadingLayer(w, h int, vacant func(float64) bool, alpha uint8) *HeadingLayer {
	return &HeadingLayer{buf: make([]byte, 4*w*h), vacant: vacant, alpha: alpha}
}

// Update recolors the layer from cells and returns the RGBA bytes.
func (l *HeadingLayer) Update(cells []float64) []byte {
	fillHeadingRGBA(l.buf, cells, l.vacant, l.alpha)
	return l.buf
}
