package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrNotInitialized is returned when drawing before Initialize.
var ErrNotInitialized = errors.New("render: surface not initialized")

// Surface is an in-memory RGBA drawing surface. It satisfies the simulation's
// renderer contract and hands complete frames to a presenter.
type Surface struct {
	w, h    int
	buf     []byte
	inBatch bool
	dirty   bool
	frames  int
}

// NewSurface returns an uninitialized surface.
func NewSurface() *Surface { return &Surface{} }

// Initialize allocates a w*h pixel buffer.
func (s *Surface) Initialize(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New("render: surface dimensions must be positive")
	}
	s.w, s.h = w, h
	s.buf = make([]byte, 4*w*h)
	return nil
}

// BeginBatch opens a group of drawing calls.
func (s *Surface) BeginBatch() error {
	if s.buf == nil {
		return ErrNotInitialized
	}
	s.inBatch = true
	return nil
}

// EndBatch closes the current group; the frame becomes presentable.
func (s *Surface) EndBatch() error {
	s.inBatch = false
	s.frames++
	return nil
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c color.RGBA) error {
	if s.buf == nil {
		return ErrNotInitialized
	}
	fillRGBA(s.buf, c)
	s.dirty = true
	return nil
}

// DrawPoint sets a single pixel. Coordinates outside the surface are ignored.
func (s *Surface) DrawPoint(x, y int, c color.RGBA) error {
	if s.buf == nil {
		return ErrNotInitialized
	}
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return nil
	}
	base := (y*s.w + x) * 4
	s.buf[base+0] = c.R
	s.buf[base+1] = c.G
	s.buf[base+2] = c.B
	s.buf[base+3] = c.A
	s.dirty = true
	return nil
}

// Size returns the dimensions of the surface.
func (s *Surface) Size() (int, int) { return s.w, s.h }

// Frames counts completed batches.
func (s *Surface) Frames() int { return s.frames }

// TakeDirty reports whether pixels changed since the last call outside a
// batch, and resets the flag. Presenters upload Pixels only when it is true.
func (s *Surface) TakeDirty() bool {
	if s.inBatch || !s.dirty {
		return false
	}
	s.dirty = false
	return true
}

// Pixels exposes the RGBA bytes in row-major order.
func (s *Surface) Pixels() []byte { return s.buf }

// Image copies the surface into an image.RGBA.
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	copy(img.Pix, s.buf)
	return img
}

// fillRGBA writes c into every pixel of buf.
func fillRGBA(buf []byte, c color.RGBA) {
	for base := 0; base+3 < len(buf); base += 4 {
		buf[base+0] = c.R
		buf[base+1] = c.G
		buf[base+2] = c.B
		buf[base+3] = c.A
	}
}

// fillHeadingRGBA converts occupancy values into premultiplied RGBA pixels:
// vacant cells become transparent and occupied cells are tinted by heading.
func fillHeadingRGBA(buf []byte, cells []float64, vacant func(float64) bool, alpha uint8) {
	for i, v := range cells {
		base := i * 4
		if base+3 >= len(buf) {
			return
		}
		if vacant(v) {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		r, g, b := hue(v)
		buf[base+0] = premultiply(r, alpha)
		buf[base+1] = premultiply(g, alpha)
		buf[base+2] = premultiply(b, alpha)
		buf[base+3] = alpha
	}
}

// hue maps an angle in degrees onto a fully saturated color wheel.
func hue(deg float64) (uint8, uint8, uint8) {
	h := deg - 360*float64(int(deg/360))
	if h < 0 {
		h += 360
	}
	x := uint8(255 * (1 - abs(modTwo(h/60)-1)))
	switch int(h / 60) {
	case 0:
		return 255, x, 0
	case 1:
		return x, 255, 0
	case 2:
		return 0, 255, x
	case 3:
		return 0, x, 255
	case 4:
		return x, 0, 255
	default:
		return 255, 0, x
	}
}

func premultiply(c, alpha uint8) uint8 {
	return uint8(uint16(c) * uint16(alpha) / 255)
}

func modTwo(v float64) float64 { return v - 2*float64(int(v/2)) }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
