package substrate

import "image/color"

// Renderer is the drawing surface the simulation mirrors its pixels to.
// Coordinates passed to DrawPoint are always inside [0,w)x[0,h).
type Renderer interface {
	Initialize(w, h int) error
	BeginBatch() error
	EndBatch() error
	Fill(c color.RGBA) error
	DrawPoint(x, y int, c color.RGBA) error
}

// NopRenderer discards every drawing call. Useful for headless runs where only
// the accumulation buffer matters.
type NopRenderer struct{}

func (NopRenderer) Initialize(int, int) error            { return nil }
func (NopRenderer) BeginBatch() error                    { return nil }
func (NopRenderer) EndBatch() error                      { return nil }
func (NopRenderer) Fill(color.RGBA) error                { return nil }
func (NopRenderer) DrawPoint(int, int, color.RGBA) error { return nil }
