//go:build ebiten

package ui

import (
	"substrate/internal/core"
	"substrate/internal/render"
	"substrate/internal/substrate"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type occupancyProvider interface {
	Occupancy() []float64
}

// Overlay draws the occupancy grid, tinted by stored heading, on top of the
// base simulation.
type Overlay struct {
	sim      core.Sim
	scale    int
	showGrid bool
	layer    *render.HeadingLayer
	img      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale}
}

// Update toggles the grid view.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showGrid = !o.showGrid
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showGrid {
		return
	}
	provider, ok := o.sim.(occupancyProvider)
	if !ok {
		return
	}
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.layer == nil {
		o.layer = render.NewHeadingLayer(size.W, size.H, substrate.IsVacant, 160)
		o.img = ebiten.NewImage(size.W, size.H)
	}
	o.img.WritePixels(o.layer.Update(provider.Occupancy()))

	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.img, op)
}
