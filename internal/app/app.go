//go:build ebiten

package app

import (
	"image/color"

	"substrate/internal/core"
	"substrate/internal/render"
	"substrate/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type quiescer interface {
	SetQuiesced(bool)
	Quiesced() bool
}

// Game adapts a core simulation to the ebiten.Game interface. The simulation
// draws into surface; Draw uploads the surface whenever a batch completed.
type Game struct {
	sim     core.Sim
	surface *render.Surface
	img     *ebiten.Image
	hud     *ui.HUD
	overlay *ui.Overlay
	save    func() error

	scale     int
	hudWidth  int
	paused    bool
	tickOnce  bool
	savedDone bool
}

// New constructs a Game for the provided simulation. save is invoked on the
// save key and once when the simulation reaches done; it may be nil.
func New(sim core.Sim, surface *render.Surface, scale int, save func() error) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := sim.Size()
	const hudWidth = 220
	return &Game{
		sim:      sim,
		surface:  surface,
		img:      ebiten.NewImage(size.W, size.H),
		hud:      ui.NewHUD(sim, hudWidth),
		overlay:  ui.NewOverlay(sim, scale),
		save:     save,
		scale:    scale,
		hudWidth: hudWidth,
	}
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		if q, ok := g.sim.(quiescer); ok {
			q.SetQuiesced(true)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.runSave(); err != nil {
			return err
		}
	}

	g.overlay.Update()
	g.hud.Update()

	if (!g.paused || g.tickOnce) && !g.sim.Done() {
		if err := g.sim.Update(); err != nil {
			return err
		}
		g.tickOnce = false
	}
	if g.sim.Done() && !g.savedDone {
		g.savedDone = true
		if err := g.runSave(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) runSave() error {
	if g.save == nil {
		return nil
	}
	return g.save()
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.surface.TakeDirty() {
		g.img.WritePixels(g.surface.Pixels())
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.img, op)
	g.overlay.Draw(screen)

	size := g.sim.Size()
	g.hud.Draw(screen, size.W*g.scale, size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
