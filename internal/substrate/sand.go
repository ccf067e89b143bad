package substrate

import "math"

// sandProbeStep is the sub-step used to find the far edge of open space.
const sandProbeStep = 0.81

// regionColor paints a soft gradient from the crack toward the nearest
// occupied cell on its side.
func (s *Substrate) regionColor(cr *Crack) error {
	w, h := s.cfg.Width, s.cfg.Height
	rad := radians(cr.T)

	rx, ry := cr.X, cr.Y
	// Seamless probes may never meet an occupied cell.
	limit := 2*int(float64(w+h)/sandProbeStep) + 2
	for i := 0; i < limit; i++ {
		rx += sandProbeStep * math.Sin(rad)
		ry -= sandProbeStep * math.Cos(rad)

		cx, cy := int(rx), int(ry)
		if s.cfg.Seamless {
			cx, cy = s.grid.Wrap(cx, cy)
		}
		v, ok := s.grid.Get(cx, cy)
		if !ok || !IsVacant(v) {
			break
		}
	}

	cr.SandG += s.rng.Uniform(-0.05, 0.05)
	cr.SandG = math.Max(0, math.Min(1, cr.SandG))

	grains := s.cfg.Grains
	wg := cr.SandG / float64(grains-1)
	for i := 0; i < grains; i++ {
		f := math.Sin(cr.SandP + math.Sin(float64(i)*wg))
		dx := cr.X + (rx-cr.X)*f
		dy := cr.Y + (ry-cr.Y)*f
		if s.cfg.Seamless {
			dx = wrapFloat(dx, float64(w))
			dy = wrapFloat(dy, float64(h))
		}
		alpha := 0.1 - float64(i)/float64(grains*10)
		if err := s.transPoint(dx, dy, cr.SandColor, alpha); err != nil {
			return err
		}
	}
	return nil
}

// transPoint blends c into the buffer at (x, y) and mirrors the result to the
// renderer. Points off the surface are dropped.
func (s *Substrate) transPoint(x, y float64, c RGB, alpha float64) error {
	if x < 0 || y < 0 {
		return nil
	}
	px, py := int(x), int(y)
	blended, ok := s.buffer.Blend(px, py, c, alpha)
	if !ok {
		return nil
	}
	return s.renderer.DrawPoint(px, py, blended.Color())
}

func wrapFloat(v, m float64) float64 {
	v = math.Mod(v, m)
	if v < 0 {
		v += m
	}
	return v
}
