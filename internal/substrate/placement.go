package substrate

import "math"

// startCrack places cr on an occupied cell, deflected roughly perpendicular to
// the heading stored there, and primes its curvature.
func (s *Substrate) startCrack(cr *Crack) {
	w, h := s.cfg.Width, s.cfg.Height

	var px, py int
	found := false
	for attempt := 0; !found && attempt < placementAttempts; attempt++ {
		px = s.rng.IntN(w)
		py = s.rng.IntN(h)
		if v, _ := s.grid.Get(px, py); !IsVacant(v) {
			found = true
		}
	}
	if !found {
		px, py = s.fallbackCell(cr)
	}

	a, _ := s.grid.Get(px, py)
	if s.rng.Bool() {
		a -= 90 * s.rng.Uniform(-2, 2.1)
	} else {
		a += 90 * s.rng.Uniform(-2, 2.1)
	}

	if s.rng.IntRange(0, 100) < s.cfg.CirclePercent {
		cr.Curved = true
		cr.DegreesDrawn = 0

		r := 10 + s.rng.Uniform(0, float64(w+h)/2)
		if s.rng.Bool() {
			r = -r
		}
		// arc length = r * theta
		inc := step / r
		cr.TInc = inc * 180 / math.Pi
		cr.YS = r * math.Sin(inc)
		cr.XS = r * (1 - math.Cos(inc))
	} else {
		cr.Curved = false
	}

	cr.X = float64(px) + 0.61*math.Cos(radians(a))
	cr.Y = float64(py) + 0.61*math.Sin(radians(a))
	cr.T = a
	cr.StartX, cr.StartY = cr.X, cr.Y
	cr.StartCycle = s.cycles
}

// fallbackCell anchors a crack whose search found nothing at its own clamped
// position. A vacant cell takes the crack's heading; an occupied one keeps
// what it has.
func (s *Substrate) fallbackCell(cr *Crack) (int, int) {
	px := clampInt(int(cr.X), 0, s.cfg.Width-1)
	py := clampInt(int(cr.Y), 0, s.cfg.Height-1)
	if v, _ := s.grid.Get(px, py); IsVacant(v) {
		s.grid.Set(px, py, cr.T)
	}
	return px, py
}

// makeCrack spawns a fresh crack when there is room and births are allowed.
func (s *Substrate) makeCrack() {
	if len(s.cracks) >= s.cfg.MaxCracks || s.quiesced {
		s.logger.Debug("crack birth suppressed",
			"live", len(s.cracks),
			"max", s.cfg.MaxCracks,
			"quiesced", s.quiesced,
		)
		return
	}

	cr := &Crack{ID: s.nextID}
	s.nextID++
	cr.SandP = 0
	cr.SandG = s.rng.Uniform(-0.01, 0.19)
	cr.SandColor = s.cfg.Palette[s.rng.IntN(len(s.cfg.Palette))]
	cr.X = float64(s.rng.IntN(s.cfg.Width))
	cr.Y = float64(s.rng.IntN(s.cfg.Height))
	cr.T = s.rng.Uniform(0, 360)

	s.startCrack(cr)
	s.cracks = append(s.cracks, cr)
	s.logger.Debug("crack born", "id", cr.ID, "x", cr.X, "y", cr.Y, "t", cr.T, "curved", cr.Curved)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
