package substrate

import (
	"math"
	"slices"
)

// moveDrawCrack advances cr one step, paints it and decides whether it lives on.
func (s *Substrate) moveDrawCrack(cr *Crack) error {
	rad := radians(cr.T)
	if !cr.Curved {
		cr.X += step * math.Cos(rad)
		cr.Y += step * math.Sin(rad)
	} else {
		cr.X += cr.YS * math.Cos(rad)
		cr.Y += cr.YS * math.Sin(rad)
		cr.X += cr.XS * math.Cos(rad-math.Pi/2)
		cr.Y += cr.XS * math.Sin(rad-math.Pi/2)
		cr.T += cr.TInc
		cr.DegreesDrawn += math.Abs(cr.TInc)
	}

	// Jitter before truncating to soften stair-stepping.
	cx := int(cr.X + s.rng.Uniform(0.33, 0.66))
	cy := int(cr.Y + s.rng.Uniform(0.33, 0.66))
	if s.cfg.Seamless {
		cx, cy = s.grid.Wrap(cx, cy)
	}

	if !s.grid.InBounds(cx, cy) {
		s.replace(cr, CauseOutOfBounds)
		return nil
	}

	if !s.cfg.Wireframe {
		if err := s.regionColor(cr); err != nil {
			return err
		}
	}

	s.buffer.Set(cx, cy, s.cfg.Foreground)
	if err := s.renderer.DrawPoint(cx, cy, s.cfg.Foreground.Color()); err != nil {
		return err
	}

	if cr.Curved && cr.DegreesDrawn > 360 {
		s.replace(cr, CauseCircleClosed)
		return nil
	}

	g, _ := s.grid.Get(cx, cy)
	switch {
	case IsVacant(g) || math.Abs(g-cr.T) < 5:
		s.grid.Set(cx, cy, math.Trunc(cr.T))
	case s.collides(g, cr.T):
		s.replace(cr, CauseCollision)
	}
	return nil
}

// collides applies the configured policy to an occupied, incompatible cell.
func (s *Substrate) collides(stored, heading float64) bool {
	if s.cfg.Collision == CollisionDifference {
		return math.Abs(stored-heading) > 2
	}
	return math.Abs(stored) > 2
}

// replace kills cr and tries to spawn two successors.
func (s *Substrate) replace(cr *Crack, cause DeathCause) {
	s.killCrack(cr, cause)
	s.makeCrack()
	s.makeCrack()
}

// killCrack removes cr from the live set for good and reports its record.
func (s *Substrate) killCrack(cr *Crack, cause DeathCause) {
	i := slices.Index(s.cracks, cr)
	if i < 0 {
		return
	}
	s.cracks = slices.Delete(s.cracks, i, i+1)
	cr.dead = true
	s.deaths++

	rec := DeathRecord{
		ID:         cr.ID,
		Cause:      cause,
		StartX:     cr.StartX,
		StartY:     cr.StartY,
		EndX:       cr.X,
		EndY:       cr.Y,
		Length:     cr.Length(),
		StartCycle: cr.StartCycle,
		EndCycle:   s.cycles,
		Lifetime:   s.cycles - cr.StartCycle,
	}
	s.logger.Debug("crack died", "crack", rec)
	if s.onDeath != nil {
		s.onDeath(rec)
	}
}
