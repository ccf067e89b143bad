// Package substrate grows branching crack curves across a 2D surface. Each
// crack deflects off earlier paths, optionally curls into a circular arc, and
// leaves a soft sand-painted trail in an accumulation buffer.
package substrate

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"substrate/internal/core"
	pkgcore "substrate/pkg/core"
)

const (
	// step is the distance a crack advances per cycle.
	step = 0.42
	// vacant marks a grid cell no crack has visited.
	vacant = 10001.0
	// vacantThreshold separates headings from the vacant marker.
	vacantThreshold = 10000.0
	// placementAttempts bounds the search for an occupied cell to branch from.
	placementAttempts = 10000
)

// Substrate owns the occupancy grid, the accumulation buffer and the live
// cracks. It is a synchronous step function; callers drive it with Update.
type Substrate struct {
	cfg Config

	grid   *core.Grid[float64]
	buffer *Buffer
	cracks []*Crack

	rng      *pkgcore.RNG
	renderer Renderer
	logger   *slog.Logger
	onDeath  func(DeathRecord)

	nextID  int
	cycles  int
	deaths  int
	idWhenQ *int

	initialized bool
	quiesced    bool
	done        bool
}

// Option customizes a Substrate.
type Option func(*Substrate)

// WithLogger routes diagnostics to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Substrate) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDeathHandler registers fn to receive every death record.
func WithDeathHandler(fn func(DeathRecord)) Option {
	return func(s *Substrate) { s.onDeath = fn }
}

// New validates cfg and builds a simulation drawing to r. A zero seed is
// replaced with a time-derived one, which Config() then reports.
func New(cfg Config, r Renderer, opts ...Option) (*Substrate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NopRenderer{}
	}
	cfg.Palette = append([]RGB(nil), cfg.Palette...)
	if cfg.Seed == 0 && cfg.RNGState == "" {
		cfg.Seed = time.Now().UnixNano()
	}
	s := &Substrate{
		cfg:      cfg,
		grid:     core.NewGrid(cfg.Width, cfg.Height, vacant),
		buffer:   NewBuffer(cfg.Width, cfg.Height, cfg.Background),
		rng:      pkgcore.NewRNG(cfg.Seed),
		renderer: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the simulation identifier.
func (s *Substrate) Name() string { return "substrate" }

// Size reports the surface dimensions.
func (s *Substrate) Size() core.Size { return core.Size{W: s.cfg.Width, H: s.cfg.Height} }

// Config returns the configuration, including the captured generator state
// once the first update has run.
func (s *Substrate) Config() Config {
	c := s.cfg
	c.Palette = append([]RGB(nil), s.cfg.Palette...)
	return c
}

// Cycles reports how many update cycles have run.
func (s *Substrate) Cycles() int { return s.cycles }

// Done reports whether the run has reached a terminal state.
func (s *Substrate) Done() bool { return s.done }

// Initialized reports whether the first update has prepared the surface.
func (s *Substrate) Initialized() bool { return s.initialized }

// Quiesced reports whether births are suppressed.
func (s *Substrate) Quiesced() bool { return s.quiesced }

// SetQuiesced stops (or resumes) future births. It takes effect on the next
// update; the id counter at the first transition is kept for Status.
func (s *Substrate) SetQuiesced(q bool) { s.quiesced = q }

// NextCrackID is the id the next born crack will receive.
func (s *Substrate) NextCrackID() int { return s.nextID }

// Deaths counts cracks killed so far.
func (s *Substrate) Deaths() int { return s.deaths }

// Buffer exposes the accumulation buffer.
func (s *Substrate) Buffer() *Buffer { return s.buffer }

// Occupancy returns a copy of the occupancy grid in row-major order. Vacant
// cells hold a value above 10000.
func (s *Substrate) Occupancy() []float64 { return s.grid.Snapshot() }

// IsVacant reports whether an occupancy value marks an unvisited cell.
func IsVacant(v float64) bool { return v > vacantThreshold }

// CrackIDs lists live crack ids in birth order.
func (s *Substrate) CrackIDs() []int {
	ids := make([]int, len(s.cracks))
	for i, c := range s.cracks {
		ids[i] = c.ID
	}
	return ids
}

// Cracks returns read-only views of the live cracks in birth order.
func (s *Substrate) Cracks() []CrackInfo {
	out := make([]CrackInfo, len(s.cracks))
	for i, c := range s.cracks {
		out[i] = c.info()
	}
	return out
}

// Status returns the persistable run status.
func (s *Substrate) Status() Status {
	st := Status{Cycles: s.cycles}
	if s.idWhenQ != nil {
		id := *s.idWhenQ
		st.NextCrackIDWhenQuiesced = &id
	}
	return st
}

// Update advances the simulation by one cycle. The first call also prepares
// the surface and spawns the initial cracks. Calls after Done are no-ops.
// Renderer errors are returned unchanged.
func (s *Substrate) Update() error {
	if s.done {
		return nil
	}
	if !s.initialized {
		if err := s.initialize(); err != nil {
			return err
		}
	}

	if s.quiesced && s.idWhenQ == nil {
		id := s.nextID
		s.idWhenQ = &id
		s.logger.Info("quiesced", "next_crack_id", id, "cycle", s.cycles)
	}

	s.cycles++
	if err := s.renderer.BeginBatch(); err != nil {
		return err
	}
	for _, cr := range slices.Clone(s.cracks) {
		if cr.dead {
			continue
		}
		if err := s.moveDrawCrack(cr); err != nil {
			return err
		}
	}
	if err := s.renderer.EndBatch(); err != nil {
		return err
	}

	switch {
	case s.cfg.MaxCycles > 0 && s.cycles > s.cfg.MaxCycles:
		s.done = true
		s.logger.Info("max cycles reached", "cycles", s.cycles, "deaths", s.deaths)
	case len(s.cracks) == 0:
		s.done = true
		s.logger.Info("no live cracks", "cycles", s.cycles, "deaths", s.deaths)
	}
	return nil
}

func (s *Substrate) initialize() error {
	if s.cfg.RNGState != "" {
		if err := s.rng.Restore(s.cfg.RNGState); err != nil {
			return fmt.Errorf("substrate: %w", err)
		}
	} else {
		state, err := s.rng.State()
		if err != nil {
			return fmt.Errorf("substrate: %w", err)
		}
		s.cfg.RNGState = state
	}

	s.buffer.Fill(s.cfg.Background)
	if err := s.renderer.Initialize(s.cfg.Width, s.cfg.Height); err != nil {
		return err
	}
	if err := s.renderer.BeginBatch(); err != nil {
		return err
	}
	if err := s.renderer.Fill(s.cfg.Background.Color()); err != nil {
		return err
	}
	for i := 0; i < s.cfg.InitialCracks; i++ {
		s.makeCrack()
	}
	if err := s.renderer.EndBatch(); err != nil {
		return err
	}
	s.initialized = true
	s.logger.Info("substrate initialized",
		"width", s.cfg.Width,
		"height", s.cfg.Height,
		"cracks", len(s.cracks),
		"seed", s.cfg.Seed,
	)
	return nil
}
