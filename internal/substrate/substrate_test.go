package substrate

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"slices"
	"testing"
)

type recordingRenderer struct {
	w, h        int
	initialized int
	batches     int
	open        bool
	fills       []color.RGBA
	points      int
	outOfBounds [][2]int
	failPoint   error
}

func (r *recordingRenderer) Initialize(w, h int) error {
	r.w, r.h = w, h
	r.initialized++
	return nil
}

func (r *recordingRenderer) BeginBatch() error {
	r.open = true
	r.batches++
	return nil
}

func (r *recordingRenderer) EndBatch() error {
	r.open = false
	return nil
}

func (r *recordingRenderer) Fill(c color.RGBA) error {
	r.fills = append(r.fills, c)
	return nil
}

func (r *recordingRenderer) DrawPoint(x, y int, c color.RGBA) error {
	if r.failPoint != nil {
		return r.failPoint
	}
	r.points++
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		r.outOfBounds = append(r.outOfBounds, [2]int{x, y})
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Seed = 42
	cfg.Grains = 16
	return cfg
}

func mustNew(t *testing.T, cfg Config, r Renderer, opts ...Option) *Substrate {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(cfg, r, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"zero height", func(c *Config) { c.Height = 0 }, "height"},
		{"oversized surface", func(c *Config) { c.Width, c.Height = 1 << 20, 1 << 20 }, "width*height"},
		{"empty palette", func(c *Config) { c.Palette = nil }, "palette"},
		{"single grain", func(c *Config) { c.Grains = 1 }, "grains"},
		{"zero grains", func(c *Config) { c.Grains = 0 }, "grains"},
		{"circle percent above 100", func(c *Config) { c.CirclePercent = 101 }, "circle_percent"},
		{"negative max cracks", func(c *Config) { c.MaxCracks = -1 }, "max_cracks"},
		{"negative max cycles", func(c *Config) { c.MaxCycles = -3 }, "max_cycles"},
		{"unknown policy", func(c *Config) { c.Collision = "angle" }, "collision_policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, nil)
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cerr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, cerr.Field)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestCyclesAndMaxCycleTermination(t *testing.T) {
	cfg := testConfig(40, 30)
	cfg.MaxCycles = 5
	s := mustNew(t, cfg, nil)

	if s.Cycles() != 0 || s.Initialized() {
		t.Fatalf("fresh substrate should be uninitialized at cycle 0")
	}
	for i := 1; i <= 5; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if s.Cycles() != i {
			t.Fatalf("expected %d cycles, got %d", i, s.Cycles())
		}
		if s.Done() {
			t.Fatalf("done too early at cycle %d", i)
		}
	}
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !s.Done() || s.Cycles() != 6 {
		t.Fatalf("expected done at cycle 6, got done=%v cycles=%d", s.Done(), s.Cycles())
	}
	if err := s.Update(); err != nil {
		t.Fatalf("Update after done: %v", err)
	}
	if s.Cycles() != 6 {
		t.Fatalf("update after done must be a no-op, cycles=%d", s.Cycles())
	}
}

func TestFirstUpdateInitializesSurface(t *testing.T) {
	cfg := testConfig(32, 32)
	r := &recordingRenderer{}
	s := mustNew(t, cfg, r)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.initialized != 1 || r.w != 32 || r.h != 32 {
		t.Fatalf("renderer initialized %d times with %dx%d", r.initialized, r.w, r.h)
	}
	if len(r.fills) != 1 || r.fills[0] != cfg.Background.Color() {
		t.Fatalf("expected one background fill, got %v", r.fills)
	}
	if r.batches != 2 || r.open {
		t.Fatalf("expected two closed batches, got %d open=%v", r.batches, r.open)
	}
	if len(s.CrackIDs()) == 0 {
		t.Fatal("expected initial cracks")
	}
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.initialized != 1 {
		t.Fatal("renderer must only be initialized once")
	}
}

func TestDeterministicReplay(t *testing.T) {
	cfg := testConfig(60, 40)
	cfg.CirclePercent = 30

	run := func(c Config) *Substrate {
		s := mustNew(t, c, nil)
		for i := 0; i < 200; i++ {
			if err := s.Update(); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
		return s
	}

	a := run(cfg)
	b := run(cfg)
	if !slices.Equal(a.Buffer().Pixels(), b.Buffer().Pixels()) {
		t.Fatal("same seed produced different buffers")
	}

	captured := a.Config()
	if captured.RNGState == "" {
		t.Fatal("expected rng state to be captured on first update")
	}
	replay := captured
	replay.Seed = 999
	c := run(replay)
	if !slices.Equal(a.Buffer().Pixels(), c.Buffer().Pixels()) {
		t.Fatal("restored rng state produced a different buffer")
	}
	if !slices.Equal(a.CrackIDs(), c.CrackIDs()) {
		t.Fatalf("restored run diverged: %v vs %v", a.CrackIDs(), c.CrackIDs())
	}
}

func TestOccupiedCellsNeverRevert(t *testing.T) {
	cfg := testConfig(80, 60)
	cfg.CirclePercent = 30
	s := mustNew(t, cfg, nil)

	prev := s.Occupancy()
	for i := 0; i < 300; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		cur := s.Occupancy()
		for j, v := range prev {
			if !IsVacant(v) && IsVacant(cur[j]) {
				t.Fatalf("cycle %d: cell %d reverted to vacant", s.Cycles(), j)
			}
		}
		prev = cur
	}
}

func TestCrackIDsStrictlyIncreasing(t *testing.T) {
	cfg := testConfig(50, 50)
	cfg.MaxCracks = 20
	cfg.CirclePercent = 20

	seen := map[int]bool{}
	var deaths []int
	s := mustNew(t, cfg, nil, WithDeathHandler(func(r DeathRecord) {
		deaths = append(deaths, r.ID)
	}))

	for i := 0; i < 400; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		ids := s.CrackIDs()
		for k, id := range ids {
			if k > 0 && ids[k-1] >= id {
				t.Fatalf("cycle %d: ids not increasing: %v", s.Cycles(), ids)
			}
			if id >= s.NextCrackID() {
				t.Fatalf("id %d not below next id %d", id, s.NextCrackID())
			}
			seen[id] = true
		}
		if len(ids) > cfg.MaxCracks {
			t.Fatalf("live cracks %d exceed max %d", len(ids), cfg.MaxCracks)
		}
	}

	dead := map[int]bool{}
	for _, id := range deaths {
		if dead[id] {
			t.Fatalf("crack %d died twice", id)
		}
		dead[id] = true
	}
	for _, id := range s.CrackIDs() {
		if dead[id] {
			t.Fatalf("dead crack %d is live again", id)
		}
	}
	if len(deaths) != s.Deaths() {
		t.Fatalf("handler saw %d deaths, substrate counted %d", len(deaths), s.Deaths())
	}
	if len(deaths) == 0 {
		t.Fatal("expected some churn in 400 cycles")
	}
}

func TestDrawPointsStayInBounds(t *testing.T) {
	for _, seamless := range []bool{false, true} {
		cfg := testConfig(23, 17)
		cfg.Seamless = seamless
		cfg.CirclePercent = 50
		r := &recordingRenderer{}
		s := mustNew(t, cfg, r)
		for i := 0; i < 500; i++ {
			if err := s.Update(); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
		if r.points == 0 {
			t.Fatalf("seamless=%v: expected draw calls", seamless)
		}
		if len(r.outOfBounds) > 0 {
			t.Fatalf("seamless=%v: out-of-bounds draws %v", seamless, r.outOfBounds[:min(5, len(r.outOfBounds))])
		}
	}
}

func TestSingleCrackScenario(t *testing.T) {
	cfg := testConfig(10, 10)
	cfg.InitialCracks = 1
	cfg.MaxCracks = 1
	cfg.Wireframe = true
	cfg.CirclePercent = 0
	s := mustNew(t, cfg, nil)

	for i := 0; i < 50; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if n := len(s.CrackIDs()); n > 1 {
			t.Fatalf("cycle %d: %d live cracks", s.Cycles(), n)
		}
		if s.Done() {
			t.Fatalf("cycle %d: done without quiescing or a cycle cap", s.Cycles())
		}
	}
}

func TestQuiesceDrainsToDone(t *testing.T) {
	cfg := testConfig(30, 30)
	cfg.InitialCracks = 5
	cfg.MaxCracks = 5
	cfg.CirclePercent = 50
	s := mustNew(t, cfg, nil)

	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	s.SetQuiesced(true)
	want := s.NextCrackID()

	for i := 0; i < 20000 && !s.Done(); i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if s.NextCrackID() != want {
			t.Fatalf("crack born while quiesced: next id %d", s.NextCrackID())
		}
	}
	if !s.Done() {
		t.Fatal("quiesced substrate never drained")
	}
	if len(s.CrackIDs()) != 0 {
		t.Fatalf("done with live cracks %v", s.CrackIDs())
	}
	st := s.Status()
	if st.NextCrackIDWhenQuiesced == nil || *st.NextCrackIDWhenQuiesced != want {
		t.Fatalf("status quiesce id = %v, want %d", st.NextCrackIDWhenQuiesced, want)
	}
	if st.Cycles != s.Cycles() {
		t.Fatalf("status cycles %d != %d", st.Cycles, s.Cycles())
	}
}

func TestRendererErrorPropagates(t *testing.T) {
	boom := errors.New("surface lost")
	r := &recordingRenderer{failPoint: boom}
	s := mustNew(t, testConfig(20, 20), r)
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		err = s.Update()
	}
	if err != boom {
		t.Fatalf("expected renderer error unchanged, got %v", err)
	}
}

func TestWireframeSkipsSand(t *testing.T) {
	cfg := testConfig(40, 40)
	cfg.Wireframe = true
	s := mustNew(t, cfg, nil)
	for i := 0; i < 150; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	fg := 0
	for _, p := range s.Buffer().Pixels() {
		switch p {
		case cfg.Foreground:
			fg++
		case cfg.Background:
		default:
			t.Fatalf("wireframe buffer holds blended pixel %v", p)
		}
	}
	if fg == 0 {
		t.Fatal("expected crack pixels")
	}
}

func TestSandBlendsIntoBuffer(t *testing.T) {
	cfg := testConfig(40, 40)
	s := mustNew(t, cfg, nil)
	for i := 0; i < 100; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	blended := 0
	for _, p := range s.Buffer().Pixels() {
		if p != cfg.Foreground && p != cfg.Background {
			blended++
		}
	}
	if blended == 0 {
		t.Fatal("expected sand-painted pixels")
	}
}
