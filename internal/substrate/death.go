package substrate

import "log/slog"

// DeathCause names why a crack stopped growing.
type DeathCause string

const (
	CauseOutOfBounds  DeathCause = "out_of_bounds"
	CauseCircleClosed DeathCause = "circle_closed"
	CauseCollision    DeathCause = "collision"
)

// DeathRecord is the diagnostic emitted when a crack is killed.
type DeathRecord struct {
	ID         int        `csv:"id"`
	Cause      DeathCause `csv:"cause"`
	StartX     float64    `csv:"start_x"`
	StartY     float64    `csv:"start_y"`
	EndX       float64    `csv:"end_x"`
	EndY       float64    `csv:"end_y"`
	Length     float64    `csv:"length"`
	StartCycle int        `csv:"start_cycle"`
	EndCycle   int        `csv:"end_cycle"`
	Lifetime   int        `csv:"lifetime"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r DeathRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", r.ID),
		slog.String("cause", string(r.Cause)),
		slog.Float64("start_x", r.StartX),
		slog.Float64("start_y", r.StartY),
		slog.Float64("end_x", r.EndX),
		slog.Float64("end_y", r.EndY),
		slog.Float64("length", r.Length),
		slog.Int("lifetime", r.Lifetime),
	)
}

// Status is the run state persisted next to exported imagery.
type Status struct {
	Cycles                  int  `yaml:"cycles"`
	NextCrackIDWhenQuiesced *int `yaml:"next_crack_id_when_quiesced"`
}
