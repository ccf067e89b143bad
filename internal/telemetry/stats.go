package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"substrate/internal/substrate"
)

// Summary aggregates crack death records.
type Summary struct {
	Count int
	// ByCause counts deaths per cause.
	ByCause map[substrate.DeathCause]int

	LengthMean   float64
	LengthStdDev float64
	LengthP50    float64
	LengthP90    float64

	LifetimeMean float64
	LifetimeP50  float64
	LifetimeMax  float64
}

// Summarize computes length and lifetime statistics over records.
func Summarize(records []substrate.DeathRecord) Summary {
	s := Summary{Count: len(records), ByCause: map[substrate.DeathCause]int{}}
	if len(records) == 0 {
		return s
	}

	lengths := make([]float64, len(records))
	lifetimes := make([]float64, len(records))
	for i, r := range records {
		lengths[i] = r.Length
		lifetimes[i] = float64(r.Lifetime)
		s.ByCause[r.Cause]++
	}
	sort.Float64s(lengths)
	sort.Float64s(lifetimes)

	s.LengthMean, s.LengthStdDev = stat.MeanStdDev(lengths, nil)
	s.LengthP50 = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	s.LengthP90 = stat.Quantile(0.9, stat.Empirical, lengths, nil)

	s.LifetimeMean = stat.Mean(lifetimes, nil)
	s.LifetimeP50 = stat.Quantile(0.5, stat.Empirical, lifetimes, nil)
	s.LifetimeMax = lifetimes[len(lifetimes)-1]
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("deaths", s.Count),
		slog.Int("out_of_bounds", s.ByCause[substrate.CauseOutOfBounds]),
		slog.Int("circle_closed", s.ByCause[substrate.CauseCircleClosed]),
		slog.Int("collision", s.ByCause[substrate.CauseCollision]),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_stddev", s.LengthStdDev),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_p90", s.LengthP90),
		slog.Float64("lifetime_mean", s.LifetimeMean),
		slog.Float64("lifetime_p50", s.LifetimeP50),
		slog.Float64("lifetime_max", s.LifetimeMax),
	)
}
