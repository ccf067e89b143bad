package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"substrate/internal/substrate"
)

func TestSummarize(t *testing.T) {
	records := []substrate.DeathRecord{
		{ID: 0, Cause: substrate.CauseCollision, Length: 1, Lifetime: 10},
		{ID: 1, Cause: substrate.CauseCollision, Length: 2, Lifetime: 20},
		{ID: 2, Cause: substrate.CauseOutOfBounds, Length: 3, Lifetime: 30},
		{ID: 3, Cause: substrate.CauseCircleClosed, Length: 4, Lifetime: 40},
	}
	s := Summarize(records)
	if s.Count != 4 {
		t.Fatalf("count = %d", s.Count)
	}
	if s.ByCause[substrate.CauseCollision] != 2 || s.ByCause[substrate.CauseCircleClosed] != 1 {
		t.Fatalf("by cause = %v", s.ByCause)
	}
	if math.Abs(s.LengthMean-2.5) > 1e-9 {
		t.Fatalf("length mean = %v", s.LengthMean)
	}
	if math.Abs(s.LifetimeMean-25) > 1e-9 || s.LifetimeMax != 40 {
		t.Fatalf("lifetime mean=%v max=%v", s.LifetimeMean, s.LifetimeMax)
	}
	if s.LengthP90 < s.LengthP50 {
		t.Fatalf("p90 %v below p50 %v", s.LengthP90, s.LengthP50)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || s.LengthMean != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	if err := om.WriteDeath(substrate.DeathRecord{}); err != nil {
		t.Fatal(err)
	}
	if err := om.Save(substrate.DefaultConfig(), substrate.Status{}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	for i := 0; i < 3; i++ {
		rec := substrate.DeathRecord{ID: i, Cause: substrate.CauseCollision, Length: float64(i)}
		if err := om.WriteDeath(rec); err != nil {
			t.Fatalf("WriteDeath: %v", err)
		}
	}
	q := 7
	if err := om.Save(substrate.DefaultConfig(), substrate.Status{Cycles: 12, NextCrackIDWhenQuiesced: &q}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "deaths.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "id,cause,") {
		t.Fatalf("unexpected header %q", lines[0])
	}

	raw, err := os.ReadFile(filepath.Join(dir, "status.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var st substrate.Status
	if err := yaml.Unmarshal(raw, &st); err != nil {
		t.Fatal(err)
	}
	if st.Cycles != 12 || st.NextCrackIDWhenQuiesced == nil || *st.NextCrackIDWhenQuiesced != 7 {
		t.Fatalf("status round trip = %+v", st)
	}
	if _, err := substrate.LoadConfig(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config.yaml unreadable: %v", err)
	}
	if len(om.Deaths()) != 3 {
		t.Fatalf("deaths retained = %d", len(om.Deaths()))
	}
}
