package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"substrate/internal/substrate"
	"substrate/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for deaths.csv, config.yaml and status.yaml")
	cycles := flag.Int("cycles", 5000, "Stop after N cycles even if the run is not done (0 = until done)")
	quiesceAt := flag.Int("quiesce-at", 0, "Stop spawning cracks after N cycles (0 = never)")
	debug := flag.Bool("debug", false, "Log every crack birth and death")
	overrides := map[string]string{}
	flag.Func("set", "Override a config value, key=value (repeatable)", func(s string) error {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return fmt.Errorf("want key=value, got %q", s)
		}
		overrides[k] = v
		return nil
	})
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *outputDir, *cycles, *quiesceAt, overrides); err != nil {
		slog.Error("substrate run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, cycles, quiesceAt int, overrides map[string]string) error {
	cfg, err := substrate.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg, err = substrate.FromMap(cfg, overrides); err != nil {
		return err
	}

	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()

	var deaths []substrate.DeathRecord
	sim, err := substrate.New(cfg, substrate.NopRenderer{}, substrate.WithDeathHandler(func(rec substrate.DeathRecord) {
		deaths = append(deaths, rec)
		if err := om.WriteDeath(rec); err != nil {
			slog.Error("recording crack death", "error", err)
		}
	}))
	if err != nil {
		return err
	}

	slog.Info("starting headless substrate",
		"width", cfg.Width,
		"height", cfg.Height,
		"seed", sim.Config().Seed,
		"max_cycles", cfg.MaxCycles,
		"cycle_budget", cycles,
	)

	for !sim.Done() && (cycles <= 0 || sim.Cycles() < cycles) {
		if quiesceAt > 0 && sim.Cycles() >= quiesceAt && !sim.Quiesced() {
			sim.SetQuiesced(true)
		}
		if err := sim.Update(); err != nil {
			return fmt.Errorf("cycle %d: %w", sim.Cycles(), err)
		}
	}

	slog.Info("substrate finished",
		"cycles", sim.Cycles(),
		"done", sim.Done(),
		"live", len(sim.CrackIDs()),
		"next_crack_id", sim.NextCrackID(),
		"summary", telemetry.Summarize(deaths),
	)
	return om.Save(sim.Config(), sim.Status())
}
