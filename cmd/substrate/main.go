//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"substrate/internal/app"
	"substrate/internal/render"
	"substrate/internal/substrate"
	"substrate/internal/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	simCfg, err := substrate.LoadConfig(cfg.ConfigPath)
	if err != nil {
		log.Fatal(err)
	}
	if simCfg, err = substrate.FromMap(simCfg, cfg.Overrides); err != nil {
		log.Fatal(err)
	}

	om, err := telemetry.NewOutputManager(cfg.OutputDir)
	if err != nil {
		log.Fatal(err)
	}
	defer om.Close()

	surface := render.NewSurface()
	sim, err := substrate.New(simCfg, surface, substrate.WithDeathHandler(func(rec substrate.DeathRecord) {
		if err := om.WriteDeath(rec); err != nil {
			slog.Error("recording crack death", "error", err)
		}
	}))
	if err != nil {
		log.Fatal(err)
	}
	// Prime the surface so the first frame has something to show.
	if err := sim.Update(); err != nil {
		log.Fatal(err)
	}

	save := func() error {
		if err := om.Save(sim.Config(), sim.Status()); err != nil {
			return err
		}
		slog.Info("saved run", "dir", om.Dir(), "cycles", sim.Cycles(), "summary", telemetry.Summarize(om.Deaths()))
		return nil
	}
	game := app.New(sim, surface, cfg.Scale, save)

	ebiten.SetWindowTitle("substrate")
	ebiten.SetTPS(cfg.TPS)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
