package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/world"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	loadPath := flag.String("load", "", "World file to load instead of generating")
	savePath := flag.String("save", "", "World file to write on exit (headless only)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited, headless only)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")

	flag.Parse()

	// JSON to stderr so stats stay separable from any stdout use
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	w, err := buildWorld(cfg, rngSeed, *loadPath)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}

	collector := telemetry.NewCollector()
	collector.RestoreTotals(w.StatsSnapshot())
	w.SetRecorder(collector)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output dir", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("config snapshot failed", "error", err)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"headless", *headless,
		"world", *loadPath,
		"organisms", w.OrganismCount(),
		"food", w.FoodCount(),
	)

	if *headless {
		if err := runHeadless(cfg, w, collector, output, *maxTicks, *savePath); err != nil {
			slog.Error("simulation stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	g := game.New(cfg, w, collector, output)
	if err := g.Run(); err != nil {
		slog.Error("simulation stopped", "error", err)
		os.Exit(1)
	}
}

// buildWorld loads a saved world or generates a fresh one. A corrupt
// world file aborts startup rather than silently regenerating; the
// operator asked for that specific world.
func buildWorld(cfg *config.Config, seed int64, loadPath string) (*world.World, error) {
	if loadPath == "" {
		return world.Generate(cfg, seed), nil
	}

	f, err := os.Open(loadPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := world.Load(f, cfg, seed)
	if err != nil {
		if errors.Is(err, world.ErrCorruptWorldFile) {
			slog.Error("world file is corrupt", "path", loadPath)
		}
		return nil, err
	}
	return w, nil
}

// runHeadless free-runs the simulation, flushing stats on window
// boundaries and optionally saving the final state.
func runHeadless(cfg *config.Config, w *world.World, collector *telemetry.Collector, output *telemetry.OutputManager, maxTicks int, savePath string) error {
	for {
		if err := w.Tick(); err != nil {
			return err
		}

		tick := w.TickCount()
		if tick%cfg.Telemetry.WindowTicks == 0 {
			snap := w.Snapshot()
			ws := collector.Flush(tick, len(snap.Organisms), len(snap.Food), snap.Energies())
			if err := output.WriteStats(ws); err != nil {
				slog.Warn("stats output failed", "error", err)
			}
			slog.Info("window stats",
				"tick", ws.Tick,
				"organisms", ws.Organisms,
				"food", ws.Food,
				"births", ws.Births,
				"deaths", ws.Deaths,
			)
		}

		if maxTicks > 0 && tick >= maxTicks {
			slog.Info("max ticks reached", "tick", tick)
			break
		}
		if w.OrganismCount() == 0 {
			slog.Info("population extinct", "tick", tick)
			break
		}
	}

	if savePath == "" {
		return nil
	}
	if raw, err := collector.MarshalTotals(); err == nil {
		w.SetStatsSnapshot(raw)
	}
	f, err := os.Create(savePath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := w.Save(f); err != nil {
		return err
	}
	slog.Info("world saved", "path", savePath, "tick", w.TickCount())
	return nil
}
