// Package game is the windowed viewer collaborator: it paces ticks,
// renders between-tick snapshots, and handles input. It never touches
// world state mid-tick.
package game

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/world"
)

// Game holds the viewer state around a running world.
type Game struct {
	cfg       *config.Config
	world     *world.World
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	cam  *camera.Camera
	snap world.Snapshot

	paused        bool
	stepsPerFrame int
	showHUD       bool
	tickErr       error

	screenW, screenH float32
	dragging         bool
	lastMouse        rl.Vector2

	selectedID  uint32
	hasSelected bool
}

// New creates a viewer around an existing world. collector and output
// may be nil.
func New(cfg *config.Config, w *world.World, collector *telemetry.Collector, output *telemetry.OutputManager) *Game {
	return &Game{
		cfg:           cfg,
		world:         w,
		collector:     collector,
		output:        output,
		stepsPerFrame: 1,
		showHUD:       true,
		snap:          w.Snapshot(),
	}
}

// Run opens the window and drives the simulation until close.
func (g *Game) Run() error {
	rl.InitWindow(int32(g.cfg.Screen.Width), int32(g.cfg.Screen.Height), "petri")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(g.cfg.Screen.TargetFPS))

	g.screenW = float32(g.cfg.Screen.Width)
	g.screenH = float32(g.cfg.Screen.Height)
	g.cam = camera.New(g.screenW, g.screenH, float32(g.snap.Width), float32(g.snap.Height))

	for !rl.WindowShouldClose() {
		g.update()

		rl.BeginDrawing()
		g.draw()
		rl.EndDrawing()

		if g.tickErr != nil {
			return g.tickErr
		}
	}
	return nil
}

func (g *Game) update() {
	g.handleInput()
	if g.paused {
		return
	}

	for i := 0; i < g.stepsPerFrame; i++ {
		if err := g.world.Tick(); err != nil {
			g.tickErr = err
			return
		}
		g.flushStats()
	}
	g.snap = g.world.Snapshot()
}

// flushStats emits a window record when the tick crosses a window
// boundary.
func (g *Game) flushStats() {
	if g.collector == nil {
		return
	}
	tick := g.world.TickCount()
	if tick%g.cfg.Telemetry.WindowTicks != 0 {
		return
	}

	snap := g.world.Snapshot()
	ws := g.collector.Flush(tick, len(snap.Organisms), len(snap.Food), snap.Energies())
	if err := g.output.WriteStats(ws); err != nil {
		slog.Warn("stats output failed", "error", err)
	}
	slog.Info("window stats",
		"tick", ws.Tick,
		"organisms", ws.Organisms,
		"food", ws.Food,
		"births", ws.Births,
		"deaths", ws.Deaths,
		"mutations", ws.Mutations,
	)
}

// saveWorld writes the world to a timestamped file in the working
// directory, embedding the stats snapshot for the collaborator.
func (g *Game) saveWorld() {
	if g.collector != nil {
		if raw, err := g.collector.MarshalTotals(); err == nil {
			g.world.SetStatsSnapshot(raw)
		}
	}

	name := fmt.Sprintf("world_%s.json", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		slog.Error("save failed", "path", name, "error", err)
		return
	}
	defer f.Close()

	if err := g.world.Save(f); err != nil {
		slog.Error("save failed", "path", name, "error", err)
		return
	}
	slog.Info("world saved", "path", name, "tick", g.world.TickCount())
}
