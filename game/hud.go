package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/telemetry"
)

const (
	hudWidth   = 260
	hudPadding = 10
	hudLine    = 20
)

// drawHUD renders the stats panel and control widgets.
func (g *Game) drawHUD() {
	x := int32(g.screenW) - hudWidth - hudPadding
	y := int32(hudPadding)

	panelHeight := int32(270)
	rl.DrawRectangle(x, y, hudWidth, panelHeight, rl.NewColor(20, 24, 34, 220))
	rl.DrawRectangleLines(x, y, hudWidth, panelHeight, borderColor)

	tx := x + hudPadding
	ty := y + hudPadding

	rl.DrawText(fmt.Sprintf("tick %d", g.snap.Tick), tx, ty, 18, rl.RayWhite)
	ty += hudLine + 4

	line := func(format string, args ...any) {
		rl.DrawText(fmt.Sprintf(format, args...), tx, ty, 14, rl.LightGray)
		ty += hudLine
	}
	line("organisms: %d", len(g.snap.Organisms))
	line("food: %d", len(g.snap.Food))
	line("walls: %d", len(g.snap.Walls))

	if g.collector != nil {
		t := g.collector.Totals()
		line("births: %d  deaths: %d", t.Births, t.Deaths)
		line("mutations: %d  eaten: %d", t.Mutations, t.OrganismsEaten)
	}

	// Dominant genomes
	genomes := make([]string, 0, len(g.snap.Organisms))
	for _, o := range g.snap.Organisms {
		genomes = append(genomes, o.Genome)
	}
	census := telemetry.Census(genomes)
	for i, entry := range census {
		if i >= 3 {
			break
		}
		line("%3dx %s", entry.Count, truncate(entry.Genome, 24))
	}
	ty += 4

	// Controls
	label := "Pause"
	if g.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(tx), Y: float32(ty), Width: 70, Height: 24}, label) {
		g.paused = !g.paused
	}
	if gui.Button(rl.Rectangle{X: float32(tx) + 80, Y: float32(ty), Width: 70, Height: 24}, "Save") {
		g.saveWorld()
	}
	ty += 30

	speed := gui.SliderBar(
		rl.Rectangle{X: float32(tx) + 50, Y: float32(ty), Width: 140, Height: 16},
		"speed", fmt.Sprintf("%dx", g.stepsPerFrame),
		float32(g.stepsPerFrame), 1, 16,
	)
	g.stepsPerFrame = int(speed)
	if g.stepsPerFrame < 1 {
		g.stepsPerFrame = 1
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
