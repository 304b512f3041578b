package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/world"
)

// Inspector panel dimensions
const (
	inspectorWidth   = 280
	inspectorPadding = 10
)

var (
	inspectorBg     = rl.NewColor(20, 24, 34, 240)
	inspectorAccent = rl.NewColor(200, 200, 220, 255)
)

// handleInspectorInput selects the organism under the cursor on right
// click. Escape deselects. Selection tracks the organism by id, so the
// panel follows it across ticks and closes when it dies.
func (g *Game) handleInspectorInput() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		g.hasSelected = false
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseRightButton) {
		return
	}

	mouse := rl.GetMousePosition()
	wx, wy := g.cam.ScreenToWorld(mouse.X, mouse.Y)
	cellX, cellY := int(wx), int(wy)

	// Pick the nearest organism within a two-cell radius of the click,
	// so selection works when zoomed far out.
	bestDist := 2*2 + 1
	found := false
	var best uint32
	for _, o := range g.snap.Organisms {
		dx, dy := o.X-cellX, o.Y-cellY
		dist := dx*dx + dy*dy
		if dist < bestDist {
			bestDist = dist
			best = o.ID
			found = true
		}
	}

	g.selectedID = best
	g.hasSelected = found
}

// drawInspector renders the selected organism's panel under the HUD.
func (g *Game) drawInspector() {
	if !g.hasSelected {
		return
	}

	var o world.OrganismView
	found := false
	for i := range g.snap.Organisms {
		if g.snap.Organisms[i].ID == g.selectedID {
			o = g.snap.Organisms[i]
			found = true
			break
		}
	}
	if !found {
		// Died or was eaten since selection.
		g.hasSelected = false
		return
	}

	// Highlight the organism in the world view.
	sx, sy := g.cam.WorldToScreen(float32(o.X), float32(o.Y))
	rl.DrawCircleLines(int32(sx), int32(sy), maxf(g.cellSize(), 4), inspectorAccent)

	x := int32(g.screenW) - inspectorWidth - hudPadding
	y := int32(300)
	panelHeight := int32(150)
	rl.DrawRectangle(x, y, inspectorWidth, panelHeight, inspectorBg)
	rl.DrawRectangleLines(x, y, inspectorWidth, panelHeight, borderColor)

	tx := x + inspectorPadding
	ty := y + inspectorPadding

	rl.DrawText(fmt.Sprintf("organism %d", o.ID), tx, ty, 18, inspectorAccent)
	ty += hudLine + 4

	line := func(format string, args ...any) {
		rl.DrawText(fmt.Sprintf(format, args...), tx, ty, 14, rl.LightGray)
		ty += hudLine
	}
	line("genome: %s", truncate(o.Genome, 30))
	line("energy: %d   age: %d", o.Energy, o.Age)
	line("position: (%d, %d)", o.X, o.Y)
	if o.ParentID != 0 {
		line("parent: %d", o.ParentID)
	} else {
		line("parent: founder")
	}
	line("moves: %v   eats: %v", o.CanMove, o.CanEat)
}
