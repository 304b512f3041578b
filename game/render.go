package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/genome"
)

var (
	backgroundColor = rl.NewColor(12, 16, 24, 255)
	borderColor     = rl.NewColor(60, 70, 90, 255)
	wallColor       = rl.NewColor(110, 100, 90, 255)
	foodColor       = rl.NewColor(90, 170, 70, 255)
)

// organismColors maps genome color tags to display colors. Organisms
// without a color tag render in the default green, matching how the
// genome's color trait is purely cosmetic.
var organismColors = map[string]rl.Color{
	"Green":   rl.NewColor(80, 200, 120, 255),
	"Red":     rl.NewColor(220, 80, 80, 255),
	"Blue":    rl.NewColor(80, 120, 220, 255),
	"Yellow":  rl.NewColor(220, 200, 80, 255),
	"Cyan":    rl.NewColor(80, 200, 210, 255),
	"Magenta": rl.NewColor(200, 80, 200, 255),
}

func (g *Game) draw() {
	rl.ClearBackground(backgroundColor)

	g.drawWorldBorder()
	g.drawWalls()
	g.drawFood()
	g.drawOrganisms()

	g.drawInspector()
	if g.showHUD {
		g.drawHUD()
	}
	if g.paused {
		rl.DrawText("PAUSED (space to resume, S to save)", 10, int32(g.screenH)-26, 18, rl.LightGray)
	}
}

// cellSize is the on-screen size of one world cell, at least one pixel
// so distant entities stay visible.
func (g *Game) cellSize() float32 {
	if g.cam.Zoom > 1 {
		return g.cam.Zoom
	}
	return 1
}

func (g *Game) drawWorldBorder() {
	x0, y0 := g.cam.WorldToScreen(0, 0)
	x1, y1 := g.cam.WorldToScreen(float32(g.snap.Width), float32(g.snap.Height))
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), borderColor)
}

func (g *Game) drawWalls() {
	size := g.cellSize()
	for _, p := range g.snap.Walls {
		if !g.cam.IsVisible(float32(p.X), float32(p.Y), 1) {
			continue
		}
		sx, sy := g.cam.WorldToScreen(float32(p.X), float32(p.Y))
		rl.DrawRectangle(int32(sx), int32(sy), int32(size), int32(size), wallColor)
	}
}

func (g *Game) drawFood() {
	size := g.cellSize()
	for _, f := range g.snap.Food {
		if !g.cam.IsVisible(float32(f.X), float32(f.Y), 1) {
			continue
		}
		sx, sy := g.cam.WorldToScreen(float32(f.X), float32(f.Y))
		rl.DrawRectangle(int32(sx), int32(sy), int32(size), int32(size), foodColor)
	}
}

func (g *Game) drawOrganisms() {
	size := g.cellSize()
	for _, o := range g.snap.Organisms {
		if !g.cam.IsVisible(float32(o.X), float32(o.Y), 2) {
			continue
		}
		sx, sy := g.cam.WorldToScreen(float32(o.X), float32(o.Y))

		color := o.Color
		if color == "" {
			color = genome.Colors[0]
		}
		c, ok := organismColors[color]
		if !ok {
			c = organismColors["Green"]
		}

		// Predators get a slightly larger body so hunting reads
		// visually at low zoom.
		r := size
		if o.CanEat {
			r = size * 1.5
		}
		rl.DrawCircle(int32(sx), int32(sy), maxf(r/2, 1.5), c)
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
