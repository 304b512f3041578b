// Terrain preview tool - interactive wall layout visualization with
// sliders for the noise ridge parameters.
//
// Usage: go run ./cmd/terrainpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg := config.Default().Terrain
	cfg.Segments = nil
	cfg.NoiseWalls = true
	seed := int64(1)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var walls []components.Position
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			walls = systems.GenerateWalls(cfg, gridSize, gridSize, seed)
			updateTexture(texture, walls)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		density := float64(len(walls)) / float64(gridSize*gridSize)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Walls: %d  Density: %.2f%%", len(walls), density*100), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Seed: %d", seed), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Ridge Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Scale (noise frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.001", "0.05",
			float32(cfg.NoiseScale), 0.001, 0.05,
		)
		rl.DrawText(fmt.Sprintf("%.4f", cfg.NoiseScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newScale) != cfg.NoiseScale {
			cfg.NoiseScale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Band (|noise| threshold)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newBand := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.001", "0.10",
			float32(cfg.NoiseBand), 0.001, 0.10,
		)
		rl.DrawText(fmt.Sprintf("%.3f", cfg.NoiseBand), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newBand) != cfg.NoiseBand {
			cfg.NoiseBand = float64(newBand)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Cell skip (sample stride)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSkip := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "8",
			float32(cfg.NoiseCellSkip), 1, 8,
		)
		rl.DrawText(fmt.Sprintf("%d", cfg.NoiseCellSkip), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newSkip) != cfg.NoiseCellSkip {
			cfg.NoiseCellSkip = int(newSkip)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 28}, "Next Seed") {
			seed++
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 28}, "Print YAML") {
			fmt.Printf("terrain:\n  noise_walls: true\n  noise_scale: %.4f\n  noise_band: %.3f\n  noise_cell_skip: %d\n",
				cfg.NoiseScale, cfg.NoiseBand, cfg.NoiseCellSkip)
		}

		rl.EndDrawing()
	}
}

// updateTexture repaints the preview: white passable cells, dark walls.
func updateTexture(texture rl.Texture2D, walls []components.Position) {
	pixels := make([]rl.Color, gridSize*gridSize)
	for i := range pixels {
		pixels[i] = rl.RayWhite
	}
	for _, p := range walls {
		if p.X >= 0 && p.X < gridSize && p.Y >= 0 && p.Y < gridSize {
			pixels[p.Y*gridSize+p.X] = rl.DarkBrown
		}
	}
	rl.UpdateTexture(texture, pixels)
}
