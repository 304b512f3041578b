package systems

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
)

// GenerateWalls produces the wall layout for a fresh world: the fixed
// segments from config plus, when enabled, noise ridges for organic
// barriers. Positions are returned in scan order and clipped to world
// bounds; deduplication is left to the caller's placement path, which
// rejects doubled walls anyway.
func GenerateWalls(cfg config.TerrainConfig, width, height int, seed int64) []components.Position {
	var walls []components.Position

	for _, seg := range cfg.Segments {
		for i := 0; i < seg.Length; i++ {
			p := components.Position{X: seg.X, Y: seg.Y + i}
			if !seg.Vert {
				p = components.Position{X: seg.X + i, Y: seg.Y}
			}
			if p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height {
				walls = append(walls, p)
			}
		}
	}

	if cfg.NoiseWalls {
		walls = append(walls, noiseRidges(cfg, width, height, seed)...)
	}
	return walls
}

// noiseRidges marks cells where the simplex noise value sits inside a
// narrow band around zero. The zero contour of coherent noise forms
// thin connected curves, which read as rock ridges rather than blobs.
func noiseRidges(cfg config.TerrainConfig, width, height int, seed int64) []components.Position {
	noise := opensimplex.NewNormalized(seed)
	skip := cfg.NoiseCellSkip
	if skip < 1 {
		skip = 1
	}

	var walls []components.Position
	for y := 0; y < height; y += skip {
		for x := 0; x < width; x += skip {
			// NewNormalized maps into [0,1]; recenter around 0.5.
			v := noise.Eval2(float64(x)*cfg.NoiseScale, float64(y)*cfg.NoiseScale) - 0.5
			if math.Abs(v) < cfg.NoiseBand {
				walls = append(walls, components.Position{X: x, Y: y})
			}
		}
	}
	return walls
}
