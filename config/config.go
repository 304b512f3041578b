// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters. A loaded Config
// is passed explicitly into world.New; there is no package-level
// mutable instance.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Energy     EnergyConfig     `yaml:"energy"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Food       FoodConfig       `yaml:"food"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Population PopulationConfig `yaml:"population"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ScreenConfig holds viewer display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions in grid cells.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpatialConfig holds spatial index parameters.
type SpatialConfig struct {
	BucketSize    int `yaml:"bucket_size"`    // grid cells per bucket edge
	StackingLimit int `yaml:"stacking_limit"` // max blocking occupants per cell
}

// EnergyConfig holds the energy ledger rules.
// Upkeep is genome length, deducted every DrainInterval ticks.
type EnergyConfig struct {
	Starting              int `yaml:"starting"`
	MoveCost              int `yaml:"move_cost"`
	DrainInterval         int `yaml:"drain_interval"`
	ReproductionThreshold int `yaml:"reproduction_threshold"`
	ReproductionCost      int `yaml:"reproduction_cost"`
	FoodValue             int `yaml:"food_value"`  // energy per spawned food item
	DeathValue            int `yaml:"death_value"` // food deposited when an organism starves
	PreyValue             int `yaml:"prey_value"`  // fixed gain for eating another organism
}

// MutationConfig holds reproduction-time mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"` // probability a reproduction mutates at all
}

// FoodConfig holds food field parameters.
// Regeneration follows a Conway-style neighbor rule: an empty cell next
// to food spawns new food with probability RegenBaseChance per food
// neighbor, capped at RegenMaxChance. Both are documented tunables; the
// exact curve is a free parameter of the model.
type FoodConfig struct {
	RegenInterval   int     `yaml:"regen_interval"`    // ticks between regeneration passes
	RegenBaseChance float64 `yaml:"regen_base_chance"` // per-neighbor spawn probability
	RegenMaxChance  float64 `yaml:"regen_max_chance"`  // probability cap
	ClusterRetries  int     `yaml:"cluster_retries"`   // placement attempts per cluster item
}

// BehaviorConfig holds organism behavior parameters.
type BehaviorConfig struct {
	VisionRadius int `yaml:"vision_radius"` // target search radius for movers
}

// PopulationConfig holds initial population counts for world generation.
type PopulationConfig struct {
	Movers      int `yaml:"movers"`
	Sessiles    int `yaml:"sessiles"`
	Predators   int `yaml:"predators"`
	SpawnSpread int `yaml:"spawn_spread"` // scatter radius around spawn centers
}

// WallSegment is a straight run of wall cells placed at generation time.
type WallSegment struct {
	X      int  `yaml:"x"`
	Y      int  `yaml:"y"`
	Length int  `yaml:"length"`
	Vert   bool `yaml:"vert"`
}

// TerrainConfig holds wall placement parameters for generated worlds.
// Noise ridges carve organic barriers on top of the fixed segments.
type TerrainConfig struct {
	Segments      []WallSegment `yaml:"segments"`
	NoiseWalls    bool          `yaml:"noise_walls"`
	NoiseScale    float64       `yaml:"noise_scale"`     // noise frequency
	NoiseBand     float64       `yaml:"noise_band"`      // |noise| below this becomes wall
	NoiseCellSkip int           `yaml:"noise_cell_skip"` // sample stride (1 = every cell)
}

// TelemetryConfig holds statistics collection parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"` // ticks per aggregated stats window
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config: world dimensions must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Spatial.BucketSize <= 0 {
		return fmt.Errorf("config: spatial.bucket_size must be positive, got %d", c.Spatial.BucketSize)
	}
	if c.Spatial.StackingLimit <= 0 {
		return fmt.Errorf("config: spatial.stacking_limit must be positive, got %d", c.Spatial.StackingLimit)
	}
	if c.Energy.DrainInterval <= 0 {
		return fmt.Errorf("config: energy.drain_interval must be positive, got %d", c.Energy.DrainInterval)
	}
	if c.Food.RegenInterval <= 0 {
		return fmt.Errorf("config: food.regen_interval must be positive, got %d", c.Food.RegenInterval)
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		return fmt.Errorf("config: mutation.rate must be in [0,1], got %v", c.Mutation.Rate)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
