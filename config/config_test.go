package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()

	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		t.Errorf("default world dimensions %dx%d", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Energy.Starting <= 0 {
		t.Errorf("default starting energy %d", cfg.Energy.Starting)
	}
	if cfg.Energy.DrainInterval != 30 {
		t.Errorf("default drain interval %d, want 30", cfg.Energy.DrainInterval)
	}
	if cfg.Energy.FoodValue != 25 {
		t.Errorf("default food value %d, want 25", cfg.Energy.FoodValue)
	}
	if cfg.Spatial.StackingLimit < 1 {
		t.Errorf("default stacking limit %d", cfg.Spatial.StackingLimit)
	}
	if cfg.Mutation.Rate < 0 || cfg.Mutation.Rate > 1 {
		t.Errorf("default mutation rate %v", cfg.Mutation.Rate)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("world:\n  width: 256\n  height: 128\nenergy:\n  starting: 100\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.World.Width != 256 || cfg.World.Height != 128 {
		t.Errorf("world = %dx%d, want 256x128", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Energy.Starting != 100 {
		t.Errorf("starting energy = %d, want 100", cfg.Energy.Starting)
	}
	// Fields absent from the file keep their defaults.
	def := Default()
	if cfg.Energy.DrainInterval != def.Energy.DrainInterval {
		t.Errorf("drain interval = %d, want default %d", cfg.Energy.DrainInterval, def.Energy.DrainInterval)
	}
	if cfg.Food.RegenInterval != def.Food.RegenInterval {
		t.Errorf("regen interval = %d, want default %d", cfg.Food.RegenInterval, def.Food.RegenInterval)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "world:\n  width: 0\n"},
		{"negative stacking", "spatial:\n  stacking_limit: -1\n"},
		{"mutation rate above one", "mutation:\n  rate: 1.5\n"},
		{"malformed yaml", "world: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.Width = 333

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if loaded.World.Width != 333 {
		t.Errorf("round-tripped width = %d, want 333", loaded.World.Width)
	}
}
