package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/petri/config"
)

func TestNilOutputManagerIsValid(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") failed: %v", err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}

	if err := om.WriteStats(WindowStats{Tick: 1}); err != nil {
		t.Errorf("nil WriteStats failed: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Errorf("nil WriteConfig failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close failed: %v", err)
	}
}

func TestOutputManagerWritesStatsCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteStats(WindowStats{Tick: 100, Organisms: 40, Births: 3}); err != nil {
		t.Fatalf("WriteStats failed: %v", err)
	}
	if err := om.WriteStats(WindowStats{Tick: 200, Organisms: 41, Births: 1}); err != nil {
		t.Fatalf("WriteStats failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats.csv has %d lines, want header plus 2 records:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "tick,") {
		t.Errorf("header = %q, want tick first", lines[0])
	}
	if strings.HasPrefix(lines[2], "tick,") {
		t.Error("header repeated in record rows")
	}
	if !strings.HasPrefix(lines[1], "100,40,") {
		t.Errorf("first record = %q", lines[1])
	}
}

func TestOutputManagerWritesConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load back: %v", err)
	}
}
