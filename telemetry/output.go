package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/petri/config"
)

// OutputManager handles structured experiment output with CSV logging.
// A nil manager is valid and discards everything, so callers need no
// output-enabled checks.
type OutputManager struct {
	dir           string
	statsFile     *os.File
	headerWritten bool
}

// NewOutputManager creates an output manager rooted at dir.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	return &OutputManager{dir: dir, statsFile: f}, nil
}

// WriteConfig saves the effective configuration next to the CSVs so a
// run can be reproduced from its output directory alone.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends one window record to stats.csv.
func (om *OutputManager) WriteStats(ws WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{ws}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats header: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
		return fmt.Errorf("writing stats record: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.statsFile.Close()
}
