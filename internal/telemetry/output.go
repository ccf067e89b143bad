// Package telemetry records crack deaths and run state for later analysis.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"substrate/internal/substrate"
)

// OutputManager handles run output: a CSV log of crack deaths plus the
// configuration and status written as YAML.
type OutputManager struct {
	dir        string
	deathsFile *os.File

	// Track if headers have been written
	deathsHeaderWritten bool

	deaths []substrate.DeathRecord
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "deaths.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating deaths.csv: %w", err)
	}
	return &OutputManager{dir: dir, deathsFile: f}, nil
}

// WriteDeath appends a death record to deaths.csv.
func (om *OutputManager) WriteDeath(rec substrate.DeathRecord) error {
	if om == nil {
		return nil
	}
	om.deaths = append(om.deaths, rec)

	records := []substrate.DeathRecord{rec}
	if !om.deathsHeaderWritten {
		if err := gocsv.Marshal(records, om.deathsFile); err != nil {
			return fmt.Errorf("writing death record: %w", err)
		}
		om.deathsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.deathsFile); err != nil {
		return fmt.Errorf("writing death record: %w", err)
	}
	return nil
}

// Deaths returns every record written so far.
func (om *OutputManager) Deaths() []substrate.DeathRecord {
	if om == nil {
		return nil
	}
	return om.deaths
}

// WriteConfig saves the configuration, including any captured rng state.
func (om *OutputManager) WriteConfig(cfg substrate.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStatus saves the run status next to the configuration.
func (om *OutputManager) WriteStatus(st substrate.Status) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "status.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing status.yaml: %w", err)
	}
	return nil
}

// Save writes the configuration and status pair.
func (om *OutputManager) Save(cfg substrate.Config, st substrate.Status) error {
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}
	return om.WriteStatus(st)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil || om.deathsFile == nil {
		return nil
	}
	return om.deathsFile.Close()
}
