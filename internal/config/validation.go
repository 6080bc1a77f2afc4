package config

import (
	"slices"

	"github.com/pkg/errors"
)

var (
	validFormats = []string{FormatQASM, FormatDiagram, FormatYAML, FormatJSON}
	validLevels  = []string{"debug", "info", "warn", "error"}
)

// maxSimQubits mirrors the simulator's hard limit.
const maxSimQubits = 24

// Validate checks that every setting is within range.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Log.Level) {
		return errors.Errorf("log.level %q must be one of %v", c.Log.Level, validLevels)
	}
	if !slices.Contains(validFormats, c.Output.Format) {
		return errors.Errorf("output.format %q must be one of %v", c.Output.Format, validFormats)
	}
	if c.Output.CellWidth < 5 {
		return errors.Errorf("output.cell_width must be at least 5, got %d", c.Output.CellWidth)
	}
	if c.Simulate.MaxQubits < 1 || c.Simulate.MaxQubits > maxSimQubits {
		return errors.Errorf("simulate.max_qubits must be between 1 and %d, got %d", maxSimQubits, c.Simulate.MaxQubits)
	}
	if c.Simulate.Threshold < 0 || c.Simulate.Threshold >= 1 {
		return errors.Errorf("simulate.threshold must be in [0, 1), got %g", c.Simulate.Threshold)
	}
	if c.Interpreter.CacheSize < 1 {
		return errors.Errorf("interpreter.cache_size must be positive, got %d", c.Interpreter.CacheSize)
	}
	return nil
}
