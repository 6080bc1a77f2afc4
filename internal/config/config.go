package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "QASM3CIRC_CONFIG"

// Output formats.
const (
	FormatQASM    = "qasm"
	FormatDiagram = "diagram"
	FormatYAML    = "yaml"
	FormatJSON    = "json"
)

// Config holds the complete application configuration
type Config struct {
	Log         LogConfig         `toml:"log" yaml:"log"`
	Output      OutputConfig      `toml:"output" yaml:"output"`
	Simulate    SimulateConfig    `toml:"simulate" yaml:"simulate"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
	File        string `toml:"file" yaml:"file"`
}

// OutputConfig controls how built circuits are printed
type OutputConfig struct {
	Format    string `toml:"format" yaml:"format"`
	CellWidth int    `toml:"cell_width" yaml:"cell_width"`
}

// SimulateConfig holds state-vector simulation settings
type SimulateConfig struct {
	MaxQubits int     `toml:"max_qubits" yaml:"max_qubits"`
	Threshold float64 `toml:"threshold" yaml:"threshold"`
}

// InterpreterConfig holds interpreter settings
type InterpreterConfig struct {
	CacheSize int `toml:"cache_size" yaml:"cache_size"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Simulate: SimulateConfig{Threshold: 1e-9}}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML or YAML configuration file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	// Keys absent from the file keep their defaults; an explicit zero
	// threshold stays zero.
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Discover loads the first config found among explicit, $QASM3CIRC_CONFIG,
// ./qasm3circ.toml and ~/.config/qasm3circ/config.toml. An explicit path or
// environment path that does not exist is an error; otherwise finding no
// file yields the defaults.
func Discover(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./qasm3circ.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "qasm3circ", "config.toml"))
	}
	return paths
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}

	if c.Output.Format == "" {
		c.Output.Format = FormatQASM
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if c.Output.CellWidth == 0 {
		c.Output.CellWidth = 9
	}

	if c.Simulate.MaxQubits == 0 {
		c.Simulate.MaxQubits = 16
	}

	if c.Interpreter.CacheSize == 0 {
		c.Interpreter.CacheSize = 256
	}
}
