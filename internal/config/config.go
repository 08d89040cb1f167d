// Package config holds the tool's runtime settings and their viper
// bindings. Settings come from ~/.panvita.yaml, environment and flags;
// analysis code receives a resolved Config and never reads ambient
// process state itself.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/VictorCaricatte/panvita/internal/hits"
)

// Viper keys. Flag names and YAML paths share these.
const (
	KeyIdentity    = "thresholds.identity"
	KeyCoverage    = "thresholds.coverage"
	KeyEValue      = "thresholds.evalue"
	KeyWorkers     = "workers"
	KeyOutputDir   = "output_dir"
	KeyDatabaseDir = "database_dir"
	KeyStorePath   = "store_path"
)

// Keys lists every recognized configuration key.
func Keys() []string {
	return []string{
		KeyIdentity, KeyCoverage, KeyEValue,
		KeyWorkers, KeyOutputDir, KeyDatabaseDir, KeyStorePath,
	}
}

// Config is the resolved runtime configuration.
type Config struct {
	Identity    float64
	Coverage    float64
	EValue      float64
	Workers     int
	OutputDir   string
	DatabaseDir string
	StorePath   string // DuckDB file, empty disables persistence
}

// Default returns the standard configuration.
func Default() Config {
	t := hits.DefaultThresholds()
	return Config{
		Identity:  t.Identity,
		Coverage:  t.Coverage,
		EValue:    t.EValue,
		OutputDir: ".",
	}
}

// SetDefaults registers the default values on a viper instance so that
// config files only need to name the keys they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyIdentity, d.Identity)
	v.SetDefault(KeyCoverage, d.Coverage)
	v.SetDefault(KeyEValue, d.EValue)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyOutputDir, d.OutputDir)
	v.SetDefault(KeyDatabaseDir, d.DatabaseDir)
	v.SetDefault(KeyStorePath, d.StorePath)
}

// FromViper resolves a Config from a viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Identity:    v.GetFloat64(KeyIdentity),
		Coverage:    v.GetFloat64(KeyCoverage),
		EValue:      v.GetFloat64(KeyEValue),
		Workers:     v.GetInt(KeyWorkers),
		OutputDir:   v.GetString(KeyOutputDir),
		DatabaseDir: v.GetString(KeyDatabaseDir),
		StorePath:   v.GetString(KeyStorePath),
	}
	return c, c.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Identity < 0 || c.Identity > 100 {
		return fmt.Errorf("identity threshold %v out of range 0-100", c.Identity)
	}
	if c.Coverage < 0 || c.Coverage > 100 {
		return fmt.Errorf("coverage threshold %v out of range 0-100", c.Coverage)
	}
	if c.EValue < 0 {
		return fmt.Errorf("e-value threshold %v must be non-negative", c.EValue)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must be non-negative", c.Workers)
	}
	return nil
}

// Thresholds returns the hit cutoffs in the form the filter consumes.
func (c Config) Thresholds() hits.Thresholds {
	return hits.Thresholds{Identity: c.Identity, Coverage: c.Coverage, EValue: c.EValue}
}
