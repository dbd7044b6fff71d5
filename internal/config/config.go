package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStaticBz          = 140e-4 // T
	DefaultAbundance         = 0.0107 // natural c13 fraction
	DefaultCells             = 5      // simulation box half-width, unit cells
	DefaultMaxClusterSize    = 6
	DefaultScaleFactor       = 100.0
	DefaultIntegrationFactor = 10.0
)

// Config collects every knob of a simulated experiment: the physical
// sample, the cluster partition, the engine accuracy factors and the
// sweep settings of the individual experiments.
type Config struct {
	Ms                int     `yaml:"ms"`        // electronic sublevel, +1 or -1
	StaticBz          float64 `yaml:"static_bz"` // static axial field, T
	Abundance         float64 `yaml:"abundance"` // c13 occupation probability
	Cells             int     `yaml:"cells"`     // lattice half-width in unit cells
	Seed              int64   `yaml:"seed"`
	MaxClusterSize    int     `yaml:"max_cluster_size"`
	ScaleFactor       float64 `yaml:"scale_factor"`
	IntegrationFactor float64 `yaml:"integration_factor"`
	KDD               int     `yaml:"k_dd"` // sequence harmonic, 1 or 3

	Scan     ScanConfig     `yaml:"scan"`
	Fidelity FidelityConfig `yaml:"fidelity"`
}

// ScanConfig shapes a coherence scan window around the bare nuclear
// larmor frequency.
type ScanConfig struct {
	Points      int     `yaml:"points"`
	WidthFactor float64 `yaml:"width_factor"` // window half-width relative to center
	F           float64 `yaml:"f"`            // sequence fourier weight
	Periods     int     `yaml:"periods"`      // scan time in larmor periods
}

// FidelityConfig shapes a gate fidelity sweep.
type FidelityConfig struct {
	MaxTargets int `yaml:"max_targets"` // 0 sweeps every addressable nucleus
}

func DefaultConfig() *Config {
	return &Config{
		Ms:                1,
		StaticBz:          DefaultStaticBz,
		Abundance:         DefaultAbundance,
		Cells:             DefaultCells,
		Seed:              1,
		MaxClusterSize:    DefaultMaxClusterSize,
		ScaleFactor:       DefaultScaleFactor,
		IntegrationFactor: DefaultIntegrationFactor,
		KDD:               1,
		Scan: ScanConfig{
			Points:      200,
			WidthFactor: 0.1,
			F:           0.06,
			Periods:     300,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings outside their physical or numerical domain.
func (c *Config) Validate() error {
	if c.Ms != 1 && c.Ms != -1 {
		return fmt.Errorf("config: ms must be +1 or -1, got %d", c.Ms)
	}
	if c.KDD != 1 && c.KDD != 3 {
		return fmt.Errorf("config: k_dd must be 1 or 3, got %d", c.KDD)
	}
	if c.Abundance < 0 || c.Abundance > 1 {
		return fmt.Errorf("config: abundance %g outside [0, 1]", c.Abundance)
	}
	if c.Cells < 1 {
		return fmt.Errorf("config: cells must be positive, got %d", c.Cells)
	}
	if c.MaxClusterSize < 1 {
		return fmt.Errorf("config: max_cluster_size must be positive, got %d", c.MaxClusterSize)
	}
	if c.ScaleFactor <= 1 {
		return fmt.Errorf("config: scale_factor must exceed 1, got %g", c.ScaleFactor)
	}
	if c.IntegrationFactor <= 1 {
		return fmt.Errorf("config: integration_factor must exceed 1, got %g", c.IntegrationFactor)
	}
	return nil
}
