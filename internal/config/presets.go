package config

import "sort"

// Presets are ready-made sample configurations. Each starts from the
// defaults and overrides the fields named here.
var Presets = map[string]func(*Config){
	// natural isotopic abundance, a typical unpurified sample
	"natural": func(c *Config) {},

	// isotopically purified sample with a sparse bath
	"purified": func(c *Config) {
		c.Abundance = 0.003
		c.Scan.Periods = 600
	},

	// dense bath for stress-testing the cluster partitioner
	"dense": func(c *Config) {
		c.Abundance = 0.05
		c.Cells = 3
		c.MaxClusterSize = 8
	},

	// small box and coarse scan for quick runs
	"fast": func(c *Config) {
		c.Cells = 3
		c.Scan.Points = 50
		c.Scan.Periods = 100
		c.ScaleFactor = 30
		c.IntegrationFactor = 5
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
