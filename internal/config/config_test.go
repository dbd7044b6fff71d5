package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Ms)
	assert.Equal(t, 1, cfg.KDD)
	assert.Positive(t, cfg.StaticBz)
	assert.Positive(t, cfg.Scan.Points)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad ms", func(c *Config) { c.Ms = 0 }},
		{"bad harmonic", func(c *Config) { c.KDD = 2 }},
		{"negative abundance", func(c *Config) { c.Abundance = -0.1 }},
		{"abundance above one", func(c *Config) { c.Abundance = 1.2 }},
		{"zero cells", func(c *Config) { c.Cells = 0 }},
		{"zero cluster size", func(c *Config) { c.MaxClusterSize = 0 }},
		{"scale factor too small", func(c *Config) { c.ScaleFactor = 1 }},
		{"integration factor too small", func(c *Config) { c.IntegrationFactor = 0.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Ms = -1
	cfg.Abundance = 0.02
	cfg.KDD = 3
	cfg.Scan.Points = 77
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("abundance: 0.02\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.02, cfg.Abundance)
	assert.Equal(t, DefaultCells, cfg.Cells)
	assert.Equal(t, DefaultScaleFactor, cfg.ScaleFactor)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k_dd: 2\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}
	assert.Nil(t, GetPreset("no-such-preset"))
}
