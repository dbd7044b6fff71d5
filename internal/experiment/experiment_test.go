package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.GetPreset("fast")
	cfg.Cells = 2
	cfg.Abundance = 0.02
	cfg.Scan.Points = 4
	cfg.Scan.Periods = 20
	return cfg
}

func TestBuildSystemDeterministic(t *testing.T) {
	cfg := smallConfig()

	a, err := BuildSystem(cfg)
	require.NoError(t, err)
	b, err := BuildSystem(cfg)
	require.NoError(t, err)

	require.Equal(t, len(a.Nuclei), len(b.Nuclei))
	assert.Equal(t, a.Clusters, b.Clusters)
	for i := range a.Nuclei {
		assert.Equal(t, a.Nuclei[i].Pos, b.Nuclei[i].Pos)
	}
}

func TestBuildSystemRespectsClusterBound(t *testing.T) {
	cfg := smallConfig()
	sys, err := BuildSystem(cfg)
	require.NoError(t, err)

	for _, c := range sys.Clusters {
		assert.LessOrEqual(t, len(c), cfg.MaxClusterSize)
	}

	// every nucleus appears in exactly one cluster
	seen := make(map[int]bool)
	for _, c := range sys.Clusters {
		for _, idx := range c {
			assert.False(t, seen[idx], "nucleus %d in two clusters", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, len(sys.Nuclei))
}

func TestScanWindowBracketsLarmor(t *testing.T) {
	cfg := config.DefaultConfig()
	start, end, scanTime := ScanWindow(cfg)
	assert.Less(t, start, end)
	assert.Positive(t, start)
	assert.Positive(t, scanTime)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"cluster-report", "coherence-scan", "fidelity-sweep"}, r.List())

	_, err := r.Get("no-such-experiment")
	assert.Error(t, err)
}

func TestClusterReportExperiment(t *testing.T) {
	cfg := smallConfig()
	sys, err := BuildSystem(cfg)
	require.NoError(t, err)

	run, err := NewRegistry().Get("cluster-report")
	require.NoError(t, err)
	res, err := run(context.Background(), cfg, sys)
	require.NoError(t, err)

	require.NotNil(t, res.Report)
	assert.Equal(t, len(sys.Nuclei), res.Report.Nuclei)
	assert.Len(t, res.Report.Sizes, res.Report.Clusters)
}

func TestCoherenceScanExperiment(t *testing.T) {
	cfg := smallConfig()
	cfg.Abundance = 0.005
	sys, err := BuildSystem(cfg)
	require.NoError(t, err)

	run, err := NewRegistry().Get("coherence-scan")
	require.NoError(t, err)
	res, err := run(context.Background(), cfg, sys)
	require.NoError(t, err)

	require.NotNil(t, res.Signal)
	assert.Len(t, res.Signal.Freqs, cfg.Scan.Points)
	for _, c := range res.Signal.Coherence {
		assert.InDelta(t, 0, c, 1+1e-9)
	}
}
