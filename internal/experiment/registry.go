package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/pulse"
)

// Result carries the output of one experiment; exactly one payload field
// is set, matching the experiment kind.
type Result struct {
	Name       string
	Signal     *analysis.Signal
	Fidelities []analysis.Fidelity
	Report     *ClusterReport
}

// Runner executes one named experiment against an assembled system.
type Runner func(ctx context.Context, cfg *config.Config, sys *physics.System) (*Result, error)

// Registry maps experiment names to runners.
type Registry struct {
	runners map[string]Runner
}

func NewRegistry() *Registry {
	r := &Registry{runners: make(map[string]Runner)}
	r.runners["coherence-scan"] = runCoherenceScan
	r.runners["fidelity-sweep"] = runFidelitySweep
	r.runners["cluster-report"] = runClusterReport
	return r
}

func (r *Registry) Get(name string) (Runner, error) {
	run, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("experiment: unknown experiment %q", name)
	}
	return run, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runCoherenceScan(ctx context.Context, cfg *config.Config, sys *physics.System) (*Result, error) {
	start, end, scanTime := ScanWindow(cfg)
	sig, err := analysis.Scan(ctx, sys, analysis.ScanConfig{
		Start:    start,
		End:      end,
		Points:   cfg.Scan.Points,
		Harmonic: pulse.Harmonic(cfg.KDD),
		F:        cfg.Scan.F,
		ScanTime: scanTime,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Name: "coherence-scan", Signal: sig}, nil
}

func runFidelitySweep(ctx context.Context, cfg *config.Config, sys *physics.System) (*Result, error) {
	fids, err := analysis.ISwapFidelities(ctx, sys, pulse.Harmonic(cfg.KDD))
	if err != nil {
		return nil, err
	}
	if max := cfg.Fidelity.MaxTargets; max > 0 && len(fids) > max {
		fids = fids[:max]
	}
	return &Result{Name: "fidelity-sweep", Fidelities: fids}, nil
}

func runClusterReport(_ context.Context, _ *config.Config, sys *physics.System) (*Result, error) {
	return &Result{Name: "cluster-report", Report: ReportClusters(sys)}, nil
}
