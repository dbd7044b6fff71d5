package analysis

import (
	"context"
	"math"

	"github.com/san-kum/spinsim/internal/control"
	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/pulse"
	"github.com/san-kum/spinsim/internal/qmath"
)

// Fidelity is the simulated quality of one synthesized gate.
type Fidelity struct {
	Index    int     // target nucleus
	Fidelity float64 // overlap of the synthesized gate with the ideal one
}

// addressable reports whether nucleus idx can be singled out: it must
// have a perpendicular hyperfine component and no larmor pair anywhere
// in the bath.
func addressable(sys *physics.System, idx int) bool {
	if math.Round(4*sys.Nuclei[idx].Pos.Dot(sys.Lattice.Ao)) == 0 {
		return false
	}
	for i := range sys.Nuclei {
		if i != idx && sys.IsLarmorPair(idx, i) {
			return false
		}
	}
	return true
}

// ISwapFidelities synthesizes an iSWAP against every addressable nucleus
// and scores it against the exact gate restricted to the NV-target pair.
func ISwapFidelities(ctx context.Context, sys *physics.System, kDD pulse.Harmonic) ([]Fidelity, error) {
	ctl := control.New(sys, kDD)

	var out []Fidelity
	for idx := range sys.Nuclei {
		if !addressable(sys, idx) {
			continue
		}
		cluster, err := sys.ClusterContaining(idx)
		if err != nil {
			return nil, err
		}
		targetIn := physics.IndexInCluster(idx, sys.Clusters[cluster])

		exact, err := ctl.ISwap(ctx, idx, true)
		if err != nil {
			return nil, err
		}
		synthesized, err := ctl.ISwap(ctx, idx, false)
		if err != nil {
			return nil, err
		}

		f, err := qmath.GateFidelityOn(synthesized, exact, []int{0, targetIn + 1})
		if err != nil {
			return nil, err
		}
		out = append(out, Fidelity{Index: idx, Fidelity: f})
	}
	return out, nil
}
