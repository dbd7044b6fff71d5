package analysis

import (
	"context"
	"math"

	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/pulse"
	"github.com/san-kum/spinsim/internal/qmath"
)

// projector returns |b><b| embedded on qubit 0 of a register.
func projector(b int, spins int) qmath.Operator {
	p := qmath.Zero(2)
	p.Set(b, b, 1)
	out, _ := qmath.Act(p, []int{0}, spins)
	return out
}

func expSeg(h qmath.Operator, dt float64) qmath.Operator {
	return qmath.Exp(qmath.Scale(complex(0, -dt), h))
}

func renormalize(u qmath.Operator) qmath.Operator {
	dim := qmath.Dim(u)
	n := math.Sqrt(real(qmath.Trace(qmath.Mul(qmath.Dagger(u), u))) / float64(dim))
	return qmath.Scale(complex(1/n, 0), u)
}

// Coherence measures the central-spin coherence remaining after scanTime
// of decoupling resonant at wScan with harmonic k and Fourier weight f.
// The bath is static, so each cluster contributes the overlap of its
// conditional propagators for the two central-spin states, evaluated on
// one sequence period and raised to the number of whole periods.
func Coherence(sys *physics.System, wScan float64, k pulse.Harmonic, f, scanTime float64) (float64, error) {
	times, err := pulse.Times(f, k)
	if err != nil {
		return 0, err
	}
	wDD := wScan / float64(k)
	tDD := 2 * math.Pi / wDD

	coherence := 1.0
	for c := range sys.Clusters {
		size := len(sys.Clusters[c])
		spins := size + 1

		hInt, err := sys.HInt(c)
		if err != nil {
			return 0, err
		}
		hZ, err := sys.HZ(c, sys.Lattice.Zhat.Scale(sys.StaticBz))
		if err != nil {
			return 0, err
		}
		h := qmath.Add(hInt, hZ)

		// conditional bath Hamiltonians for the two central-spin states
		hm, err := qmath.PTrace(qmath.Mul(h, projector(0, spins)), []int{0})
		if err != nil {
			return 0, err
		}
		h0, err := qmath.PTrace(qmath.Mul(h, projector(1, spins)), []int{0})
		if err != nil {
			return 0, err
		}

		// segment propagators up to the quarter-period marker; each pulse
		// within swaps the roles of the conditional Hamiltonians
		u1m := expSeg(hm, tDD*(times[1]-times[0]))
		u2m := expSeg(h0, tDD*(times[2]-times[1]))
		u3m := expSeg(hm, tDD*(times[3]-times[2]))
		u10 := expSeg(h0, tDD*(times[1]-times[0]))
		u20 := expSeg(hm, tDD*(times[2]-times[1]))
		u30 := expSeg(h0, tDD*(times[3]-times[2]))

		um := qmath.Mul(u1m, u2m, u3m, u30, u20, u10, u10, u20, u30, u3m, u2m, u1m)
		u0 := qmath.Mul(u10, u20, u30, u3m, u2m, u1m, u1m, u2m, u3m, u30, u20, u10)

		periods := int(scanTime / tDD)
		um = renormalize(qmath.Pow(um, periods))
		u0 = renormalize(qmath.Pow(u0, periods))

		coherence *= real(qmath.Trace(qmath.Mul(qmath.Dagger(u0), um))) / float64(int(1)<<size)
	}
	return coherence, nil
}

// ScanConfig describes a coherence scan over a frequency window.
type ScanConfig struct {
	Start    float64 // first scanned angular frequency, rad/s
	End      float64 // last scanned angular frequency, rad/s
	Points   int
	Harmonic pulse.Harmonic
	F        float64 // sequence Fourier weight
	ScanTime float64 // decoupling time per point, s
}

// Signal is a sampled coherence curve.
type Signal struct {
	Freqs     []float64
	Coherence []float64
}

// Scan evaluates the coherence at every frequency of the window,
// splitting the points across all CPUs. Cancelling the context abandons
// unstarted points and returns its error.
func Scan(ctx context.Context, sys *physics.System, cfg ScanConfig) (*Signal, error) {
	sig := &Signal{
		Freqs:     make([]float64, cfg.Points),
		Coherence: make([]float64, cfg.Points),
	}
	step := 0.0
	if cfg.Points > 1 {
		step = (cfg.End - cfg.Start) / float64(cfg.Points-1)
	}
	for i := range sig.Freqs {
		sig.Freqs[i] = cfg.Start + float64(i)*step
	}

	if err := scanParallel(ctx, sys, cfg, sig); err != nil {
		return nil, err
	}
	return sig, nil
}
