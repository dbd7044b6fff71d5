package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/pulse"
	"github.com/san-kum/spinsim/internal/qmath"
)

func testSystem() *physics.System {
	l := physics.NewLattice()
	sys := physics.NewSystem(l, 1, 140e-4, 100, 100)
	sys.Nuclei = []physics.Spin{
		physics.Carbon13(l, qmath.Vec3{1, 0.5, 0.25}),
	}
	sys.Clusters = [][]int{{0}}
	sys.Groups = sys.Clusters
	return sys
}

func TestCoherenceEmptyBath(t *testing.T) {
	l := physics.NewLattice()
	sys := physics.NewSystem(l, 1, 140e-4, 100, 100)

	coh, err := Coherence(sys, 2*math.Pi*1e5, pulse.First, 0.1, 1e-3)
	if err != nil {
		t.Fatalf("Coherence: %v", err)
	}
	if coh != 1 {
		t.Errorf("coherence with no nuclei = %g, want 1", coh)
	}
}

func TestCoherenceBounded(t *testing.T) {
	sys := testSystem()
	wLarmor := sys.EffectiveLarmor(0).Norm()

	for _, w := range []float64{wLarmor / 2, wLarmor, 2 * wLarmor} {
		coh, err := Coherence(sys, w, pulse.First, 0.1, 20*2*math.Pi/w)
		if err != nil {
			t.Fatalf("Coherence(%g): %v", w, err)
		}
		if math.Abs(coh) > 1+1e-9 {
			t.Errorf("coherence at %g = %g, outside [-1, 1]", w, coh)
		}
	}
}

func TestCoherenceRejectsBadWeight(t *testing.T) {
	sys := testSystem()
	if _, err := Coherence(sys, 2*math.Pi*1e5, pulse.First, 2, 1e-3); err == nil {
		t.Error("expected error for out-of-range fourier weight")
	}
}

func TestScanGridAndValues(t *testing.T) {
	sys := testSystem()
	wLarmor := sys.EffectiveLarmor(0).Norm()
	cfg := ScanConfig{
		Start:    wLarmor * 0.9,
		End:      wLarmor * 1.1,
		Points:   5,
		Harmonic: pulse.First,
		F:        0.1,
		ScanTime: 10 * 2 * math.Pi / wLarmor,
	}

	sig, err := Scan(context.Background(), sys, cfg)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sig.Freqs) != cfg.Points || len(sig.Coherence) != cfg.Points {
		t.Fatalf("scan returned %d/%d points, want %d",
			len(sig.Freqs), len(sig.Coherence), cfg.Points)
	}
	if sig.Freqs[0] != cfg.Start || sig.Freqs[cfg.Points-1] != cfg.End {
		t.Errorf("grid spans [%g, %g], want [%g, %g]",
			sig.Freqs[0], sig.Freqs[cfg.Points-1], cfg.Start, cfg.End)
	}
	for i, c := range sig.Coherence {
		if math.Abs(c) > 1+1e-9 {
			t.Errorf("point %d: coherence %g outside [-1, 1]", i, c)
		}
	}
}

func TestScanCancelled(t *testing.T) {
	sys := testSystem()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, sys, ScanConfig{
		Start: 1e5, End: 2e5, Points: 64,
		Harmonic: pulse.First, F: 0.1, ScanTime: 1e-3,
	})
	if err == nil {
		t.Error("expected error from cancelled scan")
	}
}

func TestISwapFidelitiesExactBaseline(t *testing.T) {
	sys := testSystem()
	fids, err := ISwapFidelities(context.Background(), sys, pulse.First)
	if err != nil {
		t.Fatalf("ISwapFidelities: %v", err)
	}
	for _, f := range fids {
		if f.Fidelity < 0 || f.Fidelity > 1+1e-9 {
			t.Errorf("nucleus %d: fidelity %g outside [0, 1]", f.Index, f.Fidelity)
		}
	}
}

func TestPadPow2(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {8, 8}, {9, 16},
	}
	for _, c := range cases {
		got := len(PadPow2(make([]float64, c.in)))
		if got != c.want {
			t.Errorf("PadPow2(len %d) = len %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPowerSpectrumConstant(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	ps := PowerSpectrum(data)
	if ps[0] != 8 {
		t.Errorf("DC component = %g, want 8", ps[0])
	}
	for i := 1; i < len(ps); i++ {
		if ps[i] > 1e-12 {
			t.Errorf("bin %d = %g, want 0", i, ps[i])
		}
	}
}

func TestDips(t *testing.T) {
	sig := &Signal{
		Freqs:     []float64{0, 1, 2, 3, 4, 5, 6},
		Coherence: []float64{1, 0.9, 0.2, 0.9, 1, 0.4, 1},
	}
	dips := sig.Dips(0.5)
	if len(dips) != 2 || dips[0] != 2 || dips[1] != 5 {
		t.Errorf("dips = %v, want [2 5]", dips)
	}
	idx, min := sig.Min()
	if idx != 2 || min != 0.2 {
		t.Errorf("min = (%d, %g), want (2, 0.2)", idx, min)
	}
}
