package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/spinsim/internal/qmath"
)

func hermitian(a qmath.Operator, tol float64) bool {
	return qmath.EqualApprox(a, qmath.Dagger(a), tol)
}

func testSystem() *System {
	l := NewLattice()
	sys := NewSystem(l, 1, 140e-4, 100, 10)
	sys.Nuclei = []Spin{
		Carbon13(l, qmath.Vec3{1, 0.5, 0.25}),
		Carbon13(l, qmath.Vec3{-0.5, 1, 0.75}),
	}
	sys.Clusters = [][]int{{0, 1}}
	sys.Groups = sys.Clusters
	return sys
}

func TestLatticeFrameOrthonormal(t *testing.T) {
	l := NewLattice()
	axes := []qmath.Vec3{l.Xhat, l.Yhat, l.Zhat}
	for i := range axes {
		for k := range axes {
			want := 0.0
			if i == k {
				want = 1
			}
			if got := axes[i].Dot(axes[k]); math.Abs(got-want) > 1e-14 {
				t.Errorf("axes[%d].axes[%d] = %g, want %g", i, k, got, want)
			}
		}
	}
	if diff := l.Xhat.Cross(l.Yhat).Sub(l.Zhat).Norm(); diff > 1e-14 {
		t.Errorf("frame is not right handed: %g", diff)
	}
}

func TestRandomNucleiSkipsDefectSites(t *testing.T) {
	l := NewLattice()
	nuclei := RandomNuclei(l, 2, 1.0, rand.New(rand.NewSource(7)))
	if len(nuclei) == 0 {
		t.Fatal("full abundance produced no nuclei")
	}
	for _, n := range nuclei {
		if n.Pos.Norm() < 1e-12 {
			t.Error("vacancy site is occupied")
		}
		if n.Pos.Sub(l.Ao).Norm() < 1e-12 {
			t.Error("nitrogen site is occupied")
		}
		if n.G != GammaC13 {
			t.Errorf("nucleus g = %g, want %g", n.G, GammaC13)
		}
	}
}

func TestRandomNucleiAbundanceZero(t *testing.T) {
	l := NewLattice()
	if nuclei := RandomNuclei(l, 2, 0, rand.New(rand.NewSource(7))); len(nuclei) != 0 {
		t.Errorf("zero abundance produced %d nuclei", len(nuclei))
	}
}

func TestHSSHermitian(t *testing.T) {
	l := NewLattice()
	s1 := Carbon13(l, qmath.Vec3{1, 0, 0})
	s2 := Carbon13(l, qmath.Vec3{0, 1, 0.5})

	if !hermitian(HSS(s1, s2), 1e-10) {
		t.Error("HSS is not hermitian")
	}
	if !hermitian(HSSStrongField(l, s1, s2), 1e-10) {
		t.Error("HSSStrongField is not hermitian")
	}
}

func TestHSSSymmetricUnderExchange(t *testing.T) {
	l := NewLattice()
	s1 := Carbon13(l, qmath.Vec3{1, 0, 0})
	s2 := Carbon13(l, qmath.Vec3{0, 1, 0.5})

	// exchanging the spins transposes the factors; traces must agree
	h12 := HSS(s1, s2)
	h21 := HSS(s2, s1)
	if math.Abs(real(qmath.Trace(qmath.Mul(h12, h12)))-real(qmath.Trace(qmath.Mul(h21, h21)))) > 1e-6 {
		t.Error("exchange changed the coupling strength")
	}
}

func TestClusterHamiltoniansHermitian(t *testing.T) {
	sys := testSystem()

	hInt, err := sys.HInt(0)
	if err != nil {
		t.Fatalf("HInt: %v", err)
	}
	if !hermitian(hInt, 1e-8) {
		t.Error("HInt is not hermitian")
	}
	if qmath.Dim(hInt) != 8 {
		t.Errorf("HInt dim = %d, want 8", qmath.Dim(hInt))
	}

	hIntSF, err := sys.HIntStrongField(0)
	if err != nil {
		t.Fatalf("HIntStrongField: %v", err)
	}
	if !hermitian(hIntSF, 1e-8) {
		t.Error("HIntStrongField is not hermitian")
	}

	hZ, err := sys.HZ(0, sys.Lattice.Zhat.Scale(sys.StaticBz))
	if err != nil {
		t.Fatalf("HZ: %v", err)
	}
	if !hermitian(hZ, 1e-8) {
		t.Error("HZ is not hermitian")
	}
}

func TestHyperfineGeometry(t *testing.T) {
	sys := testSystem()

	// the hyperfine field lies in the plane of zhat and the separation
	a := sys.Hyperfine(sys.Nuclei[0])
	r := sys.Nuclei[0].Pos.Sub(sys.E.Pos).Hat()
	normal := r.Cross(sys.Lattice.Zhat)
	if math.Abs(a.Dot(normal)) > 1e-9*a.Norm() {
		t.Error("hyperfine field leaves the r-z plane")
	}

	// the field falls off as 1/r^3
	far := Carbon13(sys.Lattice, sys.Nuclei[0].Pos.Scale(2))
	ratio := sys.Hyperfine(sys.Nuclei[0]).Norm() / sys.Hyperfine(far).Norm()
	if math.Abs(ratio-8) > 1e-9 {
		t.Errorf("1/r^3 scaling violated: ratio = %g", ratio)
	}
}

func TestEffectiveLarmorPerpendicularity(t *testing.T) {
	sys := testSystem()
	for idx := range sys.Nuclei {
		axis := sys.EffectiveLarmor(idx).Hat()
		perp := sys.HyperfinePerp(idx)
		if math.Abs(axis.Dot(perp)) > 1e-9*perp.Norm() {
			t.Errorf("nucleus %d: perpendicular component not perpendicular", idx)
		}
	}
}

func TestIsLarmorPairSymmetric(t *testing.T) {
	l := NewLattice()
	sys := NewSystem(l, 1, 140e-4, 100, 10)
	// mirror-symmetric positions about the defect axis form a pair
	sys.Nuclei = []Spin{
		Carbon13(l, qmath.Vec3{1, 0.5, 0.25}),
		Carbon13(l, qmath.Vec3{0.5, 1, 0.25}),
		Carbon13(l, qmath.Vec3{2, 2, 2}),
	}
	if !sys.IsLarmorPair(0, 1) {
		t.Error("mirrored nuclei not detected as a larmor pair")
	}
	if sys.IsLarmorPair(0, 2) != sys.IsLarmorPair(2, 0) {
		t.Error("IsLarmorPair is not symmetric")
	}
	if sys.IsLarmorPair(0, 2) {
		t.Error("unrelated nuclei flagged as a larmor pair")
	}
}

func TestClusterContaining(t *testing.T) {
	sys := testSystem()
	c, err := sys.ClusterContaining(1)
	if err != nil {
		t.Fatalf("ClusterContaining: %v", err)
	}
	if c != 0 {
		t.Errorf("cluster = %d, want 0", c)
	}
	if _, err := sys.ClusterContaining(99); err == nil {
		t.Error("expected error for unknown nucleus")
	}
	if got := IndexInCluster(1, sys.Clusters[0]); got != 1 {
		t.Errorf("IndexInCluster = %d, want 1", got)
	}
	if got := IndexInCluster(7, sys.Clusters[0]); got != -1 {
		t.Errorf("IndexInCluster missing = %d, want -1", got)
	}
}

func TestElectronSubspace(t *testing.T) {
	l := NewLattice()
	e := Electron(l, 1)
	if e.G != GammaE {
		t.Errorf("electron g = %g, want %g", e.G, GammaE)
	}
	// the z component of the two-level electron operator has trace 1,
	// the projector offset of the ms sublevel
	sz := e.S.Dot(l.Zhat)
	if tr := qmath.Trace(sz); math.Abs(real(tr)-1) > 1e-12 {
		t.Errorf("Tr(Sz) = %v, want 1", tr)
	}
}
