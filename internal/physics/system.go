package physics

import (
	"errors"
	"math"

	"github.com/san-kum/spinsim/internal/qmath"
)

// Domain errors for system addressing.
var (
	// ErrSpinIndex indicates a nuclear spin index outside the system.
	ErrSpinIndex = errors.New("physics: spin index out of range")

	// ErrClusterIndex indicates a cluster index outside the partition.
	ErrClusterIndex = errors.New("physics: cluster index out of range")
)

// System is the fixed configuration of one experiment: the central spin,
// the nuclear bath, its cluster partition and the tuning knobs of the
// simulation engine. Built once, read-only thereafter.
type System struct {
	Lattice Lattice
	E       Spin   // central electronic spin
	Nuclei  []Spin // ancillary nuclear spins
	Ms      int    // electronic sublevel defining the two-level subspace

	// Clusters partitions the nuclear indices for simulation; Groups is
	// the coarser larmor-pair partition used only for addressing logic.
	Clusters [][]int
	Groups   [][]int

	StaticBz          float64 // static field along the defect axis, T
	ScaleFactor       float64 // accuracy/speed tradeoff for gate synthesis
	IntegrationFactor float64 // oversampling of the fastest frequency scale
}

// NewSystem assembles a system around a freshly constructed central spin.
// Clusters and Groups are attached afterwards by the partitioner.
func NewSystem(l Lattice, ms int, staticBz, scaleFactor, integrationFactor float64) *System {
	return &System{
		Lattice:           l,
		E:                 Electron(l, ms),
		Ms:                ms,
		StaticBz:          staticBz,
		ScaleFactor:       scaleFactor,
		IntegrationFactor: integrationFactor,
	}
}

// Hyperfine returns the hyperfine field of the central spin at nucleus n.
func (s *System) Hyperfine(n Spin) qmath.Vec3 {
	r := n.Pos.Sub(s.E.Pos)
	rn := r.Norm() * A0
	rh := r.Hat()
	pre := Mu0 * Hbar * s.E.G * n.G / (4 * math.Pi * rn * rn * rn)
	z := s.Lattice.Zhat
	return z.Sub(rh.Scale(3 * rh.Dot(z))).Scale(pre)
}

// EffectiveLarmor returns the effective precession vector of nucleus idx:
// the nuclear Zeeman term shifted by the state-dependent hyperfine field.
func (s *System) EffectiveLarmor(idx int) qmath.Vec3 {
	n := s.Nuclei[idx]
	b := s.Lattice.Zhat.Scale(s.StaticBz * n.G)
	return b.Sub(s.Hyperfine(n).Scale(float64(s.Ms) / 2))
}

// HyperfinePerp returns the component of the hyperfine field at nucleus
// idx perpendicular to its effective larmor axis.
func (s *System) HyperfinePerp(idx int) qmath.Vec3 {
	axis := s.EffectiveLarmor(idx).Hat()
	a := s.Hyperfine(s.Nuclei[idx])
	return a.Sub(axis.Scale(a.Dot(axis)))
}

// LarmorResolution returns the smallest difference between the larmor
// frequency of nucleus idx and that of any other nucleus.
func (s *System) LarmorResolution(idx int) float64 {
	target := s.EffectiveLarmor(idx).Norm()
	min := math.MaxFloat64
	for i := range s.Nuclei {
		if i == idx {
			continue
		}
		if dw := math.Abs(target - s.EffectiveLarmor(i).Norm()); dw < min {
			min = dw
		}
	}
	return min
}

// IsLarmorPair reports whether nuclei idx1 and idx2 have coincident
// precession frequencies by lattice symmetry. Components are compared on
// an integer grid to be robust against floating-point position noise.
func (s *System) IsLarmorPair(idx1, idx2 int) bool {
	r1 := s.Nuclei[idx1].Pos.Sub(s.E.Pos)
	r2 := s.Nuclei[idx2].Pos.Sub(s.E.Pos)
	z := s.Lattice.Zhat

	par1 := int(math.Round(16 * math.Abs(r1.Dot(s.Lattice.Ao))))
	par2 := int(math.Round(16 * math.Abs(r2.Dot(s.Lattice.Ao))))

	perp1 := int(math.Round(12 * r1.Sub(z.Scale(r1.Dot(z))).NormSq()))
	perp2 := int(math.Round(12 * r2.Sub(z.Scale(r2.Dot(z))).NormSq()))

	return par1 == par2 && perp1 == perp2
}

// ClusterContaining returns the index of the cluster holding nucleus idx.
func (s *System) ClusterContaining(idx int) (int, error) {
	if idx < 0 || idx >= len(s.Nuclei) {
		return 0, ErrSpinIndex
	}
	for c, cluster := range s.Clusters {
		for _, n := range cluster {
			if n == idx {
				return c, nil
			}
		}
	}
	return 0, ErrSpinIndex
}

// IndexInCluster returns the position of nucleus idx within cluster, or -1.
func IndexInCluster(idx int, cluster []int) int {
	for i, n := range cluster {
		if n == idx {
			return i
		}
	}
	return -1
}

// ClusterSpins returns the spins of cluster c in cluster order.
func (s *System) ClusterSpins(c int) ([]Spin, error) {
	if c < 0 || c >= len(s.Clusters) {
		return nil, ErrClusterIndex
	}
	spins := make([]Spin, len(s.Clusters[c]))
	for i, idx := range s.Clusters[c] {
		spins[i] = s.Nuclei[idx]
	}
	return spins, nil
}

// LargestG returns the largest nuclear gyromagnetic ratio magnitude in
// cluster c; used to bound the Zeeman frequency scale of an integration.
func (s *System) LargestG(c int) float64 {
	largest := 0.0
	for _, idx := range s.Clusters[c] {
		if g := math.Abs(s.Nuclei[idx].G); g > largest {
			largest = g
		}
	}
	return largest
}
