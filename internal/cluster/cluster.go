// Package cluster partitions a nuclear spin bath into tractable
// sub-systems by pairwise dipolar coupling strength.
package cluster

import (
	"errors"
	"math"

	"github.com/san-kum/spinsim/internal/physics"
)

// ErrSearchStalled indicates the coupling-threshold search did not settle
// within its iteration budget; the best candidate found is still returned.
var ErrSearchStalled = errors.New("cluster: coupling threshold search did not converge")

// CouplingStrength returns the magnitude of the dipolar coupling between
// two spins, assuming a strong quantization axis along the defect frame's
// Zhat.
func CouplingStrength(l physics.Lattice, s1, s2 physics.Spin) float64 {
	r := s2.Pos.Sub(s1.Pos)
	rm := r.Norm() * physics.A0
	cz := r.Hat().Dot(l.Zhat)
	return math.Abs(physics.Mu0 * physics.Hbar * s1.G * s2.G /
		(8 * math.Pi * rm * rm * rm) * (1 - 3*cz*cz))
}

func inInts(v int, vs []int) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

// ClusterNuclei groups nuclei into clusters whose members are chained by
// pairwise couplings of at least minCoupling. The scan is deterministic:
// clusters start at the lowest unclustered index and grow by absorption in
// discovery order, so output ordering is reproducible for a fixed input.
func ClusterNuclei(l physics.Lattice, nuclei []physics.Spin, minCoupling float64) [][]int {
	var clusters [][]int
	var clustered []int

	for i := range nuclei {
		if inInts(i, clustered) {
			continue
		}

		cluster := []int{i}
		clustered = append(clustered, i)

		// absorb until no member pulls in a new nucleus
		for ci := 0; ci < len(cluster); ci++ {
			for k := cluster[ci] + 1; k < len(nuclei); k++ {
				if inInts(k, clustered) {
					continue
				}
				if CouplingStrength(l, nuclei[cluster[ci]], nuclei[k]) >= minCoupling {
					cluster = append(cluster, k)
					clustered = append(clustered, k)
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// LargestClusterSize returns the size of the largest cluster.
func LargestClusterSize(clusters [][]int) int {
	largest := 0
	for _, c := range clusters {
		if len(c) > largest {
			largest = len(c)
		}
	}
	return largest
}

// FindTargetCoupling searches for a coupling threshold at which the
// largest cluster barely reaches targetSize, starting from initialCoupling
// and refining until the step size falls below cutoff. The step doubles
// until the target size is first crossed and halves afterwards. The
// largest-cluster size is not proven monotone in the threshold, so this is
// a heuristic search; an iteration cap guards against stalls on
// near-degenerate couplings.
func FindTargetCoupling(l physics.Lattice, nuclei []physics.Spin, targetSize int,
	initialCoupling, cutoff float64) (float64, error) {

	// "clusters" of one: anything above the strongest pairwise coupling
	if targetSize <= 1 {
		max := 0.0
		for i := range nuclei {
			for k := i + 1; k < len(nuclei); k++ {
				if c := CouplingStrength(l, nuclei[i], nuclei[k]); c > max {
					max = c
				}
			}
		}
		return max + cutoff, nil
	}

	coupling := initialCoupling
	step := coupling / 4

	clusters := ClusterNuclei(l, nuclei, coupling)
	tooSmall := LargestClusterSize(clusters) >= targetSize
	crossed := false

	const maxIterations = 10000
	for iter := 0; step >= cutoff || !tooSmall; iter++ {
		if iter >= maxIterations {
			return coupling, ErrSearchStalled
		}
		lastTooSmall := tooSmall

		if tooSmall {
			coupling += step
		} else {
			coupling -= step
		}
		clusters = ClusterNuclei(l, nuclei, coupling)
		tooSmall = LargestClusterSize(clusters) >= targetSize

		if tooSmall != lastTooSmall {
			crossed = true
			step /= 2
		} else if !crossed {
			step *= 2
		}
	}
	return coupling, nil
}

// GroupClusters merges clusters that contain mutually resonant members
// into coarser groups, using the given resonance predicate over nuclear
// indices. The result is a partition for addressing bookkeeping only; it
// never feeds Hilbert-space sizes.
func GroupClusters(clusters [][]int, isPair func(idx1, idx2 int) bool) [][]int {
	old := make([][]int, len(clusters))
	for i, c := range clusters {
		old[i] = append([]int(nil), c...)
	}

	var groups [][]int
	for len(old) > 0 {
		group := old[0]
		old = old[1:]

		for i := 0; i < len(group); i++ {
			for c := 0; c < len(old); c++ {
				for _, other := range old[c] {
					if isPair(group[i], other) {
						group = append(group, old[c]...)
						old = append(old[:c], old[c+1:]...)
						c--
						break
					}
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}
