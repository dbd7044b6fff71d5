package cluster_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinsim/internal/cluster"
	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/qmath"
)

var _ = Describe("CouplingStrength", func() {
	l := physics.NewLattice()
	at := func(v qmath.Vec3) physics.Spin { return physics.Carbon13(l, v) }

	It("is symmetric under spin exchange", func() {
		a := at(qmath.Vec3{1, 0, 0})
		b := at(qmath.Vec3{0, 2, 1})
		Expect(cluster.CouplingStrength(l, a, b)).
			To(Equal(cluster.CouplingStrength(l, b, a)))
	})

	It("falls off with the cube of the separation", func() {
		origin := at(qmath.Vec3{})
		near := at(l.Zhat)
		far := at(l.Zhat.Scale(2))
		ratio := cluster.CouplingStrength(l, origin, near) /
			cluster.CouplingStrength(l, origin, far)
		Expect(ratio).To(BeNumerically("~", 8, 1e-9))
	})
})

var _ = Describe("ClusterNuclei", func() {
	l := physics.NewLattice()

	// three spins on the quantization axis: 0 and 1 close together,
	// 2 well separated
	nuclei := []physics.Spin{
		physics.Carbon13(l, l.Zhat),
		physics.Carbon13(l, l.Zhat.Scale(1.5)),
		physics.Carbon13(l, l.Zhat.Scale(4)),
	}
	cNear := cluster.CouplingStrength(l, nuclei[0], nuclei[1])
	cFar := cluster.CouplingStrength(l, nuclei[0], nuclei[2])

	It("splits at a threshold between the couplings", func() {
		clusters := cluster.ClusterNuclei(l, nuclei, (cNear+cFar)/2)
		Expect(clusters).To(Equal([][]int{{0, 1}, {2}}))
	})

	It("merges everything below the weakest coupling", func() {
		clusters := cluster.ClusterNuclei(l, nuclei, cFar/2)
		Expect(clusters).To(HaveLen(1))
		Expect(clusters[0]).To(ConsistOf(0, 1, 2))
	})

	It("isolates everything above the strongest coupling", func() {
		clusters := cluster.ClusterNuclei(l, nuclei, 2*cNear)
		Expect(clusters).To(Equal([][]int{{0}, {1}, {2}}))
	})

	It("is deterministic for a fixed input", func() {
		first := cluster.ClusterNuclei(l, nuclei, (cNear+cFar)/2)
		second := cluster.ClusterNuclei(l, nuclei, (cNear+cFar)/2)
		Expect(second).To(Equal(first))
	})

	It("partitions the index set", func() {
		clusters := cluster.ClusterNuclei(l, nuclei, (cNear+cFar)/2)
		seen := map[int]bool{}
		for _, c := range clusters {
			for _, idx := range c {
				Expect(seen).NotTo(HaveKey(idx))
				seen[idx] = true
			}
		}
		Expect(seen).To(HaveLen(len(nuclei)))
	})
})

var _ = Describe("LargestClusterSize", func() {
	It("returns zero for no clusters", func() {
		Expect(cluster.LargestClusterSize(nil)).To(Equal(0))
	})

	It("returns the largest member count", func() {
		Expect(cluster.LargestClusterSize([][]int{{0}, {1, 2, 3}, {4, 5}})).To(Equal(3))
	})
})

var _ = Describe("FindTargetCoupling", func() {
	l := physics.NewLattice()
	nuclei := []physics.Spin{
		physics.Carbon13(l, l.Zhat),
		physics.Carbon13(l, l.Zhat.Scale(1.5)),
		physics.Carbon13(l, l.Zhat.Scale(4)),
	}
	cNear := cluster.CouplingStrength(l, nuclei[0], nuclei[1])

	It("exceeds every pairwise coupling for singleton targets", func() {
		coupling, err := cluster.FindTargetCoupling(l, nuclei, 1, cNear, cNear/1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(cluster.ClusterNuclei(l, nuclei, coupling)).
			To(Equal([][]int{{0}, {1}, {2}}))
	})

	It("settles on a threshold reaching the target size", func() {
		coupling, err := cluster.FindTargetCoupling(l, nuclei, 2, 1.5*cNear, cNear/1000)
		Expect(err).NotTo(HaveOccurred())
		clusters := cluster.ClusterNuclei(l, nuclei, coupling)
		Expect(cluster.LargestClusterSize(clusters)).To(BeNumerically(">=", 2))
	})
})

var _ = Describe("GroupClusters", func() {
	It("keeps clusters apart when nothing is resonant", func() {
		in := [][]int{{0, 1}, {2}}
		groups := cluster.GroupClusters(in, func(int, int) bool { return false })
		Expect(groups).To(Equal(in))
	})

	It("merges clusters joined by a resonant pair", func() {
		in := [][]int{{0}, {1}, {2}}
		pair := func(a, b int) bool {
			return (a == 0 && b == 2) || (a == 2 && b == 0)
		}
		groups := cluster.GroupClusters(in, pair)
		Expect(groups).To(HaveLen(2))
		Expect(groups[0]).To(ConsistOf(0, 2))
		Expect(groups[1]).To(ConsistOf(1))
	})

	It("does not mutate its input", func() {
		in := [][]int{{0}, {1}, {2}}
		cluster.GroupClusters(in, func(a, b int) bool { return true })
		Expect(in).To(Equal([][]int{{0}, {1}, {2}}))
	})
})
