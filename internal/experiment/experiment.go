package experiment

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/spinsim/internal/cluster"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/physics"
)

// search parameters for the cluster partition threshold, rad/s
const (
	initialCoupling = 1000.0
	couplingCutoff  = 1.0
)

// BuildSystem realizes the sample described by cfg: a random nuclear
// bath on the lattice, partitioned so that no cluster exceeds the
// configured size.
func BuildSystem(cfg *config.Config) (*physics.System, error) {
	l := physics.NewLattice()
	rng := rand.New(rand.NewSource(cfg.Seed))

	sys := physics.NewSystem(l, cfg.Ms, cfg.StaticBz, cfg.ScaleFactor, cfg.IntegrationFactor)
	sys.Nuclei = physics.RandomNuclei(l, cfg.Cells, cfg.Abundance, rng)

	coupling, err := cluster.FindTargetCoupling(l, sys.Nuclei, cfg.MaxClusterSize,
		initialCoupling, couplingCutoff)
	if err != nil {
		return nil, err
	}
	sys.Clusters = cluster.ClusterNuclei(l, sys.Nuclei, coupling)
	sys.Groups = cluster.GroupClusters(sys.Clusters, sys.IsLarmorPair)

	logrus.WithFields(logrus.Fields{
		"nuclei":   len(sys.Nuclei),
		"clusters": len(sys.Clusters),
		"largest":  cluster.LargestClusterSize(sys.Clusters),
		"coupling": coupling,
	}).Info("assembled spin system")
	return sys, nil
}

// ScanWindow derives the frequency window of a coherence scan from the
// bare nuclear larmor frequency at the configured field.
func ScanWindow(cfg *config.Config) (start, end, scanTime float64) {
	center := math.Abs(physics.GammaC13 * cfg.StaticBz)
	half := center * cfg.Scan.WidthFactor
	scanTime = float64(cfg.Scan.Periods) * 2 * math.Pi / center
	return center - half, center + half, scanTime
}

// ClusterReport summarizes a cluster partition.
type ClusterReport struct {
	Nuclei   int   `json:"nuclei"`
	Clusters int   `json:"clusters"`
	Largest  int   `json:"largest"`
	Groups   int   `json:"groups"`
	Sizes    []int `json:"sizes"`
}

func ReportClusters(sys *physics.System) *ClusterReport {
	r := &ClusterReport{
		Nuclei:   len(sys.Nuclei),
		Clusters: len(sys.Clusters),
		Largest:  cluster.LargestClusterSize(sys.Clusters),
		Groups:   len(sys.Groups),
	}
	for _, c := range sys.Clusters {
		r.Sizes = append(r.Sizes, len(c))
	}
	return r
}
