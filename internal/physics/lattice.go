package physics

import (
	"math"
	"math/rand"

	"github.com/san-kum/spinsim/internal/qmath"
)

// Lattice carries the diamond lattice geometry and the defect ("NV") frame
// axes. It is an immutable value constructed once and passed to everything
// that needs geometry; there is no package-level lattice state.
type Lattice struct {
	// Ao is the offset between the two fcc sublattices; the defect
	// vacancy sits at the origin and its nitrogen at Ao.
	Ao qmath.Vec3
	// A1, A2, A3 are the fcc primitive vectors, in lattice units.
	A1, A2, A3 qmath.Vec3

	// Zhat points from the vacancy to the nitrogen; Xhat and Yhat
	// complete the right-handed defect frame.
	Zhat, Xhat, Yhat qmath.Vec3
}

// NewLattice returns the standard diamond lattice and defect frame.
func NewLattice() Lattice {
	return Lattice{
		Ao:   qmath.Vec3{0.25, 0.25, 0.25},
		A1:   qmath.Vec3{0, 0.5, 0.5},
		A2:   qmath.Vec3{0.5, 0, 0.5},
		A3:   qmath.Vec3{0.5, 0.5, 0},
		Zhat: qmath.Vec3{1, 1, 1}.Scale(1 / math.Sqrt(3)),
		Xhat: qmath.Vec3{2, -1, -1}.Scale(1 / math.Sqrt(6)),
		Yhat: qmath.Vec3{0, 1, -1}.Scale(1 / math.Sqrt(2)),
	}
}

// CellSites returns the eight lattice sites of one diamond unit cell.
func (l Lattice) CellSites() []qmath.Vec3 {
	return []qmath.Vec3{
		{},
		l.A1,
		l.A2,
		l.A3,
		l.Ao,
		l.Ao.Add(l.A1),
		l.Ao.Add(l.A2),
		l.Ao.Add(l.A3),
	}
}

// RandomNuclei populates lattice sites within cells unit cells of the
// defect with carbon-13 nuclei at the given isotopic abundance. The defect
// sites themselves (vacancy at the origin, nitrogen at Ao) are never
// occupied. Output order is deterministic for a given rng.
func RandomNuclei(l Lattice, cells int, abundance float64, rng *rand.Rand) []Spin {
	var nuclei []Spin
	for x := -cells; x <= cells; x++ {
		for y := -cells; y <= cells; y++ {
			for z := -cells; z <= cells; z++ {
				origin := qmath.Vec3{float64(x), float64(y), float64(z)}
				for _, site := range l.CellSites() {
					pos := origin.Add(site)
					if pos.Norm() == 0 || pos.Sub(l.Ao).Norm() == 0 {
						continue
					}
					if rng.Float64() < abundance {
						nuclei = append(nuclei, Carbon13(l, pos))
					}
				}
			}
		}
	}
	return nuclei
}
