package physics

import (
	"math"

	"github.com/san-kum/spinsim/internal/qmath"
)

// Spin is one spin of the system: a position (lattice units), a
// gyromagnetic ratio and a spin-vector operator. Immutable once built.
type Spin struct {
	Pos qmath.Vec3
	G   float64
	S   qmath.SpinVector
}

// SpinHalf returns the spin-1/2 vector operator in the defect frame:
// sigma_x/2 along Xhat, sigma_y/2 along Yhat, sigma_z/2 along Zhat.
func SpinHalf(l Lattice) qmath.SpinVector {
	sv := qmath.NewSpinVector(qmath.Scale(0.5, qmath.PauliX()), l.Xhat)
	sv = sv.Add(qmath.NewSpinVector(qmath.Scale(0.5, qmath.PauliY()), l.Yhat))
	sv = sv.Add(qmath.NewSpinVector(qmath.Scale(0.5, qmath.PauliZ()), l.Zhat))
	return sv
}

// Electron returns the central electronic spin treated as a two-level
// system between the ms=0 and ms=+-1 sublevels. The spin vector carries
// the sqrt(2) transverse enhancement and the (sz+1)/2 longitudinal
// projector of that embedding.
func Electron(l Lattice, ms int) Spin {
	m := float64(ms)
	sv := qmath.NewSpinVector(qmath.Scale(complex(1/math.Sqrt2, 0), qmath.PauliX()), l.Xhat)
	sv = sv.Add(qmath.NewSpinVector(qmath.Scale(complex(m/math.Sqrt2, 0), qmath.PauliY()), l.Yhat))
	szp := qmath.Scale(complex(m/2, 0), qmath.Add(qmath.PauliZ(), qmath.PauliI()))
	sv = sv.Add(qmath.NewSpinVector(szp, l.Zhat))
	return Spin{Pos: qmath.Vec3{}, G: GammaE, S: sv}
}

// Carbon13 returns a carbon-13 nucleus at the given lattice position.
func Carbon13(l Lattice, pos qmath.Vec3) Spin {
	return Spin{Pos: pos, G: GammaC13, S: SpinHalf(l)}
}

// Nitrogen returns the defect's nitrogen site, carried for bookkeeping
// with zero gyromagnetic ratio (it is decoupled from the simulation).
func Nitrogen(l Lattice) Spin {
	return Spin{Pos: l.Ao, G: 0, S: SpinHalf(l)}
}
