package control

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/qmath"
)

// Rotate returns the spin-1/2 rotation by angle phi about the given axis,
// exp(-i phi/2 sigma.axis), with sigma expressed in the defect frame.
func Rotate(l physics.Lattice, axis qmath.Vec3, phi float64) qmath.Operator {
	if axis.NormSq() == 0 {
		return qmath.PauliI()
	}
	sigma := qmath.Scale(2, physics.SpinHalf(l).Dot(axis.Hat()))
	return qmath.Sub(
		qmath.Scale(complex(math.Cos(phi/2), 0), qmath.PauliI()),
		qmath.Scale(complex(0, math.Sin(phi/2)), sigma),
	)
}

// RotateVec returns the rotation carrying the direction of from onto the
// direction of to.
func RotateVec(l physics.Lattice, to, from qmath.Vec3) qmath.Operator {
	fh, th := from.Hat(), to.Hat()
	axis := fh.Cross(th)
	angle := math.Acos(math.Max(-1, math.Min(1, fh.Dot(th))))
	if axis.NormSq() == 0 {
		if angle < math.Pi/2 { // parallel
			return qmath.PauliI()
		}
		// antiparallel: rotate by pi about any perpendicular axis
		perp := fh.Cross(qmath.Vec3{1, 0, 0})
		if perp.NormSq() == 0 {
			perp = fh.Cross(qmath.Vec3{0, 1, 0})
		}
		return Rotate(l, perp, math.Pi)
	}
	return Rotate(l, axis, angle)
}

// RotateBasis returns the spin-1/2 rotation carrying one right-handed
// orthonormal basis onto another. The rotation axis follows from the
// antisymmetric part of the rotation matrix; for a pi rotation that part
// vanishes and the axis is recovered as the eigenvector of eigenvalue 1.
func RotateBasis(l physics.Lattice, end, start [3]qmath.Vec3) qmath.Operator {
	var r mat.Dense
	r.ReuseAs(3, 3)
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			v := end[0][i]*start[0][k] + end[1][i]*start[1][k] + end[2][i]*start[2][k]
			r.Set(i, k, v)
		}
	}

	trace := r.At(0, 0) + r.At(1, 1) + r.At(2, 2)
	angle := math.Acos(math.Max(-1, math.Min(1, (trace-1)/2)))

	axis := qmath.Vec3{
		r.At(2, 1) - r.At(1, 2),
		r.At(0, 2) - r.At(2, 0),
		r.At(1, 0) - r.At(0, 1),
	}
	if axis.NormSq() > 0 {
		return Rotate(l, axis, angle)
	}

	var eig mat.Eigen
	if !eig.Factorize(&r, mat.EigenRight) {
		return qmath.PauliI()
	}
	vals := eig.Values(nil)
	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	best := 0
	for i := 1; i < len(vals); i++ {
		if cmplxAbs(vals[i]-1) < cmplxAbs(vals[best]-1) {
			best = i
		}
	}
	fixed := qmath.Vec3{
		real(vecs.At(0, best)),
		real(vecs.At(1, best)),
		real(vecs.At(2, best)),
	}
	return Rotate(l, fixed, angle)
}

func cmplxAbs(v complex128) float64 {
	return math.Hypot(real(v), imag(v))
}
