package qmath

import "math"

// Vec3 is a spatial 3-vector.
type Vec3 [3]float64

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v Vec3) NormSq() float64 { return v.Dot(v) }
func (v Vec3) Norm() float64   { return math.Sqrt(v.NormSq()) }

// Hat returns the unit vector along v, or the zero vector if v is zero.
func (v Vec3) Hat() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// SpinVector is an ordered triple of same-dimension operators representing
// the x/y/z components of a spin observable.
type SpinVector [3]Operator

// NewSpinVector builds the spin vector with component i equal to m * v[i].
func NewSpinVector(m Operator, v Vec3) SpinVector {
	return SpinVector{
		Scale(complex(v[0], 0), m),
		Scale(complex(v[1], 0), m),
		Scale(complex(v[2], 0), m),
	}
}

// Add returns the component-wise sum of s and w.
func (s SpinVector) Add(w SpinVector) SpinVector {
	return SpinVector{Add(s[0], w[0]), Add(s[1], w[1]), Add(s[2], w[2])}
}

// Scale returns s with every component multiplied by f.
func (s SpinVector) Scale(f float64) SpinVector {
	c := complex(f, 0)
	return SpinVector{Scale(c, s[0]), Scale(c, s[1]), Scale(c, s[2])}
}

// Dot contracts s against a spatial vector, yielding a single operator.
func (s SpinVector) Dot(r Vec3) Operator {
	return Add(
		Scale(complex(r[0], 0), s[0]),
		Scale(complex(r[1], 0), s[1]),
		Scale(complex(r[2], 0), s[2]),
	)
}

// DotSV contracts s against another spin vector, tensoring component pairs:
// sum_i s_i (x) w_i. Used for two-body coupling terms.
func (s SpinVector) DotSV(w SpinVector) Operator {
	out := Tensor(s[0], w[0])
	out = Add(out, Tensor(s[1], w[1]))
	out = Add(out, Tensor(s[2], w[2]))
	return out
}
