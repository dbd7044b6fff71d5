package qmath

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Operator is a square complex matrix acting on a qubit register.
type Operator = *mat.CDense

// Identity returns the dim x dim identity operator.
func Identity(dim int) Operator {
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Zero returns the dim x dim zero operator.
func Zero(dim int) Operator {
	return mat.NewCDense(dim, dim, nil)
}

// Dim returns the row dimension of a.
func Dim(a Operator) int {
	r, _ := a.Dims()
	return r
}

// Qubits returns the number of qubits a acts on.
func Qubits(a Operator) int {
	return int(math.Round(math.Log2(float64(Dim(a)))))
}

// Clone returns a copy of a.
func Clone(a Operator) Operator {
	n := Dim(a)
	m := mat.NewCDense(n, n, nil)
	m.Copy(a)
	return m
}

// Dagger returns the conjugate transpose of a.
func Dagger(a Operator) Operator {
	n := Dim(a)
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			m.Set(i, k, cmplx.Conj(a.At(k, i)))
		}
	}
	return m
}

// Trace returns the trace of a.
func Trace(a Operator) complex128 {
	n := Dim(a)
	var t complex128
	for i := 0; i < n; i++ {
		t += a.At(i, i)
	}
	return t
}

// Mul returns the left-to-right product of the given operators.
func Mul(ops ...Operator) Operator {
	out := Clone(ops[0])
	for _, op := range ops[1:] {
		n := Dim(out)
		next := mat.NewCDense(n, n, nil)
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				var sum complex128
				for j := 0; j < n; j++ {
					sum += out.At(i, j) * op.At(j, k)
				}
				next.Set(i, k, sum)
			}
		}
		out = next
	}
	return out
}

// Add returns the sum of the given operators.
func Add(ops ...Operator) Operator {
	out := Clone(ops[0])
	n := Dim(out)
	for _, op := range ops[1:] {
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				out.Set(i, k, out.At(i, k)+op.At(i, k))
			}
		}
	}
	return out
}

// Sub returns a - b.
func Sub(a, b Operator) Operator {
	n := Dim(a)
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			out.Set(i, k, a.At(i, k)-b.At(i, k))
		}
	}
	return out
}

// Scale returns f * a.
func Scale(f complex128, a Operator) Operator {
	n := Dim(a)
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			out.Set(i, k, f*a.At(i, k))
		}
	}
	return out
}

// Tensor returns the tensor (Kronecker) product of the given operators,
// left factor most significant.
func Tensor(ops ...Operator) Operator {
	out := Identity(1)
	for _, op := range ops {
		or, oc := out.Dims()
		br, bc := op.Dims()
		next := mat.NewCDense(or*br, oc*bc, nil)
		for i := 0; i < or; i++ {
			for k := 0; k < oc; k++ {
				f := out.At(i, k)
				if f == 0 {
					continue
				}
				for bi := 0; bi < br; bi++ {
					for bk := 0; bk < bc; bk++ {
						next.Set(i*br+bi, k*bc+bk, f*op.At(bi, bk))
					}
				}
			}
		}
		out = next
	}
	return out
}

// EqualApprox reports whether a and b agree entrywise to within tol.
func EqualApprox(a, b Operator, tol float64) bool {
	return mat.CEqualApprox(a, b, tol)
}

// MaxAbs returns the largest entry magnitude of a.
func MaxAbs(a Operator) float64 {
	n := Dim(a)
	largest := 0.0
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if v := cmplx.Abs(a.At(i, k)); v > largest {
				largest = v
			}
		}
	}
	return largest
}

// oneNorm returns the maximum absolute column sum of a.
func oneNorm(a Operator) float64 {
	n := Dim(a)
	largest := 0.0
	for k := 0; k < n; k++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += cmplx.Abs(a.At(i, k))
		}
		if sum > largest {
			largest = sum
		}
	}
	return largest
}

// RemoveArtifacts rounds every entry of a to the nearest multiple of
// threshold, clearing small numerical residue.
func RemoveArtifacts(a Operator, threshold float64) Operator {
	n := Dim(a)
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			v := a.At(i, k)
			re := math.Round(real(v)/threshold) * threshold
			im := math.Round(imag(v)/threshold) * threshold
			out.Set(i, k, complex(re, im))
		}
	}
	return out
}

// GlobalPhase returns the phase of the first entry of a with magnitude
// above threshold, or 1 if all entries are below it.
func GlobalPhase(a Operator, threshold float64) complex128 {
	n := Dim(a)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			v := a.At(i, k)
			if cmplx.Abs(v) > threshold {
				return v / complex(cmplx.Abs(v), 0)
			}
		}
	}
	return 1
}

// RemovePhase returns a with its global phase divided out.
func RemovePhase(a Operator) Operator {
	return Scale(cmplx.Conj(GlobalPhase(a, 1e-12)), a)
}
