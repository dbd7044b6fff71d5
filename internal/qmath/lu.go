package qmath

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// luFactor holds an LU factorization with partial pivoting of a complex
// square matrix. gonum's LU is float64-only, so the complex case is done
// here and shared by [Inverse], [Sqrt] and [Log].
type luFactor struct {
	n   int
	lu  []complex128
	piv []int
}

func factorize(a Operator) (*luFactor, error) {
	n := Dim(a)
	f := &luFactor{n: n, lu: make([]complex128, n*n), piv: make([]int, n)}
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			f.lu[i*n+k] = a.At(i, k)
		}
	}

	for col := 0; col < n; col++ {
		// partial pivot
		p := col
		largest := cmplx.Abs(f.lu[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := cmplx.Abs(f.lu[r*n+col]); v > largest {
				largest = v
				p = r
			}
		}
		if largest == 0 {
			return nil, ErrSingular
		}
		f.piv[col] = p
		if p != col {
			for k := 0; k < n; k++ {
				f.lu[p*n+k], f.lu[col*n+k] = f.lu[col*n+k], f.lu[p*n+k]
			}
		}

		pivot := f.lu[col*n+col]
		for r := col + 1; r < n; r++ {
			m := f.lu[r*n+col] / pivot
			f.lu[r*n+col] = m
			for k := col + 1; k < n; k++ {
				f.lu[r*n+k] -= m * f.lu[col*n+k]
			}
		}
	}
	return f, nil
}

// solve overwrites b with the solution of A x = b.
func (f *luFactor) solve(b []complex128) {
	n := f.n
	for col := 0; col < n; col++ {
		if p := f.piv[col]; p != col {
			b[p], b[col] = b[col], b[p]
		}
		for r := col + 1; r < n; r++ {
			b[r] -= f.lu[r*n+col] * b[col]
		}
	}
	for col := n - 1; col >= 0; col-- {
		b[col] /= f.lu[col*n+col]
		for r := 0; r < col; r++ {
			b[r] -= f.lu[r*n+col] * b[col]
		}
	}
}

// Inverse returns the matrix inverse of a.
func Inverse(a Operator) (Operator, error) {
	f, err := factorize(a)
	if err != nil {
		return nil, err
	}
	n := Dim(a)
	out := mat.NewCDense(n, n, nil)
	col := make([]complex128, n)
	for k := 0; k < n; k++ {
		for i := range col {
			col[i] = 0
		}
		col[k] = 1
		f.solve(col)
		for i := 0; i < n; i++ {
			out.Set(i, k, col[i])
		}
	}
	return out, nil
}

// solveMatrix returns X with A X = B.
func (f *luFactor) solveMatrix(b Operator) Operator {
	n := f.n
	out := mat.NewCDense(n, n, nil)
	col := make([]complex128, n)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			col[i] = b.At(i, k)
		}
		f.solve(col)
		for i := 0; i < n; i++ {
			out.Set(i, k, col[i])
		}
	}
	return out
}
