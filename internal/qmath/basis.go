package qmath

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Pauli matrices in the |up>, |down> basis. Constructors return fresh
// operators so callers can never corrupt shared state.

func PauliI() Operator {
	return mat.NewCDense(2, 2, []complex128{1, 0, 0, 1})
}

func PauliX() Operator {
	return mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
}

func PauliY() Operator {
	return mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
}

func PauliZ() Operator {
	return mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
}

// intBit returns bit b of p.
func intBit(p, b int) int {
	return (p >> b) & 1
}

// BasisElement returns element p of the tensor-product Pauli basis
// {I,X,Y,Z}^n. Two bits of p select the factor for each spin.
func BasisElement(p, n int) Operator {
	paulis := []func() Operator{PauliI, PauliX, PauliY, PauliZ}
	out := Identity(1)
	for s := 0; s < n; s++ {
		out = Tensor(out, paulis[intBit(p, 2*s)+2*intBit(p, 2*s+1)]())
	}
	return out
}

// BasisLabel returns the text form of basis element p, e.g. "IXZ".
func BasisLabel(p, n int) string {
	letters := "IXYZ"
	var b strings.Builder
	for s := 0; s < n; s++ {
		b.WriteByte(letters[intBit(p, 2*s)+2*intBit(p, 2*s+1)])
	}
	return b.String()
}

// Decompose expresses u in the tensor-product Pauli basis, returning the
// 4^n coefficients indexed as in [BasisElement]. The basis is orthogonal
// under the Hilbert-Schmidt inner product with norm 2^n, so each
// coefficient is Tr(Bp * u) / 2^n; no linear solve is needed.
func Decompose(u Operator) []complex128 {
	n := Qubits(u)
	dim := Dim(u)
	out := make([]complex128, 1<<(2*n))
	for p := range out {
		bp := BasisElement(p, n)
		out[p] = Trace(Mul(bp, u)) / complex(float64(dim), 0)
	}
	return out
}

// GateFidelity returns the mean fidelity of gate u with respect to target
// gate g, i.e. how well u approximates g. Identical gates give 1.
func GateFidelity(u, g Operator) float64 {
	d := float64(Dim(u))
	m := Mul(Dagger(g), u)
	tm := Trace(m)
	return real(Trace(Mul(Dagger(m), m))+tm*complex(real(tm), -imag(tm))) / (d * (d + 1))
}

// GateFidelityOn returns the mean fidelity of u against g with the
// comparison restricted to the given system qubits: the error propagator's
// action on the remaining "environment" qubits is extracted and undone
// before measuring fidelity.
func GateFidelityOn(u, g Operator, system []int) (float64, error) {
	spins := Qubits(g)
	env := complement(system, spins)

	uerr := Mul(Dagger(g), u)
	uenv, err := Submatrix(uerr, env)
	if err != nil {
		return 0, err
	}
	return GateFidelity(Mul(Dagger(uenv), u), g), nil
}
