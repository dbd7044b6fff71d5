package qmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// qubitState reports whether qubit q of an n-qubit register is set in the
// enumerated basis state s. Qubit 0 is the most significant bit.
func qubitState(q, n, s int) bool {
	return (s>>(n-1-q))&1 == 1
}

// bitInt returns the index contribution of an 'on' qubit q of n.
func bitInt(q, n int) int {
	return 1 << (n - 1 - q)
}

func inInts(v int, vs []int) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

// complement returns the qubits of an n-qubit register not listed in qs,
// in ascending order.
func complement(qs []int, n int) []int {
	var out []int
	for q := 0; q < n; q++ {
		if !inInts(q, qs) {
			out = append(out, q)
		}
	}
	return out
}

func validTargets(qs []int, total int) bool {
	for i, q := range qs {
		if q < 0 || q >= total {
			return false
		}
		for _, p := range qs[:i] {
			if p == q {
				return false
			}
		}
	}
	return true
}

// Act embeds operator a, defined on len(targets) qubits, into the
// identity-padded operator on total qubits, placing a's subsystems at the
// given qubit positions. The embedding is bit-indexed: targets need not be
// contiguous or ordered.
func Act(a Operator, targets []int, total int) (Operator, error) {
	if !validTargets(targets, total) {
		return nil, ErrQubitIndex
	}
	if Dim(a) != 1<<len(targets) {
		return nil, ErrDimension
	}

	// Acting on every qubit in identity order changes nothing.
	if len(targets) == total {
		trivial := true
		for i, q := range targets {
			if i != q {
				trivial = false
				break
			}
		}
		if trivial {
			return a, nil
		}
	}

	old := len(targets)
	ignored := complement(targets, total)

	dim := 1 << total
	b := mat.NewCDense(dim, dim, nil)

	for m := 0; m < Dim(a); m++ {
		for n := 0; n < Dim(a); n++ {
			v := a.At(m, n)
			if v == 0 {
				continue
			}

			// contribution of substates |m><n| to indices of b
			bm, bn := 0, 0
			for q := 0; q < old; q++ {
				if qubitState(q, old, m) {
					bm += bitInt(targets[q], total)
				}
				if qubitState(q, old, n) {
					bn += bitInt(targets[q], total)
				}
			}

			// spread over all states of the ignored qubits
			for s := 0; s < 1<<len(ignored); s++ {
				out, in := bm, bn
				for q := 0; q < len(ignored); q++ {
					if qubitState(q, len(ignored), s) {
						out += bitInt(ignored[q], total)
						in += bitInt(ignored[q], total)
					}
				}
				b.Set(out, in, v)
			}
		}
	}
	return b, nil
}

// PTrace traces out the named qubit positions of a, returning an operator
// on the remaining qubits in their original relative order.
func PTrace(a Operator, traced []int) (Operator, error) {
	old := Qubits(a)
	if Dim(a) != 1<<old {
		return nil, ErrDimension
	}
	if !validTargets(traced, old) {
		return nil, ErrQubitIndex
	}

	kept := complement(traced, old)
	dim := 1 << len(kept)
	b := mat.NewCDense(dim, dim, nil)

	for m := 0; m < dim; m++ {
		for n := 0; n < dim; n++ {
			// contribution of substates |m><n| to indices of a
			am, an := 0, 0
			for q := 0; q < len(kept); q++ {
				if qubitState(q, len(kept), m) {
					am += bitInt(kept[q], old)
				}
				if qubitState(q, len(kept), n) {
					an += bitInt(kept[q], old)
				}
			}

			var sum complex128
			for s := 0; s < 1<<len(traced); s++ {
				out, in := am, an
				for q := 0; q < len(traced); q++ {
					if qubitState(q, len(traced), s) {
						out += bitInt(traced[q], old)
						in += bitInt(traced[q], old)
					}
				}
				sum += a.At(out, in)
			}
			b.Set(m, n, sum)
		}
	}
	return b, nil
}

// Submatrix extracts the component of a acting only on the given qubits,
// averaged over phase-aligned blocks of the remaining qubits, renormalized
// and re-embedded on the full register. Used to pull the "environment"
// action out of an error propagator.
func Submatrix(a Operator, qubits []int) (Operator, error) {
	total := Qubits(a)
	if !validTargets(qubits, total) {
		return nil, ErrQubitIndex
	}
	ignored := complement(qubits, total)

	dim := 1 << len(qubits)
	b := Identity(dim)

	for e := 0; e < 1<<len(ignored); e++ {
		start := 0
		for q := 0; q < len(ignored); q++ {
			if qubitState(q, len(ignored), e) {
				start += bitInt(ignored[q], total)
			}
		}

		block := mat.NewCDense(dim, dim, nil)
		for row := 0; row < dim; row++ {
			arow := start
			for q := 0; q < len(qubits); q++ {
				if qubitState(q, len(qubits), row) {
					arow += bitInt(qubits[q], total)
				}
			}
			for col := 0; col < dim; col++ {
				acol := start
				for q := 0; q < len(qubits); q++ {
					if qubitState(q, len(qubits), col) {
						acol += bitInt(qubits[q], total)
					}
				}
				block.Set(row, col, a.At(arow, acol))
			}
		}
		b = Add(b, RemovePhase(block))
	}

	norm := math.Sqrt(real(Trace(Mul(Dagger(b), b))) / float64(dim))
	b = Scale(complex(1/norm, 0), b)

	return Act(b, qubits, total)
}
