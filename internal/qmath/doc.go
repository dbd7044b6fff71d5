// Package qmath provides the operator algebra for composite spin systems.
//
// Operators are square complex matrices of dimension 2^n indexed by qubit
// position. The package covers:
//
//   - tensor products and bit-indexed embedding ([Act]) / extraction ([PTrace])
//   - analytic matrix functions ([Exp], [Log], [Sqrt], [Pow])
//   - decomposition in the tensor-product Pauli basis ([Decompose])
//   - gate fidelity measures ([GateFidelity], [GateFidelityOn])
//
// Qubit q of an n-qubit register corresponds to bit n-1-q of the row/column
// index, so qubit 0 is the most significant bit. All functions are pure;
// none mutates its arguments.
package qmath
