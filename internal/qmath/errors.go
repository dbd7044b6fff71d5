package qmath

import "errors"

// Domain errors for operator algebra.
var (
	// ErrDimension indicates an operator dimension inconsistent with the
	// requested qubit layout.
	ErrDimension = errors.New("qmath: operator dimension does not match qubit count")

	// ErrQubitIndex indicates a qubit index that is out of range or repeated.
	ErrQubitIndex = errors.New("qmath: qubit index out of range or repeated")

	// ErrSingular indicates a matrix with no inverse.
	ErrSingular = errors.New("qmath: matrix is singular")

	// ErrConvergence indicates an iterative matrix function that did not
	// converge within its iteration budget.
	ErrConvergence = errors.New("qmath: matrix iteration did not converge")
)
