package qmath

import (
	"math"
	"testing"
)

func TestActIdentityOrder(t *testing.T) {
	x := PauliX()
	got, err := Act(x, []int{0}, 2)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	want := Tensor(x, Identity(2))
	if !EqualApprox(got, want, 1e-14) {
		t.Error("acting on qubit 0 of 2 != X tensor I")
	}

	got, err = Act(x, []int{1}, 2)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	want = Tensor(Identity(2), x)
	if !EqualApprox(got, want, 1e-14) {
		t.Error("acting on qubit 1 of 2 != I tensor X")
	}
}

func TestActReorders(t *testing.T) {
	// embedding X tensor Z on targets {1, 0} swaps the factors
	xz := Tensor(PauliX(), PauliZ())
	got, err := Act(xz, []int{1, 0}, 2)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	want := Tensor(PauliZ(), PauliX())
	if !EqualApprox(got, want, 1e-14) {
		t.Error("target permutation was not applied")
	}
}

func TestActErrors(t *testing.T) {
	x := PauliX()
	if _, err := Act(x, []int{2}, 2); err == nil {
		t.Error("expected error for out-of-range target")
	}
	if _, err := Act(x, []int{0, 1}, 2); err == nil {
		t.Error("expected error for target/operator dimension mismatch")
	}
	if _, err := Act(x, []int{0, 0}, 2); err == nil {
		t.Error("expected error for duplicate targets")
	}
}

func TestPTraceProductState(t *testing.T) {
	a := Add(Identity(2), Scale(0.5, PauliZ()))
	b := Add(Identity(2), Scale(0.25, PauliX()))

	// tracing out the second factor leaves a * Tr(b)
	got, err := PTrace(Tensor(a, b), []int{1})
	if err != nil {
		t.Fatalf("PTrace: %v", err)
	}
	want := Scale(Trace(b), a)
	if !EqualApprox(got, want, 1e-13) {
		t.Error("partial trace over factor 1 mismatch")
	}

	got, err = PTrace(Tensor(a, b), []int{0})
	if err != nil {
		t.Fatalf("PTrace: %v", err)
	}
	want = Scale(Trace(a), b)
	if !EqualApprox(got, want, 1e-13) {
		t.Error("partial trace over factor 0 mismatch")
	}
}

func TestPTraceFull(t *testing.T) {
	ab := Tensor(PauliZ(), PauliZ())
	got, err := PTrace(ab, []int{0, 1})
	if err != nil {
		t.Fatalf("PTrace: %v", err)
	}
	if Dim(got) != 1 || got.At(0, 0) != Trace(ab) {
		t.Errorf("full trace = %v, want %v", got.At(0, 0), Trace(ab))
	}
}

func TestSubmatrixIdentity(t *testing.T) {
	sub, err := Submatrix(Identity(4), []int{0})
	if err != nil {
		t.Fatalf("Submatrix: %v", err)
	}
	if Dim(sub) != 4 {
		t.Fatalf("dim = %d, want 4", Dim(sub))
	}
	if !EqualApprox(sub, Identity(4), 1e-12) {
		t.Error("submatrix of identity is not identity")
	}
}

func TestSubmatrixNormalized(t *testing.T) {
	u := Tensor(PauliX(), Identity(2))
	sub, err := Submatrix(u, []int{0})
	if err != nil {
		t.Fatalf("Submatrix: %v", err)
	}
	// the extraction renormalizes to Tr(B^dag B) = dim
	norm := real(Trace(Mul(Dagger(sub), sub)))
	if math.Abs(norm-4) > 1e-12 {
		t.Errorf("Tr(B^dag B) = %g, want 4", norm)
	}
}
