package physics

import "math"

// Physical constants (SI).
const (
	// Hbar is the reduced Planck constant, J*s.
	Hbar = 1.054571817e-34

	// Mu0 is the vacuum permeability, T*m/A.
	Mu0 = 4 * math.Pi * 1e-7

	// A0 is the diamond lattice parameter (unit cell side length), m.
	A0 = 3.567e-10

	// GammaE is the electron gyromagnetic ratio, rad/s/T.
	GammaE = -1.760859708e11

	// GammaC13 is the carbon-13 gyromagnetic ratio, rad/s/T.
	GammaC13 = 6.728284e7

	// ZFS is the zero-field splitting of the defect ground state, rad/s.
	ZFS = 2 * math.Pi * 2.87e9
)
