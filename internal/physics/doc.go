// Package physics defines the spin system under simulation: the central
// electronic spin of a defect center, the surrounding nuclear spin bath on
// the diamond lattice, and the Hamiltonians coupling them.
//
// Positions are stored in lattice units and scaled by the lattice parameter
// when couplings are evaluated. All Hamiltonians are expressed in angular
// frequency units (rad/s), so propagators are exp(-i H t) with t in seconds.
package physics
