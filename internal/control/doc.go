// Package control synthesizes single-nucleus rotations and central-spin /
// nucleus interaction gates out of propagator simulations, following the
// resonant-addressing protocol of the AXY sequence.
//
// Every synthesized operation falls back to the identity operator, with a
// logged warning, when the requested target cannot be addressed (a larmor
// pair shares its cluster, or its hyperfine coupling has no component
// perpendicular to the defect axis). Exact variants bypass synthesis and
// return the ideal gate for comparison.
package control
