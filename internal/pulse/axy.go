// Package pulse derives the intra-period timing of the AXY dynamical
// decoupling sequence from its harmonic and Fourier parameters.
//
// A schedule is 12 fractional time markers in [0,1]: the endpoints 0 and 1
// plus ten pi-pulse positions, symmetric under time reversal and
// half-period translation.
package pulse

import (
	"errors"
	"math"
)

// Domain errors for pulse-time generation.
var (
	// ErrHarmonic indicates a harmonic other than 1 or 3.
	ErrHarmonic = errors.New("pulse: harmonic must be 1 or 3")

	// ErrFourierRange indicates a Fourier weight outside the feasible
	// range of the requested harmonic.
	ErrFourierRange = errors.New("pulse: fourier weight outside feasible range")
)

// Harmonic selects which resonance multiple of the sequence frequency the
// protocol targets.
type Harmonic int

const (
	First Harmonic = 1
	Third Harmonic = 3
)

// FMax returns the supremum of |f| for which pulse times exist at
// harmonic k, or 0 for an invalid harmonic.
func FMax(k Harmonic) float64 {
	switch k {
	case First:
		return (8*math.Cos(math.Pi/9) - 4) / math.Pi
	case Third:
		return 4 / math.Pi
	default:
		return 0
	}
}

// Times returns the normalized pulse times of one AXY period for harmonic
// k and Fourier weight f: 12 markers starting at 0 and ending at 1.
// The Fourier weight must satisfy |f| < FMax(k); out-of-range weights feed
// square roots and arctangents outside their domains and are rejected
// before that happens.
func Times(f float64, k Harmonic) ([]float64, error) {
	if k != First && k != Third {
		return nil, ErrHarmonic
	}
	fp := f * math.Pi

	var x1, x2 float64
	switch k {
	case First:
		if math.Abs(fp) >= 8*math.Cos(math.Pi/9)-4 {
			return nil, ErrFourierRange
		}
		w1 := 4 - fp
		w2 := w1 * (960 - 144*fp - 12*fp*fp + fp*fp*fp)

		x1 = 1 / (2 * math.Pi) * math.Atan2(
			(3*fp-12)*w1+math.Sqrt(3*w2),
			math.Sqrt(6)*math.Sqrt(w2-96*fp*w1+w1*w1*math.Sqrt(3*w2)))
		x2 = 1 / (2 * math.Pi) * math.Atan2(
			-(3*fp-12)*w1+math.Sqrt(3*w2),
			math.Sqrt(6)*math.Sqrt(w2-96*fp*w1-w1*w1*math.Sqrt(3*w2)))
	case Third:
		if math.Abs(fp) >= 4 {
			return nil, ErrFourierRange
		}
		q1 := 4 / (math.Sqrt(5+fp) - 1)
		q2 := 4 / (math.Sqrt(5+fp) + 1)

		x1 = 0.25 - 1/(2*math.Pi)*math.Atan(math.Sqrt(q1*q1-1))
		x2 = 0.25 - 1/(2*math.Pi)*math.Atan(math.Sqrt(q2*q2-1))
	}

	// mirror x1, x2 into the full symmetric schedule
	return []float64{
		0,
		x1,
		x2,
		0.25,
		0.5 - x2,
		0.5 - x1,
		0.5 + x1,
		0.5 + x2,
		0.75,
		1 - x2,
		1 - x1,
		1,
	}, nil
}

// Advanced rotates a pulse schedule by a fractional-period phase shift:
// markers passed by the new origin wrap around from the next period, so
// the result still has the original marker count with endpoints 0 and 1.
func Advanced(times []float64, advance float64) []float64 {
	normed := advance - math.Floor(advance)
	if normed == 0 {
		return times
	}

	n := len(times) - 2 // interior pulse markers per period

	advanced := []float64{0}
	for p := 0; p < 2*n; p++ {
		t := float64(p/n) + times[p%n+1] - normed
		if t >= 0 {
			advanced = append(advanced, t)
		}
		if len(advanced) == n+1 {
			break
		}
	}
	return append(advanced, 1)
}

// F returns the sequence modulation at schedule position x: -1 if an odd
// number of pulse markers lie strictly before x (the central spin is
// nominally flipped there), +1 otherwise.
func F(x float64, times []float64) int {
	count := 0
	for _, t := range times[1 : len(times)-1] {
		if t < x {
			count++
		} else {
			break
		}
	}
	if count%2 != 0 {
		return -1
	}
	return 1
}
