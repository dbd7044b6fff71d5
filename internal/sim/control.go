package sim

import (
	"math"

	"github.com/san-kum/spinsim/internal/qmath"
)

// ControlFields describes superposed continuous control fields, each an
// (amplitude vector, angular frequency, phase) triple. The zero value is
// an empty description; fields are only ever queried through B(t).
type ControlFields struct {
	amps   []qmath.Vec3
	freqs  []float64
	phases []float64
}

// NewControlFields returns a description holding one field.
func NewControlFields(amp qmath.Vec3, freq, phase float64) ControlFields {
	var c ControlFields
	c.Add(amp, freq, phase)
	return c
}

// Add appends a field component.
func (c *ControlFields) Add(amp qmath.Vec3, freq, phase float64) {
	c.amps = append(c.amps, amp)
	c.freqs = append(c.freqs, freq)
	c.phases = append(c.phases, phase)
}

// Num returns the number of field components.
func (c ControlFields) Num() int { return len(c.amps) }

// B evaluates the total control field at time t.
func (c ControlFields) B(t float64) qmath.Vec3 {
	var b qmath.Vec3
	for i, amp := range c.amps {
		b = b.Add(amp.Scale(math.Cos(c.freqs[i]*t + c.phases[i])))
	}
	return b
}

// Static reports whether the description reduces to a single fixed field
// vector, and returns it. True when no component oscillates.
func (c ControlFields) Static() (qmath.Vec3, bool) {
	var b qmath.Vec3
	for i, amp := range c.amps {
		if c.freqs[i] != 0 {
			return qmath.Vec3{}, false
		}
		b = b.Add(amp.Scale(math.Cos(c.phases[i])))
	}
	return b, true
}

// MaxFreq returns the largest component frequency.
func (c ControlFields) MaxFreq() float64 {
	largest := 0.0
	for _, f := range c.freqs {
		if f > largest {
			largest = f
		}
	}
	return largest
}

// Envelope returns a field vector bounding |B(t)| component-wise in the
// given frame axes; used to cap the Zeeman frequency scale.
func (c ControlFields) Envelope(xhat, yhat, zhat qmath.Vec3) qmath.Vec3 {
	var b qmath.Vec3
	for _, amp := range c.amps {
		b = b.Add(xhat.Scale(math.Abs(amp.Dot(xhat))))
		b = b.Add(yhat.Scale(math.Abs(amp.Dot(yhat))))
		b = b.Add(zhat.Scale(math.Abs(amp.Dot(zhat))))
	}
	return b
}
