package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/pulse"
	"github.com/san-kum/spinsim/internal/qmath"
)

// Domain errors for propagator simulation.
var (
	// ErrDuration indicates a negative simulation duration.
	ErrDuration = errors.New("sim: duration must be non-negative")

	// ErrFrequency indicates a non-positive sequence frequency.
	ErrFrequency = errors.New("sim: sequence frequency must be positive")
)

// Simulator integrates the joint unitary evolution of the central spin and
// one nuclear cluster under the periodic AXY pulse sequence. It holds only
// read-only system data, so one Simulator may serve concurrent calls.
type Simulator struct {
	sys *physics.System
	log *logrus.Entry
}

// New returns a Simulator over the given system.
func New(sys *physics.System) *Simulator {
	return &Simulator{
		sys: sys,
		log: logrus.WithField("component", "sim"),
	}
}

// Propagator computes the unitary evolution operator of cluster c over
// duration seconds of the AXY sequence at angular frequency wDD, Fourier
// weight fDD and harmonic k, with the given control fields. advance
// offsets the start of the simulation into the periodic schedule, in
// seconds. A zero duration returns the identity.
//
// A control description that reduces to a fixed field takes the exact
// fast path (whole-period exponential composition); otherwise the
// evolution is integrated with the midpoint rule, with ctx checked every
// step.
func (s *Simulator) Propagator(ctx context.Context, c int, wDD, fDD float64,
	k pulse.Harmonic, controls ControlFields, duration, advance float64) (qmath.Operator, error) {

	if duration < 0 {
		return nil, ErrDuration
	}
	if wDD <= 0 {
		return nil, ErrFrequency
	}
	times, err := pulse.Times(fDD, k)
	if err != nil {
		return nil, err
	}
	clusterSpins, err := s.sys.ClusterSpins(c)
	if err != nil {
		return nil, err
	}
	spins := len(clusterSpins) + 1
	dim := 1 << spins

	if duration == 0 {
		return qmath.Identity(dim), nil
	}

	if b, ok := controls.Static(); ok {
		return s.staticPath(c, spins, wDD, times, b, duration, advance)
	}
	return s.dynamicPath(ctx, c, spins, wDD, times, controls, duration, advance)
}

// flipFrame tracks the central-spin-only propagator of every pi-pulse
// applied to the full accumulator, so the result can be rotated back into
// the un-flipped lab frame at the end of a simulation.
type flipFrame struct {
	x  qmath.Operator // central-spin flip embedded on the full space
	ue qmath.Operator // central-spin-only accumulator
}

func newFlipFrame(spins int) (*flipFrame, error) {
	x, err := qmath.Act(qmath.PauliX(), []int{0}, spins)
	if err != nil {
		return nil, err
	}
	return &flipFrame{x: x, ue: qmath.PauliI()}, nil
}

// flip applies the central-spin pi-pulse to u and records it.
func (f *flipFrame) flip(u qmath.Operator) qmath.Operator {
	f.ue = qmath.Mul(qmath.PauliX(), f.ue)
	return qmath.Mul(f.x, u)
}

// restore rotates u back into the un-flipped frame.
func (f *flipFrame) restore(u qmath.Operator, spins int) (qmath.Operator, error) {
	undo, err := qmath.Act(qmath.Dagger(f.ue), []int{0}, spins)
	if err != nil {
		return nil, err
	}
	return qmath.Mul(undo, u), nil
}

// normalize rescales u to exact unitarity, countering the numerical drift
// of repeated matrix-exponential composition.
func normalize(u qmath.Operator) qmath.Operator {
	norm := math.Sqrt(real(qmath.Trace(qmath.Mul(qmath.Dagger(u), u))) / float64(qmath.Dim(u)))
	return qmath.Scale(complex(1/norm, 0), u)
}

// staticPath composes the propagator exactly from inter-pulse matrix
// exponentials: one whole-period propagator raised to the number of
// complete periods, then the sub-period remainder.
func (s *Simulator) staticPath(c, spins int, wDD float64, times []float64,
	controlB qmath.Vec3, duration, advance float64) (qmath.Operator, error) {

	tDD := 2 * math.Pi / wDD
	normedAdvance := advance/tDD - math.Floor(advance/tDD)
	advanced := pulse.Advanced(times, normedAdvance)

	b := s.sys.Lattice.Zhat.Scale(s.sys.StaticBz).Add(controlB)
	hInt, err := s.sys.HIntStrongField(c)
	if err != nil {
		return nil, err
	}
	hZ, err := s.sys.HnZ(c, b)
	if err != nil {
		return nil, err
	}
	h := qmath.Add(hInt, hZ)

	frame, err := newFlipFrame(spins)
	if err != nil {
		return nil, err
	}

	u := qmath.Identity(1 << spins)
	if pulse.F(normedAdvance, times) < 0 {
		u = frame.flip(u)
	}

	// whole periods of the (advanced) sequence
	if duration >= tDD {
		uAXY := qmath.Identity(1 << spins)
		for i := 1; i < len(advanced); i++ {
			seg := segmentExp(h, (advanced[i]-advanced[i-1])*tDD)
			uAXY = qmath.Mul(frame.x, seg, uAXY)
		}
		uAXY = qmath.Mul(frame.x, uAXY) // undo the final pulse at t = tDD
		u = qmath.Mul(qmath.Pow(uAXY, int(duration/tDD)), u)
	}

	// sub-period remainder, truncating the final segment
	remaining := duration - math.Floor(duration/tDD)*tDD
	for i := 1; i < len(advanced); i++ {
		if advanced[i]*tDD < remaining {
			u = frame.flip(qmath.Mul(segmentExp(h, (advanced[i]-advanced[i-1])*tDD), u))
		} else {
			u = qmath.Mul(segmentExp(h, remaining-advanced[i-1]*tDD), u)
			break
		}
	}

	u, err = frame.restore(u, spins)
	if err != nil {
		return nil, err
	}
	return normalize(u), nil
}

// segmentExp returns exp(-i h dt).
func segmentExp(h qmath.Operator, dt float64) qmath.Operator {
	return qmath.Exp(qmath.Scale(complex(0, -dt), h))
}

// frequencyScale returns the fastest frequency present in a dynamic
// simulation: the sequence frequency, the control frequencies, and the
// largest nuclear Zeeman coupling under the maximum field envelope.
func (s *Simulator) frequencyScale(c int, wDD float64, controls ControlFields) float64 {
	l := s.sys.Lattice
	bCap := l.Zhat.Scale(math.Abs(s.sys.StaticBz)).
		Add(controls.Envelope(l.Xhat, l.Yhat, l.Zhat))

	scale := math.Max(wDD, controls.MaxFreq())
	return math.Max(scale, s.sys.LargestG(c)*bCap.Norm())
}

// dynamicPath integrates the evolution with the trapezoidal-midpoint rule,
// splitting any step that spans pulse markers at each marker it contains.
func (s *Simulator) dynamicPath(ctx context.Context, c, spins int, wDD float64,
	times []float64, controls ControlFields, duration, advance float64) (qmath.Operator, error) {

	tDD := 2 * math.Pi / wDD
	normedAdvance := advance/tDD - math.Floor(advance/tDD)

	dt := 1 / (s.frequencyScale(c, wDD, controls) * s.sys.IntegrationFactor)
	steps := int(duration/dt + 0.5)
	if steps < 1 {
		steps = 1
	}

	hStatic, err := s.sys.HIntStrongField(c)
	if err != nil {
		return nil, err
	}

	frame, err := newFlipFrame(spins)
	if err != nil {
		return nil, err
	}

	u := qmath.Identity(1 << spins)
	if pulse.F(normedAdvance, times) < 0 {
		u = frame.flip(u)
	}

	// absolute time runs from advance to advance+duration so that pulse
	// markers sit at (period + times[p]) * tDD
	start := normedAdvance * tDD
	end := start + duration
	markers := newMarkerIter(times, tDD, start)

	logEvery := steps / 10
	if logEvery < 1 {
		logEvery = 1
	}

	evolve := func(u qmath.Operator, from, to float64) (qmath.Operator, error) {
		if to <= from {
			return u, nil
		}
		mid := (from + to) / 2
		b := s.sys.Lattice.Zhat.Scale(s.sys.StaticBz).Add(controls.B(mid))
		hZ, err := s.sys.HnZ(c, b)
		if err != nil {
			return nil, err
		}
		h := qmath.Add(hStatic, hZ)
		return qmath.Mul(segmentExp(h, to-from), u), nil
	}

	t := start
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("sim: integration interrupted: %w", ctx.Err())
		default:
		}

		if i%logEvery == 0 {
			s.log.WithFields(logrus.Fields{
				"cluster": c,
				"step":    i,
				"steps":   steps,
			}).Debug("integrating propagator")
		}

		stepEnd := t + dt
		if i == steps-1 || stepEnd > end {
			stepEnd = end
		}

		// catch up on every pulse marker inside this step; a step may
		// span several markers and none may be skipped
		for markers.peek() < stepEnd {
			m := markers.pop()
			if m <= t {
				continue
			}
			u, err = evolve(u, t, m)
			if err != nil {
				return nil, err
			}
			u = frame.flip(u)
			t = m
		}

		u, err = evolve(u, t, stepEnd)
		if err != nil {
			return nil, err
		}
		t = stepEnd
	}

	u, err = frame.restore(u, spins)
	if err != nil {
		return nil, err
	}
	return normalize(u), nil
}

// markerIter walks the interior pulse markers of the periodic schedule in
// absolute time order.
type markerIter struct {
	interior []float64
	tDD      float64
	period   int
	idx      int
}

func newMarkerIter(times []float64, tDD, start float64) *markerIter {
	m := &markerIter{interior: times[1 : len(times)-1], tDD: tDD}
	for m.peek() <= start {
		m.pop()
	}
	return m
}

// peek returns the next marker's absolute time.
func (m *markerIter) peek() float64 {
	return (float64(m.period) + m.interior[m.idx]) * m.tDD
}

// pop returns the next marker and advances past it.
func (m *markerIter) pop() float64 {
	t := m.peek()
	m.idx++
	if m.idx == len(m.interior) {
		m.idx = 0
		m.period++
	}
	return t
}
