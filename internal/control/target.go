package control

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/spinsim/internal/physics"
	"github.com/san-kum/spinsim/internal/pulse"
	"github.com/san-kum/spinsim/internal/qmath"
	"github.com/san-kum/spinsim/internal/sim"
)

// Controller synthesizes nuclear gates on one system through its
// propagator simulator. It is stateless besides read-only configuration
// and safe for concurrent use.
type Controller struct {
	sys *physics.System
	sim *sim.Simulator
	kDD pulse.Harmonic
	log *logrus.Entry
}

// New returns a Controller driving the given system at sequence
// harmonic kDD.
func New(sys *physics.System, kDD pulse.Harmonic) *Controller {
	return &Controller{
		sys: sys,
		sim: sim.New(sys),
		kDD: kDD,
		log: logrus.WithField("component", "control"),
	}
}

// NaturalBasis returns the natural frame of nucleus idx: z along its
// effective larmor axis, x along the perpendicular hyperfine component.
func (c *Controller) NaturalBasis(idx int) [3]qmath.Vec3 {
	zt := c.sys.EffectiveLarmor(idx).Hat()
	xt := c.sys.HyperfinePerp(idx).Hat()
	return [3]qmath.Vec3{xt, zt.Cross(xt), zt}
}

// NaturalAxis returns the equatorial axis of the natural frame at the
// given azimuth.
func (c *Controller) NaturalAxis(idx int, azimuth float64) qmath.Vec3 {
	basis := c.NaturalBasis(idx)
	return basis[0].Scale(math.Cos(azimuth)).Add(basis[1].Scale(math.Sin(azimuth)))
}

// identity returns the identity on the cluster space of the target,
// the sentinel for unaddressable requests.
func (c *Controller) identity(cluster int) qmath.Operator {
	return qmath.Identity(1 << (len(c.sys.Clusters[cluster]) + 1))
}

// larmorPairIn reports the first cluster companion of target that is a
// larmor pair with it, if any.
func (c *Controller) larmorPairIn(cluster, target int) (int, bool) {
	for _, idx := range c.sys.Clusters[cluster] {
		if idx == target {
			continue
		}
		if c.sys.IsLarmorPair(target, idx) {
			return idx, true
		}
	}
	return 0, false
}

// ctlSequenceFreq picks the decoupling frequency for addressing a nucleus
// with larmor frequency wLarmor and scaled hyperfine magnitude sA: the
// largest frequency keeping the sequence off resonance with both.
func ctlSequenceFreq(wLarmor, sA float64) float64 {
	wLarge := (wLarmor + sA) / 3
	if wLarmor < sA {
		return wLarge
	}
	km := 2 * int(0.5*(wLarmor/sA-1))
	if km == 0 {
		return wLarge
	}
	wSmall := (wLarmor - sA) / float64(km)
	if wSmall > sA && !math.IsInf(wSmall, 0) && !math.IsNaN(wSmall) {
		return wSmall
	}
	return wLarge
}

// UCtl synthesizes the rotation exp(-i angle sigma_axis) on the target
// nucleus, where the axis lies in the equatorial plane of the nucleus'
// natural frame at the given azimuth. zPhase adds a frame rotation about
// the natural z axis, absorbed into the flush segment. With exact set the
// ideal gate is returned instead of a synthesized one.
func (c *Controller) UCtl(ctx context.Context, target int, azimuth, angle float64,
	exact, adjustAXY bool, zPhase float64) (qmath.Operator, error) {

	cluster, err := c.sys.ClusterContaining(target)
	if err != nil {
		return nil, err
	}
	targetIn := physics.IndexInCluster(target, c.sys.Clusters[cluster])
	spins := len(c.sys.Clusters[cluster]) + 1
	axisCtl := c.NaturalAxis(target, azimuth)

	if exact {
		// the synthesized path is calibrated to the full pauli vector,
		// twice the spin operator
		sigma := qmath.Scale(2, physics.SpinHalf(c.sys.Lattice).Dot(axisCtl))
		g := qmath.Exp(qmath.Scale(complex(0, -angle), sigma))
		return qmath.Act(g, []int{targetIn + 1}, spins)
	}

	if pair, ok := c.larmorPairIn(cluster, target); ok {
		c.log.WithFields(logrus.Fields{
			"target": target,
			"pair":   pair,
		}).Warn("cannot address nucleus with a larmor pair in its cluster")
		return c.identity(cluster), nil
	}

	wLarmor := c.sys.EffectiveLarmor(target).Norm()
	tLarmor := 2 * math.Pi / wLarmor

	sA := c.sys.ScaleFactor * c.sys.Hyperfine(c.sys.Nuclei[target]).Norm()
	wDD := ctlSequenceFreq(wLarmor, sA)
	kDD := pulse.Third
	if math.Abs(wDD-wLarmor) < math.Abs(3*wDD-wLarmor) {
		kDD = pulse.First
	}
	const fDD = 0

	// control field strength set by the larmor resolution of the target
	gBCtl := c.sys.LarmorResolution(target) / c.sys.ScaleFactor
	wPhase := gBCtl / 4
	tPhase := 2 * math.Pi / wPhase

	controlTime := -angle / wPhase
	controlTime -= math.Floor(controlTime/tPhase) * tPhase
	if controlTime > tPhase/2 {
		gBCtl = -gBCtl
		controlTime = tPhase - controlTime
	}

	bCtl := gBCtl / c.sys.Nuclei[target].G
	controls := sim.NewControlFields(axisCtl.Scale(bCtl), wLarmor, 0)

	var uCtl qmath.Operator
	if !adjustAXY {
		uCtl, err = c.sim.Propagator(ctx, cluster, wDD, fDD, kDD, controls, controlTime, 0)
		if err != nil {
			return nil, err
		}
	} else {
		uCtl, err = c.adjustedCtl(ctx, cluster, wDD, kDD, wLarmor, tLarmor, controls, controlTime)
		if err != nil {
			return nil, err
		}
	}

	flushTime := math.Ceil(controlTime/tLarmor)*tLarmor - controlTime - zPhase/wLarmor
	flushTime -= math.Floor(flushTime/tLarmor) * tLarmor
	uFlush, err := c.sim.Propagator(ctx, cluster, wDD, fDD, kDD, sim.ControlFields{}, flushTime, controlTime)
	if err != nil {
		return nil, err
	}
	return qmath.Mul(uFlush, uCtl), nil
}

// adjustedCtl retunes the sequence frequency to a multiple or submultiple
// of the larmor frequency so whole control cycles compose exactly.
func (c *Controller) adjustedCtl(ctx context.Context, cluster int, wDD float64,
	kDD pulse.Harmonic, wLarmor, tLarmor float64, controls sim.ControlFields,
	controlTime float64) (qmath.Operator, error) {

	var wAdj float64
	var cycleTime float64
	if wDD < wLarmor {
		ratio := 2 * math.Round(0.5*wLarmor/wDD)
		wAdj = wLarmor / ratio
		cycleTime = 2 * math.Pi / wAdj
	} else {
		ratio := math.Round(wDD / wLarmor)
		wAdj = wLarmor * ratio
		cycleTime = tLarmor
	}

	cycles := int(controlTime / cycleTime)
	leading := controlTime - float64(cycles)*cycleTime
	trailing := cycleTime - leading

	uLeading, err := c.sim.Propagator(ctx, cluster, wAdj, 0, kDD, controls, leading, 0)
	if err != nil {
		return nil, err
	}
	uTrailing, err := c.sim.Propagator(ctx, cluster, wAdj, 0, kDD, controls, trailing, leading)
	if err != nil {
		return nil, err
	}
	return qmath.Mul(uLeading, qmath.Pow(qmath.Mul(uTrailing, uLeading), cycles)), nil
}

// ActTarget realizes an arbitrary single-qubit gate u on the target
// nucleus: the generator of u is decomposed in the Pauli basis into a
// rotation axis and angle, then composed out of equatorial UCtl rotations
// through whichever of the pole or equator routes is shorter.
func (c *Controller) ActTarget(ctx context.Context, target int, u qmath.Operator,
	exact, adjustAXY bool) (qmath.Operator, error) {

	cluster, err := c.sys.ClusterContaining(target)
	if err != nil {
		return nil, err
	}
	targetIn := physics.IndexInCluster(target, c.sys.Clusters[cluster])
	spins := len(c.sys.Clusters[cluster]) + 1

	if exact {
		toNatural := RotateBasis(c.sys.Lattice,
			[3]qmath.Vec3{c.sys.Lattice.Xhat, c.sys.Lattice.Yhat, c.sys.Lattice.Zhat},
			c.NaturalBasis(target))
		g := qmath.Mul(qmath.Dagger(toNatural), u, toNatural)
		return qmath.Act(g, []int{targetIn + 1}, spins)
	}

	logU, err := qmath.Log(qmath.RemovePhase(u))
	if err != nil {
		return nil, err
	}
	h := qmath.Decompose(qmath.Scale(1i, logU))
	rx := 2 * real(h[1])
	ry := 2 * real(h[2])
	rz := 2 * real(h[3])

	angle := math.Sqrt(rx*rx + ry*ry + rz*rz)
	if angle == 0 {
		return c.identity(cluster), nil
	}

	azimuth := math.Atan2(ry, rx)
	pitch := math.Asin(rz / angle)

	poleRotation := math.Pi - 2*math.Abs(pitch)
	equatorRotation := 2 * math.Abs(pitch)
	if angle < math.Pi {
		equatorRotation += angle
	} else {
		equatorRotation += 2*math.Pi - angle
	}

	if poleRotation < equatorRotation {
		pole := 1.0 // "north" vs "south"
		if pitch < 0 {
			pole = -1
		}
		angleToPole := math.Pi/2 - math.Abs(pitch)

		toPole, err := c.UCtl(ctx, target, azimuth-math.Pi/2, pole*angleToPole/2, exact, adjustAXY, 0)
		if err != nil {
			return nil, err
		}
		spinAround, err := c.UCtl(ctx, target, 0, 0, exact, adjustAXY, pole*angle)
		if err != nil {
			return nil, err
		}
		return qmath.Mul(qmath.Dagger(toPole), spinAround, toPole), nil
	}

	toEquator, err := c.UCtl(ctx, target, azimuth+math.Pi/2, pitch/2, exact, adjustAXY, 0)
	if err != nil {
		return nil, err
	}
	spinAround, err := c.UCtl(ctx, target, azimuth, angle/2, exact, adjustAXY, 0)
	if err != nil {
		return nil, err
	}
	return qmath.Mul(qmath.Dagger(toEquator), spinAround, toEquator), nil
}

// RotateTarget performs the rotation described by the given axis-angle
// vector on the target nucleus.
func (c *Controller) RotateTarget(ctx context.Context, target int, rotation qmath.Vec3,
	exact, adjustAXY bool) (qmath.Operator, error) {
	return c.ActTarget(ctx, target, Rotate(c.sys.Lattice, rotation, rotation.Norm()), exact, adjustAXY)
}

// ActNV embeds a central-spin gate on the full cluster space.
func ActNV(g qmath.Operator, spins int) (qmath.Operator, error) {
	return qmath.Act(g, []int{0}, spins)
}
