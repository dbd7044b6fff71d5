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

// UInt synthesizes the coupling gate
//
//	exp(-i angle sigma_nvAxis x sigma_targetAxis)
//
// between the central spin and the target nucleus, where the target axis
// lies in the equatorial plane of the nucleus' natural frame at the given
// azimuth. With exact set the ideal gate is returned.
func (c *Controller) UInt(ctx context.Context, target int, nvAxis qmath.Vec3,
	azimuth, angle float64, exact, adjustAXY bool) (qmath.Operator, error) {

	cluster, err := c.sys.ClusterContaining(target)
	if err != nil {
		return nil, err
	}
	targetIn := physics.IndexInCluster(target, c.sys.Clusters[cluster])
	spins := len(c.sys.Clusters[cluster]) + 1
	half := physics.SpinHalf(c.sys.Lattice)

	if exact {
		targetAxis := c.NaturalAxis(target, azimuth)
		g := qmath.Exp(qmath.Scale(complex(0, -angle),
			qmath.Tensor(
				qmath.Scale(2, half.Dot(nvAxis)),
				qmath.Scale(2, half.Dot(targetAxis)))))
		return qmath.Act(g, []int{0, targetIn + 1}, spins)
	}

	// a nucleus on the NV axis has no perpendicular hyperfine coupling
	// and cannot be addressed by the sequence
	if math.Round(4*c.sys.Nuclei[target].Pos.Dot(c.sys.Lattice.Ao)) == 0 {
		c.log.WithField("target", target).
			Warn("cannot address nucleus without perpendicular hyperfine coupling")
		return c.identity(cluster), nil
	}

	wLarmor := c.sys.EffectiveLarmor(target).Norm()
	dwMin := c.sys.LarmorResolution(target)
	aPerp := c.sys.HyperfinePerp(target)

	// a larmor pair in the cluster needs a decoupling drive and a control
	// axis orthogonal to the companion's hyperfine component
	axisCtl := aPerp.Hat()
	bCtl := 0.0
	var controls sim.ControlFields
	for _, idx := range c.sys.Clusters[cluster] {
		if idx == target || !c.sys.IsLarmorPair(target, idx) {
			continue
		}
		aPerpAlt := c.sys.HyperfinePerp(idx).Hat()
		bCtl = math.Sqrt(c.sys.StaticBz * aPerp.Norm() / c.sys.Nuclei[target].G)
		axisCtl = aPerp.Sub(aPerpAlt.Scale(aPerp.Dot(aPerpAlt))).Hat()
		controls.Add(axisCtl.Scale(bCtl), wLarmor, 0)
	}
	aInt := axisCtl.Scale(aPerp.Dot(axisCtl))
	interactionAngle := math.Asin(aPerp.Hat().Cross(aInt.Hat()).Dot(c.sys.EffectiveLarmor(target).Hat()))

	// sequence resonant with the target's larmor frequency
	wDD := wLarmor / float64(c.kDD)
	tDD := 2 * math.Pi / wDD
	fDD := math.Min(dwMin/(aInt.Norm()*c.sys.ScaleFactor), pulse.FMax(c.kDD))

	wPhase := fDD * aInt.Norm() / 8
	tPhase := 2 * math.Pi / wPhase

	interactionTime := float64(c.sys.Ms) * angle / wPhase
	interactionTime -= math.Floor(interactionTime/tPhase) * tPhase
	if interactionTime > tPhase/2 {
		fDD = -fDD
		interactionTime = tPhase - interactionTime
	}

	cycles := int(interactionTime / tDD)
	leading := interactionTime - float64(cycles)*tDD
	trailing := tDD - leading
	phaseAdvance := (interactionAngle - azimuth) / wLarmor

	uLeading, err := c.sim.Propagator(ctx, cluster, wDD, fDD, c.kDD, controls, leading, phaseAdvance)
	if err != nil {
		return nil, err
	}
	uTrailing, err := c.sim.Propagator(ctx, cluster, wDD, fDD, c.kDD, controls, trailing, leading+phaseAdvance)
	if err != nil {
		return nil, err
	}
	uCoupling := qmath.Mul(uLeading, qmath.Pow(qmath.Mul(uTrailing, uLeading), cycles))

	// the sequence couples through the NV z axis; conjugate to the
	// requested coupling axis
	nvRotation, err := ActNV(RotateVec(c.sys.Lattice, c.sys.Lattice.Zhat, nvAxis), spins)
	if err != nil {
		return nil, err
	}

	// undo larmor precession and control-field rotation accumulated by
	// the target over the interaction
	zPhase := interactionTime * wLarmor
	zPhase -= math.Floor(zPhase/(2*math.Pi)) * 2 * math.Pi
	wCtl := c.sys.Nuclei[target].G * bCtl / 2
	xyPhase := interactionTime * wCtl
	xyPhase -= math.Floor(xyPhase/(2*math.Pi)) * 2 * math.Pi

	xyAxis := c.sys.Lattice.Xhat.Scale(math.Cos(azimuth)).
		Add(c.sys.Lattice.Yhat.Scale(math.Sin(azimuth)))
	flushGate := qmath.Mul(
		Rotate(c.sys.Lattice, xyAxis, xyPhase),
		Rotate(c.sys.Lattice, c.sys.Lattice.Zhat, zPhase))
	flush, err := c.ActTarget(ctx, target, flushGate, false, adjustAXY)
	if err != nil {
		return nil, err
	}

	return qmath.Mul(flush, qmath.Dagger(nvRotation), uCoupling, nvRotation), nil
}

// ISwap synthesizes the iSWAP gate between the central spin and the
// target nucleus.
func (c *Controller) ISwap(ctx context.Context, target int, exact bool) (qmath.Operator, error) {
	const iswapPhase = -math.Pi / 4
	ux, err := c.UInt(ctx, target, c.sys.Lattice.Xhat, 0, iswapPhase, exact, false)
	if err != nil {
		return nil, err
	}
	uy, err := c.UInt(ctx, target, c.sys.Lattice.Yhat, math.Pi/2, iswapPhase, exact, false)
	if err != nil {
		return nil, err
	}
	return qmath.Mul(ux, uy), nil
}

// SwapNVST swaps the central spin state with the singlet-triplet
// subspace of two nuclei in a common cluster.
func (c *Controller) SwapNVST(ctx context.Context, idx1, idx2 int, exact bool) (qmath.Operator, error) {
	cluster, err := c.sys.ClusterContaining(idx1)
	if err != nil {
		return nil, err
	}
	if physics.IndexInCluster(idx2, c.sys.Clusters[cluster]) < 0 {
		c.log.WithFields(logrus.Fields{
			"idx1": idx1,
			"idx2": idx2,
		}).Warn("cannot swap with nuclei in different clusters")
		return c.identity(cluster), nil
	}
	spins := len(c.sys.Clusters[cluster]) + 1

	const angle = math.Pi / 4
	const xAzimuth = 0.0
	yAzimuth := math.Pi / 2
	xhat, yhat, zhat := c.sys.Lattice.Xhat, c.sys.Lattice.Yhat, c.sys.Lattice.Zhat

	rzNV, err := ActNV(Rotate(c.sys.Lattice, zhat, 2*angle), spins)
	if err != nil {
		return nil, err
	}
	rx1, err := c.UCtl(ctx, idx1, xAzimuth, angle, exact, false, 0)
	if err != nil {
		return nil, err
	}
	ry1, err := c.UCtl(ctx, idx1, yAzimuth, angle, exact, false, 0)
	if err != nil {
		return nil, err
	}
	rz1 := qmath.Mul(rx1, ry1, qmath.Dagger(rx1))

	ux1, err := c.UInt(ctx, idx1, xhat, xAzimuth, -angle, exact, false)
	if err != nil {
		return nil, err
	}
	uy1, err := c.UInt(ctx, idx1, yhat, yAzimuth, -angle, exact, false)
	if err != nil {
		return nil, err
	}
	iswapNV1 := qmath.Mul(ux1, uy1)

	uz1, err := c.UInt(ctx, idx1, zhat, xAzimuth, -angle, exact, false)
	if err != nil {
		return nil, err
	}
	cnotNV1 := qmath.Mul(rzNV, rx1, uz1)

	eNV2, err := c.UInt(ctx, idx2, yhat, xAzimuth, -angle, exact, false)
	if err != nil {
		return nil, err
	}

	m := qmath.Mul(qmath.Dagger(eNV2), iswapNV1, qmath.Dagger(rz1), rzNV)
	return qmath.Mul(qmath.Dagger(m), cnotNV1, m), nil
}
