package physics

import (
	"math"

	"github.com/san-kum/spinsim/internal/qmath"
)

// dipolar coupling prefactor between two spins separated by r lattice units
func dipolarPrefactor(g1, g2, r float64) float64 {
	rm := r * A0
	return Mu0 * Hbar * g1 * g2 / (4 * math.Pi * rm * rm * rm)
}

// HSS returns the dipolar coupling Hamiltonian between two spins, an
// operator on their joint (4-dimensional) space with s1 the left factor.
func HSS(s1, s2 Spin) qmath.Operator {
	r := s2.Pos.Sub(s1.Pos)
	rh := r.Hat()
	pre := complex(dipolarPrefactor(s1.G, s2.G, r.Norm()), 0)
	h := qmath.Sub(
		s1.S.DotSV(s2.S),
		qmath.Scale(3, qmath.Tensor(s1.S.Dot(rh), s2.S.Dot(rh))),
	)
	return qmath.Scale(pre, h)
}

// HSSStrongField returns the secular part of HSS surviving a strong static
// field along the defect axis: the flip-flop form for like spins.
func HSSStrongField(l Lattice, s1, s2 Spin) qmath.Operator {
	r := s2.Pos.Sub(s1.Pos)
	rh := r.Hat()
	cz := rh.Dot(l.Zhat)
	pre := complex(dipolarPrefactor(s1.G, s2.G, r.Norm())/2*(1-3*cz*cz), 0)
	h := qmath.Sub(
		qmath.Scale(2, qmath.Tensor(s1.S.Dot(l.Zhat), s2.S.Dot(l.Zhat))),
		qmath.Add(
			qmath.Tensor(s1.S.Dot(l.Xhat), s2.S.Dot(l.Xhat)),
			qmath.Tensor(s1.S.Dot(l.Yhat), s2.S.Dot(l.Yhat)),
		),
	)
	return qmath.Scale(pre, h)
}

// HInt assembles the internal coupling Hamiltonian of cluster c with the
// central spin at qubit 0: every pair interaction embedded into the full
// cluster space. Rebuilt on every call; nothing is cached.
func (s *System) HInt(c int) (qmath.Operator, error) {
	cluster, err := s.ClusterSpins(c)
	if err != nil {
		return nil, err
	}
	spins := len(cluster) + 1
	h := qmath.Zero(1 << spins)
	for i, n := range cluster {
		term, err := qmath.Act(HSS(s.E, n), []int{0, i + 1}, spins)
		if err != nil {
			return nil, err
		}
		h = qmath.Add(h, term)
		for k := 0; k < i; k++ {
			term, err := qmath.Act(HSS(cluster[k], n), []int{k + 1, i + 1}, spins)
			if err != nil {
				return nil, err
			}
			h = qmath.Add(h, term)
		}
	}
	return h, nil
}

// HIntStrongField is HInt in the secular approximation: the central spin
// couples through its projection on the defect axis and the hyperfine
// field, nucleus pairs through their flip-flop form.
func (s *System) HIntStrongField(c int) (qmath.Operator, error) {
	cluster, err := s.ClusterSpins(c)
	if err != nil {
		return nil, err
	}
	spins := len(cluster) + 1
	h := qmath.Zero(1 << spins)
	for i, n := range cluster {
		a := s.Hyperfine(n)
		coupling := qmath.Tensor(s.E.S.Dot(s.Lattice.Zhat), n.S.Dot(a))
		term, err := qmath.Act(coupling, []int{0, i + 1}, spins)
		if err != nil {
			return nil, err
		}
		h = qmath.Add(h, term)
		for k := 0; k < i; k++ {
			term, err := qmath.Act(HSSStrongField(s.Lattice, cluster[k], n), []int{k + 1, i + 1}, spins)
			if err != nil {
				return nil, err
			}
			h = qmath.Add(h, term)
		}
	}
	return h, nil
}

// HNVGS returns the central-spin ground-state Hamiltonian in field B: the
// zero-field splitting along the defect axis plus its Zeeman term.
func (s *System) HNVGS(b qmath.Vec3) qmath.Operator {
	sz := s.E.S.Dot(s.Lattice.Zhat)
	return qmath.Sub(
		qmath.Scale(complex(ZFS, 0), qmath.Mul(sz, sz)),
		qmath.Scale(complex(s.E.G, 0), s.E.S.Dot(b)),
	)
}

// HnZ returns the nuclear Zeeman Hamiltonian of cluster c in field B,
// embedded on the full cluster space (central qubit untouched).
func (s *System) HnZ(c int, b qmath.Vec3) (qmath.Operator, error) {
	cluster, err := s.ClusterSpins(c)
	if err != nil {
		return nil, err
	}
	spins := len(cluster) + 1
	h := qmath.Zero(1 << spins)
	for i, n := range cluster {
		term, err := qmath.Act(qmath.Scale(complex(-n.G, 0), n.S.Dot(b)), []int{i + 1}, spins)
		if err != nil {
			return nil, err
		}
		h = qmath.Add(h, term)
	}
	return h, nil
}

// HZ returns the full Zeeman/control Hamiltonian of cluster c in field B.
func (s *System) HZ(c int, b qmath.Vec3) (qmath.Operator, error) {
	h, err := s.HnZ(c, b)
	if err != nil {
		return nil, err
	}
	spins := len(s.Clusters[c]) + 1
	gs, err := qmath.Act(s.HNVGS(b), []int{0}, spins)
	if err != nil {
		return nil, err
	}
	return qmath.Add(h, gs), nil
}
