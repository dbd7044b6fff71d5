package qmath

import "math"

// Exp returns the matrix exponential of a, computed with a [6/6] Padé
// approximant under scaling and squaring.
func Exp(a Operator) Operator {
	n := Dim(a)

	// scale so the Padé argument has norm at most 1/2
	squarings := 0
	if norm := oneNorm(a); norm > 0.5 {
		squarings = int(math.Ceil(math.Log2(norm / 0.5)))
	}
	scaled := Scale(complex(1/math.Pow(2, float64(squarings)), 0), a)

	const order = 6
	num := Identity(n)
	den := Identity(n)
	term := Identity(n)
	c := 1.0
	sign := 1.0
	for k := 1; k <= order; k++ {
		c = c * float64(order-k+1) / float64(k*(2*order-k+1))
		sign = -sign
		term = Mul(term, scaled)
		num = Add(num, Scale(complex(c, 0), term))
		den = Add(den, Scale(complex(sign*c, 0), term))
	}

	// den is nonsingular for any argument with norm <= 1/2
	f, err := factorize(den)
	if err != nil {
		panic("qmath: pade denominator singular")
	}
	out := f.solveMatrix(num)

	for s := 0; s < squarings; s++ {
		out = Mul(out, out)
	}
	return out
}

// Sqrt returns the principal matrix square root of a via the
// Denman-Beavers iteration. a must be nonsingular and have no eigenvalues
// on the negative real axis.
func Sqrt(a Operator) (Operator, error) {
	n := Dim(a)
	y := Clone(a)
	z := Identity(n)

	const maxIter = 64
	for iter := 0; iter < maxIter; iter++ {
		zinv, err := Inverse(z)
		if err != nil {
			return nil, err
		}
		yinv, err := Inverse(y)
		if err != nil {
			return nil, err
		}
		yNext := Scale(0.5, Add(y, zinv))
		zNext := Scale(0.5, Add(z, yinv))

		delta := oneNorm(Sub(yNext, y))
		y, z = yNext, zNext
		if delta <= 1e-14*oneNorm(y) {
			return y, nil
		}
	}
	return nil, ErrConvergence
}

// Log returns the principal matrix logarithm of a via inverse scaling and
// squaring: repeated square roots bring a close to the identity, where the
// Mercator series converges rapidly.
func Log(a Operator) (Operator, error) {
	n := Dim(a)
	m := Clone(a)

	scalings := 0
	for oneNorm(Sub(m, Identity(n))) > 0.25 {
		if scalings >= 40 {
			return nil, ErrConvergence
		}
		root, err := Sqrt(m)
		if err != nil {
			return nil, err
		}
		m = root
		scalings++
	}

	// log(I+X) = X - X^2/2 + X^3/3 - ...
	x := Sub(m, Identity(n))
	out := Zero(n)
	term := Identity(n)
	sign := 1.0
	for k := 1; k <= 48; k++ {
		term = Mul(term, x)
		out = Add(out, Scale(complex(sign/float64(k), 0), term))
		sign = -sign
		if oneNorm(term) < 1e-17 {
			break
		}
	}

	return Scale(complex(math.Pow(2, float64(scalings)), 0), out), nil
}

// Pow returns a raised to the non-negative integer power p by binary
// exponentiation.
func Pow(a Operator, p int) Operator {
	out := Identity(Dim(a))
	base := Clone(a)
	for p > 0 {
		if p&1 == 1 {
			out = Mul(out, base)
		}
		base = Mul(base, base)
		p >>= 1
	}
	return out
}
