package numeric

import "sort"

// Spline is a piecewise-cubic interpolant through a strictly increasing
// set of knots, with either a natural boundary (second derivative zero
// at both ends) or a clamped boundary (first derivative pinned to a
// caller-supplied slope at both ends). Used by the hydrophobic distance
// predictor (§4.9) to hold the empirical Cα-distance CDF, and available
// generically to any component needing a smooth monotone-ish fit.
type Spline struct {
	x, y   []float64
	y2     []float64 // second derivatives at each knot
}

// NewNaturalSpline builds a spline with zero second derivative at both
// endpoints. x must be strictly increasing and len(x) == len(y) >= 2.
func NewNaturalSpline(x, y []float64) *Spline {
	return newSpline(x, y, nil)
}

// NewClampedSpline builds a spline whose first derivative at x[0] and
// x[len-1] is pinned to dy0 and dyN respectively.
func NewClampedSpline(x, y []float64, dy0, dyN float64) *Spline {
	clamp := [2]float64{dy0, dyN}
	return newSpline(x, y, &clamp)
}

func newSpline(x, y []float64, clamp *[2]float64) *Spline {
	n := len(x)
	s := &Spline{x: append([]float64(nil), x...), y: append([]float64(nil), y...), y2: make([]float64, n)}
	if n < 2 {
		return s
	}

	u := make([]float64, n)
	if clamp == nil {
		s.y2[0] = 0
		u[0] = 0
	} else {
		s.y2[0] = -0.5
		u[0] = (3.0 / (x[1] - x[0])) * ((y[1]-y[0])/(x[1]-x[0]) - clamp[0])
	}

	for i := 1; i < n-1; i++ {
		sig := (x[i] - x[i-1]) / (x[i+1] - x[i-1])
		p := sig*s.y2[i-1] + 2.0
		s.y2[i] = (sig - 1.0) / p
		u[i] = (y[i+1]-y[i])/(x[i+1]-x[i]) - (y[i]-y[i-1])/(x[i]-x[i-1])
		u[i] = (6.0*u[i]/(x[i+1]-x[i-1]) - sig*u[i-1]) / p
	}

	var qn, un float64
	if clamp == nil {
		qn, un = 0, 0
	} else {
		qn = 0.5
		un = (3.0 / (x[n-1] - x[n-2])) * (clamp[1] - (y[n-1]-y[n-2])/(x[n-1]-x[n-2]))
	}
	s.y2[n-1] = (un - qn*u[n-2]) / (qn*s.y2[n-2] + 1.0)

	for k := n - 2; k >= 0; k-- {
		s.y2[k] = s.y2[k]*s.y2[k+1] + u[k]
	}

	return s
}

// Eval evaluates the spline at t, clamping t into [x[0], x[n-1]] so
// callers never read undefined extrapolated behaviour.
func (s *Spline) Eval(t float64) float64 {
	n := len(s.x)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return s.y[0]
	}
	if t <= s.x[0] {
		t = s.x[0]
	}
	if t >= s.x[n-1] {
		t = s.x[n-1]
	}

	hi := sort.SearchFloat64s(s.x, t)
	if hi == 0 {
		hi = 1
	}
	if hi >= n {
		hi = n - 1
	}
	lo := hi - 1

	h := s.x[hi] - s.x[lo]
	a := (s.x[hi] - t) / h
	b := (t - s.x[lo]) / h

	return a*s.y[lo] + b*s.y[hi] +
		((a*a*a-a)*s.y2[lo]+(b*b*b-b)*s.y2[hi])*(h*h)/6.0
}

// Integral returns the definite integral of the spline from a to b
// (a<=b, both clamped into the knot range), by summing the closed-form
// antiderivative of each cubic piece the interval overlaps.
func (s *Spline) Integral(a, b float64) float64 {
	n := len(s.x)
	if n < 2 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	if a < s.x[0] {
		a = s.x[0]
	}
	if b > s.x[n-1] {
		b = s.x[n-1]
	}

	total := 0.0
	for i := 0; i < n-1; i++ {
		lo, hi := s.x[i], s.x[i+1]
		segA, segB := math64Max(a, lo), math64Min(b, hi)
		if segA >= segB {
			continue
		}
		total += s.integratePiece(i, segA, segB)
	}
	return total
}

// integratePiece integrates the cubic defined on knots [i, i+1] from a
// to b, using the standard power-basis rewrite of the natural-spline
// piece S(t) = y0 + b1*u + b2*u^2 + b3*u^3 (u = t-lo) so the
// antiderivative is a plain polynomial in u.
func (s *Spline) integratePiece(i int, a, b float64) float64 {
	lo := s.x[i]
	h := s.x[i+1] - lo
	y0, y1 := s.y[i], s.y[i+1]
	k0, k1 := s.y2[i], s.y2[i+1]

	b1 := (y1-y0)/h - h*(2*k0+k1)/6.0
	b2 := k0 / 2.0
	b3 := (k1 - k0) / (6.0 * h)

	antideriv := func(t float64) float64 {
		u := t - lo
		return y0*u + b1*u*u/2.0 + b2*u*u*u/3.0 + b3*u*u*u*u/4.0
	}
	return antideriv(b) - antideriv(a)
}

func math64Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func math64Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
