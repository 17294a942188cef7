// Package hydrophobic holds the empirical Cα pairwise-distance CDF and
// the hydrophobic distance predictor D(h) = -a*h^b + c, refittable
// against an observed CDF by nonlinear least squares (spec.md §4.9).
package hydrophobic

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/aaszodi/dgrecon/internal/numeric"
)

// Default starting values for (a,b,c); spec.md §4.2 names these as the
// fixed defaults used before any refit.
const (
	DefaultA = 30.3
	DefaultB = 0.26
	DefaultC = 50.0
)

const (
	referenceKnots = 100
	referenceMaxD  = 60.0
)

// Predictor holds the reference CDF spline and the current (a,b,c) fit.
type Predictor struct {
	cdf     *numeric.Spline
	A, B, C float64
}

// NewPredictor builds a predictor at the spec default parameters, with
// its reference CDF hard-coded from a synthetic stand-in for the
// original reference set of small proteins (see DESIGN.md, Open
// Questions: the historical 100-knot table did not survive
// distillation).
func NewPredictor() *Predictor {
	return &Predictor{cdf: buildReferenceCDF(), A: DefaultA, B: DefaultB, C: DefaultC}
}

// buildReferenceCDF constructs the 100-knot cubic-spline empirical CDF
// over [0,60] Å: a logistic rise centred near a typical globular
// protein's mean Cα pairwise separation, standing in for the
// unrecoverable historical reference table.
func buildReferenceCDF() *numeric.Spline {
	x := make([]float64, referenceKnots)
	y := make([]float64, referenceKnots)
	for i := 0; i < referenceKnots; i++ {
		d := referenceMaxD * float64(i) / float64(referenceKnots-1)
		x[i] = d
		y[i] = 1 / (1 + math.Exp(-(d-25)/8))
	}
	return numeric.NewNaturalSpline(x, y)
}

// Params returns the predictor's current (a,b,c).
func (p *Predictor) Params() (a, b, c float64) { return p.A, p.B, p.C }

// Predict returns D(h) = -a*h^b + c for the current fit.
func (p *Predictor) Predict(h float64) float64 {
	return predict(p.A, p.B, p.C, h)
}

func predict(a, b, c, h float64) float64 {
	if h < 0 {
		h = 0
	}
	return -a*math.Pow(h, b) + c
}

// cdfAt evaluates the reference CDF at d, clamped to the spline's
// domain (spec.md doesn't define behaviour outside [0,60]; clamping
// keeps G monotone instead of extrapolating into a cubic's overshoot).
func (p *Predictor) cdfAt(d float64) float64 {
	if d < 0 {
		d = 0
	} else if d > referenceMaxD {
		d = referenceMaxD
	}
	return p.cdf.Eval(d)
}

// ObservedPoint is one (h, F_obs) sample: h = h_i + h_j for a residue
// pair in the alignment, F_obs(h) the observed CDF value for that
// hydrophobicity sum (spec.md §4.9).
type ObservedPoint struct {
	H    float64
	FObs float64
}

// FitReport summarises a refit: the accepted (a,b,c), their standard
// errors and t-statistics against zero, and whether the loop converged
// within the iteration budget.
type FitReport struct {
	A, B, C                   float64
	StdErrA, StdErrB, StdErrC float64
	TStatA, TStatB, TStatC    float64
	Iterations                int
	Converged                 bool
	ObsMean, ObsStdDev        float64 // gonum/stat.MeanStdDev over obs[].FObs, a CDF fit diagnostic
}

// residual returns F_obs(h_k) - (1 - G(D(h_k,params))) for every
// observation, the quantity spec.md §4.9's least-squares loop drives to
// zero.
func (p *Predictor) residual(params [3]float64, obs []ObservedPoint) []float64 {
	r := make([]float64, len(obs))
	for i, o := range obs {
		pred := 1 - p.cdfAt(predict(params[0], params[1], params[2], o.H))
		r[i] = o.FObs - pred
	}
	return r
}

// jacobian computes the residual's partial derivatives w.r.t. (a,b,c)
// by forward finite differences, since D(h)'s dependence on b runs
// through h^b and no closed form is worth deriving by hand here.
func (p *Predictor) jacobian(params [3]float64, obs []ObservedPoint) *numeric.Dense {
	const step = 1e-5
	base := p.residual(params, obs)
	jac := numeric.NewDense(len(obs), 3)
	for k := 0; k < 3; k++ {
		perturbed := params
		perturbed[k] += step
		plus := p.residual(perturbed, obs)
		for i := range base {
			jac.Set(i, k, (plus[i]-base[i])/step)
		}
	}
	return jac
}

// Fit refits (a,b,c) against obs by Gauss-Newton: iteratively solving
// the normal equations (JᵀJ)Δ = -Jᵀr and updating params, with
// step-halving backtracking if a step increases the sum of squared
// residuals. Converged reports whether the loop reached a step smaller
// than 1e-8 in every parameter before exhausting maxIter; StdErr/TStat
// are derived from the residual variance and (JᵀJ)^-1 at the final
// point, the "t-statistic check" spec.md §4.9 names.
func (p *Predictor) Fit(obs []ObservedPoint, maxIter int) FitReport {
	params := [3]float64{p.A, p.B, p.C}
	if maxIter <= 0 {
		maxIter = 50
	}

	ssq := func(params [3]float64) float64 {
		r := p.residual(params, obs)
		return floats.Dot(r, r)
	}

	converged := false
	iter := 0
	for ; iter < maxIter; iter++ {
		jac := p.jacobian(params, obs)
		res := p.residual(params, obs)

		jtj := normalMatrix(jac)
		jtr := normalVector(jac, res)

		lu := numeric.DecomposeLU(jtj)
		delta, ok := lu.Solve(jtr)
		if !ok {
			break
		}

		current := ssq(params)
		step := 1.0
		accepted := false
		for b := 0; b < 10; b++ {
			candidate := [3]float64{
				params[0] - step*delta[0],
				params[1] - step*delta[1],
				params[2] - step*delta[2],
			}
			if candidate[1] <= 0 { // b must stay positive for h^b to be defined
				step /= 2
				continue
			}
			if cand := ssq(candidate); cand < current {
				params = candidate
				accepted = true
				break
			}
			step /= 2
		}
		if !accepted {
			break
		}

		maxDelta := math.Max(math.Abs(step*delta[0]), math.Max(math.Abs(step*delta[1]), math.Abs(step*delta[2])))
		if maxDelta < 1e-8 {
			converged = true
			iter++
			break
		}
	}

	p.A, p.B, p.C = params[0], params[1], params[2]

	stdErr := standardErrors(p.jacobian(params, obs), p.residual(params, obs))
	fObs := make([]float64, len(obs))
	for i, o := range obs {
		fObs[i] = o.FObs
	}
	obsMean, obsStdDev := stat.MeanStdDev(fObs, nil)

	report := FitReport{
		A: p.A, B: p.B, C: p.C,
		Iterations: iter,
		Converged:  converged,
		ObsMean:    obsMean,
		ObsStdDev:  obsStdDev,
	}
	if stdErr != nil {
		report.StdErrA, report.StdErrB, report.StdErrC = stdErr[0], stdErr[1], stdErr[2]
		report.TStatA = tstat(p.A, stdErr[0])
		report.TStatB = tstat(p.B, stdErr[1])
		report.TStatC = tstat(p.C, stdErr[2])
	}
	return report
}

func tstat(value, stdErr float64) float64 {
	if stdErr == 0 {
		return 0
	}
	return value / stdErr
}

// normalMatrix computes JᵀJ for the 3-column Jacobian.
func normalMatrix(jac *numeric.Dense) *numeric.Dense {
	n, p := jac.Rows(), jac.Cols()
	out := numeric.NewDense(p, p)
	for a := 0; a < p; a++ {
		for b := 0; b < p; b++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += jac.At(i, a) * jac.At(i, b)
			}
			out.Set(a, b, sum)
		}
	}
	return out
}

// normalVector computes Jᵀr.
func normalVector(jac *numeric.Dense, r []float64) []float64 {
	n, p := jac.Rows(), jac.Cols()
	out := make([]float64, p)
	for a := 0; a < p; a++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += jac.At(i, a) * r[i]
		}
		out[a] = sum
	}
	return out
}

// standardErrors derives per-parameter standard errors from the
// residual variance and the diagonal of (JᵀJ)^-1, returning nil if JᵀJ
// is singular at the final point (a degenerate fit: not enough distinct
// h values to resolve all three parameters).
func standardErrors(jac *numeric.Dense, residuals []float64) []float64 {
	n, p := jac.Rows(), jac.Cols()
	if n <= p {
		return nil
	}
	variance := floats.Dot(residuals, residuals) / float64(n-p)

	jtj := normalMatrix(jac)
	lu := numeric.DecomposeLU(jtj)
	stdErr := make([]float64, p)
	for k := 0; k < p; k++ {
		e := make([]float64, p)
		e[k] = 1
		col, ok := lu.Solve(e)
		if !ok {
			return nil
		}
		v := variance * col[k]
		if v < 0 {
			v = 0
		}
		stdErr[k] = math.Sqrt(v)
	}
	return stdErr
}
