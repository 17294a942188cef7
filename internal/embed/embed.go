// Package embed implements classical metric (spectral) embedding of a
// squared-distance matrix into Euclidean coordinates: double-centring to
// a Gram matrix, symmetric eigendecomposition, and keeping as many
// leading positive eigenvectors as needed to account for a target
// fraction of the positive eigenvalue mass (spec.md §4.4).
package embed

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/aaszodi/dgrecon/internal/numeric"
)

// DefaultKeepFraction is evfract, the fraction of the positive
// eigenvalue sum the kept eigenvectors must cumulatively account for.
const DefaultKeepFraction = 0.999

// Config holds the embedding's single tunable.
type Config struct {
	KeepFraction float64
}

// DefaultConfig returns evfract at its spec default.
func DefaultConfig() Config { return Config{KeepFraction: DefaultKeepFraction} }

// DoubleCentre computes the Gram matrix G = -1/2 * J * delta2 * J, J
// being the centring operator (subtract row means, column means, add
// back the grand mean): spec.md §4.4's "double-centre... to obtain the
// Gram matrix G".
func DoubleCentre(d *distmat.DistMat) *numeric.Dense {
	n := d.Size()
	full := numeric.NewDense(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				full.Set(i, j, d.At(i, j))
			}
		}
	}

	rowMean := make([]float64, n)
	var grand float64
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += full.At(i, j)
		}
		rowMean[i] = sum / float64(n)
		grand += sum
	}
	grand /= float64(n * n)

	g := numeric.NewDense(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -0.5 * (full.At(i, j) - rowMean[i] - rowMean[j] + grand)
			g.Set(i, j, v)
		}
	}
	return g
}

// Embed runs spec.md §4.4 end to end: double-centre d, eigendecompose
// the Gram matrix, keep the leading positive eigenvectors that
// cumulatively reach cfg.KeepFraction of the positive eigenvalue sum
// (or just one if none individually qualifies), scale each by √λ, and
// return the resulting coordinate set. forceDim, if positive and at most
// the point count, sets the kept dimensionality to exactly that value
// regardless of keep-fraction; axes whose eigenvalue is not positive get
// zero coordinates (the
// orchestrator's "D_t decreases toward 3" schedule, see
// DimensionSchedule). Returns false if the Gram matrix fails to
// factorise or has no positive eigenvalues at all (a degenerate,
// unembeddable distance matrix).
func Embed(d *distmat.DistMat, cfg Config, forceDim int) (*coordset.CoordSet, bool) {
	n := d.Size()
	g := DoubleCentre(d)

	eig, ok := numeric.FactorizeSymEigen(g)
	if !ok {
		return nil, false
	}

	var positiveSum float64
	for _, lambda := range eig.Values {
		if lambda > 0 {
			positiveSum += lambda
		}
	}
	if positiveSum <= 0 {
		return nil, false
	}

	frac := cfg.KeepFraction
	if frac <= 0 {
		frac = DefaultKeepFraction
	}

	keep := 0
	cum := 0.0
	for _, lambda := range eig.Values {
		if lambda <= 0 {
			break
		}
		cum += lambda
		keep++
		if cum/positiveSum >= frac {
			break
		}
	}
	if keep == 0 {
		keep = 1
	}
	if forceDim > 0 && forceDim <= n {
		keep = forceDim
	}

	x := coordset.New(n, keep)
	for i := 0; i < n; i++ {
		p := make([]float64, keep)
		for k := 0; k < keep; k++ {
			lambda := eig.Values[k]
			if lambda < 0 {
				lambda = 0
			}
			p[k] = eig.Vectors.At(i, k) * math.Sqrt(lambda)
		}
		x.Set(i, p)
	}
	return x, true
}

// DimensionSchedule implements the orchestrator's forced-3D rule
// (spec.md §4.3: "Dimension is forced to 3 once enough iterations have
// elapsed, a schedule agreed with the orchestrator"): below forceAt,
// the embedding's natural keep-fraction selection applies (signalled by
// returning 0, meaning "no forcing"); at or beyond it, exactly 3
// dimensions are forced.
func DimensionSchedule(iter, forceAt int) int {
	if iter >= forceAt {
		return 3
	}
	return 0
}
