package numeric

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SVDEpsilonFactor sets the rank-determination threshold relative to the
// largest singular value, matching the "~4*machine epsilon" rule-of-thumb
// from the numeric kernel design.
const SVDEpsilonFactor = 4 * 2.220446049250313e-16

// SVDResult holds the factors of A = U * diag(Values) * V^T together
// with the rank computed relative to the largest singular value.
type SVDResult struct {
	U      *Dense
	Values []float64
	V      *Dense
	Rank   int
}

// FactorizeSVD performs a full SVD of a via Householder bidiagonalisation
// and QR sweeps (gonum's implementation), returning singular values in
// descending order and a rank computed against SVDEpsilonFactor.
func FactorizeSVD(a *Dense) (SVDResult, bool) {
	var svd mat.SVD
	ok := svd.Factorize(a.m, mat.SVDFull)
	if !ok {
		return SVDResult{}, false
	}

	values := svd.Values(nil)

	var uRaw, vRaw mat.Dense
	svd.UTo(&uRaw)
	svd.VTo(&vRaw)

	ur, uc := uRaw.Dims()
	vr, vc := vRaw.Dims()
	u := &Dense{m: &uRaw, rows: ur, cols: uc}
	v := &Dense{m: &vRaw, rows: vr, cols: vc}

	rank := rankFromValues(values)

	return SVDResult{U: u, Values: values, V: v, Rank: rank}, true
}

func rankFromValues(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	thresh := values[0] * SVDEpsilonFactor
	rank := 0
	for _, v := range values {
		if v > thresh {
			rank++
		}
	}
	return rank
}

// roundSmall zeroes values that are within epsilon of zero, used when
// reporting rotation matrices so tests can compare against exact
// identities without epsilon-chasing at every call site.
func roundSmall(x, eps float64) float64 {
	if math.Abs(x) < eps {
		return 0
	}
	return x
}
