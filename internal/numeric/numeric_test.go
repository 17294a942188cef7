package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPRNGDeterministic(t *testing.T) {
	a := NewPRNG(42)
	b := NewPRNG(42)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestPRNGZeroSeedBecomesOne(t *testing.T) {
	zero := NewPRNG(0)
	one := NewPRNG(1)
	assert.Equal(t, one.Float64(), zero.Float64())
}

func TestPRNGFloat64Range(t *testing.T) {
	p := NewPRNG(7)
	for i := 0; i < 10000; i++ {
		v := p.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestPRNGGaussStatistics(t *testing.T) {
	p := NewPRNG(123)
	sum, sumSq := 0.0, 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		g := p.Gauss()
		sum += g
		sumSq += g * g
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, variance, 0.1)
}

// TestBestRotIdentity is property 4 from spec.md §8: Procrustes rotation
// of a point set onto itself yields the identity rotation and RMS <= eps.
func TestBestRotIdentity(t *testing.T) {
	pts := [][3]float64{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {2, -1, 0.5},
	}
	x := make([][3]float64, len(pts))
	y := make([][3]float64, len(pts))
	copy(x, pts)
	copy(y, pts)
	CenterVectors(x, nil)
	CenterVectors(y, nil)

	res := BestRot(x, y, nil, false)
	require.GreaterOrEqual(t, res.Rank, 3)
	assert.InDelta(t, 0.0, res.RMS, 1e-9)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, res.Rotation[i][j], 1e-9)
		}
	}
}

func TestBestRotRankDeficient(t *testing.T) {
	// All points collinear along X: cross-covariance has rank 1.
	x := [][3]float64{{-1, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	y := [][3]float64{{-1, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	res := BestRot(x, y, nil, false)
	assert.Equal(t, -1.0, res.RMS)
}

func TestLUDeterminantIdentity(t *testing.T) {
	d := NewDense(3, 3)
	for i := 0; i < 3; i++ {
		d.Set(i, i, 1.0)
	}
	lu := DecomposeLU(d)
	assert.Equal(t, 1, lu.Sign)
	assert.InDelta(t, 1.0, lu.Determinant(), 1e-12)
}

func TestLUSolveRecoversKnownSolution(t *testing.T) {
	a := NewDense(2, 2)
	a.Set(0, 0, 2)
	a.Set(0, 1, 1)
	a.Set(1, 0, 1)
	a.Set(1, 1, 3)
	lu := DecomposeLU(a)

	x, ok := lu.Solve([]float64{5, 10})
	require.True(t, ok)
	assert.InDelta(t, 1.0, x[0], 1e-9)
	assert.InDelta(t, 3.0, x[1], 1e-9)
}

func TestLUSolveSingularFails(t *testing.T) {
	a := NewDense(2, 2) // all zero: singular
	lu := DecomposeLU(a)
	_, ok := lu.Solve([]float64{1, 1})
	assert.False(t, ok)
}

func TestLUDeterminantSingular(t *testing.T) {
	d := NewDense(2, 2)
	d.Set(0, 0, 1)
	d.Set(0, 1, 2)
	d.Set(1, 0, 2)
	d.Set(1, 1, 4) // row 2 = 2 * row 1, singular
	lu := DecomposeLU(d)
	assert.Equal(t, 0, lu.Sign)
	assert.Equal(t, 0.0, lu.Determinant())
}

func TestSplineInterpolatesKnots(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16} // roughly x^2
	s := NewNaturalSpline(x, y)
	for i, xv := range x {
		assert.InDelta(t, y[i], s.Eval(xv), 1e-9)
	}
}

func TestSplineIntegralMatchesParabolaRoughly(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 0}
	s := NewNaturalSpline(x, y)
	got := s.Integral(0, 2)
	assert.InDelta(t, 1.3333, got, 0.2)
}

func TestSaturateHandlesInfAndNaNPanic(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, Saturate(math.Inf(1)))
	assert.Equal(t, -math.MaxFloat64, Saturate(math.Inf(-1)))
	assert.Panics(t, func() { Saturate(math.NaN()) })
}

func TestSafeSqrtAbsNegative(t *testing.T) {
	assert.InDelta(t, 2.0, SafeSqrt(-4.0), 1e-12)
}

func TestFactorizeSymEigenDescendingOrder(t *testing.T) {
	a := NewDense(3, 3)
	a.Set(0, 0, 2)
	a.Set(1, 1, 5)
	a.Set(2, 2, 1)

	eig, ok := FactorizeSymEigen(a)
	require.True(t, ok)
	require.Len(t, eig.Values, 3)
	for i := 1; i < len(eig.Values); i++ {
		assert.GreaterOrEqual(t, eig.Values[i-1], eig.Values[i])
	}
	assert.InDelta(t, 5.0, eig.Values[0], 1e-9)
	assert.InDelta(t, 1.0, eig.Values[2], 1e-9)
}

func TestFactorizeSymEigenReconstructsMatrix(t *testing.T) {
	a := NewDense(2, 2)
	a.Set(0, 0, 3)
	a.Set(0, 1, 1)
	a.Set(1, 0, 1)
	a.Set(1, 1, 2)

	eig, ok := FactorizeSymEigen(a)
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			sum := 0.0
			for k := 0; k < 2; k++ {
				sum += eig.Vectors.At(i, k) * eig.Values[k] * eig.Vectors.At(j, k)
			}
			assert.InDelta(t, a.At(i, j), sum, 1e-9)
		}
	}
}
