package hydrophobic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictDefaultParams(t *testing.T) {
	p := NewPredictor()
	a, b, c := p.Params()
	assert.Equal(t, DefaultA, a)
	assert.Equal(t, DefaultB, b)
	assert.Equal(t, DefaultC, c)

	got := p.Predict(0)
	assert.InDelta(t, DefaultC, got, 1e-9) // h^b = 0 at h=0
}

func TestPredictDecreasesWithHydrophobicitySum(t *testing.T) {
	p := NewPredictor()
	low := p.Predict(2)
	high := p.Predict(8)
	assert.Greater(t, low, high) // larger h -> smaller predicted distance
}

func TestCDFAtIsMonotoneAndClamped(t *testing.T) {
	p := NewPredictor()
	assert.Equal(t, p.cdfAt(-10), p.cdfAt(0))
	assert.Equal(t, p.cdfAt(1000), p.cdfAt(referenceMaxD))
	assert.Less(t, p.cdfAt(10), p.cdfAt(40))
}

// syntheticObservations builds a perfectly-fittable dataset from known
// (a,b,c) so Fit's recovered parameters can be checked against ground
// truth.
func syntheticObservations(p *Predictor, a, b, c float64, hs []float64) []ObservedPoint {
	obs := make([]ObservedPoint, len(hs))
	for i, h := range hs {
		d := predict(a, b, c, h)
		obs[i] = ObservedPoint{H: h, FObs: 1 - p.cdfAt(d)}
	}
	return obs
}

func TestFitRecoversKnownParameters(t *testing.T) {
	p := NewPredictor()
	hs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	obs := syntheticObservations(p, DefaultA, DefaultB, DefaultC, hs)

	report := p.Fit(obs, 100)

	assert.InDelta(t, DefaultA, report.A, 1.0)
	assert.InDelta(t, DefaultB, report.B, 0.1)
	assert.InDelta(t, DefaultC, report.C, 1.0)
}

func TestFitReportsIterationsUsed(t *testing.T) {
	p := NewPredictor()
	hs := []float64{2, 4, 6, 8}
	obs := syntheticObservations(p, 25.0, 0.3, 45.0, hs)

	report := p.Fit(obs, 50)
	assert.Greater(t, report.Iterations, 0)
}

func TestFitReportsObservedMeanAndStdDev(t *testing.T) {
	p := NewPredictor()
	obs := []ObservedPoint{
		{H: 1, FObs: 0.2},
		{H: 2, FObs: 0.4},
		{H: 3, FObs: 0.6},
		{H: 4, FObs: 0.8},
	}

	report := p.Fit(obs, 10)
	assert.InDelta(t, 0.5, report.ObsMean, 1e-9)
	assert.Greater(t, report.ObsStdDev, 0.0)
}
