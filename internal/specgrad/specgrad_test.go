package specgrad

import (
	"testing"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/stretchr/testify/assert"
)

func line3() *coordset.CoordSet {
	x := coordset.New(3, 3)
	x.Set(0, []float64{0, 0, 0})
	x.Set(1, []float64{1, 0, 0})
	x.Set(2, []float64{2, 0, 0})
	return x
}

func TestStressZeroWhenDistancesMatch(t *testing.T) {
	x := line3()
	targets := []Target{
		{I: 1, J: 0, D: 1, Weight: 1},
		{I: 2, J: 1, D: 1, Weight: 1},
		{I: 2, J: 0, D: 2, Weight: 1},
	}
	assert.InDelta(t, 0.0, Stress(x, targets), 1e-9)
}

func TestNormalizeWeightsSumsToOne(t *testing.T) {
	targets := []Target{
		{I: 0, J: 1, D: 2, Weight: 1},
		{I: 1, J: 2, D: 3, Weight: 1},
	}
	norm := NormalizeWeights(targets)
	var sum float64
	for _, t := range norm {
		sum += t.Weight * t.D * t.D
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestIterateReducesStress(t *testing.T) {
	x := coordset.New(3, 3)
	x.Set(0, []float64{0, 0, 0})
	x.Set(1, []float64{0.5, 0, 0})
	x.Set(2, []float64{3, 0, 0}) // distances off from targets below

	targets := []Target{
		{I: 1, J: 0, D: 1, Weight: 1},
		{I: 2, J: 1, D: 1, Weight: 1},
		{I: 2, J: 0, D: 2, Weight: 1},
	}
	before := Stress(x, NormalizeWeights(targets))

	result := Iterate(x, targets, DefaultConfig())
	assert.LessOrEqual(t, result.Stress, before)
}

func TestIterateStopsAtZeroStress(t *testing.T) {
	x := line3()
	targets := []Target{
		{I: 1, J: 0, D: 1, Weight: 1},
		{I: 2, J: 1, D: 1, Weight: 1},
		{I: 2, J: 0, D: 2, Weight: 1},
	}
	result := Iterate(x, targets, DefaultConfig())
	assert.InDelta(t, 0.0, result.Stress, 1e-6)
}

// TestEpsIsRelativeNotAbsolute confirms Eps gates on relative stress
// change rather than on an absolute stress floor: a loose Eps against a
// far-off-target start should stop early with stress still well above
// Eps itself, since the early steps' large relative improvement crosses
// the threshold long before the absolute stress value does.
func TestEpsIsRelativeNotAbsolute(t *testing.T) {
	x := coordset.New(3, 3)
	x.Set(0, []float64{0, 0, 0})
	x.Set(1, []float64{5, 0, 0})
	x.Set(2, []float64{11, 0, 0})

	targets := []Target{
		{I: 1, J: 0, D: 1, Weight: 1},
		{I: 2, J: 1, D: 1, Weight: 1},
		{I: 2, J: 0, D: 2, Weight: 1},
	}

	loose := DefaultConfig()
	loose.Eps = 0.5
	loose.MaxIter = 200
	result := Iterate(x, targets, loose)

	assert.Greater(t, result.Stress, loose.Eps)
	assert.Less(t, result.Iters, loose.MaxIter)
}
