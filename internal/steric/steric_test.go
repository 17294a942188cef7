package steric

import (
	"math"
	"testing"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/aaszodi/dgrecon/internal/fakebeta"
	"github.com/aaszodi/dgrecon/internal/numeric"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/aaszodi/dgrecon/internal/restraint"
	"github.com/aaszodi/dgrecon/internal/score"
	"github.com/stretchr/testify/assert"
)

func emptyFakeBeta(n int) fakebeta.Matrices {
	return fakebeta.Matrices{N: n, Ab: numeric.NewDense(n, n), Bb: numeric.NewDense(n, n)}
}

func TestEvaluatePairInBoundsKeepsActualDistance(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAA"), nil)
	n := chain.N()
	b := restraint.NewBounds(n)
	b.SetBounds(2, 1, 3.0, 5.0, 0.5)

	d := distmat.New(n)
	d.Set(2, 1, 16.0) // d = 4, inside [3,5]

	sc := &score.Vector{}
	v := evaluatePair(chain, b, d, emptyFakeBeta(n), 2, 1)
	sc.Add(v.Channel, contribution(v))

	assert.InDelta(t, 4.0, v.D, 1e-9)
	assert.InDelta(t, 4.0, v.DStar, 1e-9)
	assert.Equal(t, lightStrictness, v.Strictness)
	assert.InDelta(t, 0.0, contribution(v), 1e-12)
}

func TestEvaluatePairOverUpperReflects(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAA"), nil)
	n := chain.N()
	b := restraint.NewBounds(n)
	b.SetBounds(2, 1, 3.0, 5.0, 0.5)

	d := distmat.New(n)
	d.Set(2, 1, 49.0) // d = 7, over upper bound 5

	v := evaluatePair(chain, b, d, emptyFakeBeta(n), 2, 1)

	over := 7.0 - 5.0
	span := 5.0 - 3.0
	want := 5.0 - span*over/(span+over)
	assert.InDelta(t, want, v.DStar, 1e-9)
	assert.Less(t, v.DStar, 7.0)
	assert.Greater(t, v.DStar, 5.0-span) // still a sane positive ideal
}

func TestEvaluatePairUnderLowerReflectsAndCaps(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAA"), nil)
	n := chain.N()
	b := restraint.NewBounds(n)
	b.SetBounds(2, 1, 3.0, 5.0, 0.5)

	d := distmat.New(n)
	d.Set(2, 1, 1.0) // d = 1, under lower bound 3

	v := evaluatePair(chain, b, d, emptyFakeBeta(n), 2, 1)

	assert.LessOrEqual(t, v.DStar, 0.99*5.0+1e-9)
	assert.Greater(t, v.DStar, 1.0)
}

func TestBondViolationAmplifiesStrictness(t *testing.T) {
	chain := polymer.NewChain([]byte("AA"), nil)
	n := chain.N()
	b := restraint.NewBounds(n)
	b.SetBounds(1, 0, 1.47, 1.47, 2.0)
	b.SetHard(1, 0)
	b.SetCategory(1, 0, restraint.CategoryBond)

	d := distmat.New(n)
	d.Set(1, 0, 1.47*1.47*1.5*1.5) // grossly stretched bond

	v := evaluatePair(chain, b, d, emptyFakeBeta(n), 1, 0)

	assert.Equal(t, score.Bond, v.Channel)
	assert.Greater(t, v.Strictness, 2.0) // amplified beyond the base strictness
}

func TestApplyDistanceSpaceBlendsTowardIdeal(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAA"), nil)
	n := chain.N()
	b := restraint.NewBounds(n)
	b.SetBounds(2, 1, 3.0, 5.0, 0.5)

	d := distmat.New(n)
	d.Set(2, 1, 49.0)

	sc := &score.Vector{}
	violations := Evaluate(chain, b, d, emptyFakeBeta(n), nil, sc)
	ApplyDistanceSpace(d, violations)

	got := math.Sqrt(d.At(2, 1))
	assert.Less(t, got, 7.0) // moved toward bounds, not left untouched
}

func TestApplyEuclideanMovesPointsCloser(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAA"), nil)
	n := chain.N()
	x := coordset.New(n, 3)
	x.Set(1, []float64{0, 0, 0})
	x.Set(2, []float64{10, 0, 0}) // far apart, should be pulled toward the ideal

	b := restraint.NewBounds(n)
	b.SetBounds(2, 1, 3.0, 5.0, 0.8)

	d := distmat.FromCoords(x)
	sc := &score.Vector{}
	violations := Evaluate(chain, b, d, emptyFakeBeta(n), func(i, j int) bool { return i == 2 && j == 1 }, sc)

	before := x.Distance2(2, 1)
	ApplyEuclidean(x, violations)
	after := x.Distance2(2, 1)

	assert.Less(t, after, before)
}

func TestClusterMembership(t *testing.T) {
	c := NewCluster(5)
	c.Add(1)
	c.Add(3)
	assert.True(t, c.Contains(1))
	assert.True(t, c.Contains(3))
	assert.False(t, c.Contains(2))
	assert.ElementsMatch(t, []int{1, 3}, c.Members())
}

func TestBondsAndRestraintsOnlyFilter(t *testing.T) {
	n := 5
	b := restraint.NewBounds(n)
	b.SetCategory(1, 0, restraint.CategoryBond)
	b.SetCategory(3, 2, restraint.CategoryRestraint)

	filter := BondsAndRestraintsOnly(b)
	assert.True(t, filter(1, 0))
	assert.True(t, filter(3, 2))
	assert.False(t, filter(4, 1))
}
