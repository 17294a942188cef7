package fakebeta

import (
	"math"
	"testing"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/stretchr/testify/assert"
)

// TestSelfConsistency is spec.md §8 property 5: for every internal
// residue, the derived Cα_i-J_i distance equals the prescribed target
// to within 1e-6.
func TestSelfConsistency(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAAA"), nil)
	n := chain.N()

	x := coordset.New(n, 3)
	pts := [][3]float64{
		{0, 0, 0},
		{3.8, 0, 0},
		{5.7, 3.3, 0},
		{3.8, 6.6, 1.2},
		{0, 5.4, 2.1},
		{-2.1, 2.5, 0.8},
		{1.54, -1.2, 0.3},
	}
	for i := 0; i < n; i++ {
		x.Set(i, pts[i][:])
	}
	d := distmat.FromCoords(x)

	e := NewEngine(chain)
	m := e.Update(d)

	for i := 1; i <= chain.R(); i++ {
		res, _ := chain.Residue(i)
		want := res.CASCCDistance * res.CASCCDistance
		got := m.Ab.At(i, i)
		assert.InDelta(t, want, got, 1e-6, "residue %d", i)
	}
}

// TestTerminalsHaveNoSideChain checks that λ=1 for both pseudo atoms,
// matching spec.md §4.5 ("Terminals have λ = 1").
func TestTerminalsHaveNoSideChain(t *testing.T) {
	chain := polymer.NewChain([]byte("AAA"), nil)
	n := chain.N()
	x := coordset.New(n, 3)
	for i := 0; i < n; i++ {
		x.Set(i, []float64{float64(i) * 3.8, 0, 0})
	}
	d := distmat.FromCoords(x)

	e := NewEngine(chain)
	assert.Equal(t, 1.0, e.Lambda(d, 0))
	assert.Equal(t, 1.0, e.Lambda(d, n-1))
}

func TestGlycineHasZeroLambda(t *testing.T) {
	chain := polymer.NewChain([]byte("AGA"), nil)
	n := chain.N()
	x := coordset.New(n, 3)
	x.Set(0, []float64{0, 0, 0})
	x.Set(1, []float64{3.8, 0, 0})
	x.Set(2, []float64{6.5, 2.6, 0})
	x.Set(3, []float64{9.2, 5.2, 1.1})
	x.Set(4, []float64{12.0, 7.0, 2.0})
	d := distmat.FromCoords(x)

	e := NewEngine(chain)
	lambda := e.Lambda(d, 2)
	assert.True(t, math.Abs(lambda) < 1e-9, "glycine has no side chain, lambda should be 0, got %v", lambda)
}
