package polymer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResidueGlycineHasNoSideChain(t *testing.T) {
	r := NewResidue('G', 0.5)
	assert.True(t, r.IsGlycine())
	assert.Equal(t, 0.0, r.CASCCDistance)
}

func TestNewResidueUnknownFallsBackToX(t *testing.T) {
	r := NewResidue('Z', 0.5)
	x := NewResidue('X', 0.5)
	assert.Equal(t, x.CASCCDistance, r.CASCCDistance)
}

func TestChainTerminalsAndSize(t *testing.T) {
	c := NewChain([]byte("ACDG"), []float64{1, 1, 1, 1})
	assert.Equal(t, 4, c.R())
	assert.Equal(t, 6, c.N())
	assert.True(t, c.IsTerminal(0))
	assert.True(t, c.IsTerminal(5))
	assert.False(t, c.IsTerminal(1))

	res, ok := c.Residue(1)
	assert.True(t, ok)
	assert.Equal(t, byte('A'), res.Identity)

	_, ok = c.Residue(0)
	assert.False(t, ok)
}

func TestResidueOffsetsIndependentCopies(t *testing.T) {
	a := NewResidue('A', 0.2)
	b := NewResidue('A', 0.9)
	a.AtomOffsets["CB"] = AtomOffset{FromCA: 99}
	assert.NotEqual(t, a.AtomOffsets["CB"], b.AtomOffsets["CB"])
}
