package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentDirtyLifecycle(t *testing.T) {
	s := NewSegment(3, 7)
	assert.True(t, s.Dirty())
	assert.Equal(t, 5, s.Len())
	s.MarkClean()
	assert.False(t, s.Dirty())
	s.SetRange(3, 8)
	assert.True(t, s.Dirty())
}

func TestHelixMinimumLength(t *testing.T) {
	_, err := NewHelix(1, 3, HelixAlpha) // len 3 < k+1=4
	require.Error(t, err)

	h, err := NewHelix(1, 4, HelixAlpha)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Type.HBondOffset())
}

func TestSheetRejectsSingleStrand(t *testing.T) {
	_, err := NewSheet([]*Strand{NewStrand(1, 5)})
	require.Error(t, err)
}

func TestSheetRejectsOverlap(t *testing.T) {
	_, err := NewSheet([]*Strand{NewStrand(1, 5), NewStrand(4, 9)})
	require.Error(t, err)
}

func TestSheetMaskIsDisjointUnion(t *testing.T) {
	a := NewStrand(1, 3)
	b := NewStrand(10, 12)
	b.SetRelation(SenseAntiparallel, 0)
	sh, err := NewSheet([]*Strand{a, b})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 10, 11, 12}, sh.Mask())
	assert.Equal(t, SenseNone, a.Sense)
}

func TestHBondPartnerIndex(t *testing.T) {
	prev := NewStrand(1, 5)
	next := NewStrand(10, 14)
	next.SetRelation(SenseAntiparallel, 1)
	assert.Equal(t, 4, next.HBondPartnerIndex(prev))

	next.SetRelation(SenseParallel, 2)
	assert.Equal(t, 3, next.HBondPartnerIndex(prev))
}
