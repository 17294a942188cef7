package restraint

import (
	"testing"

	"github.com/aaszodi/dgrecon/internal/diag"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/stretchr/testify/assert"
)

// TestSmoothTriangleInequality_S2 is spec.md §8 scenario S2: three Cα
// with up(1,2)=5, up(2,3)=5, up(1,3)=20; after smoothing up(1,3)=10 and
// the lower bounds stay at 0.
func TestSmoothTriangleInequality_S2(t *testing.T) {
	b := NewBounds(4)
	b.SetBounds(2, 1, 0, 5, 0)
	b.SetBounds(3, 2, 0, 5, 0)
	b.SetBounds(3, 1, 0, 20, 0)

	cfg := DefaultConfig()
	rec := &diag.Recorder{}
	violations := SmoothTriangleInequality(b, cfg, rec)

	assert.Equal(t, 0, violations)
	assert.InDelta(t, 10.0, b.Up(3, 1), 1e-9)
	assert.InDelta(t, 0.0, b.Low(1, 2), 1e-9)
	assert.InDelta(t, 0.0, b.Low(2, 3), 1e-9)
	assert.InDelta(t, 0.0, b.Low(1, 3), 1e-9)
}

func TestBoundsIntersect(t *testing.T) {
	b := NewBounds(4)
	b.SetBounds(1, 0, 2.0, 8.0, 0.5)

	ok := b.Intersect(1, 0, 3.0, 6.0, 1.0)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, b.Low(1, 0), 1e-9)
	assert.InDelta(t, 6.0, b.Up(1, 0), 1e-9)
	assert.InDelta(t, 1.0, b.Strictness(1, 0), 1e-9)

	ok = b.Intersect(1, 0, 7.0, 9.0, 1.0)
	assert.False(t, ok, "lower above current upper must be rejected")
	assert.InDelta(t, 3.0, b.Low(1, 0), 1e-9, "rejected intersect must not mutate bounds")
}

func TestCompileBondsAreHardAndWithinSpec(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAAA"), []float64{1, 1, 1, 1, 1})
	c := NewCompiler(DefaultConfig(), &diag.Recorder{})
	b, report := c.Compile(chain, nil, nil)

	assert.Zero(t, report.TriangleViolations)
	for _, bad := range b.CheckInvariants() {
		t.Errorf("invariant violated at pair %s", bad)
	}

	for s := 1; s <= chain.R()-1; s++ {
		assert.True(t, b.IsHard(s+1, s))
		assert.GreaterOrEqual(t, b.Low(s+1, s), 3.75-1e-9)
		assert.LessOrEqual(t, b.Up(s+1, s), 3.85+1e-9)
	}

	assert.InDelta(t, polymer.NBondLength, b.Low(1, 0), 1e-9)
	assert.InDelta(t, polymer.NBondLength, b.Up(1, 0), 1e-9)
	assert.InDelta(t, polymer.CBondLength, b.Low(chain.R()+1, chain.R()), 1e-9)
}

func TestCompileExternalRestraintMerge(t *testing.T) {
	chain := polymer.NewChain([]byte("AAAAAAAA"), nil)
	ext := []External{
		{Pos1: 1, Atom1: "CB", Pos2: 8, Atom2: "CB", Lower: 10, Upper: 12, Strictness: 0.8},
		{Pos1: 2, Atom1: "CA", Pos2: 7, Atom2: "CA", Lower: 8, Upper: 9, Strictness: 0.8},
	}
	c := NewCompiler(DefaultConfig(), &diag.Recorder{})
	b, report := c.Compile(chain, nil, ext)

	assert.Equal(t, 1, report.ExternalMerged)
	assert.Len(t, report.ExternalDirect, 1)
	assert.Equal(t, "CA", report.ExternalDirect[0].Atom1)
	assert.InDelta(t, 0.4, b.Strictness(8, 1), 1e-9)
}
