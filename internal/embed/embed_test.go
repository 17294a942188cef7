package embed

import (
	"math"
	"testing"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/stretchr/testify/assert"
)

// tetrahedron returns a perfectly embeddable 4-point configuration so
// the recovered distances can be checked exactly.
func tetrahedron() *distmat.DistMat {
	pts := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
	x := coordset.New(len(pts), 3)
	for i, p := range pts {
		x.Set(i, p[:])
	}
	return distmat.FromCoords(x)
}

func TestEmbedRecoversDistances(t *testing.T) {
	d := tetrahedron()
	x, ok := Embed(d, DefaultConfig(), 0)
	assert.True(t, ok)

	got := distmat.FromCoords(x)
	for i := 0; i < d.Size(); i++ {
		for j := 0; j < i; j++ {
			assert.InDelta(t, d.At(i, j), got.At(i, j), 1e-6)
		}
	}
}

func TestEmbedForceDimCapsDimensionality(t *testing.T) {
	d := tetrahedron()
	x, ok := Embed(d, DefaultConfig(), 2)
	assert.True(t, ok)
	assert.LessOrEqual(t, x.Dim(), 2)
}

func TestEmbedDegenerateMatrixFails(t *testing.T) {
	d := distmat.New(3) // all zero distances: no positive eigenvalues
	_, ok := Embed(d, DefaultConfig(), 0)
	assert.False(t, ok)
}

func TestDimensionScheduleForcesThreeAtThreshold(t *testing.T) {
	assert.Equal(t, 0, DimensionSchedule(0, 5))
	assert.Equal(t, 0, DimensionSchedule(4, 5))
	assert.Equal(t, 3, DimensionSchedule(5, 5))
	assert.Equal(t, 3, DimensionSchedule(10, 5))
}

func TestDoubleCentreIsSymmetric(t *testing.T) {
	d := tetrahedron()
	g := DoubleCentre(d)
	n := d.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.True(t, math.Abs(g.At(i, j)-g.At(j, i)) < 1e-9)
		}
	}
}
