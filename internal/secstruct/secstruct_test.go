package secstruct

import (
	"testing"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelixGeometryIdealDistanceAndResidues(t *testing.T) {
	h, err := segment.NewHelix(2, 9, segment.HelixAlpha)
	require.NoError(t, err)
	g := NewHelixGeometry(h, 0.8)

	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9}, g.Residues())
	assert.Equal(t, 0.8, g.Strictness())

	d, ok := g.IdealDistance(2, 9)
	require.True(t, ok)
	assert.Greater(t, d, 0.0)

	_, ok = g.IdealDistance(2, 20)
	assert.False(t, ok)
}

func TestHelixGeometryIdealFitRecoversExactTemplate(t *testing.T) {
	h, err := segment.NewHelix(2, 9, segment.HelixAlpha)
	require.NoError(t, err)
	g := NewHelixGeometry(h, 0.8)

	x := coordset.New(12, 3)
	for _, i := range g.Residues() {
		x.Set(i, g.template[i][:])
	}

	rms := g.IdealFit(x, 1.0)
	assert.GreaterOrEqual(t, rms, 0.0)
	assert.Less(t, rms, 1e-6)
}

func TestHelixGeometryHBondPartner(t *testing.T) {
	h, err := segment.NewHelix(2, 9, segment.HelixAlpha)
	require.NoError(t, err)
	g := NewHelixGeometry(h, 0.8)

	partner, ok := g.HBondPartner(2)
	require.True(t, ok)
	assert.Equal(t, 5, partner) // alpha helix offset k=3, 2+3=5

	partner, ok = g.HBondPartner(9)
	require.True(t, ok) // 9+3=12 out of range, falls back to 9-3=6
	assert.Equal(t, 6, partner)
}

func TestHelixGeometryHBondPartnerOutOfRange(t *testing.T) {
	h, err := segment.NewHelix(2, 5, segment.Helix310) // spans 2-5, four residues (minimum is k+1=3)
	require.NoError(t, err)
	g := NewHelixGeometry(h, 0.8)

	_, ok := g.HBondPartner(2) // k=2: 2+2=4 in range
	assert.True(t, ok)

	_, ok = g.HBondPartner(5) // 5+2=7 out, 5-2=3 in range
	assert.True(t, ok)
}

func TestHelixGeometryCheckHandednessRunsOverTemplate(t *testing.T) {
	h, err := segment.NewHelix(2, 9, segment.HelixAlpha)
	require.NoError(t, err)
	g := NewHelixGeometry(h, 0.8)

	x := coordset.New(12, 3)
	for _, i := range g.Residues() {
		x.Set(i, g.template[i][:])
	}

	good, bad := g.CheckHandedness(x)
	assert.Greater(t, good+bad, 0)
}

// fakeGeometry is a minimal stub used only to exercise TallyHandedness's
// aggregation, independent of any real template geometry.
type fakeGeometry struct {
	good, bad int
}

func (f fakeGeometry) Residues() []int                    { return nil }
func (f fakeGeometry) IdealDistance(i, j int) (float64, bool) { return 0, false }
func (f fakeGeometry) IdealFit(x *coordset.CoordSet, strictness float64) float64 { return -1 }
func (f fakeGeometry) CheckHandedness(x *coordset.CoordSet) (int, int)          { return f.good, f.bad }
func (f fakeGeometry) Strictness() float64                { return 1 }

func TestTallyHandednessAggregatesAndFlagsReflection(t *testing.T) {
	elems := []Geometry{fakeGeometry{good: 2, bad: 1}, fakeGeometry{good: 1, bad: 5}}
	good, bad, shouldReflect := TallyHandedness(elems, coordset.New(1, 3))
	assert.Equal(t, 3, good)
	assert.Equal(t, 6, bad)
	assert.True(t, shouldReflect)

	elemsGood := []Geometry{fakeGeometry{good: 5, bad: 1}}
	_, _, shouldReflect = TallyHandedness(elemsGood, coordset.New(1, 3))
	assert.False(t, shouldReflect)
}

func TestReflectThroughXNegatesOnlyActivePoints(t *testing.T) {
	x := coordset.New(2, 3)
	x.Set(0, []float64{1, 2, 3})
	x.Set(1, []float64{4, 5, 6})
	x.SetActive(1, false)

	ReflectThroughX(x)

	assert.Equal(t, []float64{-1, 2, 3}, x.At(0))
	assert.Equal(t, []float64{4, 5, 6}, x.At(1)) // inactive point untouched
}
