package secstruct

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/segment"
)

// helixParams gives the cylindrical parametrisation constants (radius,
// per-residue rise, per-residue turn) for each helix type, representative
// crystallographic averages.
var helixParams = map[segment.HelixType]struct {
	radius, rise, turnDeg float64
}{
	segment.Helix310:  {radius: 1.9, rise: 2.00, turnDeg: 120.0},
	segment.HelixAlpha: {radius: 2.3, rise: 1.50, turnDeg: 100.0},
	segment.HelixPi:    {radius: 2.8, rise: 1.15, turnDeg: 87.27},
}

// HelixGeometry caches the ideal 3D template and pairwise ideal-distance
// table for one Helix, regenerated lazily on the segment's dirty bit.
type HelixGeometry struct {
	helix      *segment.Helix
	strictness float64
	template   map[int][3]float64
	idealDist  map[[2]int]float64
}

// NewHelixGeometry wraps a Helix with a given idealisation strictness
// (spec.md §6 secondary-structure input: "strict in (0,1]").
func NewHelixGeometry(h *segment.Helix, strictness float64) *HelixGeometry {
	g := &HelixGeometry{helix: h, strictness: strictness}
	g.refresh()
	return g
}

func (g *HelixGeometry) refresh() {
	p := helixParams[g.helix.Type]
	turnRad := p.turnDeg * math.Pi / 180.0

	g.template = make(map[int][3]float64)
	for i := g.helix.Begin; i <= g.helix.End; i++ {
		k := float64(i - g.helix.Begin)
		angle := k * turnRad
		g.template[i] = [3]float64{
			p.radius * math.Cos(angle),
			p.radius * math.Sin(angle),
			k * p.rise,
		}
	}

	g.idealDist = make(map[[2]int]float64)
	for i := g.helix.Begin; i <= g.helix.End; i++ {
		for j := i; j <= g.helix.End; j++ {
			pi, pj := g.template[i], g.template[j]
			d := math.Sqrt(dot(sub(pi, pj), sub(pi, pj)))
			g.idealDist[[2]int{i, j}] = d
			g.idealDist[[2]int{j, i}] = d
		}
	}

	g.helix.MarkClean()
}

func (g *HelixGeometry) ensureFresh() {
	if g.helix.Dirty() {
		g.refresh()
	}
}

func (g *HelixGeometry) Residues() []int {
	out := make([]int, 0, g.helix.Len())
	for i := g.helix.Begin; i <= g.helix.End; i++ {
		out = append(out, i)
	}
	return out
}

func (g *HelixGeometry) IdealDistance(i, j int) (float64, bool) {
	g.ensureFresh()
	d, ok := g.idealDist[[2]int{i, j}]
	return d, ok
}

func (g *HelixGeometry) Strictness() float64 { return g.strictness }

func (g *HelixGeometry) IdealFit(x *coordset.CoordSet, strictness float64) float64 {
	g.ensureFresh()
	return rigidFitOnto(x, g.Residues(), g.template, strictness)
}

// HBondPartner returns the residue hydrogen-bonded to i (i<->i+k),
// ok==false if i+k (or i-k) falls outside the helix.
func (g *HelixGeometry) HBondPartner(i int) (int, bool) {
	k := g.helix.Type.HBondOffset()
	if j := i + k; g.helix.Contains(j) {
		return j, true
	}
	if j := i - k; g.helix.Contains(j) {
		return j, true
	}
	return 0, false
}

// CheckHandedness requires positive (i,i+3)-style torsion across the
// helix's hydrogen-bond spacing k; a torsion >=0 counts as "good".
func (g *HelixGeometry) CheckHandedness(x *coordset.CoordSet) (good, bad int) {
	k := g.helix.Type.HBondOffset()
	for i := g.helix.Begin; i+k <= g.helix.End; i++ {
		p0 := point(x, i)
		p1 := point(x, i+1)
		p2 := point(x, i+k-1)
		p3 := point(x, i+k)
		if i+1 > g.helix.End || i+k-1 > g.helix.End {
			continue
		}
		t := torsion(p0, p1, p2, p3)
		if t >= 0 {
			good++
		} else {
			bad++
		}
	}
	return good, bad
}
