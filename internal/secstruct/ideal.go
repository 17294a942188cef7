// Package secstruct builds and caches idealised 3D templates for
// helices and β-sheets, fits them onto the current model by weighted
// rigid-body superposition, and checks backbone handedness. Both Helix
// and Sheet geometries expose the same four operations
// (ideal_distances, ideal_fit, check_handedness, hbond_partner); a
// tagged sum via the Geometry interface gives callers uniform dispatch
// over the first three without inheritance (design note: "Cyclic and
// polymorphic secondary-structure objects"). HBondPartner is a method
// of each concrete type and is not part of Geometry.
package secstruct

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/numeric"
)

// Geometry is the common interface every secondary-structure element
// satisfies.
type Geometry interface {
	// Residues returns the 1-based residue indices this element covers.
	Residues() []int
	// IdealDistance returns the template's unsquared Cα-Cα distance
	// between residues i and j, and whether that pair is covered by
	// this element at all.
	IdealDistance(i, j int) (float64, bool)
	// IdealFit rigidly superposes the cached template onto x restricted
	// to this element's residues and blends X <- (1-s)X + s*R*Xtemplate.
	// Returns the pre-blend RMS, or -1 if the fit was rank-deficient
	// (e.g. a degenerate 2-residue template), per spec.md §7.
	IdealFit(x *coordset.CoordSet, strictness float64) float64
	// CheckHandedness tallies torsion-sign evidence for/against the
	// expected handedness across this element.
	CheckHandedness(x *coordset.CoordSet) (good, bad int)
	// Strictness is the idealisation strictness to stamp into the
	// restraint matrix for this element's ideal distances.
	Strictness() float64
}

// torsion computes the dihedral angle (radians, signed) defined by four
// points p0-p1-p2-p3, the standard formula used to check backbone
// handedness.
func torsion(p0, p1, p2, p3 [3]float64) float64 {
	b1 := sub(p1, p0)
	b2 := sub(p2, p1)
	b3 := sub(p3, p2)

	n1 := cross(b1, b2)
	n2 := cross(b2, b3)

	m1 := cross(n1, normalize(b2))

	x := dot(n1, n2)
	y := dot(m1, n2)
	return math.Atan2(y, x)
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(a [3]float64) [3]float64 {
	l := math.Sqrt(dot(a, a))
	if l == 0 {
		return a
	}
	return [3]float64{a[0] / l, a[1] / l, a[2] / l}
}

func point(x *coordset.CoordSet, i int) [3]float64 {
	p := x.At(i)
	var out [3]float64
	for d := 0; d < 3 && d < len(p); d++ {
		out[d] = p[d]
	}
	return out
}

// rigidFitOnto runs BestRot of template points onto the model's current
// points for the given residue indices (equal weights, §4.6), applies
// the strictness-weighted partial blend in place, and returns the
// pre-blend RMS (or -1 on rank deficiency).
func rigidFitOnto(x *coordset.CoordSet, residues []int, template map[int][3]float64, strictness float64) float64 {
	var tpl, model [][3]float64
	var idx []int
	for _, r := range residues {
		tp, ok := template[r]
		if !ok || r < 0 || r >= x.N() || !x.Active(r) {
			continue
		}
		tpl = append(tpl, tp)
		model = append(model, point(x, r))
		idx = append(idx, r)
	}
	if len(idx) < 3 {
		return -1
	}

	tplCentered := append([][3]float64(nil), tpl...)
	modelCentered := append([][3]float64(nil), model...)
	tplCtr := numeric.CenterVectors(tplCentered, nil)
	modelCtr := numeric.CenterVectors(modelCentered, nil)

	fit := numeric.BestRot(tplCentered, modelCentered, nil, false)
	if fit.RMS < 0 {
		return -1
	}

	s := clamp01(strictness)
	for k, r := range idx {
		rotated := fit.Apply(tplCentered[k])
		for d := 0; d < 3; d++ {
			rotated[d] += modelCtr[d]
		}
		_ = tplCtr
		cur := x.At(r)
		blended := make([]float64, x.Dim())
		copy(blended, cur)
		for d := 0; d < 3 && d < x.Dim(); d++ {
			blended[d] = (1-s)*cur[d] + s*rotated[d]
		}
		x.Set(r, blended)
	}
	return fit.RMS
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ReflectThroughX mirrors every active point in x through the X axis
// (negates the X coordinate only, i.e. reflects in the Y-Z plane). This
// is a true reflection (determinant -1), unlike a 180-degree rotation
// about X which would preserve handedness; it is the whole-model
// handedness correction applied when a torsion tally comes out
// net-wrong (spec.md §4.6).
func ReflectThroughX(x *coordset.CoordSet) {
	for i := 0; i < x.N(); i++ {
		if !x.Active(i) {
			continue
		}
		p := x.At(i)
		cp := append([]float64(nil), p...)
		if len(cp) > 0 {
			cp[0] = -cp[0]
		}
		x.Set(i, cp)
	}
}

// TallyHandedness sums good/bad torsion evidence across every geometry
// element and reports whether the whole model should be reflected
// (bad > good overall), per spec.md §4.6.
func TallyHandedness(elems []Geometry, x *coordset.CoordSet) (good, bad int, shouldReflect bool) {
	for _, e := range elems {
		g, b := e.CheckHandedness(x)
		good += g
		bad += b
	}
	return good, bad, bad > good
}
