// Package steric implements the steric adjuster (spec.md §4.7): for
// every Cα pair under consideration it classifies the current distance
// against the compiled bounds, derives a "reflected" ideal distance for
// out-of-bounds pairs, folds in the fake-β (SCC) channel when it
// dominates, scores the violation into the right score.Vector channel,
// and applies the correction either in distance space (blending Δ²
// toward the ideal) or in Euclidean space (moving atoms, or whole
// clusters, toward it).
package steric

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/aaszodi/dgrecon/internal/fakebeta"
	"github.com/aaszodi/dgrecon/internal/numeric"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/aaszodi/dgrecon/internal/restraint"
	"github.com/aaszodi/dgrecon/internal/score"
)

// lightStrictness is assigned to pairs found within bounds (no
// correction needed) so they still contribute a (zero) sample to the
// score vector's normalisation count, and so a subsequent Euclidean
// pass has a well-defined (near-zero) weight for them.
const lightStrictness = 0.1

// sccOverrideStrictnessCap bounds how aggressively bonded/restrained
// pairs can already be corrected before the SCC channel is allowed to
// take over: a pair already under heavy bond-level correction keeps its
// own (alpha-channel) ideal distance rather than being second-guessed
// by the beta geometry.
const sccOverrideStrictnessCap = 1.0

// PairFilter decides whether pair (i,j) participates in this pass. A
// nil filter evaluates every pair.
type PairFilter func(i, j int) bool

// BondsAndRestraintsOnly restricts evaluation to hard bonds and merged
// external restraints, the scope the spec calls "apply to bonds and
// restraints only" for a cheap, frequent inner pass.
func BondsAndRestraintsOnly(b *restraint.Bounds) PairFilter {
	return func(i, j int) bool {
		cat := b.Category(i, j)
		return cat == restraint.CategoryBond || cat == restraint.CategoryRestraint
	}
}

// Violation is one pair's evaluated steric state: the actual distance,
// the reflected ideal distance it is being pulled toward, the
// strictness used for that pull, and the score channel it was scored
// into.
type Violation struct {
	I, J       int
	D, DStar   float64
	Strictness float64
	Channel    score.Channel
}

// Evaluate runs spec.md §4.7 over every Cα pair the filter allows,
// scoring each one into sc and returning the full set of Violations
// (including in-bounds pairs, scored at zero contribution) for a
// subsequent Apply* call.
func Evaluate(chain *polymer.Chain, b *restraint.Bounds, d *distmat.DistMat, fb fakebeta.Matrices, filter PairFilter, sc *score.Vector) []Violation {
	n := d.Size()
	violations := make([]Violation, 0, n)

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if filter != nil && !filter(i, j) {
				continue
			}
			v := evaluatePair(chain, b, d, fb, i, j)
			sc.Add(v.Channel, contribution(v))
			violations = append(violations, v)
		}
	}
	return violations
}

func contribution(v Violation) float64 {
	if v.DStar == 0 {
		return 0
	}
	relerr := (v.D - v.DStar) / v.DStar
	c := relerr * v.Strictness
	return c * c
}

func evaluatePair(chain *polymer.Chain, b *restraint.Bounds, d *distmat.DistMat, fb fakebeta.Matrices, i, j int) Violation {
	dAct := numeric.SafeSqrt(d.At(i, j))
	lo, up := b.Low(i, j), b.Up(i, j)
	strictness := b.Strictness(i, j)
	category := b.Category(i, j)

	var dStar float64
	switch {
	case dAct >= lo && dAct <= up:
		dStar = dAct
		if category != restraint.CategoryBond {
			strictness = lightStrictness
		}
	case dAct > up:
		over := dAct - up
		span := up - lo
		dStar = up - span*over/(span+over)
		strictness = amplifyIfBond(category, strictness, dAct, dStar)
	default: // dAct < lo
		diff := lo - dAct
		dStar = lo + diff + ((up-2*lo)/(lo*lo))*diff*diff
		if dStar > 0.99*up {
			dStar = 0.99 * up
		}
		strictness = amplifyIfBond(category, strictness, dAct, dStar)
	}

	channel := channelFor(category)

	if abs(i-j) >= 3 && strictness <= sccOverrideStrictnessCap {
		if override, ok := sccOverride(chain, fb, i, j, dAct, dStar); ok {
			dStar = override
		}
	}

	return Violation{I: i, J: j, D: dAct, DStar: dStar, Strictness: strictness, Channel: channel}
}

// amplifyIfBond raises a bond pair's strictness by (1+relerr)^4, the
// extra punishment spec.md §4.7 reserves for hard covalent geometry;
// non-bond categories keep their compiled strictness unchanged.
func amplifyIfBond(category restraint.Category, strictness, dAct, dStar float64) float64 {
	if category != restraint.CategoryBond || dStar == 0 {
		return strictness
	}
	relerr := (dAct - dStar) / dStar
	return strictness * math.Pow(1+relerr, 4)
}

func channelFor(category restraint.Category) score.Channel {
	switch category {
	case restraint.CategoryBond:
		return score.Bond
	case restraint.CategorySecStr:
		return score.SecStr
	case restraint.CategoryRestraint:
		return score.Restraint
	default:
		return score.Nonbond
	}
}

// sccOverride checks whether the fake-β (side-chain centroid) distance
// between i and j is more severely violated, relative to the residues'
// SCC bump radii, than the Cα channel already found. When it is, the
// Cα-channel ideal distance is replaced by the beta-derived ideal,
// rescaled back into the Cα frame by the ratio already observed between
// the actual and beta-ideal SCC distance (spec.md §4.7, "the SCC
// channel can override the alpha channel when it dominates"). Terminal
// or glycine residues (no side chain) never override.
func sccOverride(chain *polymer.Chain, fb fakebeta.Matrices, i, j int, dAct, dStarAlpha float64) (float64, bool) {
	ri, iok := chain.Residue(i)
	rj, jok := chain.Residue(j)
	if !iok || !jok || ri.SCCBumpRadius == 0 || rj.SCCBumpRadius == 0 {
		return 0, false
	}
	bb := numeric.SafeSqrt(fb.Bb.At(i, j))
	bumpBB := ri.SCCBumpRadius + rj.SCCBumpRadius
	if bb == 0 {
		return 0, false
	}

	violBeta := (bumpBB - bb) / bumpBB
	violAlpha := 0.0
	if dStarAlpha != 0 {
		violAlpha = math.Abs(dAct-dStarAlpha) / dStarAlpha
	}
	if violBeta <= violAlpha {
		return 0, false
	}

	scale := dAct / bb
	return bumpBB * scale, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ApplyDistanceSpace implements the distance-space correction mode:
// Δ²(i,j) <- (1-s)*Δ²(i,j) + s*(d*)^2 for every violation (spec.md
// §4.7). The blend factor is the strictness itself, so a pair already
// at its ideal distance (s = lightStrictness) moves only slightly.
func ApplyDistanceSpace(d *distmat.DistMat, violations []Violation) {
	for _, v := range violations {
		old := d.At(v.I, v.J)
		blended := (1-v.Strictness)*old + v.Strictness*v.DStar*v.DStar
		if blended < 0 {
			blended = 0
		}
		d.Set(v.I, v.J, blended)
	}
}

// Cluster (spec.md glossary: "Piece") marks a set of points that move
// together as a rigid body under the Euclidean-space between-cluster
// application mode.
type Cluster struct {
	mask []bool
}

// NewCluster allocates an empty cluster over an n-point coordinate set.
func NewCluster(n int) *Cluster { return &Cluster{mask: make([]bool, n)} }

// Add marks point i as a member of the cluster.
func (c *Cluster) Add(i int) { c.mask[i] = true }

// Contains reports whether point i belongs to the cluster.
func (c *Cluster) Contains(i int) bool { return i >= 0 && i < len(c.mask) && c.mask[i] }

// Members returns the cluster's point indices in ascending order.
func (c *Cluster) Members() []int {
	var idx []int
	for i, on := range c.mask {
		if on {
			idx = append(idx, i)
		}
	}
	return idx
}

// frustrationRatio is the threshold below which a point's
// strictness-weighted average displacement is considered too small
// relative to its largest single displacement, marking it "frustrated"
// (spec.md §4.7): pulled in conflicting directions by competing
// violations, so the single strongest pull is applied instead of the
// diluted average.
const frustrationRatio = 0.2

type displacementAccum struct {
	weighted  [3]float64
	weightSum float64
	maxVec    [3]float64
	maxMag    float64
}

func (a *displacementAccum) add(disp [3]float64, weight float64) {
	if weight <= 0 {
		return
	}
	floats.AddScaled(a.weighted[:], weight, disp[:])
	a.weightSum += weight
	mag := norm3(disp)
	if mag > a.maxMag {
		a.maxMag = mag
		a.maxVec = disp
	}
}

func (a *displacementAccum) resolve() ([3]float64, bool) {
	if a.weightSum == 0 {
		return [3]float64{}, false
	}
	avg := [3]float64{a.weighted[0] / a.weightSum, a.weighted[1] / a.weightSum, a.weighted[2] / a.weightSum}
	if a.maxMag > 0 && norm3(avg) < a.maxMag*frustrationRatio {
		return a.maxVec, true
	}
	return avg, true
}

// displacementField computes, for every point touched by violations,
// the per-atom correction vector spec.md §4.7 describes: each violating
// pair contributes a half-displacement along the i-j axis sized so that
// moving both atoms by it would bring them exactly to d*, weighted by
// strictness and accumulated per atom with the frustrated-atom override.
func displacementField(x *coordset.CoordSet, violations []Violation) map[int][3]float64 {
	accum := make(map[int]*displacementAccum)
	touch := func(i int) *displacementAccum {
		a, ok := accum[i]
		if !ok {
			a = &displacementAccum{}
			accum[i] = a
		}
		return a
	}

	for _, v := range violations {
		if v.D == 0 {
			continue
		}
		pi, pj := vec3(x, v.I), vec3(x, v.J)
		diff := sub3(pi, pj)
		dir := scale3(diff, 1/v.D)
		half := 0.5 * (v.DStar - v.D)
		disp := scale3(dir, half)

		touch(v.I).add(disp, v.Strictness)
		touch(v.J).add(scale3(disp, -1), v.Strictness)
	}

	field := make(map[int][3]float64, len(accum))
	for i, a := range accum {
		if d, ok := a.resolve(); ok {
			field[i] = d
		}
	}
	return field
}

// ApplyEuclidean implements the Euclidean-space correction mode for
// points not governed by a rigid cluster: every touched point is moved
// directly by its resolved displacement vector (spec.md §4.7).
func ApplyEuclidean(x *coordset.CoordSet, violations []Violation) {
	field := displacementField(x, violations)
	for i, disp := range field {
		moveBy(x, i, disp)
	}
}

// ApplyEuclideanClustered implements the between-cluster Euclidean-space
// mode: the displacement field is still computed over every violation,
// but each cluster's member points are moved as a single rigid body,
// fitted by weighted Procrustes (numeric.BestRot) from their current
// positions onto their individually-displaced target positions, rather
// than each point moving independently (spec.md §4.7, "apply as a
// rigid-body fit per cluster"). Points outside every cluster, or whose
// cluster fit lost rank (fewer than 3 members, or a degenerate fit),
// fall back to the direct per-atom displacement.
func ApplyEuclideanClustered(x *coordset.CoordSet, violations []Violation, clusters []*Cluster) {
	field := displacementField(x, violations)
	moved := make(map[int]bool, len(field))

	for _, cl := range clusters {
		members := cl.Members()
		var idx []int
		var weights []float64
		var oldPts, newPts [][3]float64
		for _, i := range members {
			disp, ok := field[i]
			if !ok {
				continue
			}
			old := vec3(x, i)
			idx = append(idx, i)
			weights = append(weights, 1)
			oldPts = append(oldPts, old)
			newPts = append(newPts, add3(old, disp))
		}
		if len(idx) < 3 {
			for _, i := range idx {
				moveBy(x, i, field[i])
				moved[i] = true
			}
			continue
		}

		oldCopy := cloneVecs(oldPts)
		newCopy := cloneVecs(newPts)
		oldCtr := numeric.CenterVectors(oldCopy, weights)
		newCtr := numeric.CenterVectors(newCopy, weights)
		fit := numeric.BestRot(oldCopy, newCopy, weights, false)
		if fit.Rank < 3 {
			for _, i := range idx {
				moveBy(x, i, field[i])
				moved[i] = true
			}
			continue
		}

		for _, i := range idx {
			centred := sub3(vec3(x, i), oldCtr)
			rotated := fit.Apply(centred)
			final := add3(rotated, newCtr)
			setVec3(x, i, final)
			moved[i] = true
		}
	}

	for i, disp := range field {
		if !moved[i] {
			moveBy(x, i, disp)
		}
	}
}

func moveBy(x *coordset.CoordSet, i int, disp [3]float64) {
	p := vec3(x, i)
	setVec3(x, i, add3(p, disp))
}

func setVec3(x *coordset.CoordSet, i int, v [3]float64) {
	out := make([]float64, x.Dim())
	copy(out, x.At(i))
	for d := 0; d < 3 && d < x.Dim(); d++ {
		out[d] = v[d]
	}
	x.Set(i, out)
}

func cloneVecs(v [][3]float64) [][3]float64 {
	out := make([][3]float64, len(v))
	copy(out, v)
	return out
}

func vec3(x *coordset.CoordSet, i int) [3]float64 {
	p := x.At(i)
	var v [3]float64
	for d := 0; d < 3 && d < len(p); d++ {
		v[d] = p[d]
	}
	return v
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func scale3(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
