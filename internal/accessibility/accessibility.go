// Package accessibility implements the cone-shieldedness statistic over
// fake-β positions, classifies residues into seven expose/bury bands
// against per-amino-acid empirical percentile thresholds, and rescales
// Cα radial position to realise user-supplied surface/buried
// assignments (spec.md §4.10).
package accessibility

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/fakebeta"
	"github.com/aaszodi/dgrecon/internal/numeric"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/montanaflynn/stats"
)

// neighborRadius is the fake-β proximity cutoff defining a residue's
// local environment (spec.md §4.10).
const neighborRadius = 8.0

// Assignment is a user-supplied accessibility target for one residue
// (spec.md §6, "Accessibility input").
type Assignment int

const (
	AssignNone Assignment = iota
	AssignSurface
	AssignBuried
)

// Class is one of the seven expose/bury bands the shieldedness statistic
// is classified into.
type Class int

const (
	VeryExposed Class = iota
	MediumExposed
	SlightlyExposed
	Average
	SlightlyBuried
	MediumBuried
	VeryBuried
)

func (c Class) String() string {
	names := [...]string{"very-exposed", "medium-exposed", "slightly-exposed", "average", "slightly-buried", "medium-buried", "very-buried"}
	if c < 0 || int(c) >= len(names) {
		return "unknown"
	}
	return names[c]
}

// rescaleFactors are the seven radial scale factors spec.md §4.10
// permits, in ascending order.
var rescaleFactors = [...]float64{0.90, 0.95, 0.99, 1.00, 1.01, 1.05, 1.10}

// Thresholds holds six ascending percentile cut points on the
// shieldedness statistic (in [-1,1]) separating the seven classes.
type Thresholds [6]float64

// BuildThresholds derives one amino-acid type's percentile thresholds
// from a synthetic reference population: a hydrophobicity-biased normal
// sample (more hydrophobic residues skew toward higher/buried
// shieldedness), with cut points at the 5th/20th/35th/65th/80th/95th
// percentiles via montanaflynn/stats. No historical reference
// population survived distillation (see DESIGN.md, Open Questions);
// this reproduces the spirit of "6 empirical percentile thresholds per
// amino-acid type" from a seeded, reproducible source instead of a
// literal historical dataset.
func BuildThresholds(hydrophobicity float64, prng *numeric.PRNG, sampleSize int) Thresholds {
	samples := make([]float64, sampleSize)
	bias := hydrophobicity / 10.0
	for i := range samples {
		v := prng.Gauss()*0.45 + bias
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i] = v
	}

	var th Thresholds
	cuts := [...]float64{5, 20, 35, 65, 80, 95}
	for i, p := range cuts {
		v, err := stats.Percentile(samples, p)
		if err != nil {
			v = bias
		}
		th[i] = v
	}
	return th
}

// Classify buckets a shieldedness value against six ascending thresholds.
func Classify(shieldedness float64, th Thresholds) Class {
	c := VeryExposed
	for _, t := range th {
		if shieldedness <= t {
			return c
		}
		c++
	}
	return VeryBuried
}

// Engine caches per-amino-acid thresholds built once from a seeded
// PRNG (spec.md §9 design note, "Global PRNG state": seeded once for
// reproducibility, not process-wide mutable state).
type Engine struct {
	thresholds map[byte]Thresholds
}

// NewEngine builds threshold tables for every amino-acid identity this
// chain uses, consuming prng deterministically.
func NewEngine(chain *polymer.Chain, prng *numeric.PRNG, sampleSize int) *Engine {
	e := &Engine{thresholds: make(map[byte]Thresholds)}
	seen := make(map[byte]bool)
	for _, res := range chain.Residues {
		if seen[res.Identity] {
			continue
		}
		seen[res.Identity] = true
		e.thresholds[res.Identity] = BuildThresholds(res.Hydrophobicity, prng, sampleSize)
	}
	return e
}

// Thresholds returns the cached threshold table for an amino-acid
// identity, and whether one was built (NewEngine only builds tables for
// identities actually present in the chain it was constructed from).
func (e *Engine) Thresholds(identity byte) (Thresholds, bool) {
	th, ok := e.thresholds[identity]
	return th, ok
}

// Shieldedness computes residue k's cone-shieldedness statistic: among
// residues whose fake-β point lies within 8 A of k's, the largest angle
// any of them subtends (at Cα_k) against the direction to their common
// centroid. (θmax - π/2)/(π/2) lies in [-1,1]; 0 neighbours reports -1
// (maximally exposed) and a neighbour count.
func Shieldedness(chain *polymer.Chain, x *coordset.CoordSet, k int) (float64, int) {
	if chain.IsTerminal(k) {
		return -1, 0
	}
	kPos := fakebeta.Position(chain, x, k)

	var neighbors [][3]float64
	for j := 1; j <= chain.R(); j++ {
		if j == k {
			continue
		}
		jPos := fakebeta.Position(chain, x, j)
		if dist3(kPos, jPos) <= neighborRadius {
			neighbors = append(neighbors, jPos)
		}
	}
	if len(neighbors) == 0 {
		return -1, 0
	}

	centroid := centroid3(neighbors)
	caK := vec3From(x, k)
	axis, ok := unit3(sub3(centroid, caK))
	if !ok {
		return -1, len(neighbors)
	}

	thetaMax := 0.0
	for _, p := range neighbors {
		v, ok := unit3(sub3(p, caK))
		if !ok {
			continue
		}
		cosAngle := dot3(v, axis)
		if cosAngle > 1 {
			cosAngle = 1
		} else if cosAngle < -1 {
			cosAngle = -1
		}
		angle := math.Acos(cosAngle)
		if angle > thetaMax {
			thetaMax = angle
		}
	}

	shield := (thetaMax - math.Pi/2) / (math.Pi / 2)
	return shield, len(neighbors)
}

// ChooseFactor picks the radial rescale factor moving a residue
// currently in `current` toward the desired assignment's zone
// (exposed = classes 0-2, buried = classes 4-6), per spec.md §4.10's
// factor set. Returns 1.00 (no-op) if already inside the desired zone,
// if the residue is in the Average class (3), or if no assignment was
// given.
func ChooseFactor(current Class, desired Assignment) float64 {
	switch desired {
	case AssignSurface:
		delta := int(current) - int(Average) // how far into buried territory
		if delta <= 0 {
			return 1.00
		}
		return rescaleFactors[3+clampDelta(delta)]
	case AssignBuried:
		delta := int(Average) - int(current) // how far into exposed territory
		if delta <= 0 {
			return 1.00
		}
		return rescaleFactors[3-clampDelta(delta)]
	default:
		return 1.00
	}
}

func clampDelta(d int) int {
	if d > 3 {
		return 3
	}
	return d
}

// Rescale moves residue k's Cα radially about the chain's centroid by
// the factor ChooseFactor selects, additionally multiplied by 1.10 if
// the residue is flagged but has no modelled hydrogen-bond partner
// (spec.md §4.10).
func Rescale(chain *polymer.Chain, x *coordset.CoordSet, centroid [3]float64, k int, current Class, desired Assignment, hasHBond bool) {
	factor := ChooseFactor(current, desired)
	if desired != AssignNone && !hasHBond {
		factor *= 1.10
	}
	if factor == 1.00 {
		return
	}
	p := vec3From(x, k)
	scaled := [3]float64{
		centroid[0] + (p[0]-centroid[0])*factor,
		centroid[1] + (p[1]-centroid[1])*factor,
		centroid[2] + (p[2]-centroid[2])*factor,
	}
	out := make([]float64, x.Dim())
	copy(out, x.At(k))
	for d := 0; d < 3 && d < x.Dim(); d++ {
		out[d] = scaled[d]
	}
	x.Set(k, out)
}

// Centroid returns the mean position of every active interior residue's
// Cα, the reference point Rescale moves residues radially about.
func Centroid(chain *polymer.Chain, x *coordset.CoordSet) [3]float64 {
	var sum [3]float64
	n := 0
	for i := 1; i <= chain.R(); i++ {
		if !x.Active(i) {
			continue
		}
		p := vec3From(x, i)
		sum[0] += p[0]
		sum[1] += p[1]
		sum[2] += p[2]
		n++
	}
	if n == 0 {
		return sum
	}
	return [3]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}
}

func vec3From(x *coordset.CoordSet, i int) [3]float64 {
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

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func dist3(a, b [3]float64) float64 {
	d := sub3(a, b)
	return math.Sqrt(dot3(d, d))
}

func unit3(a [3]float64) ([3]float64, bool) {
	n := math.Sqrt(dot3(a, a))
	if n == 0 {
		return a, false
	}
	return [3]float64{a[0] / n, a[1] / n, a[2] / n}, true
}

func centroid3(pts [][3]float64) [3]float64 {
	var sum [3]float64
	for _, p := range pts {
		sum[0] += p[0]
		sum[1] += p[1]
		sum[2] += p[2]
	}
	n := float64(len(pts))
	return [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
}
