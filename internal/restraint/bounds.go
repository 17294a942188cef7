// Package restraint builds the N x N bound-pair and strictness matrices
// that drive the whole reconstruction: sequence-separation (Flory) upper
// bounds, bond/geminal overrides, secondary-structure idealisation,
// external-restraint merging, and triangle-inequality smoothing
// (spec.md §4.1).
package restraint

import (
	"fmt"

	"github.com/aaszodi/dgrecon/internal/numeric"
)

// Category records which step of the compiler last owns a pair's bounds,
// the classification the steric adjuster needs to pick a score channel
// (spec.md §4.7). Ascending priority: a higher category is never
// downgraded by a later, lower-priority step (e.g. merging an external
// restraint into an already-bonded pair must not reclassify it).
type Category int

const (
	CategoryNonbond Category = iota
	CategoryRestraint
	CategorySecStr
	CategoryBond
)

// Bounds is the pair-restraint matrix: a lower bound, an upper bound and
// a strictness per pair (i,j), plus a "hard" flag marking pairs the
// triangle-smoothing upper pass must never tighten (bonds, geminal
// pairs, secondary-structure idealisations; spec.md §4.1 step 5).
type Bounds struct {
	n        int
	low      *numeric.Trimat
	up       *numeric.Trimat
	strict   *numeric.Trimat
	hard     []bool
	category []Category
}

// NewBounds allocates an n x n bound matrix: low=0, up=+Inf, strictness
// 0, nothing hard, category Nonbond. Diagonal entries are never read by
// callers.
func NewBounds(n int) *Bounds {
	b := &Bounds{
		n:        n,
		low:      numeric.NewTrimat(n),
		up:       numeric.NewTrimat(n),
		strict:   numeric.NewTrimat(n),
		hard:     make([]bool, n*n),
		category: make([]Category, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			b.up.Set(i, j, posInf)
		}
	}
	return b
}

// Category returns the higher of (i,j) and (j,i)'s recorded categories.
func (b *Bounds) Category(i, j int) Category {
	a, c := b.category[b.hardIdx(i, j)], b.category[b.hardIdx(j, i)]
	if c > a {
		return c
	}
	return a
}

// SetCategory raises (i,j)'s category to cat if cat outranks whatever is
// already recorded.
func (b *Bounds) SetCategory(i, j int, cat Category) {
	if cat > b.Category(i, j) {
		b.category[b.hardIdx(i, j)] = cat
	}
}

const posInf = 1e308 // finite stand-in for +Inf so Trimat arithmetic stays well-defined

func (b *Bounds) Size() int { return b.n }

func (b *Bounds) Low(i, j int) float64  { return b.low.At(i, j) }
func (b *Bounds) Up(i, j int) float64   { return b.up.At(i, j) }
func (b *Bounds) Strictness(i, j int) float64 { return b.strict.At(i, j) }

func (b *Bounds) hardIdx(i, j int) int { return i*b.n + j }

// IsHard reports whether (i,j) must not be tightened by the smoothing
// upper pass.
func (b *Bounds) IsHard(i, j int) bool {
	return b.hard[b.hardIdx(i, j)] || b.hard[b.hardIdx(j, i)]
}

// SetHard marks (i,j) hard (order-independent).
func (b *Bounds) SetHard(i, j int) {
	b.hard[b.hardIdx(i, j)] = true
}

// SetBounds overwrites (i,j)'s bounds and strictness outright, used for
// the hard overrides in steps 2-3.
func (b *Bounds) SetBounds(i, j int, lo, hi, strictness float64) {
	b.low.Set(i, j, lo)
	b.up.Set(i, j, hi)
	b.strict.Set(i, j, strictness)
}

// SetUpper overwrites just the upper bound, used by the Flory seeding
// pass (step 1), which never touches strictness.
func (b *Bounds) SetUpper(i, j int, hi float64) {
	b.up.Set(i, j, hi)
}

// Intersect merges [lo,hi] into (i,j) by narrowing: low <- max(low,lo),
// up <- min(up,hi), and raises strictness to max(current, strictness).
// Returns false (a "violation") if the narrowed bounds would cross
// (up < low), in which case no bound is changed.
func (b *Bounds) Intersect(i, j int, lo, hi, strictness float64) bool {
	newLow := maxf(b.low.At(i, j), lo)
	newUp := minf(b.up.At(i, j), hi)
	if newUp < newLow {
		return false
	}
	b.low.Set(i, j, newLow)
	b.up.Set(i, j, newUp)
	if strictness > b.strict.At(i, j) {
		b.strict.Set(i, j, strictness)
	}
	return true
}

// ApplyLowFloor raises (i,j)'s lower bound to floor if it currently sits
// below it, leaving the upper bound and strictness untouched.
func (b *Bounds) ApplyLowFloor(i, j int, floor float64) {
	if floor > b.low.At(i, j) {
		b.low.Set(i, j, floor)
	}
}

// CheckInvariants verifies property 1 from spec.md §8: after smoothing,
// every recorded pair has 0 <= low(i,j) <= up(i,j).
func (b *Bounds) CheckInvariants() []string {
	var bad []string
	for i := 0; i < b.n; i++ {
		for j := 0; j < i; j++ {
			lo, hi := b.low.At(i, j), b.up.At(i, j)
			if lo < 0 || lo > hi {
				bad = append(bad, pairLabel(i, j))
			}
		}
	}
	return bad
}

func pairLabel(i, j int) string {
	return fmt.Sprintf("%d-%d", i, j)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
