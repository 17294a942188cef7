package restraint

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/diag"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/aaszodi/dgrecon/internal/secstruct"
)

// Config holds the tunables of the Flory upper-bound seeding and the
// smoothing pass (spec.md §4.1, §6). FloryScale corresponds to the
// spec's f(R): no historical value for this scaling function survived
// distillation, so it defaults to 1.0 (see DESIGN.md, Open Questions).
type Config struct {
	Density          float64 // residues per cubic Angstrom, for R_exp
	FloryScale       float64 // f(R); default 1.0 (open question, see DESIGN.md)
	BondAngleDeg     float64 // virtual Cα-Cα-Cα bond angle
	BondLength       float64 // virtual bond length, Å
	RMaxFactor       float64 // R_max = RMaxFactor * R_exp
	GenericBumpFloor float64 // default Cα-Cα lower bound for non-hard pairs
	SmoothEpsilon    float64 // smoothing stops once no bound moves more than this
	MaxSmoothIter    int
}

// DefaultConfig gives the constants named explicitly in spec.md §4.1/§4.2,
// plus defaults for the ones the spec leaves as an open parameter.
func DefaultConfig() Config {
	return Config{
		Density:          0.0075, // ~110 Da/residue at typical protein packing density
		FloryScale:       1.0,
		BondAngleDeg:     133.0,
		BondLength:       3.8,
		RMaxFactor:       2.5,
		GenericBumpFloor: 2 * 1.23, // polymer's caBumpRadius (1.23) doubled, spec.md §4.1 step 2
		SmoothEpsilon:    1e-4,
		MaxSmoothIter:    50,
	}
}

// Report summarises a single Compile call for the caller's logs:
// triangle violations are recoverable warnings (spec.md §7), not errors.
type Report struct {
	TriangleViolations int
	ExternalMerged     int
	ExternalRejected   int
	ExternalDirect     []External
}

// Compiler builds a Bounds matrix from a chain, its secondary-structure
// elements and its external restraints (spec.md §4.1).
type Compiler struct {
	cfg Config
	log diag.Logger
}

// NewCompiler builds a Compiler; logger may be diag.NopLogger{} if the
// caller doesn't want warnings surfaced.
func NewCompiler(cfg Config, logger diag.Logger) *Compiler {
	if logger == nil {
		logger = diag.NopLogger{}
	}
	return &Compiler{cfg: cfg, log: logger}
}

// Compile runs all five steps of spec.md §4.1 and returns the resulting
// Bounds plus a Report. Chain residues are 1-based; the full point set
// addressed by Bounds is [0, chain.N()-1] including the two terminal
// pseudo-atoms.
func (c *Compiler) Compile(chain *polymer.Chain, elems []secstruct.Geometry, externals []External) (*Bounds, Report) {
	n := chain.N()
	b := NewBounds(n)

	c.seedFlory(b, chain)
	c.applyBondsAndGeminal(b, chain)
	c.applySecondaryStructure(b, elems)
	report := c.mergeExternals(b, chain, externals)
	report.TriangleViolations = SmoothTriangleInequality(b, c.cfg, c.log)

	return b, report
}

// seedFlory implements step 1: the Flory upper bound per sequence
// separation, theta(d) from the freely-rotating-chain model.
// ExpectedRadius returns R_exp = cbrt(R/density), the characteristic
// molecular radius spec.md §4.1 and §4.2 both build on.
func ExpectedRadius(r int, density float64) float64 {
	if density <= 0 || r <= 0 {
		return 0
	}
	return math.Cbrt(float64(r) / density)
}

func (c *Compiler) seedFlory(b *Bounds, chain *polymer.Chain) {
	r := float64(chain.R())
	n := chain.N()
	if r <= 0 {
		return
	}

	rExp := ExpectedRadius(chain.R(), c.cfg.Density)
	rMax := c.cfg.RMaxFactor * rExp * c.cfg.FloryScale

	cosTheta := math.Cos(c.cfg.BondAngleDeg * math.Pi / 180.0)
	ratio := math.Sqrt((1 - cosTheta) / (1 + cosTheta))

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			d := i - j
			theta := math.Sqrt(float64(d)) * c.cfg.BondLength * ratio
			b.SetUpper(i, j, minf(rMax, theta))
			b.ApplyLowFloor(i, j, c.cfg.GenericBumpFloor)
		}
	}
}

// applyBondsAndGeminal implements step 2: hard 1-2/1-3 overrides for
// interior Cα pairs and the two terminal pseudo-bonds.
func (c *Compiler) applyBondsAndGeminal(b *Bounds, chain *polymer.Chain) {
	r := chain.R()

	for s := 1; s <= r-1; s++ {
		b.SetBounds(s+1, s, 3.75, 3.85, 2.0)
		b.SetHard(s+1, s)
		b.SetCategory(s+1, s, CategoryBond)
	}
	for s := 1; s <= r-2; s++ {
		b.SetBounds(s+2, s, 6.0, 7.0, 1.5)
		b.SetHard(s+2, s)
		b.SetCategory(s+2, s, CategoryBond)
	}

	b.SetBounds(1, 0, polymer.NBondLength, polymer.NBondLength, 2.0)
	b.SetHard(1, 0)
	b.SetCategory(1, 0, CategoryBond)
	b.SetBounds(r+1, r, polymer.CBondLength, polymer.CBondLength, 2.0)
	b.SetHard(r+1, r)
	b.SetCategory(r+1, r, CategoryBond)

	if r >= 2 {
		b.SetBounds(2, 0, 6.0, 7.0, 1.5)
		b.SetHard(2, 0)
		b.SetCategory(2, 0, CategoryBond)
		b.SetBounds(r+1, r-1, 6.0, 7.0, 1.5)
		b.SetHard(r+1, r-1)
		b.SetCategory(r+1, r-1, CategoryBond)
	}
}

// applySecondaryStructure implements step 3: import each element's ideal
// distances, replacing bounds wherever the element's strictness beats
// what is already recorded.
func (c *Compiler) applySecondaryStructure(b *Bounds, elems []secstruct.Geometry) {
	for _, elem := range elems {
		residues := elem.Residues()
		strictness := elem.Strictness()
		for _, i := range residues {
			for _, j := range residues {
				if j <= i {
					continue
				}
				d, ok := elem.IdealDistance(i, j)
				if !ok {
					continue
				}
				if strictness <= b.Strictness(i, j) {
					continue
				}
				b.SetBounds(j, i, d*0.99, d*1.01, strictness)
				b.SetHard(j, i)
				b.SetCategory(j, i, CategorySecStr)
			}
		}
	}
}

// mergeExternals implements step 4: non-Cα/SCC restraints are widened
// by the atoms' Cα offsets and intersected into the matrix at half
// strictness; CA:CA and SCC-involving restraints pass through untouched
// into Report.ExternalDirect. No other package reads that list: the
// steric adjuster and the orchestrator do not evaluate these restraints.
func (c *Compiler) mergeExternals(b *Bounds, chain *polymer.Chain, externals []External) Report {
	var report Report
	for _, ext := range externals {
		if ext.isDirect() {
			report.ExternalDirect = append(report.ExternalDirect, ext)
			continue
		}

		off1 := atomOffsetFromCA(chain, ext.Pos1, ext.Atom1)
		off2 := atomOffsetFromCA(chain, ext.Pos2, ext.Atom2)

		lo := ext.Lower - off1 - off2
		hi := ext.Upper + off1 + off2
		if lo < c.cfg.GenericBumpFloor {
			lo = c.cfg.GenericBumpFloor
		}

		if b.Intersect(ext.Pos1, ext.Pos2, lo, hi, ext.Strictness/2) {
			b.SetCategory(ext.Pos1, ext.Pos2, CategoryRestraint)
			report.ExternalMerged++
		} else {
			report.ExternalRejected++
			c.log.Warnf("external restraint %d(%s)-%d(%s) conflicts with existing bounds, skipped",
				ext.Pos1, ext.Atom1, ext.Pos2, ext.Atom2)
		}
	}
	return report
}

func atomOffsetFromCA(chain *polymer.Chain, pos int, atom string) float64 {
	res, ok := chain.Residue(pos)
	if !ok {
		return 0
	}
	off, ok := res.AtomOffsets[atom]
	if !ok {
		return 0
	}
	return off.FromCA
}

// SmoothTriangleInequality runs step 5 to a fixed point (or MaxSmoothIter
// sweeps, whichever comes first): an upper pass that never tightens hard
// pairs, then a lower pass that counts and skips any update that would
// cross up(i,j) < new_low. Returns the total violation count.
func SmoothTriangleInequality(b *Bounds, cfg Config, logger diag.Logger) int {
	if logger == nil {
		logger = diag.NopLogger{}
	}
	n := b.Size()
	violations := 0

	for iter := 0; iter < cfg.MaxSmoothIter; iter++ {
		maxMove := 0.0

		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				if b.IsHard(i, j) {
					continue
				}
				best := b.Up(i, j)
				for k := 0; k < n; k++ {
					if k == i || k == j {
						continue
					}
					if cand := b.Up(i, k) + b.Up(j, k); cand < best {
						best = cand
					}
				}
				if best < b.Up(i, j) {
					if move := b.Up(i, j) - best; move > maxMove {
						maxMove = move
					}
					b.up.Set(i, j, best)
				}
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				best := b.Low(i, j)
				for k := 0; k < n; k++ {
					if k == i || k == j {
						continue
					}
					c1 := b.Low(i, k) - b.Up(j, k)
					c2 := b.Low(j, k) - b.Up(i, k)
					if c1 > best {
						best = c1
					}
					if c2 > best {
						best = c2
					}
				}
				if best > b.Up(i, j) {
					violations++
					logger.Warnf("triangle violation at (%d,%d): lower bound %.3f exceeds upper bound %.3f", i, j, best, b.Up(i, j))
					continue
				}
				if best > b.Low(i, j) {
					if move := best - b.Low(i, j); move > maxMove {
						maxMove = move
					}
					b.low.Set(i, j, best)
				}
			}
		}

		if maxMove <= cfg.SmoothEpsilon {
			break
		}
	}

	return violations
}
