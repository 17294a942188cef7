package secstruct

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/segment"
)

const (
	betaRise         = 3.40 // per-residue rise along one strand
	sheetRowSpacing  = 4.90 // inter-strand separation (spec.md §4.6)
	sheetTwistDegree = -20.0
)

// SheetGeometry caches the ideal 3D template for one Sheet: one row per
// strand, adjacent rows 4.90 A apart, a per-strand sense flip, and a
// cumulative sheet-twist rotation of -20 degrees per strand about the
// sheet normal (spec.md §4.6). A second phase-shifted variant is cached
// alongside the primary template (spec.md §3: "two phases" for sheets);
// IdealFit tries both and keeps whichever gives the lower RMS.
type SheetGeometry struct {
	sheet      *segment.Sheet
	strictness float64
	template   map[int][3]float64
	templateAlt map[int][3]float64
	idealDist  map[[2]int]float64
}

// NewSheetGeometry wraps a Sheet with a given idealisation strictness.
func NewSheetGeometry(sh *segment.Sheet, strictness float64) *SheetGeometry {
	g := &SheetGeometry{sheet: sh, strictness: strictness}
	g.refresh()
	return g
}

func (g *SheetGeometry) buildTemplate(phaseShift int) map[int][3]float64 {
	tpl := make(map[int][3]float64)
	for s, strand := range g.sheet.Strands {
		direction := 1.0
		if strand.Sense == segment.SenseAntiparallel {
			direction = -1.0
		}
		angle := sheetTwistDegree * float64(s) * math.Pi / 180.0
		cosA, sinA := math.Cos(angle), math.Sin(angle)

		phase := strand.Phase
		if s > 0 {
			phase += phaseShift
		}

		for i := strand.Begin; i <= strand.End; i++ {
			k := float64(i - strand.Begin)
			localX := (k*direction + float64(phase)) * betaRise
			localY := float64(s) * sheetRowSpacing

			x := localX*cosA - localY*sinA
			y := localX*sinA + localY*cosA
			tpl[i] = [3]float64{x, y, 0}
		}
	}
	return tpl
}

func (g *SheetGeometry) refresh() {
	g.template = g.buildTemplate(0)
	g.templateAlt = g.buildTemplate(1)

	residues := g.Residues()
	g.idealDist = make(map[[2]int]float64)
	for _, i := range residues {
		for _, j := range residues {
			if j < i {
				continue
			}
			pi, pj := g.template[i], g.template[j]
			d := math.Sqrt(dot(sub(pi, pj), sub(pi, pj)))
			g.idealDist[[2]int{i, j}] = d
			g.idealDist[[2]int{j, i}] = d
		}
	}
	g.sheet.MarkClean()
}

func (g *SheetGeometry) ensureFresh() {
	if g.sheet.Dirty() {
		g.refresh()
	}
}

func (g *SheetGeometry) Residues() []int {
	return g.sheet.Mask()
}

func (g *SheetGeometry) IdealDistance(i, j int) (float64, bool) {
	g.ensureFresh()
	d, ok := g.idealDist[[2]int{i, j}]
	return d, ok
}

func (g *SheetGeometry) Strictness() float64 { return g.strictness }

func (g *SheetGeometry) IdealFit(x *coordset.CoordSet, strictness float64) float64 {
	g.ensureFresh()
	residues := g.Residues()
	rmsA := rigidFitOnto(x.Clone(), residues, g.template, strictness)
	rmsB := rigidFitOnto(x.Clone(), residues, g.templateAlt, strictness)

	if rmsB >= 0 && (rmsA < 0 || rmsB < rmsA) {
		rigidFitOnto(x, residues, g.templateAlt, strictness)
		return rmsB
	}
	rigidFitOnto(x, residues, g.template, strictness)
	return rmsA
}

// HBondPartner returns the residue in the previous strand hydrogen-
// bonded to i, derived from i's strand's Phase/Sense (spec.md §3). Only
// the first residue of each strand after the first gets a partner; every
// other residue reports false.
func (g *SheetGeometry) HBondPartner(i int) (int, bool) {
	for s, strand := range g.sheet.Strands {
		if !strand.Contains(i) || s == 0 {
			continue
		}
		prev := g.sheet.Strands[s-1]
		if i != strand.Begin {
			continue
		}
		partner := strand.HBondPartnerIndex(prev)
		if prev.Contains(partner) {
			return partner, true
		}
	}
	return 0, false
}

// CheckHandedness requires negative torsion around each pair of
// adjacent hydrogen-bonded strand partners (spec.md §4.6).
func (g *SheetGeometry) CheckHandedness(x *coordset.CoordSet) (good, bad int) {
	for s := 1; s < len(g.sheet.Strands); s++ {
		strand := g.sheet.Strands[s]
		prev := g.sheet.Strands[s-1]
		partner, ok := func() (int, bool) {
			p := strand.HBondPartnerIndex(prev)
			return p, prev.Contains(p)
		}()
		if !ok || strand.Begin+1 > strand.End || partner+1 > prev.End {
			continue
		}
		p0 := point(x, strand.Begin)
		p1 := point(x, strand.Begin+1)
		p2 := point(x, partner)
		p3 := point(x, partner+1)
		t := torsion(p0, p1, p2, p3)
		if t < 0 {
			good++
		} else {
			bad++
		}
	}
	return good, bad
}
