// Package sidechain implements homology-based side-chain decoration
// (spec.md §4.11): for each target residue with a backbone already
// built, aligned homologues with complete main chains are
// centroid-fitted onto the target backbone and their chemically
// equivalent side-chain atoms averaged in. It also derives the restraint
// compiler's fourth input class, homology-derived Cα-Cα distances
// (spec.md §4.1, §6's Maxdist/Minsepar), from the same Alignment.
package sidechain

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/numeric"
	"github.com/aaszodi/dgrecon/internal/restraint"
)

// AtomName is a PDB-convention atom name, e.g. "CA", "CB", "CG1", or
// the synthetic "SCC" used elsewhere in this engine for the fake-β
// point (not used here: decoration works with real atom names only).
type AtomName = string

// Conformation is one residue's observed atom positions, keyed by name.
type Conformation map[AtomName][3]float64

// backboneWeights are the four main-chain atoms and their weights for
// the centroid-align step (spec.md §4.11 step 3).
var backboneWeights = []struct {
	Name   AtomName
	Weight float64
}{
	{"N", 0.5}, {"CA", 1.0}, {"C", 0.5}, {"O", 0.2},
}

// HasCompleteBackbone reports whether every weighted backbone atom is
// present (spec.md §4.11 step 1, "homologues from that column that have
// complete main chains").
func (c Conformation) HasCompleteBackbone() bool {
	for _, bw := range backboneWeights {
		if _, ok := c[bw.Name]; !ok {
			return false
		}
	}
	return true
}

// Homologue is one aligned sequence's per-column identity and built
// conformations: an absent entry in Conformations means that column's
// residue in this homologue has no built structure (gap, or main chain
// not yet modelled).
type Homologue struct {
	Identity      []byte // per-column identity; '-' marks a gap
	Conformations map[int]Conformation
}

// Alignment holds every homologue consulted for decoration, indexed by
// alignment column (spec.md §4.11 step 1).
type Alignment struct {
	Homologues []*Homologue
}

// HomologyRestraints derives spec.md §4.1's fourth restraint-compiler
// input class: for every pair of alignment columns mapping to target
// residues at least minsepar positions apart, every homologue with a
// modelled Cα at both columns contributes its Cα-Cα distance; a pair's
// restraint is the mean over contributing homologues, dropped if that
// mean exceeds maxdist. targetColumn maps alignment column index to the
// column's 1-based target residue position, 0 marking a column the
// target itself has no residue at (e.g. a gap in the target's row).
// Returned restraints carry CA:CA atom names, so the compiler does not
// fold them into the bound matrix (restraint.External.isDirect) and only
// lists them in Report.ExternalDirect, the same path explicit CA:CA
// restraints take; nothing downstream evaluates that list.
func (a *Alignment) HomologyRestraints(targetColumn []int, maxdist float64, minsepar int) []restraint.External {
	var out []restraint.External
	for ci, posI := range targetColumn {
		if posI <= 0 {
			continue
		}
		for cj := ci + 1; cj < len(targetColumn); cj++ {
			posJ := targetColumn[cj]
			if posJ <= 0 {
				continue
			}
			if sep := abs(posJ - posI); sep < minsepar {
				continue
			}

			var sum float64
			var n int
			for _, h := range a.Homologues {
				pi, oki := homologueCA(h, ci)
				pj, okj := homologueCA(h, cj)
				if !oki || !okj {
					continue
				}
				sum += distance3(pi, pj)
				n++
			}
			if n == 0 {
				continue
			}

			mean := sum / float64(n)
			if mean > maxdist {
				continue
			}
			out = append(out, restraint.External{
				Pos1: posI, Pos2: posJ,
				Atom1: "CA", Atom2: "CA",
				Lower: mean * 0.95, Upper: mean * 1.05,
				Strictness: 0.4,
			})
		}
	}
	return out
}

func homologueCA(h *Homologue, col int) ([3]float64, bool) {
	if col < 0 || col >= len(h.Identity) || h.Identity[col] == '-' {
		return [3]float64{}, false
	}
	conf, ok := h.Conformations[col]
	if !ok {
		return [3]float64{}, false
	}
	p, ok := conf["CA"]
	return p, ok
}

func distance3(a, b [3]float64) float64 {
	d := sub3(a, b)
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// columnCandidates returns every homologue usable for decorating column
// col: present, non-gap, with a complete backbone built there.
func (a *Alignment) columnCandidates(col int) []*Homologue {
	var out []*Homologue
	for _, h := range a.Homologues {
		if col < 0 || col >= len(h.Identity) || h.Identity[col] == '-' {
			continue
		}
		conf, ok := h.Conformations[col]
		if !ok || !conf.HasCompleteBackbone() {
			continue
		}
		out = append(out, h)
	}
	return out
}

// alwaysSharedAtoms are copied name-for-name regardless of target and
// homologue identity: the main chain plus Cβ (spec.md §4.11 step 2,
// "main-chain + Cβ always shared").
var alwaysSharedAtoms = []AtomName{"N", "CA", "C", "O", "CB"}

// gammaChemistryClass groups identities sharing similar gamma-position
// chemistry, letting their Cγ-level atoms be treated as equivalent by
// name (spec.md §4.11 step 2, "γ shared between like chemistries").
var gammaChemistryClass = map[byte]string{
	'A': "aliphatic", 'V': "aliphatic", 'L': "aliphatic", 'I': "aliphatic",
	'S': "hydroxyl", 'T': "hydroxyl",
	'D': "acidic", 'E': "acidic",
	'N': "amide", 'Q': "amide",
	'K': "basic", 'R': "basic", 'H': "basic",
	'F': "aromatic", 'Y': "aromatic", 'W': "aromatic",
	'C': "sulfur", 'M': "sulfur",
}

var gammaAtomNames = []AtomName{"CG", "CG1", "CG2"}

// noGammaBranchCross excludes gamma-atom equivalence between the
// β-branched I/T/V trio (spec.md §4.11 step 2, "no γ-branch
// cross-equivalence between I/T/V"). Only I and V share a chemistry
// class ("aliphatic"); T is "hydroxyl", so the I/V entry is the one that
// overrides a class match.
var noGammaBranchCross = map[[2]byte]bool{
	{'I', 'T'}: true, {'I', 'V'}: true, {'T', 'V'}: true,
}

type atomPair struct{ Lo, Hi AtomName }

// explicitEquivalences lists the named cross-identity atom
// correspondences spec.md §4.11 step 2 spells out explicitly, keyed by
// the two residues' identities in byte order. Phe/Tyr share ring atoms;
// Asp/Leu share their δ pair via the D<->L rule (OD1<->CD1, OD2<->CD2);
// Lys/Met/Arg share δ and ε positions via name substitution; Lys/Arg
// additionally share ζ (Lys NZ <-> Arg CZ).
var explicitEquivalences = map[[2]byte][]atomPair{
	{'F', 'Y'}: {{"CG", "CG"}, {"CD1", "CD1"}, {"CD2", "CD2"}, {"CE1", "CE1"}, {"CE2", "CE2"}, {"CZ", "CZ"}},
	{'D', 'L'}: {{"OD1", "CD1"}, {"OD2", "CD2"}},
	{'K', 'M'}: {{"CD", "SD"}, {"CE", "CE"}},
	{'K', 'R'}: {{"CD", "CD"}, {"CE", "NE"}, {"NZ", "CZ"}},
	{'M', 'R'}: {{"SD", "CD"}, {"CE", "NE"}},
}

func orderedPair(a, b byte) (lo, hi byte, swapped bool) {
	if a <= b {
		return a, b, false
	}
	return b, a, true
}

// equivalentSideChainAtoms returns, for one homologue conformation of
// identity homologID being fitted onto a target residue of identity
// targetID, a map from the target's atom name to the homologue's atom
// name to copy from for every side-chain atom the two identities make
// equivalent. Identical identities share every atom present by name.
func equivalentSideChainAtoms(targetID, homologID byte, homolog Conformation) map[AtomName]AtomName {
	out := make(map[AtomName]AtomName)

	if targetID == homologID {
		for name := range homolog {
			out[name] = name
		}
		return out
	}

	for _, name := range alwaysSharedAtoms {
		if _, ok := homolog[name]; ok {
			out[name] = name
		}
	}

	lo, hi, swapped := orderedPair(targetID, homologID)
	if pairs, ok := explicitEquivalences[[2]byte{lo, hi}]; ok {
		for _, p := range pairs {
			targetName, homologName := p.Lo, p.Hi
			if swapped {
				targetName, homologName = p.Hi, p.Lo
			}
			if _, ok := homolog[homologName]; ok {
				out[targetName] = homologName
			}
		}
	}

	if classT, okT := gammaChemistryClass[targetID]; okT {
		if classH, okH := gammaChemistryClass[homologID]; okH && classT == classH {
			if !noGammaBranchCross[[2]byte{lo, hi}] {
				for _, name := range gammaAtomNames {
					if _, ok := homolog[name]; ok {
						out[name] = name
					}
				}
			}
		}
	}

	return out
}

func isBackboneAtomName(name AtomName) bool {
	for _, bw := range backboneWeights {
		if bw.Name == name {
			return true
		}
	}
	return false
}

// backboneFit centroid-aligns a homologue's backbone onto the target's
// by weighted Procrustes (spec.md §4.11 step 3).
type backboneFit struct {
	result     numeric.ProcrustesResult
	targetCtr  [3]float64
	homologCtr [3]float64
}

func fitBackbone(target, homolog Conformation) (backboneFit, bool) {
	var tPts, hPts [][3]float64
	var weights []float64
	for _, bw := range backboneWeights {
		tp, tok := target[bw.Name]
		hp, hok := homolog[bw.Name]
		if !tok || !hok {
			return backboneFit{}, false
		}
		tPts = append(tPts, tp)
		hPts = append(hPts, hp)
		weights = append(weights, bw.Weight)
	}

	tCopy := cloneVecs(tPts)
	hCopy := cloneVecs(hPts)
	tCtr := numeric.CenterVectors(tCopy, weights)
	hCtr := numeric.CenterVectors(hCopy, weights)

	res := numeric.BestRot(hCopy, tCopy, weights, false)
	if res.Rank < 3 {
		return backboneFit{}, false
	}
	return backboneFit{result: res, targetCtr: tCtr, homologCtr: hCtr}, true
}

// apply maps a point from the homologue's frame into the target's
// frame using this fit's centroid-align-and-rotate transform.
func (f backboneFit) apply(p [3]float64) [3]float64 {
	centred := sub3(p, f.homologCtr)
	rotated := f.result.Apply(centred)
	return add3(rotated, f.targetCtr)
}

func cloneVecs(v [][3]float64) [][3]float64 {
	out := make([][3]float64, len(v))
	copy(out, v)
	return out
}

func sub3(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func add3(a, b [3]float64) [3]float64 { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

// Decorator applies §4.11 against one Alignment.
type Decorator struct {
	align *Alignment
}

// NewDecorator builds a decorator over align.
func NewDecorator(align *Alignment) *Decorator {
	return &Decorator{align: align}
}

// Decorate builds target residue targetID's side chain at alignment
// column col: every column homologue with a complete backbone is
// centroid-fitted onto targetBackbone, its chemically-equivalent
// side-chain atoms are rotated into the target frame, and the result is
// an unweighted average across all contributing homologues (spec.md
// §4.11 steps 3-4). Returns the built side chain and how many
// homologues contributed; zero homologues yields an empty Conformation.
func (d *Decorator) Decorate(targetID byte, col int, targetBackbone Conformation) (Conformation, int) {
	sum := make(map[AtomName][3]float64)
	count := make(map[AtomName]int)
	used := 0

	for _, h := range d.align.columnCandidates(col) {
		conf := h.Conformations[col]
		fit, ok := fitBackbone(targetBackbone, conf)
		if !ok {
			continue
		}
		used++

		equiv := equivalentSideChainAtoms(targetID, h.Identity[col], conf)
		for targetName, srcName := range equiv {
			if isBackboneAtomName(targetName) {
				continue
			}
			rotated := fit.apply(conf[srcName])
			acc := sum[targetName]
			sum[targetName] = add3(acc, rotated)
			count[targetName]++
		}
	}

	out := make(Conformation, len(sum))
	for name, total := range sum {
		n := float64(count[name])
		out[name] = [3]float64{total[0] / n, total[1] / n, total[2] / n}
	}
	return out, used
}
