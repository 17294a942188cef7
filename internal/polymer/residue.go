// Package polymer holds the per-residue properties the restraint
// compiler, fake-β engine and accessibility engine all read from:
// identity, hydrophobicity, conservation, the Cα-to-side-chain-centroid
// (SCC) target distance, bump radii, and named-atom offsets. A Residue
// is built once from the polymer description and is immutable after
// that (spec.md §3, "Residue (Polymer entry)").
package polymer

import "fmt"

// AtomOffset records, for one PDB atom name, how far that atom sits from
// the residue's Cα and from its SCC (fake-β point). Both are non-negative
// unsquared distances used to widen external restraints (§4.1 step 4).
type AtomOffset struct {
	FromCA  float64
	FromSCC float64
}

// Residue is one amino acid's immutable geometric profile.
type Residue struct {
	Identity       byte    // one-letter code, e.g. 'A', 'G'
	Hydrophobicity float64 // Kyte-Doolittle scale
	Conservation   float64 // in [0,1], from the alignment column
	CASCCDistance  float64 // target |Cα-SCC|, 0 for Gly (no side chain)
	CABumpRadius   float64
	SCCBumpRadius  float64
	CASCCBumpRadius float64
	AtomOffsets    map[string]AtomOffset
}

// NewResidue builds the immutable per-residue profile for a one-letter
// identity code and a conservation weight taken from the alignment
// column. Unknown identities fall back to a generic "X" profile rather
// than erroring, since an otherwise-valid alignment column should not
// abort reconstruction over one ambiguous residue.
func NewResidue(identity byte, conservation float64) *Residue {
	p, ok := profiles[identity]
	if !ok {
		p = profiles['X']
	}
	r := &Residue{
		Identity:        identity,
		Hydrophobicity:  p.hydrophobicity,
		Conservation:    conservation,
		CASCCDistance:   p.caSCCDistance,
		CABumpRadius:    caBumpRadius,
		SCCBumpRadius:   p.sccBumpRadius,
		CASCCBumpRadius: p.caSCCBumpRadius,
		AtomOffsets:     cloneOffsets(p.atomOffsets),
	}
	return r
}

func cloneOffsets(src map[string]AtomOffset) map[string]AtomOffset {
	dst := make(map[string]AtomOffset, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// String renders a short diagnostic label, e.g. "A(h=1.8,c=0.73)".
func (r *Residue) String() string {
	return fmt.Sprintf("%c(h=%.1f,c=%.2f)", r.Identity, r.Hydrophobicity, r.Conservation)
}

// IsGlycine reports whether this residue has no side-chain centroid:
// Gly's CASCCDistance is fixed at 0 and the fake-β engine special-cases
// it (§4.5).
func (r *Residue) IsGlycine() bool {
	return r.Identity == 'G'
}
