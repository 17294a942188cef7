package polymer

// Bond lengths for the two virtual terminal pseudo-atoms, spec.md §3.
const (
	NBondLength = 1.47 // NH3+ pseudo-atom to residue 1 Cα
	CBondLength = 1.54 // residue R Cα to COO- pseudo-atom
)

// Chain is the ordered sequence of residues 1..R plus the two virtual
// terminal points at index 0 (NH3+) and R+1 (COO-), so the full point
// set addressed by the restraint compiler and distance matrix has size
// N = R+2 (spec.md §3, "Chain").
type Chain struct {
	Residues []*Residue // 1-based logically; Residues[0] is residue 1
}

// NewChain builds a chain from a sequence of (identity, conservation)
// pairs, one per residue, in N-to-C order.
func NewChain(identities []byte, conservation []float64) *Chain {
	residues := make([]*Residue, len(identities))
	for i, id := range identities {
		c := 0.0
		if i < len(conservation) {
			c = conservation[i]
		}
		residues[i] = NewResidue(id, c)
	}
	return &Chain{Residues: residues}
}

// R is the residue count (not counting the two terminal pseudo-atoms).
func (c *Chain) R() int { return len(c.Residues) }

// N is the full point-set size, R+2, matching the distance matrix and
// coordinate set dimensions used throughout the engine.
func (c *Chain) N() int { return c.R() + 2 }

// Residue returns the residue at 1-based sequence position seq. Index 0
// and R+1 are the terminal pseudo-atoms and have no Residue entry;
// callers must special-case them (ok reports whether idx was interior).
func (c *Chain) Residue(idx int) (*Residue, bool) {
	if idx < 1 || idx > c.R() {
		return nil, false
	}
	return c.Residues[idx-1], true
}

// IsTerminal reports whether idx addresses the N- or C-terminal
// pseudo-atom rather than an interior residue.
func (c *Chain) IsTerminal(idx int) bool {
	return idx == 0 || idx == c.R()+1
}
