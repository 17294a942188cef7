package segment

import "fmt"

// HelixType selects the hydrogen-bond offset k (i <-> i+k) and, via
// package secstruct, the cylindrical template radius/pitch.
type HelixType int

const (
	Helix310 HelixType = iota // 3_10 helix, k=2
	HelixAlpha                // alpha helix, k=3
	HelixPi                   // pi helix, k=4
)

func (t HelixType) String() string {
	switch t {
	case Helix310:
		return "3_10"
	case HelixAlpha:
		return "alpha"
	case HelixPi:
		return "pi"
	default:
		return "unknown"
	}
}

// HBondOffset returns k, the i<->i+k hydrogen-bond spacing for this
// helix type (spec.md §3: "Helix").
func (t HelixType) HBondOffset() int {
	switch t {
	case Helix310:
		return 2
	case HelixAlpha:
		return 3
	case HelixPi:
		return 4
	default:
		return 3
	}
}

// Helix is a Segment typed by HelixType; it must span at least k+1
// residues to have a meaningful hydrogen-bond partner for its first
// residue.
type Helix struct {
	*Segment
	Type HelixType
}

// NewHelix validates the minimum length (k+1) and builds a helix.
func NewHelix(begin, end int, t HelixType) (*Helix, error) {
	k := t.HBondOffset()
	if end-begin+1 < k+1 {
		return nil, fmt.Errorf("helix [%d-%d] shorter than minimum length %d for type %s", begin, end, k+1, t)
	}
	return &Helix{Segment: NewSegment(begin, end), Type: t}, nil
}
