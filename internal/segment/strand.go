package segment

// Sense is the relative orientation of one strand against the previous
// strand in its sheet.
type Sense int

const (
	SenseNone Sense = iota
	SenseParallel
	SenseAntiparallel
)

func (s Sense) String() string {
	switch s {
	case SenseParallel:
		return "PAR"
	case SenseAntiparallel:
		return "ANTI"
	default:
		return "NONE"
	}
}

// Strand is a Segment taking part in a β-sheet. Sense and Phase describe
// its relationship to the previous strand in the same Sheet: Phase is
// the residue offset of this strand's first residue against the
// hydrogen-bonded partner in the previous strand. The first strand of a
// sheet always has Sense==SenseNone and Phase==0.
type Strand struct {
	*Segment
	Sense Sense
	Phase int
}

// NewStrand builds a strand segment. Sense/Phase default to
// SenseNone/0, matching a first-in-sheet strand; SetRelation below fills
// them in for subsequent strands.
func NewStrand(begin, end int) *Strand {
	return &Strand{Segment: NewSegment(begin, end)}
}

// SetRelation records this strand's orientation and register against
// the previous strand, marking the segment dirty so the sheet's ideal
// template regenerates.
func (s *Strand) SetRelation(sense Sense, phase int) {
	s.Sense = sense
	s.Phase = phase
	s.Segment.dirty = true
}

// HBondPartnerIndex returns the residue index in the previous strand
// that is hydrogen-bonded to this strand's first residue, derived from
// Phase: for an antiparallel pair the partner register runs in reverse,
// for a parallel pair it runs in the same direction.
func (s *Strand) HBondPartnerIndex(prev *Strand) int {
	if s.Sense == SenseAntiparallel {
		return prev.End - s.Phase
	}
	return prev.Begin + s.Phase
}
