package segment

import "fmt"

// Sheet is an ordered, non-overlapping list of >=2 Strands; the
// topology (pairwise sense/register) is carried by each Strand's own
// Sense/Phase relative to its predecessor.
type Sheet struct {
	Strands []*Strand
}

// NewSheet validates and builds a sheet. A single-strand sheet is
// rejected, matching the secondary-structure input contract (spec.md
// §6): "a single-strand sheet is rejected".
func NewSheet(strands []*Strand) (*Sheet, error) {
	if len(strands) < 2 {
		return nil, fmt.Errorf("sheet needs at least 2 strands, got %d", len(strands))
	}
	if err := checkNonOverlapping(strands); err != nil {
		return nil, err
	}
	strands[0].Sense = SenseNone
	strands[0].Phase = 0
	return &Sheet{Strands: strands}, nil
}

func checkNonOverlapping(strands []*Strand) error {
	for i := 0; i < len(strands); i++ {
		for j := i + 1; j < len(strands); j++ {
			a, b := strands[i], strands[j]
			if a.Begin <= b.End && b.Begin <= a.End {
				return fmt.Errorf("strands %d [%d-%d] and %d [%d-%d] overlap",
					i, a.Begin, a.End, j, b.Begin, b.End)
			}
		}
	}
	return nil
}

// Mask returns the set of member residues as a slice in strand order
// (ascending within each strand): the disjoint union of every strand's
// residue range.
func (sh *Sheet) Mask() []int {
	var mask []int
	for _, s := range sh.Strands {
		for i := s.Begin; i <= s.End; i++ {
			mask = append(mask, i)
		}
	}
	return mask
}

// Dirty reports whether any strand in the sheet needs its ideal
// geometry regenerated.
func (sh *Sheet) Dirty() bool {
	for _, s := range sh.Strands {
		if s.Dirty() {
			return true
		}
	}
	return false
}

// MarkClean clears the dirty bit on every strand.
func (sh *Sheet) MarkClean() {
	for _, s := range sh.Strands {
		s.MarkClean()
	}
}
