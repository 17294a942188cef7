// Package segment models the contiguous chain ranges that carry
// secondary structure: plain Segments, β-Strands grouped into Sheets,
// and Helices. Every mutating method sets a dirty bit so the cached
// ideal-geometry record (package secstruct) knows to regenerate its
// template lazily, per the "Dirty-bit lazy refresh" design note.
package segment

import "fmt"

// Segment is a contiguous residue range [Begin,End], 1 <= Begin <= End.
type Segment struct {
	Begin, End int
	dirty      bool
}

// NewSegment builds a segment and marks it dirty so its first geometry
// query regenerates a template.
func NewSegment(begin, end int) *Segment {
	return &Segment{Begin: begin, End: end, dirty: true}
}

// Len returns the residue count End-Begin+1.
func (s *Segment) Len() int { return s.End - s.Begin + 1 }

// Contains reports whether residue i falls within [Begin,End].
func (s *Segment) Contains(i int) bool { return i >= s.Begin && i <= s.End }

// Dirty reports whether the cached ideal-geometry record needs
// regenerating.
func (s *Segment) Dirty() bool { return s.dirty }

// MarkClean clears the dirty bit once the geometry cache has been
// refreshed.
func (s *Segment) MarkClean() { s.dirty = false }

// SetRange mutates the segment's limits and marks it dirty.
func (s *Segment) SetRange(begin, end int) {
	s.Begin, s.End = begin, end
	s.dirty = true
}

func (s *Segment) String() string {
	return fmt.Sprintf("[%d-%d]", s.Begin, s.End)
}
