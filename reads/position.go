package reads

// This file adds comparison methods to Position so downstream consumers can
// sort alignments without reimplementing coordinate ordering.

import "strings"

// Position is a 0-based offset into a named reference sequence, on the
// forward or reverse strand. Offsets are plain base coordinates; no unit
// conversion is performed anywhere in this package.
type Position struct {
	// ReferenceName names the contig within the reference assembly declared
	// by the owning read group's ReferenceSetID.
	ReferenceName string `json:"referenceName,omitempty"`
	// Position is the 0-based offset of the first aligned base.
	Position int64 `json:"position"`
	// ReverseStrand is true when the alignment maps to the reverse strand.
	ReverseStrand bool `json:"reverseStrand,omitempty"`
}

// Compare returns (negative int, 0, positive int) if (p<p1, p=p1, p>p1)
// respectively. Ordering is by reference name, then offset, with the forward
// strand before the reverse strand.
func (p Position) Compare(p1 Position) int {
	if c := strings.Compare(p.ReferenceName, p1.ReferenceName); c != 0 {
		return c
	}
	if p.Position != p1.Position {
		if p.Position < p1.Position {
			return -1
		}
		return 1
	}
	switch {
	case p.ReverseStrand == p1.ReverseStrand:
		return 0
	case p1.ReverseStrand:
		return -1
	default:
		return 1
	}
}

// LT returns true iff p < p1.
func (p Position) LT(p1 Position) bool {
	return p.Compare(p1) < 0
}

// EQ returns true iff p = p1.
func (p Position) EQ(p1 Position) bool {
	return p == p1
}

// Min returns the smaller of p and p1.
func (p Position) Min(p1 Position) Position {
	if p.LT(p1) {
		return p
	}
	return p1
}
