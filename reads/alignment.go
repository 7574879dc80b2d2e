package reads

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readmodel/cigar"
)

// LinearAlignment maps a read to one contiguous region of the reference.
type LinearAlignment struct {
	// Position of the first aligned base.
	Position Position `json:"position"`
	// MappingQuality is round(-10 * log10(P)) where P is the probability the
	// alignment position is wrong. Non-negative when present. Code that
	// computes or checks this field must preserve that exact semantic; it is
	// not an opaque score.
	MappingQuality *int32 `json:"mappingQuality,omitempty"`
	// Cigar describes the alignment left to right. Empty means the detailed
	// alignment is unknown.
	Cigar sam.Cigar `json:"cigar,omitempty"`
}

// ReferenceSpan returns the number of reference bases this alignment covers.
func (a *LinearAlignment) ReferenceSpan() (int, error) {
	return cigar.ReferenceSpan(a.Cigar)
}

// QuerySpan returns the number of read bases this alignment consumes.
func (a *LinearAlignment) QuerySpan() (int, error) {
	return cigar.QuerySpan(a.Cigar)
}

// ReadAlignment is one read from a fragment and, when mapped, its linear
// alignment. Records are produced by an aligner or imported from a
// SAM/BAM-equivalent source and are immutable after creation; they are
// retired only together with their owning read group set.
type ReadAlignment struct {
	// ID is assigned by the backend and unique only within the scope of
	// ReadGroupID. It may be absent; see Key for the fallback identity.
	ID *string `json:"id,omitempty"`
	// ReadGroupID names the owning ReadGroup. Required.
	ReadGroupID string `json:"readGroupId"`
	// FragmentName groups the reads derived from one physical template.
	// Required.
	FragmentName string `json:"fragmentName"`
	// ProperPlacement is true when the fragment was aligned consistently
	// with its mate, per the aligner.
	ProperPlacement *bool `json:"properPlacement,omitempty"`
	// DuplicateFragment marks PCR or optical duplicates.
	DuplicateFragment *bool `json:"duplicateFragment,omitempty"`
	// NumberReads is the number of reads in the fragment, > 0 when present.
	// NumberReads may be absent while ReadNumber is present (and vice
	// versa); that state is permitted and no default is inferred.
	NumberReads *int32 `json:"numberReads,omitempty"`
	// FragmentLength is the observed template length.
	FragmentLength *int32 `json:"fragmentLength,omitempty"`
	// ReadNumber is the 0-based index of this read within the fragment,
	// in [0, NumberReads) when both are present.
	ReadNumber *int32 `json:"readNumber,omitempty"`
	// FailedVendorQualityChecks mirrors the SAM QC-fail flag.
	FailedVendorQualityChecks *bool `json:"failedVendorQualityChecks,omitempty"`
	// Alignment is nil for unmapped reads. When nil, the secondary and
	// supplementary flags carry no meaning and read back as false.
	Alignment *LinearAlignment `json:"alignment,omitempty"`
	// SecondaryAlignment marks an alternate mapping of a read whose primary
	// mapping is represented by another record.
	SecondaryAlignment *bool `json:"secondaryAlignment,omitempty"`
	// SupplementaryAlignment marks one piece of a chimeric read. The records
	// of a chimeric read share a FragmentName and ReadNumber, and hard clips
	// in each record's CIGAR account for the bases aligned in the others.
	SupplementaryAlignment *bool `json:"supplementaryAlignment,omitempty"`
	// AlignedSequence holds the read bases consumed by the CIGAR: soft
	// clipped bases included, hard clipped bases excluded.
	AlignedSequence *string `json:"alignedSequence,omitempty"`
	// AlignedQuality holds per-base quality, parallel to AlignedSequence.
	// When AlignedSequence is present and AlignedQuality is non-empty, the
	// lengths must match.
	AlignedQuality []int32 `json:"alignedQuality,omitempty"`
	// NextMatePosition is the mapped position of the next read in the
	// fragment, nil when unpaired or the mate is unmapped.
	NextMatePosition *Position `json:"nextMatePosition,omitempty"`
	Info             Info      `json:"info,omitempty"`
}

// Mapped returns true when the read has a linear alignment.
func (r *ReadAlignment) Mapped() bool {
	return r.Alignment != nil
}

// Secondary returns the secondary flag, treating absent as false. The flag
// is meaningless for unmapped reads and reads back as false.
func (r *ReadAlignment) Secondary() bool {
	return r.Alignment != nil && r.SecondaryAlignment != nil && *r.SecondaryAlignment
}

// Supplementary returns the supplementary flag, treating absent as false.
// Like Secondary, it reads back as false for unmapped reads.
func (r *ReadAlignment) Supplementary() bool {
	return r.Alignment != nil && r.SupplementaryAlignment != nil && *r.SupplementaryAlignment
}

// Primary returns true when this record is the single representative
// alignment for its (FragmentName, ReadNumber): neither secondary nor
// supplementary. Within one such group at most one record may be primary.
func (r *ReadAlignment) Primary() bool {
	return !r.Secondary() && !r.Supplementary()
}

// readNumberAbsent is the ReadNumber sentinel used in grouping and
// validation keys when the field is absent.
const readNumberAbsent = int32(-1)

func (r *ReadAlignment) readNumberKey() int32 {
	if r.ReadNumber == nil {
		return readNumberAbsent
	}
	return *r.ReadNumber
}

// Key is the effective identity of a ReadAlignment when ID is absent.
// Backends may omit IDs, so grouping and validation never depend on them.
type Key struct {
	ReadGroupID   string
	FragmentName  string
	ReadNumber    int32 // -1 when absent
	Secondary     bool
	Supplementary bool
}

// Key returns the effective identity of r.
func (r *ReadAlignment) Key() Key {
	return Key{
		ReadGroupID:   r.ReadGroupID,
		FragmentName:  r.FragmentName,
		ReadNumber:    r.readNumberKey(),
		Secondary:     r.Secondary(),
		Supplementary: r.Supplementary(),
	}
}
