package reads

import (
	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// unknownMapQ is the SAM sentinel for an unavailable mapping quality.
const unknownMapQ = 0xff

// FromSAMRecord converts an in-memory hts record into a ReadAlignment owned
// by the given read group. Flag bits map onto the boolean fields, MapQ onto
// MappingQuality, and the mate's reference and position onto
// NextMatePosition. Only fields the record actually carries are set; the
// rest stay absent.
func FromSAMRecord(r *sam.Record, readGroupID string) (*ReadAlignment, error) {
	if r.Name == "" {
		return nil, errors.E("sam record has no name, cannot derive fragment name")
	}
	if readGroupID == "" {
		return nil, errors.E("empty read group id for record", r.Name)
	}
	out := &ReadAlignment{
		ReadGroupID:  readGroupID,
		FragmentName: r.Name,
	}
	paired := r.Flags&sam.Paired != 0
	if paired {
		out.NumberReads = proto.Int32(2)
		if r.Flags&sam.Read2 != 0 {
			out.ReadNumber = proto.Int32(1)
		} else {
			out.ReadNumber = proto.Int32(0)
		}
		if r.Flags&sam.ProperPair != 0 {
			out.ProperPlacement = proto.Bool(true)
		}
		if r.TempLen != 0 {
			out.FragmentLength = proto.Int32(int32(r.TempLen))
		}
	} else {
		out.NumberReads = proto.Int32(1)
		out.ReadNumber = proto.Int32(0)
	}
	if r.Flags&sam.Duplicate != 0 {
		out.DuplicateFragment = proto.Bool(true)
	}
	if r.Flags&sam.QCFail != 0 {
		out.FailedVendorQualityChecks = proto.Bool(true)
	}
	if seq := r.Seq.Expand(); len(seq) > 0 {
		out.AlignedSequence = proto.String(string(seq))
	}
	if len(r.Qual) > 0 {
		qual := make([]int32, len(r.Qual))
		for i, q := range r.Qual {
			qual[i] = int32(q)
		}
		out.AlignedQuality = qual
	}
	if r.Flags&sam.Unmapped == 0 && r.Ref != nil {
		alignment := &LinearAlignment{
			Position: Position{
				ReferenceName: r.Ref.Name(),
				Position:      int64(r.Pos),
				ReverseStrand: r.Flags&sam.Reverse != 0,
			},
			Cigar: append(sam.Cigar(nil), r.Cigar...),
		}
		if r.MapQ != unknownMapQ {
			alignment.MappingQuality = proto.Int32(int32(r.MapQ))
		}
		out.Alignment = alignment
		if r.Flags&sam.Secondary != 0 {
			out.SecondaryAlignment = proto.Bool(true)
		}
		if r.Flags&sam.Supplementary != 0 {
			out.SupplementaryAlignment = proto.Bool(true)
		}
	}
	if paired && r.Flags&sam.MateUnmapped == 0 && r.MateRef != nil {
		out.NextMatePosition = &Position{
			ReferenceName: r.MateRef.Name(),
			Position:      int64(r.MatePos),
			ReverseStrand: r.Flags&sam.MateReverse != 0,
		}
	}
	return out, nil
}
