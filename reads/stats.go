package reads

import "github.com/gogo/protobuf/proto"

// CollectStats computes a fresh ReadStats over a batch of alignments. Stats
// are summary data only: owners replace their Stats field wholesale with the
// result, they never adjust counts in place.
func CollectStats(batch []*ReadAlignment) *ReadStats {
	var aligned, unaligned, bases int64
	for _, r := range batch {
		if r.Mapped() {
			aligned++
		} else {
			unaligned++
		}
		if r.AlignedSequence != nil {
			bases += int64(len(*r.AlignedSequence))
		}
	}
	return &ReadStats{
		AlignedReadCount:   proto.Int64(aligned),
		UnalignedReadCount: proto.Int64(unaligned),
		BaseCount:          proto.Int64(bases),
	}
}
