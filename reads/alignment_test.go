package reads

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A record built from defaults must survive a serialization round trip field
// for field: absent optionals stay absent, present ones keep their values.
func TestReadAlignmentRoundTrip(t *testing.T) {
	tests := []*ReadAlignment{
		// Minimal record: only the required fields.
		{ReadGroupID: "rg1", FragmentName: "f1"},
		// Fully populated record.
		{
			ID:                        proto.String("a1"),
			ReadGroupID:               "rg1",
			FragmentName:              "f1",
			ProperPlacement:           proto.Bool(true),
			DuplicateFragment:         proto.Bool(false),
			NumberReads:               proto.Int32(2),
			FragmentLength:            proto.Int32(310),
			ReadNumber:                proto.Int32(0),
			FailedVendorQualityChecks: proto.Bool(false),
			Alignment: &LinearAlignment{
				Position:       Position{ReferenceName: "chr1", Position: 12345, ReverseStrand: true},
				MappingQuality: proto.Int32(60),
				Cigar: sam.Cigar{
					sam.NewCigarOp(sam.CigarSoftClipped, 2),
					sam.NewCigarOp(sam.CigarMatch, 8),
				},
			},
			SecondaryAlignment:     proto.Bool(false),
			SupplementaryAlignment: proto.Bool(false),
			AlignedSequence:        proto.String("ACGTACGTAC"),
			AlignedQuality:         []int32{30, 30, 31, 32, 30, 29, 30, 31, 33, 30},
			NextMatePosition:       &Position{ReferenceName: "chr1", Position: 12600},
			Info:                   Info{"origin": {"lane1", "lane2"}},
		},
		// Unmapped read: Alignment stays nil, not a zero value.
		{
			ReadGroupID:  "rg1",
			FragmentName: "f2",
			NumberReads:  proto.Int32(2),
			ReadNumber:   proto.Int32(1),
		},
	}
	for _, r := range tests {
		data, err := json.Marshal(r)
		require.NoError(t, err)
		var got ReadAlignment
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, r, &got)
	}
}

func TestReadGroupSetRoundTrip(t *testing.T) {
	set := &ReadGroupSet{
		ID:        "rgs1",
		DatasetID: proto.String("ds1"),
		Stats:     &ReadStats{AlignedReadCount: proto.Int64(100)},
		ReadGroups: []ReadGroup{
			{
				ID:                  "rg1",
				SampleID:            proto.String("sample1"),
				PredictedInsertSize: proto.Int32(320),
				Created:             proto.Int64(1500000000000),
				Updated:             proto.Int64(1500000003600),
				Programs: []Program{
					{ID: proto.String("p1"), Name: proto.String("aligner"), Version: proto.String("2.1")},
					{ID: proto.String("p2"), PrevProgramID: proto.String("p1")},
				},
				ReferenceSetID: proto.String("GRCh38"),
				Info:           Info{"flowcell": {"HHK5TCCXY"}},
			},
			{ID: "rg2"},
		},
	}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	var got ReadGroupSet
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, set, &got)

	// Absent optionals deserialize to their defaults, not an error.
	var minimal ReadGroupSet
	require.NoError(t, json.Unmarshal([]byte(`{"id":"rgs2"}`), &minimal))
	assert.Equal(t, ReadGroupSet{ID: "rgs2"}, minimal)
	assert.Nil(t, minimal.Stats)
	assert.Nil(t, minimal.ReadGroups)
}

func TestFlagAccessors(t *testing.T) {
	r := mapped("rg1", "f1", 0, 100)
	assert.True(t, r.Mapped())
	assert.True(t, r.Primary())
	assert.False(t, r.Secondary())
	assert.False(t, r.Supplementary())

	r.SecondaryAlignment = proto.Bool(true)
	assert.True(t, r.Secondary())
	assert.False(t, r.Primary())

	// For an unmapped read the flags are meaningless and read back false.
	r.Alignment = nil
	assert.False(t, r.Mapped())
	assert.False(t, r.Secondary())
	assert.True(t, r.Primary())
}

func TestKey(t *testing.T) {
	r := mapped("rg1", "f1", 1, 100)
	r.SupplementaryAlignment = proto.Bool(true)
	assert.Equal(t, Key{
		ReadGroupID:   "rg1",
		FragmentName:  "f1",
		ReadNumber:    1,
		Supplementary: true,
	}, r.Key())

	// Absent read number maps to the -1 sentinel.
	r.ReadNumber = nil
	assert.Equal(t, int32(-1), r.Key().ReadNumber)
}

func TestLinearAlignmentSpans(t *testing.T) {
	a := &LinearAlignment{
		Position: Position{ReferenceName: "chr1", Position: 100},
		Cigar: sam.Cigar{
			sam.NewCigarOp(sam.CigarMatch, 5),
			sam.NewCigarOp(sam.CigarDeletion, 2),
			sam.NewCigarOp(sam.CigarInsertion, 3),
		},
	}
	refSpan, err := a.ReferenceSpan()
	require.NoError(t, err)
	assert.Equal(t, 7, refSpan)
	querySpan, err := a.QuerySpan()
	require.NoError(t, err)
	assert.Equal(t, 8, querySpan)
}

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Position{"chr1", 100, false}, Position{"chr1", 100, false}, 0},
		{Position{"chr1", 100, false}, Position{"chr1", 200, false}, -1},
		{Position{"chr1", 200, false}, Position{"chr1", 100, false}, 1},
		{Position{"chr1", 100, false}, Position{"chr2", 0, false}, -1},
		{Position{"chr1", 100, false}, Position{"chr1", 100, true}, -1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.a.Compare(test.b), "%v vs %v", test.a, test.b)
		assert.Equal(t, test.want < 0, test.a.LT(test.b))
		assert.Equal(t, test.want == 0, test.a.EQ(test.b))
	}
	assert.Equal(t, Position{"chr1", 100, false},
		Position{"chr1", 100, false}.Min(Position{"chr1", 200, false}))
}

func TestInfo(t *testing.T) {
	info := Info{"b": {"2"}, "a": {"1", "3"}}
	assert.Equal(t, []string{"a", "b"}, info.Keys())

	clone := info.Clone()
	assert.Equal(t, info, clone)
	clone["a"][0] = "changed"
	assert.Equal(t, "1", info["a"][0])

	assert.Nil(t, Info(nil).Clone())
}
