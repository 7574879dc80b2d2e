package reads

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alignment(fragmentName string, readNumber int32, secondary, supplementary bool, pos int64) *ReadAlignment {
	r := mapped("rg1", fragmentName, readNumber, pos)
	if secondary {
		r.SecondaryAlignment = proto.Bool(true)
	}
	if supplementary {
		r.SupplementaryAlignment = proto.Bool(true)
	}
	return r
}

func TestGroupByFragment(t *testing.T) {
	// A paired fragment where read 1 is chimeric, plus a second fragment
	// with a secondary mapping of its only read.
	f1r0 := alignment("f1", 0, false, false, 100)
	f1r1 := alignment("f1", 1, false, false, 300)
	f1r1supp := alignment("f1", 1, false, true, 90000)
	f2r0 := alignment("f2", 0, false, false, 500)
	f2r0sec := alignment("f2", 0, true, false, 700)
	batch := []*ReadAlignment{f1r0, f2r0sec, f1r1supp, f1r1, f2r0}

	fragments, err := GroupByFragment(batch)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	// Fragments come back in order of first appearance.
	expect.EQ(t, fragments[0].Name, "f1")
	expect.EQ(t, fragments[1].Name, "f2")

	require.Len(t, fragments[0].Reads, 2)
	expect.EQ(t, fragments[0].Reads[0].ReadNumber, int32(0))
	assert.True(t, fragments[0].Reads[0].Primary == f1r0)
	assert.Empty(t, fragments[0].Reads[0].Secondaries)
	expect.EQ(t, fragments[0].Reads[1].ReadNumber, int32(1))
	assert.True(t, fragments[0].Reads[1].Primary == f1r1)
	assert.Equal(t, []*ReadAlignment{f1r1supp}, fragments[0].Reads[1].Secondaries)

	require.Len(t, fragments[1].Reads, 1)
	assert.True(t, fragments[1].Reads[0].Primary == f2r0)
	assert.Equal(t, []*ReadAlignment{f2r0sec}, fragments[1].Reads[0].Secondaries)
}

// Flattening the fragment views must yield exactly the input records, none
// lost, none duplicated.
func TestGroupByFragmentLossless(t *testing.T) {
	var batch []*ReadAlignment
	names := []string{"fragA", "fragB", "fragC", "fragD", "fragE"}
	for i, name := range names {
		batch = append(batch,
			alignment(name, 0, false, false, int64(100*i)),
			alignment(name, 1, false, false, int64(100*i+50)),
			alignment(name, 0, true, false, int64(9000+100*i)),
			alignment(name, 1, false, true, int64(12000+100*i)),
		)
	}
	fragments, err := GroupByFragment(batch)
	require.NoError(t, err)
	require.Len(t, fragments, len(names))

	seen := make(map[*ReadAlignment]int)
	total := 0
	for i := range fragments {
		for _, r := range fragments[i].Records() {
			seen[r]++
			total++
		}
	}
	assert.Equal(t, len(batch), total)
	for _, r := range batch {
		assert.Equal(t, 1, seen[r], "fragment %s", r.FragmentName)
	}
}

func TestGroupByFragmentAmbiguousPrimary(t *testing.T) {
	batch := []*ReadAlignment{
		alignment("f1", 0, false, false, 100),
		alignment("f1", 0, false, false, 200),
	}
	fragments, err := GroupByFragment(batch)
	assert.Nil(t, fragments)
	require.Error(t, err)
	ambiguous, ok := err.(*AmbiguousPrimaryError)
	require.True(t, ok)
	expect.EQ(t, ambiguous.FragmentName, "f1")
	expect.EQ(t, ambiguous.ReadNumber, int32(0))
}

// Records without IDs and without read numbers still group correctly, using
// the effective (fragmentName, readNumber, flags) identity.
func TestGroupByFragmentAbsentFields(t *testing.T) {
	unmapped := &ReadAlignment{ReadGroupID: "rg1", FragmentName: "f1"}
	supp := alignment("f1", 0, false, true, 100)
	fragments, err := GroupByFragment([]*ReadAlignment{supp, unmapped})
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	require.Len(t, fragments[0].Reads, 2)
	// Absent read number sorts first.
	expect.EQ(t, fragments[0].Reads[0].ReadNumber, int32(-1))
	assert.True(t, fragments[0].Reads[0].Primary == unmapped)
	expect.EQ(t, fragments[0].Reads[1].ReadNumber, int32(0))
	assert.Nil(t, fragments[0].Reads[1].Primary)
	assert.Equal(t, []*ReadAlignment{supp}, fragments[0].Reads[1].Secondaries)
}
