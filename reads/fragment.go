package reads

import (
	"fmt"
	"sort"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// nFragmentShard is the number of shards GroupByFragment partitions a batch
// into. Records are assigned to shards by farmhash of the fragment name, so
// all records of one fragment land in the same shard and shards share no
// state.
const nFragmentShard = 16

// FragmentRead is the view of one read (one ReadNumber) of a fragment:
// its designated primary alignment, if any, and its secondary and
// supplementary records in batch order.
type FragmentRead struct {
	// ReadNumber of this read, or -1 when the records carry none.
	ReadNumber int32
	// Primary is the single record with both secondary and supplementary
	// flags false, nil when the batch holds none for this read.
	Primary *ReadAlignment
	// Secondaries holds the secondary and supplementary records in the order
	// they appeared in the input batch. A downstream consumer reconstructs a
	// chimeric alignment from Primary plus the supplementary records here.
	Secondaries []*ReadAlignment
}

// Fragment is the per-template view assembled by GroupByFragment: the
// distinct read numbers observed for one fragment name, in ascending order.
type Fragment struct {
	Name  string
	Reads []FragmentRead

	// firstIdx is the batch index of the fragment's first record, used to
	// keep output order deterministic.
	firstIdx int
}

// Records returns all records of the fragment: for each read the primary
// first, then the secondaries in batch order.
func (f *Fragment) Records() []*ReadAlignment {
	var out []*ReadAlignment
	for i := range f.Reads {
		if f.Reads[i].Primary != nil {
			out = append(out, f.Reads[i].Primary)
		}
		out = append(out, f.Reads[i].Secondaries...)
	}
	return out
}

// AmbiguousPrimaryError reports a (fragmentName, readNumber) group holding
// more than one primary record. Grouping surfaces the ambiguity instead of
// picking a winner; the batch needs fixing upstream.
type AmbiguousPrimaryError struct {
	FragmentName string
	ReadNumber   int32 // -1 when the records carry no read number
}

func (e *AmbiguousPrimaryError) Error() string {
	return fmt.Sprintf("fragment %q read %d: multiple primary alignments",
		e.FragmentName, e.ReadNumber)
}

// GroupByFragment assembles per-fragment views from an unordered batch.
// Fragments are returned in order of first appearance in batch, and within a
// fragment reads are ordered by ascending ReadNumber (absent first). No
// record is lost or duplicated: flattening the views yields exactly the
// input records. Returns an AmbiguousPrimaryError when some read has more
// than one primary record; the error names the first such read in batch
// order.
func GroupByFragment(batch []*ReadAlignment) ([]Fragment, error) {
	shardIdx := make([][]int, nFragmentShard)
	for i, r := range batch {
		s := farm.Hash64([]byte(r.FragmentName)) % nFragmentShard
		shardIdx[s] = append(shardIdx[s], i)
	}
	perShard := make([][]Fragment, nFragmentShard)
	shardErr := make([]*ambiguousPrimaryAt, nFragmentShard)
	if err := traverse.Each(nFragmentShard, func(s int) error {
		perShard[s], shardErr[s] = groupIndices(batch, shardIdx[s])
		return nil
	}); err != nil {
		log.Panicf("group by fragment: %v", err)
	}
	var firstErr *ambiguousPrimaryAt
	for _, e := range shardErr {
		if e != nil && (firstErr == nil || e.idx < firstErr.idx) {
			firstErr = e
		}
	}
	if firstErr != nil {
		return nil, &firstErr.err
	}
	var fragments []Fragment
	for _, fs := range perShard {
		fragments = append(fragments, fs...)
	}
	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].firstIdx < fragments[j].firstIdx
	})
	return fragments, nil
}

// ambiguousPrimaryAt carries the batch index of the second primary so the
// shards' errors merge deterministically.
type ambiguousPrimaryAt struct {
	err AmbiguousPrimaryError
	idx int
}

// groupIndices assembles the fragments for one shard's record indices, which
// are in ascending batch order. It keeps scanning past an ambiguous primary
// so the earliest offending record wins during the merge, but returns at
// most the shard's first ambiguity.
func groupIndices(batch []*ReadAlignment, idx []int) ([]Fragment, *ambiguousPrimaryAt) {
	byName := make(map[string]int) // fragment name -> index into fragments
	var fragments []Fragment
	var ambiguous *ambiguousPrimaryAt
	for _, i := range idx {
		r := batch[i]
		fi, ok := byName[r.FragmentName]
		if !ok {
			fi = len(fragments)
			byName[r.FragmentName] = fi
			fragments = append(fragments, Fragment{Name: r.FragmentName, firstIdx: i})
		}
		f := &fragments[fi]
		readNumber := r.readNumberKey()
		ri := -1
		for j := range f.Reads {
			if f.Reads[j].ReadNumber == readNumber {
				ri = j
				break
			}
		}
		if ri < 0 {
			ri = len(f.Reads)
			f.Reads = append(f.Reads, FragmentRead{ReadNumber: readNumber})
		}
		read := &f.Reads[ri]
		if r.Primary() {
			if read.Primary != nil {
				if ambiguous == nil {
					ambiguous = &ambiguousPrimaryAt{
						err: AmbiguousPrimaryError{FragmentName: r.FragmentName, ReadNumber: readNumber},
						idx: i,
					}
				}
				// Keep the batch flattenable even though the group is
				// ambiguous; the error is surfaced regardless.
				read.Secondaries = append(read.Secondaries, r)
				continue
			}
			read.Primary = r
		} else {
			read.Secondaries = append(read.Secondaries, r)
		}
	}
	for fi := range fragments {
		reads := fragments[fi].Reads
		sort.Slice(reads, func(i, j int) bool { return reads[i].ReadNumber < reads[j].ReadNumber })
	}
	return fragments, ambiguous
}
