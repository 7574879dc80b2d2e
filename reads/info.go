package reads

import "sort"

// Info is the open extension point carried by read groups and alignments:
// string keys mapping to ordered sequences of string values. The key set is
// unordered (encoding/json emits keys sorted, so the wire form stays
// deterministic); the value order within a key is preserved.
type Info map[string][]string

// Keys returns the keys of i in sorted order.
func (i Info) Keys() []string {
	keys := make([]string, 0, len(i))
	for k := range i {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of i. Records are immutable once constructed, so
// a builder that starts from an existing record must copy its Info first.
func (i Info) Clone() Info {
	if i == nil {
		return nil
	}
	c := make(Info, len(i))
	for k, vs := range i {
		c[k] = append([]string(nil), vs...)
	}
	return c
}
