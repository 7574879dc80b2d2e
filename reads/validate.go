package reads

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/readmodel/cigar"
)

// ViolationKind identifies one invariant a record or batch can break.
type ViolationKind int

const (
	// UnknownReadGroup: ReadAlignment.ReadGroupID does not resolve in the
	// validation context.
	UnknownReadGroup ViolationKind = iota
	// ReadNumberOutOfRange: ReadNumber is negative, NumberReads is
	// non-positive, or ReadNumber >= NumberReads when both are present.
	ReadNumberOutOfRange
	// QualityLengthMismatch: non-empty AlignedQuality whose length differs
	// from the AlignedSequence length.
	QualityLengthMismatch
	// DuplicatePrimaryAlignment: more than one record in a batch shares
	// (FragmentName, ReadNumber) with both secondary and supplementary
	// flags false.
	DuplicatePrimaryAlignment
	// ReferenceSetConflict: sibling read groups in one ReadGroupSet declare
	// different non-nil reference sets.
	ReferenceSetConflict
	// MissingReferenceSet: a read group owns mapped alignments but declares
	// no reference set.
	MissingReferenceSet
	// InvalidStats: a negative count in ReadStats.
	InvalidStats
	// InvalidTimestamps: ReadGroup.Updated earlier than ReadGroup.Created.
	InvalidTimestamps
	// InvalidCigar: a mapped alignment whose CIGAR fails structural checks
	// (non-positive length, misplaced hard clip).
	InvalidCigar
	// DuplicateReadGroupID: two read groups in one ReadGroupSet share an ID.
	DuplicateReadGroupID
	// InvalidQuality: a negative MappingQuality or a negative base quality
	// in AlignedQuality. Qualities are round(-10*log10(Perr)) and cannot go
	// below zero.
	InvalidQuality
)

var violationKindNames = []string{
	UnknownReadGroup:          "UnknownReadGroup",
	ReadNumberOutOfRange:      "ReadNumberOutOfRange",
	QualityLengthMismatch:     "QualityLengthMismatch",
	DuplicatePrimaryAlignment: "DuplicatePrimaryAlignment",
	ReferenceSetConflict:      "ReferenceSetConflict",
	MissingReferenceSet:       "MissingReferenceSet",
	InvalidStats:              "InvalidStats",
	InvalidTimestamps:         "InvalidTimestamps",
	InvalidCigar:              "InvalidCigar",
	DuplicateReadGroupID:      "DuplicateReadGroupID",
	InvalidQuality:            "InvalidQuality",
}

func (k ViolationKind) String() string {
	if int(k) < len(violationKindNames) {
		return violationKindNames[k]
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation reports one broken invariant. Validation is advisory: violations
// are collected and returned, never repaired, and a violation in one record
// does not stop validation of the rest of a batch. The caller decides
// whether violations reject the batch or are merely logged.
type Violation struct {
	Kind ViolationKind
	// Subject identifies the offending record or group: an alignment's Key,
	// a read group ID, or a (fragmentName, readNumber) pair.
	Subject string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Kind, v.Subject, v.Message)
}

func violationf(kind ViolationKind, subject string, format string, args ...interface{}) Violation {
	return Violation{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Context supplies the cross-record lookups validation needs. The validator
// only reads through it; implementations must be safe for concurrent reads.
type Context interface {
	// ReadGroup resolves a read group ID.
	ReadGroup(id string) (*ReadGroup, bool)
}

// SetContext returns a Context backed by the read groups of set. When the
// set holds duplicate read group IDs (a DuplicateReadGroupID violation) the
// last group with an ID wins the lookup.
func SetContext(set *ReadGroupSet) Context {
	groups := make(map[string]*ReadGroup, len(set.ReadGroups))
	for i := range set.ReadGroups {
		groups[set.ReadGroups[i].ID] = &set.ReadGroups[i]
	}
	return setContext(groups)
}

type setContext map[string]*ReadGroup

func (c setContext) ReadGroup(id string) (*ReadGroup, bool) {
	g, ok := c[id]
	return g, ok
}

func validateStats(s *ReadStats, subject string) []Violation {
	if s == nil {
		return nil
	}
	var violations []Violation
	for _, c := range []struct {
		name  string
		count *int64
	}{
		{"alignedReadCount", s.AlignedReadCount},
		{"unalignedReadCount", s.UnalignedReadCount},
		{"baseCount", s.BaseCount},
	} {
		if c.count != nil && *c.count < 0 {
			violations = append(violations, violationf(InvalidStats, subject,
				"%s is negative: %d", c.name, *c.count))
		}
	}
	return violations
}

// Validate checks the per-record invariants of a single alignment: the read
// group must resolve in ctx, ReadNumber must fall inside NumberReads,
// non-empty AlignedQuality must match the AlignedSequence length, qualities
// must be non-negative, and a mapped record's CIGAR must be structurally
// valid. A malformed CIGAR is
// fatal to span computations but is only one more violation here; checking
// continues past it.
func Validate(r *ReadAlignment, ctx Context) []Violation {
	subject := fmt.Sprintf("%s/%s", r.ReadGroupID, r.FragmentName)
	var violations []Violation
	if _, ok := ctx.ReadGroup(r.ReadGroupID); !ok {
		violations = append(violations, violationf(UnknownReadGroup, subject,
			"read group %q not found", r.ReadGroupID))
	}
	if r.ReadNumber != nil && *r.ReadNumber < 0 {
		violations = append(violations, violationf(ReadNumberOutOfRange, subject,
			"readNumber %d is negative", *r.ReadNumber))
	}
	if r.NumberReads != nil && *r.NumberReads <= 0 {
		violations = append(violations, violationf(ReadNumberOutOfRange, subject,
			"numberReads %d is not positive", *r.NumberReads))
	} else if r.ReadNumber != nil && r.NumberReads != nil && *r.ReadNumber >= *r.NumberReads {
		violations = append(violations, violationf(ReadNumberOutOfRange, subject,
			"readNumber %d not in [0, %d)", *r.ReadNumber, *r.NumberReads))
	}
	if r.AlignedSequence != nil && len(r.AlignedQuality) > 0 &&
		len(r.AlignedQuality) != len(*r.AlignedSequence) {
		violations = append(violations, violationf(QualityLengthMismatch, subject,
			"alignedQuality length %d != alignedSequence length %d",
			len(r.AlignedQuality), len(*r.AlignedSequence)))
	}
	for i, q := range r.AlignedQuality {
		if q < 0 {
			violations = append(violations, violationf(InvalidQuality, subject,
				"alignedQuality[%d] is negative: %d", i, q))
			break
		}
	}
	if r.Alignment != nil {
		if q := r.Alignment.MappingQuality; q != nil && *q < 0 {
			violations = append(violations, violationf(InvalidQuality, subject,
				"mappingQuality is negative: %d", *q))
		}
		if _, err := cigar.ReferenceSpan(r.Alignment.Cigar); err != nil {
			violations = append(violations, violationf(InvalidCigar, subject, "%v", err))
		}
	}
	return violations
}

// ValidateReadGroupSet checks the invariants internal to a read group set:
// read group IDs are unique within the set, stats counts are non-negative,
// timestamps are ordered, and every read group that declares a reference set
// agrees on the value.
func ValidateReadGroupSet(set *ReadGroupSet) []Violation {
	violations := validateStats(set.Stats, set.ID)
	seenID := make(map[string]bool, len(set.ReadGroups))
	var refSet string
	var refSetGroup string
	for i := range set.ReadGroups {
		g := &set.ReadGroups[i]
		subject := fmt.Sprintf("%s/%s", set.ID, g.ID)
		if seenID[g.ID] {
			violations = append(violations, violationf(DuplicateReadGroupID, subject,
				"read group ID %q is not unique within the set", g.ID))
		}
		seenID[g.ID] = true
		violations = append(violations, validateStats(g.Stats, subject)...)
		if g.Created != nil && g.Updated != nil && *g.Updated < *g.Created {
			violations = append(violations, violationf(InvalidTimestamps, subject,
				"updated %d earlier than created %d", *g.Updated, *g.Created))
		}
		if g.ReferenceSetID == nil {
			continue
		}
		if refSetGroup == "" {
			refSet, refSetGroup = *g.ReferenceSetID, g.ID
		} else if *g.ReferenceSetID != refSet {
			violations = append(violations, violationf(ReferenceSetConflict, subject,
				"reference set %q conflicts with %q declared by read group %q",
				*g.ReferenceSetID, refSet, refSetGroup))
		}
	}
	return violations
}

// ValidateBatch validates every alignment in batch against ctx and then
// applies the cross-record checks: at most one primary record per
// (FragmentName, ReadNumber), and a read group owning mapped alignments must
// declare a reference set. Per-record checks run in parallel; the returned
// violations are deterministic given a fixed input order (per-record
// violations in input order, then one DuplicatePrimaryAlignment per
// offending group and one MissingReferenceSet per offending read group, each
// in first-occurrence order).
func ValidateBatch(batch []*ReadAlignment, ctx Context) []Violation {
	perRecord := make([][]Violation, len(batch))
	if err := traverse.Each(len(batch), func(i int) error {
		perRecord[i] = Validate(batch[i], ctx)
		return nil
	}); err != nil {
		log.Panicf("validate batch: %v", err)
	}
	var violations []Violation
	for _, v := range perRecord {
		violations = append(violations, v...)
	}
	violations = append(violations, validatePrimaries(batch)...)
	violations = append(violations, validateReferenceSets(batch, ctx)...)
	return violations
}

type fragmentReadKey struct {
	fragmentName string
	readNumber   int32
}

func (k fragmentReadKey) String() string {
	return fmt.Sprintf("%s/%d", k.fragmentName, k.readNumber)
}

// validatePrimaries reports one DuplicatePrimaryAlignment per
// (fragmentName, readNumber) group holding more than one primary record.
func validatePrimaries(batch []*ReadAlignment) []Violation {
	primaries := make(map[fragmentReadKey]int, len(batch))
	var order []fragmentReadKey
	for _, r := range batch {
		if !r.Primary() {
			continue
		}
		key := fragmentReadKey{r.FragmentName, r.readNumberKey()}
		if primaries[key] == 0 {
			order = append(order, key)
		}
		primaries[key]++
	}
	var violations []Violation
	for _, key := range order {
		if n := primaries[key]; n > 1 {
			violations = append(violations, violationf(DuplicatePrimaryAlignment, key.String(),
				"%d primary alignments for one read", n))
		}
	}
	return violations
}

// validateReferenceSets reports one MissingReferenceSet per read group that
// owns a mapped alignment in batch but declares no reference set. Unknown
// read groups are skipped here; Validate already reported them.
func validateReferenceSets(batch []*ReadAlignment, ctx Context) []Violation {
	seen := make(map[string]bool)
	var violations []Violation
	for _, r := range batch {
		if !r.Mapped() || seen[r.ReadGroupID] {
			continue
		}
		seen[r.ReadGroupID] = true
		g, ok := ctx.ReadGroup(r.ReadGroupID)
		if !ok {
			continue
		}
		if g.ReferenceSetID == nil {
			violations = append(violations, violationf(MissingReferenceSet, g.ID,
				"read group has mapped alignments but no reference set"))
		}
	}
	return violations
}
