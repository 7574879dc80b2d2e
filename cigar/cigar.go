// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cigar computes coordinate spans and clip totals from CIGAR
// sequences. All functions are pure; they never modify the input.
//
// The span definitions follow the SAM convention: an operation consumes
// reference bases, query bases, both, or neither. ReferenceSpan counts
// operations that consume the reference (alignment match, deletion, skip),
// QuerySpan counts operations that consume the query (match, insertion,
// soft clip). Hard clips and padding consume neither.
package cigar

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// InvalidCigarError reports a malformed CIGAR sequence: a non-positive
// operation length, a hard clip in the interior of the sequence, or an
// operation outside the SAM repertoire.
type InvalidCigarError struct {
	Index  int         // index of the offending operation
	Op     sam.CigarOp // the offending operation
	Reason string
}

func (e *InvalidCigarError) Error() string {
	return fmt.Sprintf("invalid cigar op %v at index %d: %s", e.Op, e.Index, e.Reason)
}

// check verifies the structural validity of c. Hard clips may appear only as
// the very first or very last operation.
func check(c sam.Cigar) error {
	for i, op := range c {
		if op.Type() >= sam.CigarBack {
			return &InvalidCigarError{Index: i, Op: op, Reason: "unsupported operation"}
		}
		if op.Len() <= 0 {
			return &InvalidCigarError{Index: i, Op: op, Reason: "non-positive length"}
		}
		if op.Type() == sam.CigarHardClipped && i != 0 && i != len(c)-1 {
			return &InvalidCigarError{Index: i, Op: op, Reason: "hard clip not at sequence end"}
		}
	}
	return nil
}

// ReferenceSpan returns the number of reference bases covered by c, i.e. the
// distance from the alignment position to the position just past the last
// aligned base. Insertions and clips contribute zero.
func ReferenceSpan(c sam.Cigar) (int, error) {
	if err := check(c); err != nil {
		return 0, err
	}
	span := 0
	for _, op := range c {
		span += op.Len() * op.Type().Consumes().Reference
	}
	return span, nil
}

// QuerySpan returns the number of query (read) bases consumed by c. Soft
// clipped bases are part of the query, hard clipped bases are not.
func QuerySpan(c sam.Cigar) (int, error) {
	if err := check(c); err != nil {
		return 0, err
	}
	span := 0
	for _, op := range c {
		span += op.Len() * op.Type().Consumes().Query
	}
	return span, nil
}

// Clips returns the number of hard-clipped bases at the start and at the end
// of c, separately. Chimeric and supplementary records use hard clips to
// stand in for the part of the read aligned elsewhere, so start+end
// reconciles the aligned sequence length against the full read length.
func Clips(c sam.Cigar) (start, end int, err error) {
	if err = check(c); err != nil {
		return 0, 0, err
	}
	if len(c) > 0 && c[0].Type() == sam.CigarHardClipped {
		start = c[0].Len()
	}
	if len(c) > 1 && c[len(c)-1].Type() == sam.CigarHardClipped {
		end = c[len(c)-1].Len()
	}
	return start, end, nil
}

// FullReadLength returns the length of the conceptual full read described by
// c: the query span plus hard-clipped bases on both ends. For the records of
// one chimeric read this value is the same in every record.
func FullReadLength(c sam.Cigar) (int, error) {
	span, err := QuerySpan(c)
	if err != nil {
		return 0, err
	}
	start, end, err := Clips(c)
	if err != nil {
		return 0, err
	}
	return span + start + end, nil
}
