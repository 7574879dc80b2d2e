// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package reads defines the canonical in-memory representation of sequencing
// reads and their alignments to a reference assembly, following the
// conventions of the SAM alignment format: ReadGroupSet, ReadGroup,
// ReadAlignment, LinearAlignment, Program and ReadStats.
//
// All record types are immutable value types once constructed. Optional
// fields are pointer typed; a nil pointer means the field is absent and
// deserializers reconstruct the documented default (null, empty sequence,
// empty map) when a field is missing from the wire form. Records
// round-trip through encoding/json field for field.
//
// The package enforces the invariants the schema itself cannot express:
// cross-record checks (Validate, ValidateBatch, ValidateReadGroupSet) report
// a list of Violations and never mutate or repair records; callers decide
// whether a violation is fatal. GroupByFragment assembles per-fragment views
// of flat alignment collections for chimeric and multi-segment reads.
//
// CIGAR arithmetic lives in the sibling package cigar; CIGAR operations and
// SAM records are the github.com/grailbio/hts/sam types.
package reads
