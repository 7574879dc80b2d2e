package reads

// Program records one step of the processing pipeline that produced a read
// group. All fields are optional provenance strings.
type Program struct {
	// CommandLine is the command line used to run this program.
	CommandLine *string `json:"commandLine,omitempty"`
	// ID is unique within the containing read group's Programs sequence.
	ID *string `json:"id,omitempty"`
	// Name is the display name of the program, typically the tool name.
	Name *string `json:"name,omitempty"`
	// PrevProgramID is the ID of the program run before this one.
	PrevProgramID *string `json:"prevProgramId,omitempty"`
	// Version of the program run.
	Version *string `json:"version,omitempty"`
}

// ReadStats is a summary of the reads owned by a read group or read group
// set. Stats are never updated incrementally; they are recomputed from the
// alignments and replaced wholesale (see CollectStats). Counts are
// non-negative when present.
type ReadStats struct {
	AlignedReadCount   *int64 `json:"alignedReadCount,omitempty"`
	UnalignedReadCount *int64 `json:"unalignedReadCount,omitempty"`
	// BaseCount is the total number of bases across all owned reads.
	BaseCount *int64 `json:"baseCount,omitempty"`
}

// ReadGroup is a set of reads derived from one physical sequencing process.
// A read group is created as part of building its owning ReadGroupSet and is
// immutable thereafter except for wholesale Stats replacement.
type ReadGroup struct {
	// ID is unique within the owning ReadGroupSet. Required.
	ID string `json:"id"`
	// DatasetID identifies the dataset this read group belongs to.
	DatasetID *string `json:"datasetId,omitempty"`
	Name      *string `json:"name,omitempty"`
	// Description is free text about the read group.
	Description *string `json:"description,omitempty"`
	// SampleID identifies the sample the reads were derived from.
	SampleID *string `json:"sampleId,omitempty"`
	// ExperimentID refers to the sequencing experiment; experiment metadata
	// itself is owned elsewhere.
	ExperimentID *string `json:"experimentId,omitempty"`
	// PredictedInsertSize is the expected template length for paired reads.
	PredictedInsertSize *int32 `json:"predictedInsertSize,omitempty"`
	// Created and Updated are epoch milliseconds. When both are present,
	// Updated >= Created.
	Created *int64 `json:"created,omitempty"`
	Updated *int64 `json:"updated,omitempty"`
	// Stats summarizes the reads in this read group.
	Stats *ReadStats `json:"stats,omitempty"`
	// Programs lists the pipeline steps that produced this read group, in
	// execution order.
	Programs []Program `json:"programs,omitempty"`
	// ReferenceSetID names the reference assembly the owned alignments map
	// against. It is fixed at creation, must agree with sibling read groups
	// in the same set, and is required once any owned ReadAlignment carries
	// an Alignment.
	ReferenceSetID *string `json:"referenceSetId,omitempty"`
	Info           Info    `json:"info,omitempty"`
}

// ReadGroupSet is a logical collection of read groups sharing provenance,
// typically one sequencing run. A set maps to exactly one reference
// assembly: every contained read group with a non-nil ReferenceSetID must
// agree on the value.
type ReadGroupSet struct {
	// ID is required.
	ID        string  `json:"id"`
	DatasetID *string `json:"datasetId,omitempty"`
	Name      *string `json:"name,omitempty"`
	// Stats summarizes all reads in the set.
	Stats *ReadStats `json:"stats,omitempty"`
	// ReadGroups in insertion order.
	ReadGroups []ReadGroup `json:"readGroups,omitempty"`
}

// ReferenceSetID returns the single reference set the contained read groups
// agree on, or false when no group declares one. When groups conflict the
// first declared value is returned; ValidateReadGroupSet reports the
// conflict.
func (s *ReadGroupSet) ReferenceSetID() (string, bool) {
	for i := range s.ReadGroups {
		if id := s.ReadGroups[i].ReferenceSetID; id != nil {
			return *id, true
		}
	}
	return "", false
}

// ReadGroup returns the contained read group with the given ID.
func (s *ReadGroupSet) ReadGroup(id string) (*ReadGroup, bool) {
	for i := range s.ReadGroups {
		if s.ReadGroups[i].ID == id {
			return &s.ReadGroups[i], true
		}
	}
	return nil, false
}
