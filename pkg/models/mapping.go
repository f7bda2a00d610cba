package models

import "time"

// MappingStatus is the outcome of re-evaluating one thread against a new
// sheet revision.
type MappingStatus string

const (
	// MappingAutoMapped: confidence was high enough to carry the thread
	// forward; the thread's revision field has been advanced.
	MappingAutoMapped MappingStatus = "auto-mapped"
	// MappingNeedsReview: ambiguous score, thread kept at its old revision
	// pending manual reconciliation.
	MappingNeedsReview MappingStatus = "needs-review"
	// MappingObsolete: the region likely no longer exists. The mapping is
	// marked obsolete but the thread itself is left open for human review;
	// we flag, we do not auto-close.
	MappingObsolete MappingStatus = "obsolete"
)

// RevisionMapping records the decision for one thread in a revision-update
// batch.
type RevisionMapping struct {
	ThreadID     string        `json:"thread_id"`
	OldRevision  string        `json:"old_revision"`
	NewRevision  string        `json:"new_revision"`
	Status       MappingStatus `json:"mapping_status"`
	Confidence   float64       `json:"confidence"`
	AISuggestion string        `json:"ai_suggestion,omitempty"`
}

// MappingBatch is the set of mapping decisions produced by one revision
// update of a sheet. Only the most recent batch per sheet is retained;
// earlier batches are superseded, not merged.
type MappingBatch struct {
	SheetID     string            `json:"sheet_id"`
	OldRevision string            `json:"old_revision"`
	NewRevision string            `json:"new_revision"`
	Mappings    []RevisionMapping `json:"mappings"`
	ProcessedAt time.Time         `json:"processed_at"`
}
