package models

import "time"

// AuditSummary holds the thread counts of one export, computed over the
// final filtered set.
type AuditSummary struct {
	TotalThreads    int `json:"total_threads"`
	OpenThreads     int `json:"open_threads"`
	ResolvedThreads int `json:"resolved_threads"`
	ObsoleteThreads int `json:"obsolete_threads"`
}

// AuditExport is a point-in-time snapshot of thread state for compliance or
// reporting. It is a value returned to the caller; the engine never
// persists it, and its Threads are deep copies detached from the live
// store.
type AuditExport struct {
	ExportID   string       `json:"export_id"`
	ProjectID  string       `json:"project_id"`
	SheetID    string       `json:"sheet_id,omitempty"`
	Revision   string       `json:"revision,omitempty"`
	Threads    []Thread     `json:"threads"`
	ExportedAt time.Time    `json:"exported_at"`
	ExportedBy string       `json:"exported_by"`
	Summary    AuditSummary `json:"summary"`
}
