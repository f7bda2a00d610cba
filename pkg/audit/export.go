// Package audit produces point-in-time, filterable snapshots of thread
// state for compliance and reporting. Exports are pure reads: the engine
// never stores them, and the snapshot stays intact no matter what happens
// to the live store afterwards.
package audit

import (
	"redline/pkg/logger"
	"redline/pkg/models"
	"redline/pkg/telemetry"
	"redline/pkg/threads"
	"redline/pkg/utils"
)

// Exporter builds audit exports over a thread store.
type Exporter struct {
	store *threads.Store
}

// NewExporter builds an Exporter over the given store.
func NewExporter(store *threads.Store) *Exporter {
	return &Exporter{store: store}
}

// Export snapshots the threads of a project, progressively narrowed by
// sheet and revision when those filters are non-empty. Summary counts are
// computed over the final filtered set.
func (e *Exporter) Export(projectID, sheetID, revision, exportedBy string) models.AuditExport {
	all := e.store.GetThreadsByProject(projectID)

	filtered := make([]models.Thread, 0, len(all))
	for _, t := range all {
		if sheetID != "" && t.SheetID != sheetID {
			continue
		}
		if revision != "" && t.Revision != revision {
			continue
		}
		filtered = append(filtered, t)
	}

	out := models.AuditExport{
		ExportID:   utils.GenExternalID("export"),
		ProjectID:  projectID,
		SheetID:    sheetID,
		Revision:   revision,
		Threads:    filtered,
		ExportedAt: utils.Now(),
		ExportedBy: exportedBy,
		Summary:    summarize(filtered),
	}

	telemetry.Exports.Inc()
	logger.Info("audit_exported", "project", projectID, "sheet", sheetID, "revision", revision, "threads", len(filtered), "by", exportedBy)
	return out
}

func summarize(ts []models.Thread) models.AuditSummary {
	s := models.AuditSummary{TotalThreads: len(ts)}
	for _, t := range ts {
		switch t.Status {
		case models.StatusOpen:
			s.OpenThreads++
		case models.StatusResolved:
			s.ResolvedThreads++
		case models.StatusObsolete:
			s.ObsoleteThreads++
		}
	}
	return s
}
