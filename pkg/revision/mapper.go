// Package revision carries discussion threads forward when a sheet
// advances to a new revision. Decisions are confidence-thresholded: high
// scores carry the thread automatically, low scores flag the mapping as
// obsolete without closing the thread, everything in between asks for
// manual review.
package revision

import (
	"context"
	"fmt"
	"sync"

	"redline/pkg/advisor"
	"redline/pkg/logger"
	"redline/pkg/models"
	"redline/pkg/telemetry"
	"redline/pkg/threads"
	"redline/pkg/utils"
)

// Decision thresholds. These are the core business rule: strictly greater
// than AutoMapThreshold carries forward, strictly less than
// ObsoleteThreshold flags obsolete, the closed interval between them needs
// review.
const (
	AutoMapThreshold  = 0.8
	ObsoleteThreshold = 0.3
)

// Decide maps a confidence score to a mapping status.
func Decide(confidence float64) models.MappingStatus {
	switch {
	case confidence > AutoMapThreshold:
		return models.MappingAutoMapped
	case confidence < ObsoleteThreshold:
		return models.MappingObsolete
	default:
		return models.MappingNeedsReview
	}
}

// Mapper re-evaluates threads against new sheet revisions. It keeps the
// most recent mapping batch per sheet; earlier batches are superseded, not
// merged.
type Mapper struct {
	store *threads.Store
	svc   advisor.Service

	mu      sync.Mutex
	batches map[string]models.MappingBatch
}

// NewMapper builds a Mapper over the given store and advisory service. svc
// may be advisor.Unavailable{}; every thread then degrades to needs-review.
func NewMapper(store *threads.Store, svc advisor.Service) *Mapper {
	if svc == nil {
		svc = advisor.Unavailable{}
	}
	return &Mapper{
		store:   store,
		svc:     svc,
		batches: make(map[string]models.MappingBatch),
	}
}

// ProcessRevisionUpdate re-evaluates every thread anchored to oldRevision
// of the sheet and applies the auto-map/flag/obsolete decision per thread.
// One failed scoring call never aborts the batch; that thread degrades to
// needs-review with confidence 0.
func (m *Mapper) ProcessRevisionUpdate(ctx context.Context, sheetID, oldRevision, newRevision string) (models.MappingBatch, error) {
	if sheetID == "" || oldRevision == "" || newRevision == "" {
		return models.MappingBatch{}, fmt.Errorf("sheet id and both revisions are required: %w", threads.ErrValidation)
	}

	anchored := m.store.GetThreadsBySheet(sheetID, oldRevision)
	batch := models.MappingBatch{
		SheetID:     sheetID,
		OldRevision: oldRevision,
		NewRevision: newRevision,
		Mappings:    make([]models.RevisionMapping, 0, len(anchored)),
		ProcessedAt: utils.Now(),
	}

	for _, t := range anchored {
		mapping := m.evaluate(ctx, t, oldRevision, newRevision)
		batch.Mappings = append(batch.Mappings, mapping)
		m.apply(t.ID, mapping)
	}

	m.mu.Lock()
	m.batches[sheetID] = batch
	m.mu.Unlock()

	logger.Info("revision_batch_processed", "sheet", sheetID, "from", oldRevision, "to", newRevision, "threads", len(batch.Mappings))
	return batch, nil
}

func (m *Mapper) evaluate(ctx context.Context, t models.Thread, oldRev, newRev string) models.RevisionMapping {
	mapping := models.RevisionMapping{
		ThreadID:    t.ID,
		OldRevision: oldRev,
		NewRevision: newRev,
	}
	advice, err := m.svc.ScoreRevisionMapping(ctx, t, newRev)
	if err != nil {
		// degraded path: service absent or failed for this thread
		telemetry.AdvisorFailures.Inc()
		logger.Warn("advisor_score_degraded", "thread", t.ID, "error", err)
		mapping.Status = models.MappingNeedsReview
		mapping.Confidence = 0
		mapping.AISuggestion = advisor.UnavailableSuggestion
		return mapping
	}
	mapping.Confidence = advice.Confidence
	mapping.AISuggestion = advice.Suggestion
	mapping.Status = Decide(advice.Confidence)
	return mapping
}

// apply mutates the thread according to the mapping outcome. Only
// auto-mapped threads move to the new revision; obsolete mappings leave the
// thread open for a human to close.
func (m *Mapper) apply(threadID string, mapping models.RevisionMapping) {
	telemetry.MappingOutcomes.WithLabelValues(string(mapping.Status)).Inc()

	switch mapping.Status {
	case models.MappingAutoMapped:
		if err := m.store.SetRevision(threadID, mapping.NewRevision); err != nil {
			logger.Warn("revision_advance_failed", "thread", threadID, "error", err)
			return
		}
		_, _ = m.store.AddSystemMessage(threadID,
			fmt.Sprintf("Automatically carried forward from revision %s to %s (confidence %.2f)",
				mapping.OldRevision, mapping.NewRevision, mapping.Confidence),
			mapping)
	case models.MappingObsolete:
		_, _ = m.store.AddSystemMessage(threadID,
			fmt.Sprintf("Warning: region may no longer exist in revision %s (confidence %.2f); thread kept open for review",
				mapping.NewRevision, mapping.Confidence),
			mapping)
	default:
		_, _ = m.store.AddSystemMessage(threadID,
			fmt.Sprintf("Needs manual review: unable to confidently place region in revision %s (confidence %.2f)",
				mapping.NewRevision, mapping.Confidence),
			mapping)
	}
	m.store.EmitMapped(threadID)
}

// LatestBatch returns the retained mapping batch for a sheet, if any.
func (m *Mapper) LatestBatch(sheetID string) (models.MappingBatch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[sheetID]
	return b, ok
}
