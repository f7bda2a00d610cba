// Package advisor is a thin façade over an optional external AI service
// used for revision-mapping confidence scores, project summaries and
// resolution suggestions. Running without a backing service is a normal,
// expected operating mode: the Unavailable implementation answers every
// call with clearly-labeled placeholder values.
package advisor

import (
	"context"
	"errors"

	"redline/pkg/models"
)

// ErrUnavailable signals that no advisory backend is configured or the
// configured one failed. It is always caught by callers and degraded to a
// safe default, never surfaced to users.
var ErrUnavailable = errors.New("advisory service unavailable")

// UnavailableSuggestion is the placeholder suggestion text used when
// scoring degrades.
const UnavailableSuggestion = "AI advisory service unavailable"

// Advice is the result of scoring one thread against a new revision.
type Advice struct {
	// Confidence in [0,1] that the thread's pinned region still
	// corresponds to content in the new revision.
	Confidence float64 `json:"confidence"`
	Suggestion string  `json:"suggestion,omitempty"`
}

// Service is the advisory capability injected into the engine. Implementations
// must be safe for concurrent use.
type Service interface {
	// ScoreRevisionMapping estimates how well thread's region carries
	// over to newRevision.
	ScoreRevisionMapping(ctx context.Context, thread models.Thread, newRevision string) (Advice, error)
	// SummarizeProject produces a prose summary over the given threads.
	SummarizeProject(ctx context.Context, projectID string, threads []models.Thread) (string, error)
	// SuggestResolution proposes a next step for an open thread.
	SuggestResolution(ctx context.Context, thread models.Thread) (string, error)
}

// Unavailable is the no-op Service used when no backend is configured.
type Unavailable struct{}

func (Unavailable) ScoreRevisionMapping(context.Context, models.Thread, string) (Advice, error) {
	return Advice{}, ErrUnavailable
}

func (Unavailable) SummarizeProject(_ context.Context, projectID string, threads []models.Thread) (string, error) {
	return "AI summary unavailable: no advisory service configured for project " + projectID, nil
}

func (Unavailable) SuggestResolution(_ context.Context, thread models.Thread) (string, error) {
	return "AI suggestion unavailable: no advisory service configured", nil
}
