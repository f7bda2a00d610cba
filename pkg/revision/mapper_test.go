package revision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"redline/pkg/advisor"
	"redline/pkg/models"
	"redline/pkg/threads"
)

// stubAdvisor scores threads by title. Titles absent from the map fail
// scoring, exercising the degraded path.
type stubAdvisor struct {
	scores map[string]float64
}

func (s stubAdvisor) ScoreRevisionMapping(_ context.Context, t models.Thread, _ string) (advisor.Advice, error) {
	c, ok := s.scores[t.Title]
	if !ok {
		return advisor.Advice{}, errors.New("scoring backend exploded")
	}
	return advisor.Advice{Confidence: c, Suggestion: "stub suggestion"}, nil
}

func (s stubAdvisor) SummarizeProject(context.Context, string, []models.Thread) (string, error) {
	return "", nil
}

func (s stubAdvisor) SuggestResolution(context.Context, models.Thread) (string, error) {
	return "", nil
}

func newThread(t *testing.T, s *threads.Store, title, rev string) models.Thread {
	t.Helper()
	th, err := s.CreateThread(threads.CreateThreadParams{
		ProjectID:   "proj-1",
		SheetID:     "sheet-A1",
		Revision:    rev,
		BBox:        models.BBox{X: 10, Y: 10, W: 5, H: 5},
		CreatedBy:   "user-1",
		InitialText: "opening message for " + title,
		Title:       title,
	})
	if err != nil {
		t.Fatalf("create thread failed: %v", err)
	}
	return th
}

func TestDecideThresholds(t *testing.T) {
	cases := []struct {
		confidence float64
		want       models.MappingStatus
	}{
		{1.0, models.MappingAutoMapped},
		{0.81, models.MappingAutoMapped},
		{0.8, models.MappingNeedsReview}, // boundary stays manual
		{0.5, models.MappingNeedsReview},
		{0.3, models.MappingNeedsReview}, // boundary stays manual
		{0.29, models.MappingObsolete},
		{0.0, models.MappingObsolete},
	}
	for _, tc := range cases {
		if got := Decide(tc.confidence); got != tc.want {
			t.Fatalf("Decide(%v) = %q, want %q", tc.confidence, got, tc.want)
		}
	}
}

func TestProcessRevisionUpdateOutcomes(t *testing.T) {
	s := threads.NewStore(nil, "")
	high := newThread(t, s, "high", "rev-A")
	mid := newThread(t, s, "mid", "rev-A")
	low := newThread(t, s, "low", "rev-A")

	m := NewMapper(s, stubAdvisor{scores: map[string]float64{
		"high": 0.9,
		"mid":  0.5,
		"low":  0.1,
	}})

	batch, err := m.ProcessRevisionUpdate(context.Background(), "sheet-A1", "rev-A", "rev-B")
	if err != nil {
		t.Fatalf("process revision failed: %v", err)
	}
	if len(batch.Mappings) != 3 {
		t.Fatalf("expected 3 mappings, got %d", len(batch.Mappings))
	}

	byThread := map[string]models.RevisionMapping{}
	for _, mp := range batch.Mappings {
		byThread[mp.ThreadID] = mp
	}
	if byThread[high.ID].Status != models.MappingAutoMapped {
		t.Fatalf("high-confidence thread: got %q", byThread[high.ID].Status)
	}
	if byThread[mid.ID].Status != models.MappingNeedsReview {
		t.Fatalf("mid-confidence thread: got %q", byThread[mid.ID].Status)
	}
	if byThread[low.ID].Status != models.MappingObsolete {
		t.Fatalf("low-confidence thread: got %q", byThread[low.ID].Status)
	}

	// only the auto-mapped thread moves to the new revision
	gotHigh, _ := s.GetThread(high.ID)
	if gotHigh.Revision != "rev-B" {
		t.Fatalf("auto-mapped thread revision = %q, want rev-B", gotHigh.Revision)
	}
	gotMid, _ := s.GetThread(mid.ID)
	if gotMid.Revision != "rev-A" {
		t.Fatalf("needs-review thread must stay at rev-A, got %q", gotMid.Revision)
	}
	gotLow, _ := s.GetThread(low.ID)
	if gotLow.Revision != "rev-A" {
		t.Fatalf("obsolete thread must stay at rev-A, got %q", gotLow.Revision)
	}

	// obsolete flags, never closes
	if gotLow.Status != models.StatusOpen {
		t.Fatalf("obsolete mapping must leave the thread open, got %q", gotLow.Status)
	}

	// every outcome leaves a system message on the thread
	for _, th := range []models.Thread{gotHigh, gotMid, gotLow} {
		if len(th.Messages) != 2 {
			t.Fatalf("thread %s: expected 1 initial + 1 system message, got %d", th.ID, len(th.Messages))
		}
		last := th.Messages[1]
		if !last.IsSystem() {
			t.Fatalf("thread %s: mapping outcome message not system-authored", th.ID)
		}
		if len(last.Markup) == 0 {
			t.Fatalf("thread %s: mapping record not embedded in system message", th.ID)
		}
	}
	if !strings.Contains(gotHigh.Messages[1].Text, "carried forward") {
		t.Fatalf("auto-map message = %q", gotHigh.Messages[1].Text)
	}
	if !strings.Contains(gotLow.Messages[1].Text, "kept open") {
		t.Fatalf("obsolete message = %q", gotLow.Messages[1].Text)
	}
}

func TestProcessRevisionUpdateIsolatesFailures(t *testing.T) {
	s := threads.NewStore(nil, "")
	ok := newThread(t, s, "high", "rev-A")
	broken := newThread(t, s, "unscored", "rev-A")

	m := NewMapper(s, stubAdvisor{scores: map[string]float64{"high": 0.95}})
	batch, err := m.ProcessRevisionUpdate(context.Background(), "sheet-A1", "rev-A", "rev-B")
	if err != nil {
		t.Fatalf("batch must not fail when one thread fails: %v", err)
	}

	byThread := map[string]models.RevisionMapping{}
	for _, mp := range batch.Mappings {
		byThread[mp.ThreadID] = mp
	}
	got := byThread[broken.ID]
	if got.Status != models.MappingNeedsReview {
		t.Fatalf("failed scoring must degrade to needs-review, got %q", got.Status)
	}
	if got.Confidence != 0 {
		t.Fatalf("degraded confidence = %v, want 0", got.Confidence)
	}
	if got.AISuggestion != advisor.UnavailableSuggestion {
		t.Fatalf("degraded suggestion = %q", got.AISuggestion)
	}
	if byThread[ok.ID].Status != models.MappingAutoMapped {
		t.Fatalf("healthy thread still maps: got %q", byThread[ok.ID].Status)
	}
}

func TestProcessRevisionUpdateWithoutAdvisor(t *testing.T) {
	s := threads.NewStore(nil, "")
	newThread(t, s, "a", "rev-A")
	newThread(t, s, "b", "rev-A")

	m := NewMapper(s, nil) // falls back to advisor.Unavailable
	batch, err := m.ProcessRevisionUpdate(context.Background(), "sheet-A1", "rev-A", "rev-B")
	if err != nil {
		t.Fatalf("process revision failed: %v", err)
	}
	for _, mp := range batch.Mappings {
		if mp.Status != models.MappingNeedsReview || mp.Confidence != 0 {
			t.Fatalf("without a backend every thread degrades: %+v", mp)
		}
	}
}

func TestProcessRevisionUpdateValidation(t *testing.T) {
	m := NewMapper(threads.NewStore(nil, ""), nil)
	for _, args := range [][3]string{
		{"", "rev-A", "rev-B"},
		{"sheet-A1", "", "rev-B"},
		{"sheet-A1", "rev-A", ""},
	} {
		if _, err := m.ProcessRevisionUpdate(context.Background(), args[0], args[1], args[2]); !errors.Is(err, threads.ErrValidation) {
			t.Fatalf("args %v: expected validation error, got %v", args, err)
		}
	}
}

func TestLatestBatchSuperseded(t *testing.T) {
	s := threads.NewStore(nil, "")
	newThread(t, s, "high", "rev-A")

	m := NewMapper(s, stubAdvisor{scores: map[string]float64{"high": 0.9}})
	if _, ok := m.LatestBatch("sheet-A1"); ok {
		t.Fatalf("expected no batch before first update")
	}

	first, _ := m.ProcessRevisionUpdate(context.Background(), "sheet-A1", "rev-A", "rev-B")
	second, _ := m.ProcessRevisionUpdate(context.Background(), "sheet-A1", "rev-B", "rev-C")

	got, ok := m.LatestBatch("sheet-A1")
	if !ok {
		t.Fatalf("expected a retained batch")
	}
	if got.NewRevision != second.NewRevision || got.NewRevision == first.NewRevision {
		t.Fatalf("latest batch = %q, want the superseding one", got.NewRevision)
	}
}

func TestEmptySheetProducesEmptyBatch(t *testing.T) {
	m := NewMapper(threads.NewStore(nil, ""), nil)
	batch, err := m.ProcessRevisionUpdate(context.Background(), "sheet-empty", "rev-A", "rev-B")
	if err != nil {
		t.Fatalf("process revision failed: %v", err)
	}
	if len(batch.Mappings) != 0 {
		t.Fatalf("expected empty batch, got %d mappings", len(batch.Mappings))
	}
}
