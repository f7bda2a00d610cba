package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"redline/pkg/models"
)

func TestUnavailableScoringFails(t *testing.T) {
	var svc Service = Unavailable{}
	_, err := svc.ScoreRevisionMapping(context.Background(), models.Thread{}, "rev-B")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestUnavailableTextEndpointsDegrade(t *testing.T) {
	var svc Service = Unavailable{}

	summary, err := svc.SummarizeProject(context.Background(), "proj-1", nil)
	if err != nil {
		t.Fatalf("summary must not error without a backend: %v", err)
	}
	if !strings.Contains(summary, "unavailable") {
		t.Fatalf("placeholder summary should say so: %q", summary)
	}

	sugg, err := svc.SuggestResolution(context.Background(), models.Thread{})
	if err != nil {
		t.Fatalf("suggestion must not error without a backend: %v", err)
	}
	if !strings.Contains(sugg, "unavailable") {
		t.Fatalf("placeholder suggestion should say so: %q", sugg)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"confidence": 0.9}`, `{"confidence": 0.9}`},
		{"```json\n{\"confidence\": 0.9}\n```", `{"confidence": 0.9}`},
		{`Here you go: {"confidence": 0.5, "suggestion": "move pin"} hope that helps`, `{"confidence": 0.5, "suggestion": "move pin"}`},
		{"no json at all", "no json at all"},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
