package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"redline/pkg/models"
)

const defaultModel = "claude-sonnet-4-5"

// Anthropic backs the advisory façade with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic builds an Anthropic-backed Service. model may be empty to
// use the default.
func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = defaultModel
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *Anthropic) ScoreRevisionMapping(ctx context.Context, thread models.Thread, newRevision string) (Advice, error) {
	prompt := fmt.Sprintf(`A construction-document discussion thread is pinned to a region of sheet %s at revision %s. The sheet has advanced to revision %s.

Region (document coordinates): x=%.2f y=%.2f w=%.2f h=%.2f
Thread title: %s
Opening message: %s

Estimate the confidence, between 0 and 1, that the pinned region still refers to the same drawing content in the new revision, and suggest how to reconcile the thread if it may have moved.

Respond with JSON only: {"confidence": <float>, "suggestion": "<text>"}`,
		thread.SheetID, thread.Revision, newRevision,
		thread.BBox.X, thread.BBox.Y, thread.BBox.W, thread.BBox.H,
		thread.Title, firstText(thread))

	text, err := a.complete(ctx, prompt)
	if err != nil {
		return Advice{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var adv Advice
	if err := json.Unmarshal([]byte(extractJSON(text)), &adv); err != nil {
		return Advice{}, fmt.Errorf("%w: unparseable score response: %v", ErrUnavailable, err)
	}
	if adv.Confidence < 0 {
		adv.Confidence = 0
	}
	if adv.Confidence > 1 {
		adv.Confidence = 1
	}
	return adv, nil
}

func (a *Anthropic) SummarizeProject(ctx context.Context, projectID string, threads []models.Thread) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the state of discussion threads on construction project %s. Threads:\n", projectID)
	for _, t := range threads {
		fmt.Fprintf(&b, "- [%s] sheet %s rev %s: %s: %s\n", t.Status, t.SheetID, t.Revision, t.Title, firstText(t))
	}
	b.WriteString("\nGive a short prose summary highlighting open items and risks.")
	text, err := a.complete(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, nil
}

func (a *Anthropic) SuggestResolution(ctx context.Context, thread models.Thread) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "A discussion thread on construction sheet %s (revision %s) needs a resolution. Conversation so far:\n", thread.SheetID, thread.Revision)
	for _, m := range thread.Messages {
		fmt.Fprintf(&b, "- %s: %s\n", m.AuthorID, m.Text)
	}
	b.WriteString("\nSuggest a concrete next step to resolve this thread, in one or two sentences.")
	text, err := a.complete(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, nil
}

func (a *Anthropic) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return out.String(), nil
}

// extractJSON strips markdown fences and surrounding prose so a JSON object
// embedded in a completion parses cleanly.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}

func firstText(t models.Thread) string {
	if len(t.Messages) == 0 {
		return ""
	}
	return t.Messages[0].Text
}
