package threads

import (
	"fmt"
	"strings"

	"redline/pkg/models"
)

// DuplicateThreshold is the Jaccard similarity above which two threads'
// opening messages are flagged as likely duplicates. Strictly greater-than.
const DuplicateThreshold = 0.7

// DetectDuplicates returns threads whose opening message is likely a
// duplicate of the given thread's, restricted to the same project and
// sheet. This is a heuristic; false positives and negatives are expected.
func (s *Store) DetectDuplicates(threadID string) ([]models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	refText := firstMessageText(ref)

	var out []models.Thread
	for _, t := range s.threads {
		if t.ID == threadID || t.ProjectID != ref.ProjectID || t.SheetID != ref.SheetID {
			continue
		}
		if Similarity(refText, firstMessageText(t)) > DuplicateThreshold {
			out = append(out, t.Clone())
		}
	}
	sortThreads(out)
	return out, nil
}

// Similarity computes Jaccard similarity over the lower-cased,
// whitespace-tokenized word sets of a and b: |A∩B| / |A∪B|. Symmetric, 1
// for identical token sets, 0 when either side is empty.
func Similarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for w := range as {
		if _, ok := bs[w]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}

func firstMessageText(t *models.Thread) string {
	if len(t.Messages) == 0 {
		return ""
	}
	return t.Messages[0].Text
}
