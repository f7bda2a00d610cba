package threads

import (
	"encoding/json"
	"fmt"

	"redline/pkg/logger"
	"redline/pkg/models"
	"redline/pkg/telemetry"
	"redline/pkg/utils"
	"redline/pkg/validation"
)

// AddMessageParams carries the inputs of AddMessage.
type AddMessageParams struct {
	AuthorID    string
	AuthorName  string
	Text        string
	Attachments []string
	Markup      json.RawMessage
}

// AddMessage validates and appends a message to the end of a thread's log,
// refreshing the thread's updated timestamp. The append is atomic: either
// the message is fully visible to subsequent reads or the call failed.
func (s *Store) AddMessage(threadID string, p AddMessageParams) (models.Message, error) {
	if err := validation.RequireID("author_id", p.AuthorID); err != nil {
		return models.Message{}, err
	}
	if err := validation.RequireText("text", p.Text); err != nil {
		return models.Message{}, err
	}

	now := utils.Now()
	msg := models.Message{
		ID:          utils.GenMessageID(),
		AuthorID:    p.AuthorID,
		AuthorName:  p.AuthorName,
		Text:        p.Text,
		Attachments: append([]string(nil), p.Attachments...),
		Markup:      append(json.RawMessage(nil), p.Markup...),
		CreatedAt:   now,
	}

	s.mu.Lock()
	t, ok := s.threads[threadID]
	if !ok {
		s.mu.Unlock()
		return models.Message{}, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = now
	s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	telemetry.MessagesAppended.Inc()
	logger.Info("message_appended", "thread", threadID, "message", msg.ID, "author", p.AuthorID)
	s.emit(Event{Kind: EventMessageAdded, ThreadID: threadID, Thread: out})
	return msg.Clone(), nil
}

// AddSystemMessage appends a synthetic message authored by the system
// actor. payload, when non-nil, is embedded as the message markup so the
// full record travels with the log entry. Used for mapping outcomes and
// promotions; status transitions go through UpdateStatus.
func (s *Store) AddSystemMessage(threadID, text string, payload any) (models.Message, error) {
	var markup json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return models.Message{}, fmt.Errorf("marshal system payload: %w", err)
		}
		markup = b
	}

	now := utils.Now()
	msg := models.Message{
		ID:        utils.GenMessageID(),
		AuthorID:  models.SystemAuthorID,
		Text:      text,
		Markup:    markup,
		CreatedAt: now,
	}

	s.mu.Lock()
	t, ok := s.threads[threadID]
	if !ok {
		s.mu.Unlock()
		return models.Message{}, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = now
	s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	logger.Debug("system_message_appended", "thread", threadID, "message", msg.ID)
	s.emit(Event{Kind: EventMessageAdded, ThreadID: threadID, Thread: out})
	return msg.Clone(), nil
}
