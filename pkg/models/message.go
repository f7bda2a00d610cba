package models

import (
	"encoding/json"
	"time"
)

// SystemAuthorID is the author id used for synthetic messages appended by
// the engine itself (status transitions, mapping outcomes, promotions).
const SystemAuthorID = "system"

// Message is a single entry in a thread's log. Messages are immutable once
// appended; corrections are new messages. Ordering is array position in the
// owning thread (append order), there is no separate sequence number.
type Message struct {
	ID         string   `json:"id"`
	AuthorID   string   `json:"author_id"`
	AuthorName string   `json:"author_name,omitempty"`
	Text       string   `json:"text"`
	// Attachments are opaque file references; the engine never dereferences
	// them.
	Attachments []string `json:"attachments,omitempty"`
	// Markup is an opaque annotation payload owned by drawing tooling.
	Markup    json.RawMessage `json:"markup,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() Message {
	out := *m
	if m.Attachments != nil {
		out.Attachments = append([]string(nil), m.Attachments...)
	}
	if m.Markup != nil {
		out.Markup = append(json.RawMessage(nil), m.Markup...)
	}
	return out
}

// IsSystem reports whether the message was synthesized by the engine.
func (m *Message) IsSystem() bool { return m.AuthorID == SystemAuthorID }
