package models

import "time"

// Status is the lifecycle state of a thread. Transitions are deliberately
// unrestricted; any status may follow any other (resolved threads can be
// reopened without ceremony).
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
	StatusObsolete Status = "obsolete"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusResolved, StatusObsolete:
		return true
	}
	return false
}

// Priority is an optional triage level for a thread.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority value. Empty is allowed
// (priority is optional).
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// BBox is the rectangular sheet region a thread is pinned to, in document
// coordinates. Values are owned by the thread; callers' selections are
// copied in, never aliased.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Thread is a discussion anchored to a region of a specific sheet revision.
// A thread always carries at least one message; the message log is the
// single source of narrative history (status changes, mapping outcomes and
// promotions all appear as system messages).
type Thread struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SheetID   string    `json:"sheet_id"`
	// Revision is advanced only by the revision mapper, never by callers.
	Revision  string    `json:"revision"`
	BBox      BBox      `json:"bbox"`
	Status    Status    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`

	Title      string    `json:"title,omitempty"`
	Priority   Priority  `json:"priority,omitempty"`
	AssigneeID string    `json:"assignee_id,omitempty"`
	DueDate    string    `json:"due_date,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
}

// Clone returns a deep copy of the thread. Exports and read APIs hand out
// clones so later store mutations cannot reach already-returned values.
func (t *Thread) Clone() Thread {
	out := *t
	out.Messages = make([]Message, len(t.Messages))
	for i := range t.Messages {
		out.Messages[i] = t.Messages[i].Clone()
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// FindMessage returns the message with the given id, or nil.
func (t *Thread) FindMessage(msgID string) *Message {
	for i := range t.Messages {
		if t.Messages[i].ID == msgID {
			return &t.Messages[i]
		}
	}
	return nil
}
