package models

// TaskPromotion is the one-way conversion record handed to an external task
// tracker. The engine mints the TaskID and appends a cross-referencing
// system message; reconciling the id with a real tracker is the caller's
// job.
type TaskPromotion struct {
	TaskID      string   `json:"task_id"`
	ThreadID    string   `json:"thread_id"`
	MessageID   string   `json:"message_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	AssigneeID  string   `json:"assignee_id,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Category    string   `json:"category,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
}

// RFIPromotion is the equivalent record for a formal request-for-information.
type RFIPromotion struct {
	RFIID       string `json:"rfi_id"`
	ThreadID    string `json:"thread_id"`
	MessageID   string `json:"message_id"`
	Title       string `json:"title"`
	Question    string `json:"question,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
	Category    string `json:"category,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}
