// Package promote converts discussion threads into actionable external
// records: tasks for the project's tracker and formal RFIs. The engine's
// responsibility ends at minting the external id and leaving a traceable
// system message in the thread; reconciling ids against a real backend is
// the caller's integration.
package promote

import (
	"fmt"

	"redline/pkg/logger"
	"redline/pkg/models"
	"redline/pkg/telemetry"
	"redline/pkg/threads"
	"redline/pkg/utils"
)

// Gateway promotes thread messages into task and RFI records.
type Gateway struct {
	store *threads.Store
}

// NewGateway builds a Gateway over the given store.
func NewGateway(store *threads.Store) *Gateway {
	return &Gateway{store: store}
}

// TaskDetails are the caller-supplied fields of a task promotion.
type TaskDetails struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	AssigneeID  string          `json:"assignee_id"`
	Priority    models.Priority `json:"priority"`
	Category    string          `json:"category"`
	DueDate     string          `json:"due_date"`
}

// RFIDetails are the caller-supplied fields of an RFI promotion.
type RFIDetails struct {
	Title       string `json:"title"`
	Question    string `json:"question"`
	RecipientID string `json:"recipient_id"`
	Urgency     string `json:"urgency"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
}

// PromoteToTask converts a thread message into a task record, appends a
// system message embedding the record, and returns the minted task id.
func (g *Gateway) PromoteToTask(threadID, messageID string, d TaskDetails) (string, error) {
	t, msg, err := g.resolve(threadID, messageID)
	if err != nil {
		return "", err
	}

	rec := models.TaskPromotion{
		TaskID:      utils.GenExternalID("task"),
		ThreadID:    threadID,
		MessageID:   messageID,
		Title:       d.Title,
		Description: d.Description,
		AssigneeID:  d.AssigneeID,
		Priority:    d.Priority,
		Category:    d.Category,
		DueDate:     d.DueDate,
	}
	if rec.Title == "" {
		rec.Title = promotionTitle(t, msg)
	}
	if rec.Description == "" {
		rec.Description = msg.Text
	}

	if _, err := g.store.AddSystemMessage(threadID,
		fmt.Sprintf("Promoted to task %s: %s", rec.TaskID, rec.Title), rec); err != nil {
		return "", err
	}
	telemetry.Promotions.WithLabelValues("task").Inc()
	logger.Info("thread_promoted_task", "thread", threadID, "message", messageID, "task", rec.TaskID)
	return rec.TaskID, nil
}

// PromoteToRFI converts a thread message into an RFI record, appends a
// system message embedding the record, and returns the minted RFI id.
func (g *Gateway) PromoteToRFI(threadID, messageID string, d RFIDetails) (string, error) {
	t, msg, err := g.resolve(threadID, messageID)
	if err != nil {
		return "", err
	}

	rec := models.RFIPromotion{
		RFIID:       utils.GenExternalID("rfi"),
		ThreadID:    threadID,
		MessageID:   messageID,
		Title:       d.Title,
		Question:    d.Question,
		RecipientID: d.RecipientID,
		Urgency:     d.Urgency,
		Category:    d.Category,
		DueDate:     d.DueDate,
	}
	if rec.Title == "" {
		rec.Title = promotionTitle(t, msg)
	}
	if rec.Question == "" {
		rec.Question = msg.Text
	}

	if _, err := g.store.AddSystemMessage(threadID,
		fmt.Sprintf("Promoted to RFI %s: %s", rec.RFIID, rec.Title), rec); err != nil {
		return "", err
	}
	telemetry.Promotions.WithLabelValues("rfi").Inc()
	logger.Info("thread_promoted_rfi", "thread", threadID, "message", messageID, "rfi", rec.RFIID)
	return rec.RFIID, nil
}

// resolve looks up the thread and checks the message belongs to it.
func (g *Gateway) resolve(threadID, messageID string) (models.Thread, models.Message, error) {
	t, err := g.store.GetThread(threadID)
	if err != nil {
		return models.Thread{}, models.Message{}, err
	}
	msg := t.FindMessage(messageID)
	if msg == nil {
		return models.Thread{}, models.Message{}, fmt.Errorf("%w: %s in thread %s", threads.ErrMessageNotFound, messageID, threadID)
	}
	return t, *msg, nil
}

func promotionTitle(t models.Thread, msg models.Message) string {
	if t.Title != "" {
		return t.Title
	}
	text := msg.Text
	if len(text) > 80 {
		text = text[:80]
	}
	return text
}
