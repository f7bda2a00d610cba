package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"redline/pkg/models"
	"redline/pkg/threads"
	"redline/pkg/utils"
)

type createThreadRequest struct {
	ProjectID  string          `json:"project_id"`
	SheetID    string          `json:"sheet_id"`
	Revision   string          `json:"revision"`
	BBox       models.BBox     `json:"bbox"`
	CreatedBy  string          `json:"created_by"`
	AuthorName string          `json:"author_name"`
	Text       string          `json:"text"`
	Title      string          `json:"title"`
	Priority   models.Priority `json:"priority"`
	AssigneeID string          `json:"assignee_id"`
	DueDate    string          `json:"due_date"`
	Tags       []string        `json:"tags"`
}

func (s *Server) createThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := s.Store.CreateThread(threads.CreateThreadParams{
		ProjectID:   req.ProjectID,
		SheetID:     req.SheetID,
		Revision:    req.Revision,
		BBox:        req.BBox,
		CreatedBy:   actor(r, req.CreatedBy),
		AuthorName:  req.AuthorName,
		InitialText: req.Text,
		Title:       req.Title,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, t)
}

func (s *Server) listThreads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project := q.Get("project")
	sheet := q.Get("sheet")
	revision := q.Get("revision")

	var out []models.Thread
	switch {
	case sheet != "":
		out = s.Store.GetThreadsBySheet(sheet, revision)
	case project != "":
		out = s.Store.GetThreadsByProject(project)
	default:
		utils.JSONError(w, http.StatusBadRequest, "project or sheet query parameter is required")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Threads []models.Thread `json:"threads"`
	}{Threads: out})
}

func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	t, err := s.Store.GetThread(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, t)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.Status `json:"status"`
		Actor  string        `json:"actor_id"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := s.Store.UpdateStatus(mux.Vars(r)["id"], req.Status, actor(r, req.Actor))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, t)
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthorID    string          `json:"author_id"`
		AuthorName  string          `json:"author_name"`
		Text        string          `json:"text"`
		Attachments []string        `json:"attachments"`
		Markup      json.RawMessage `json:"markup"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	msg, err := s.Store.AddMessage(mux.Vars(r)["id"], threads.AddMessageParams{
		AuthorID:    actor(r, req.AuthorID),
		AuthorName:  req.AuthorName,
		Text:        req.Text,
		Attachments: req.Attachments,
		Markup:      req.Markup,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, msg)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	t, err := s.Store.GetThread(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Thread   string           `json:"thread"`
		Messages []models.Message `json:"messages"`
	}{Thread: t.ID, Messages: t.Messages})
}

func (s *Server) detectDuplicates(w http.ResponseWriter, r *http.Request) {
	dups, err := s.Store.DetectDuplicates(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Duplicates []models.Thread `json:"duplicates"`
	}{Duplicates: dups})
}
