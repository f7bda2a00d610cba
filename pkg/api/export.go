package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"redline/pkg/utils"
)

func (s *Server) exportAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project := q.Get("project")
	if project == "" {
		utils.JSONError(w, http.StatusBadRequest, "project query parameter is required")
		return
	}
	by := actor(r, "anonymous")
	export := s.Exporter.Export(project, q.Get("sheet"), q.Get("revision"), by)
	_ = utils.JSONWrite(w, http.StatusOK, export)
}

func (s *Server) summarizeProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	ts := s.Store.GetThreadsByProject(projectID)
	text, err := s.Advisor.SummarizeProject(r.Context(), projectID, ts)
	if err != nil {
		// advisory failures degrade, never 5xx
		text = "AI summary unavailable"
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"project_id": projectID, "summary": text})
}

func (s *Server) suggestResolution(w http.ResponseWriter, r *http.Request) {
	t, err := s.Store.GetThread(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	text, aerr := s.Advisor.SuggestResolution(r.Context(), t)
	if aerr != nil {
		text = "AI suggestion unavailable"
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"thread_id": t.ID, "suggestion": text})
}
