package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"redline/pkg/utils"
)

func (s *Server) processRevision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldRevision string `json:"old_revision"`
		NewRevision string `json:"new_revision"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	batch, err := s.Mapper.ProcessRevisionUpdate(r.Context(), mux.Vars(r)["sheetID"], req.OldRevision, req.NewRevision)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, batch)
}

func (s *Server) latestMappings(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.Mapper.LatestBatch(mux.Vars(r)["sheetID"])
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "no mapping batch for sheet")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, batch)
}
