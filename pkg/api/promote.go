package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"redline/pkg/promote"
	"redline/pkg/utils"
)

func (s *Server) promoteTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID string `json:"message_id"`
		promote.TaskDetails
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	taskID, err := s.Gateway.PromoteToTask(mux.Vars(r)["id"], req.MessageID, req.TaskDetails)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"task_id": taskID})
}

func (s *Server) promoteRFI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID string `json:"message_id"`
		promote.RFIDetails
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rfiID, err := s.Gateway.PromoteToRFI(mux.Vars(r)["id"], req.MessageID, req.RFIDetails)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"rfi_id": rfiID})
}
