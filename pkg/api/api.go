// Package api is the HTTP surface of the surrounding application. The
// engine itself owns no wire format; these handlers translate JSON
// requests into engine calls and engine errors into JSON bodies.
package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"redline/pkg/advisor"
	"redline/pkg/audit"
	"redline/pkg/promote"
	"redline/pkg/revision"
	"redline/pkg/telemetry"
	"redline/pkg/threads"
	"redline/pkg/utils"
)

// Server bundles the engine components the handlers dispatch to.
type Server struct {
	Store    *threads.Store
	Mapper   *revision.Mapper
	Gateway  *promote.Gateway
	Exporter *audit.Exporter
	Advisor  advisor.Service
}

// NewServer wires a Server over an engine. adv may be nil; advisory
// endpoints then answer with placeholder values.
func NewServer(store *threads.Store, mapper *revision.Mapper, gateway *promote.Gateway, exporter *audit.Exporter, adv advisor.Service) *Server {
	if adv == nil {
		adv = advisor.Unavailable{}
	}
	return &Server{Store: store, Mapper: mapper, Gateway: gateway, Exporter: exporter, Advisor: adv}
}

// RateLimit configures the per-client request limiter; zero values disable
// it.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Router builds the HTTP router with telemetry and optional rate limiting.
func (s *Server) Router(rl RateLimit) *mux.Router {
	r := mux.NewRouter()
	r.Use(telemetry.Middleware)
	if rl.RPS > 0 {
		r.Use(rateLimitMiddleware(rl))
	}

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", telemetry.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/threads", s.createThread).Methods(http.MethodPost)
	v1.HandleFunc("/threads", s.listThreads).Methods(http.MethodGet)
	v1.HandleFunc("/threads/{id}", s.getThread).Methods(http.MethodGet)
	v1.HandleFunc("/threads/{id}/status", s.updateStatus).Methods(http.MethodPost)
	v1.HandleFunc("/threads/{id}/messages", s.addMessage).Methods(http.MethodPost)
	v1.HandleFunc("/threads/{id}/messages", s.listMessages).Methods(http.MethodGet)
	v1.HandleFunc("/threads/{id}/duplicates", s.detectDuplicates).Methods(http.MethodGet)
	v1.HandleFunc("/threads/{id}/promote/task", s.promoteTask).Methods(http.MethodPost)
	v1.HandleFunc("/threads/{id}/promote/rfi", s.promoteRFI).Methods(http.MethodPost)
	v1.HandleFunc("/threads/{id}/suggestion", s.suggestResolution).Methods(http.MethodGet)
	v1.HandleFunc("/sheets/{sheetID}/revisions", s.processRevision).Methods(http.MethodPost)
	v1.HandleFunc("/sheets/{sheetID}/mappings", s.latestMappings).Methods(http.MethodGet)
	v1.HandleFunc("/projects/{id}/summary", s.summarizeProject).Methods(http.MethodGet)
	v1.HandleFunc("/export", s.exportAudit).Methods(http.MethodGet)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeErr maps engine errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, threads.ErrNotFound), errors.Is(err, threads.ErrMessageNotFound):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, threads.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	default:
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// actor resolves the acting identity for a request: the X-User-ID header
// first, then the provided fallback from the body.
func actor(r *http.Request, fallback string) string {
	if v := r.Header.Get("X-User-ID"); v != "" {
		return v
	}
	return fallback
}
