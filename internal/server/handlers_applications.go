package server

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hired-always/internal/tracker"
)

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// withTracker answers 503 when the server has no tracker.
func (s *Server) withTracker(w http.ResponseWriter) bool {
	if s.tracker == nil {
		s.fail(w, &ErrUnavailable{Resource: "tracker"})
		return false
	}
	return true
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "not a valid UUID"}
	}
	return id, nil
}

// handleListApplications filters by the status, search and sort query parameters.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	q := r.URL.Query()
	apps, err := s.tracker.List(r.Context(), tracker.Filter{
		Status: tracker.Status(q.Get("status")),
		Search: q.Get("search"),
		Sort:   tracker.SortOrder(q.Get("sort")),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if apps == nil {
		apps = []tracker.Application{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	var in tracker.Input
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	app, err := s.tracker.Add(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	stats, err := s.tracker.Stats(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	data, err := s.tracker.Export(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.json"`)
	_, _ = w.Write(data)
}

func (s *Server) handleImportApplications(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	apps, err := s.tracker.Import(r.Context(), data)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	app, err := s.tracker.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var in tracker.Input
	if err := decode(r, &in); err != nil {
		s.fail(w, err)
		return
	}
	app, err := s.tracker.Edit(r.Context(), id, in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.tracker.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	if !s.withTracker(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	st, err := tracker.ParseStatus(req.Status)
	if err != nil {
		s.fail(w, err)
		return
	}
	app, err := s.tracker.SetStatus(r.Context(), id, st, req.Note)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}
