package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-agent/internal/status"
	"github.com/jonathan/resume-agent/internal/types"
	"github.com/jonathan/resume-agent/internal/workflow"
)

// handleGenerateResume accepts a tailoring submission and starts a workflow
// run. The response carries the status id for polling; the run continues in
// the background.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Either job_description or job_url is required")
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" {
		text, err := s.fetchJD(r.Context(), req.JobURL)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting: "+err.Error())
			return
		}
		jobDescription = text
	}

	statusID, err := s.engine.Start(r.Context(), workflow.Request{
		JobDescription: jobDescription,
		JobURL:         req.JobURL,
		Title:          req.Title,
		Company:        req.Company,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusAccepted, types.GenerateResponse{
		StatusID: statusID.String(),
		Status:   string(types.StatusProcessing),
	})
}

// handleGetStatus resolves a snapshot by status_id, job_url, or base_url, in
// that precedence. A URL-keyed miss is not an error from the client's point
// of view; it means no run has started for that page yet.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	query := status.LookupQuery{
		StatusID: r.URL.Query().Get("status_id"),
		JobURL:   r.URL.Query().Get("job_url"),
		BaseURL:  r.URL.Query().Get("base_url"),
	}
	if query.StatusID == "" && query.JobURL == "" && query.BaseURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "One of status_id, job_url, or base_url is required")
		return
	}

	snap, err := s.statuses.Lookup(r.Context(), query)
	if err != nil {
		if status.IsNotFound(err) && query.StatusID == "" {
			s.jsonResponse(w, http.StatusOK, map[string]string{"status": "not_started"})
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleListStatuses returns snapshots newest-first. Applied snapshots are
// excluded unless include_applied=true.
func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	includeApplied := r.URL.Query().Get("include_applied") == "true"

	snaps, err := s.statuses.List(r.Context(), includeApplied)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if snaps == nil {
		snaps = []*status.Snapshot{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"statuses": snaps})
}

// appliedRequest is the optional body for the applied toggle. An empty body
// marks the snapshot applied.
type appliedRequest struct {
	Applied *bool `json:"applied"`
}

// handleSetApplied records whether the user applied to the job.
func (s *Server) handleSetApplied(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid status ID format")
		return
	}

	applied := true
	body, err := io.ReadAll(r.Body)
	if err == nil && len(body) > 0 {
		var req appliedRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		if req.Applied != nil {
			applied = *req.Applied
		}
	}

	snap, err := s.statuses.SetApplied(r.Context(), id, applied)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
