package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/casework"
)

// actionRequest is the action create/update payload.
type actionRequest struct {
	CaseID     string                `json:"case_id"`
	Action     string                `json:"action"`
	Status     casework.ActionStatus `json:"status"`
	ActionDate *string               `json:"action_date"`
}

// setStatusRequest updates an action's status.
type setStatusRequest struct {
	Status casework.ActionStatus `json:"status"`
}

// handleCreateAction schedules an action against a case.
//
// POST /api/v1/actions
func (s *Server) handleCreateAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CaseID == "" || req.Action == "" {
		writeBadRequest(w, "case_id and action are required")
		return
	}

	if _, err := s.cases.GetByID(r.Context(), req.CaseID); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeBadRequest(w, "case does not exist")
			return
		}
		s.logger.Error("fetching case failed", "error", err)
		writeInternalError(w, "creating action failed")
		return
	}

	action, err := s.actions.Create(r.Context(), casework.ActionInput{
		CaseID:     req.CaseID,
		Action:     req.Action,
		Status:     req.Status,
		ActionDate: req.ActionDate,
	})
	if err != nil {
		s.logger.Error("creating action failed", "error", err)
		writeBadRequest(w, "creating action failed")
		return
	}

	writeJSON(w, http.StatusCreated, action)
}

// handleGetAction returns an action by ID.
//
// GET /api/v1/actions/{id}
func (s *Server) handleGetAction(w http.ResponseWriter, r *http.Request) {
	action, err := s.actions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "action not found")
			return
		}
		s.logger.Error("fetching action failed", "error", err)
		writeInternalError(w, "fetching action failed")
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// handleUpdateAction updates an action record.
//
// PUT /api/v1/actions/{id}
func (s *Server) handleUpdateAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CaseID == "" || req.Action == "" {
		writeBadRequest(w, "case_id and action are required")
		return
	}

	action, err := s.actions.Update(r.Context(), chi.URLParam(r, "id"), casework.ActionInput{
		CaseID:     req.CaseID,
		Action:     req.Action,
		Status:     req.Status,
		ActionDate: req.ActionDate,
	})
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "action not found")
			return
		}
		s.logger.Error("updating action failed", "error", err)
		writeBadRequest(w, "updating action failed")
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// handleSetActionStatus updates an action's status.
//
// PUT /api/v1/actions/{id}/status
func (s *Server) handleSetActionStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeBadRequest(w, "invalid status")
		return
	}

	if err := s.actions.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "action not found")
			return
		}
		s.logger.Error("setting action status failed", "error", err)
		writeInternalError(w, "setting action status failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteAction removes an action record.
//
// DELETE /api/v1/actions/{id}
func (s *Server) handleDeleteAction(w http.ResponseWriter, r *http.Request) {
	if err := s.actions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "action not found")
			return
		}
		s.logger.Error("deleting action failed", "error", err)
		writeInternalError(w, "deleting action failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListActionsToday returns unfinished actions dated today.
//
// GET /api/v1/actions/today
func (s *Server) handleListActionsToday(w http.ResponseWriter, r *http.Request) {
	actions, err := s.actions.ListDueToday(r.Context(), "", time.Now())
	if err != nil {
		s.logger.Error("listing today's actions failed", "error", err)
		writeInternalError(w, "listing today's actions failed")
		return
	}
	if actions == nil {
		actions = []*casework.CaseAction{}
	}
	writeJSON(w, http.StatusOK, actions)
}

// handleListActionsWeek returns unfinished actions dated within the
// next seven days.
//
// GET /api/v1/actions/week
func (s *Server) handleListActionsWeek(w http.ResponseWriter, r *http.Request) {
	actions, err := s.actions.ListDueThisWeek(r.Context(), "", time.Now())
	if err != nil {
		s.logger.Error("listing this week's actions failed", "error", err)
		writeInternalError(w, "listing this week's actions failed")
		return
	}
	if actions == nil {
		actions = []*casework.CaseAction{}
	}
	writeJSON(w, http.StatusOK, actions)
}
