package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/casework"
)

// createCaseRequest is the case registration payload. The editor
// defaults to the authenticated user when omitted.
type createCaseRequest struct {
	RegistrationDate string  `json:"registration_date"`
	Editor           string  `json:"editor"`
	Address          *string `json:"address"`
	Description      *string `json:"description"`
}

// updateCaseRequest is the case update payload.
type updateCaseRequest struct {
	Active           bool    `json:"active"`
	RegistrationDate string  `json:"registration_date"`
	Editor           string  `json:"editor"`
	Address          *string `json:"address"`
	Description      *string `json:"description"`
}

// handleListCases returns all cases ordered by number.
//
// GET /api/v1/cases
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.cases.List(r.Context())
	if err != nil {
		s.logger.Error("listing cases failed", "error", err)
		writeInternalError(w, "listing cases failed")
		return
	}
	if cases == nil {
		cases = []*casework.Case{}
	}
	writeJSON(w, http.StatusOK, cases)
}

// handleCreateCase registers a case with the next sequential number.
//
// POST /api/v1/cases
func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RegistrationDate == "" {
		writeBadRequest(w, "registration_date is required")
		return
	}
	if req.Editor == "" {
		req.Editor = claimsFromContext(r.Context()).UserID
	}

	c, err := s.cases.Create(r.Context(), casework.NewCaseInput{
		RegistrationDate: req.RegistrationDate,
		Editor:           req.Editor,
		Address:          req.Address,
		Description:      req.Description,
	})
	if err != nil {
		s.logger.Error("creating case failed", "error", err)
		writeBadRequest(w, "creating case failed")
		return
	}

	s.recordAudit(r, audit.ActionCreate, entityCase, c.ID, map[string]any{"number": c.Number})

	writeJSON(w, http.StatusCreated, c)
}

// handleGetCase returns a case by ID.
//
// GET /api/v1/cases/{id}
func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("fetching case failed", "error", err)
		writeInternalError(w, "fetching case failed")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleUpdateCase updates a case's mutable fields.
//
// PUT /api/v1/cases/{id}
func (s *Server) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	var req updateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RegistrationDate == "" || req.Editor == "" {
		writeBadRequest(w, "registration_date and editor are required")
		return
	}

	c, err := s.cases.Update(r.Context(), chi.URLParam(r, "id"), casework.UpdateCaseInput{
		Active:           req.Active,
		RegistrationDate: req.RegistrationDate,
		Editor:           req.Editor,
		Address:          req.Address,
		Description:      req.Description,
	})
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("updating case failed", "error", err)
		writeBadRequest(w, "updating case failed")
		return
	}

	s.recordAudit(r, audit.ActionUpdate, entityCase, c.ID, map[string]any{"number": c.Number})

	writeJSON(w, http.StatusOK, c)
}

// handleActivateCase reopens a case.
//
// PATCH /api/v1/cases/{id}/activate
func (s *Server) handleActivateCase(w http.ResponseWriter, r *http.Request) {
	s.setCaseActive(w, r, true)
}

// handleDeactivateCase closes a case.
//
// PATCH /api/v1/cases/{id}/deactivate
func (s *Server) handleDeactivateCase(w http.ResponseWriter, r *http.Request) {
	s.setCaseActive(w, r, false)
}

func (s *Server) setCaseActive(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "id")
	if err := s.cases.SetActive(r.Context(), id, active); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("setting case active flag failed", "error", err)
		writeInternalError(w, "setting case active flag failed")
		return
	}

	s.recordAudit(r, audit.ActionUpdate, entityCase, id, map[string]any{"active": active})

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteCase removes a case with its persons and actions.
//
// DELETE /api/v1/cases/{id}
func (s *Server) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	if err := s.cases.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("deleting case failed", "error", err)
		writeInternalError(w, "deleting case failed")
		return
	}

	s.recordAudit(r, audit.ActionDelete, entityCase, chi.URLParam(r, "id"), nil)

	w.WriteHeader(http.StatusNoContent)
}

// handleListCasePersons returns the persons attached to a case.
//
// GET /api/v1/cases/{id}/persons
func (s *Server) handleListCasePersons(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.cases.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("fetching case failed", "error", err)
		writeInternalError(w, "fetching case failed")
		return
	}

	persons, err := s.persons.ListByCase(r.Context(), id)
	if err != nil {
		s.logger.Error("listing persons failed", "error", err)
		writeInternalError(w, "listing persons failed")
		return
	}
	if persons == nil {
		persons = []*casework.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

// handleListCaseActions returns the actions scheduled against a case.
//
// GET /api/v1/cases/{id}/actions
func (s *Server) handleListCaseActions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.cases.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("fetching case failed", "error", err)
		writeInternalError(w, "fetching case failed")
		return
	}

	actions, err := s.actions.ListByCase(r.Context(), id)
	if err != nil {
		s.logger.Error("listing actions failed", "error", err)
		writeInternalError(w, "listing actions failed")
		return
	}
	if actions == nil {
		actions = []*casework.CaseAction{}
	}
	writeJSON(w, http.StatusOK, actions)
}

// handleListCaseActionsToday returns a case's unfinished actions dated
// today.
//
// GET /api/v1/cases/{id}/actions/today
func (s *Server) handleListCaseActionsToday(w http.ResponseWriter, r *http.Request) {
	s.listCaseDueActions(w, r, s.actions.ListDueToday)
}

// handleListCaseActionsWeek returns a case's unfinished actions dated
// within the next seven days.
//
// GET /api/v1/cases/{id}/actions/week
func (s *Server) handleListCaseActionsWeek(w http.ResponseWriter, r *http.Request) {
	s.listCaseDueActions(w, r, s.actions.ListDueThisWeek)
}

func (s *Server) listCaseDueActions(w http.ResponseWriter, r *http.Request,
	list func(context.Context, string, time.Time) ([]*casework.CaseAction, error)) {
	id := chi.URLParam(r, "id")
	if _, err := s.cases.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "case not found")
			return
		}
		s.logger.Error("fetching case failed", "error", err)
		writeInternalError(w, "fetching case failed")
		return
	}

	actions, err := list(r.Context(), id, time.Now())
	if err != nil {
		s.logger.Error("listing due actions failed", "error", err)
		writeInternalError(w, "listing due actions failed")
		return
	}
	if actions == nil {
		actions = []*casework.CaseAction{}
	}
	writeJSON(w, http.StatusOK, actions)
}
