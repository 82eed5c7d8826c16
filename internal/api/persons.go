package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/casework"
)

// personRequest is the person create/update payload.
type personRequest struct {
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	FatherName        string  `json:"father_name"`
	Birthday          string  `json:"birthday"`
	NationalNumber    string  `json:"national_number"`
	PhoneNumber       string  `json:"phone_number"`
	CaseID            string  `json:"case_id"`
	IsLeader          bool    `json:"is_leader"`
	FamilyRole        int     `json:"family_role"`
	Description       *string `json:"description"`
	EducationField    *string `json:"education_field"`
	EducationLocation *string `json:"education_location"`
}

func (req *personRequest) toInput() casework.PersonInput {
	return casework.PersonInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		FatherName:        req.FatherName,
		Birthday:          req.Birthday,
		NationalNumber:    req.NationalNumber,
		PhoneNumber:       req.PhoneNumber,
		CaseID:            req.CaseID,
		IsLeader:          req.IsLeader,
		FamilyRole:        req.FamilyRole,
		Description:       req.Description,
		EducationField:    req.EducationField,
		EducationLocation: req.EducationLocation,
	}
}

// handleCreatePerson attaches a person to a case.
//
// POST /api/v1/persons
func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.CaseID == "" {
		writeBadRequest(w, "first_name, last_name, and case_id are required")
		return
	}

	if _, err := s.cases.GetByID(r.Context(), req.CaseID); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeBadRequest(w, "case does not exist")
			return
		}
		s.logger.Error("fetching case failed", "error", err)
		writeInternalError(w, "creating person failed")
		return
	}

	p, err := s.persons.Create(r.Context(), req.toInput())
	if err != nil {
		s.logger.Error("creating person failed", "error", err)
		writeBadRequest(w, "creating person failed")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// handleGetPerson returns a person by ID.
//
// GET /api/v1/persons/{id}
func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.persons.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		s.logger.Error("fetching person failed", "error", err)
		writeInternalError(w, "fetching person failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdatePerson updates a person record.
//
// PUT /api/v1/persons/{id}
func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.CaseID == "" {
		writeBadRequest(w, "first_name, last_name, and case_id are required")
		return
	}

	p, err := s.persons.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		s.logger.Error("updating person failed", "error", err)
		writeBadRequest(w, "updating person failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleDeletePerson removes a person and their details.
//
// DELETE /api/v1/persons/{id}
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.persons.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		s.logger.Error("deleting person failed", "error", err)
		writeInternalError(w, "deleting person failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
