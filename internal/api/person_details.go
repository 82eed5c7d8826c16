package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/casework"
)

// jobRequest is the job create/update payload.
type jobRequest struct {
	Title    string  `json:"title"`
	Income   *int64  `json:"income"`
	Location *string `json:"location"`
}

// skillRequest is the skill creation payload.
type skillRequest struct {
	Skill string `json:"skill"`
}

// requirementRequest is the requirement create/update payload.
type requirementRequest struct {
	Description string `json:"description"`
}

// defaultJobRequest selects a person's primary occupation.
type defaultJobRequest struct {
	JobID string `json:"job_id"`
}

// handleListJobs returns a person's jobs.
//
// GET /api/v1/persons/{id}/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.details.ListJobs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("listing jobs failed", "error", err)
		writeInternalError(w, "listing jobs failed")
		return
	}
	if jobs == nil {
		jobs = []*casework.PersonJob{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

// handleCreateJob records a job for a person.
//
// POST /api/v1/persons/{id}/jobs
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	personID := chi.URLParam(r, "id")
	if _, err := s.persons.GetByID(r.Context(), personID); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		s.logger.Error("fetching person failed", "error", err)
		writeInternalError(w, "creating job failed")
		return
	}

	job, err := s.details.CreateJob(r.Context(), personID, req.Title, req.Income, req.Location)
	if err != nil {
		s.logger.Error("creating job failed", "error", err)
		writeBadRequest(w, "creating job failed")
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// handleUpdateJob updates a job record.
//
// PUT /api/v1/jobs/{id}
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	job, err := s.details.UpdateJob(r.Context(), chi.URLParam(r, "id"), req.Title, req.Income, req.Location)
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "job not found")
			return
		}
		s.logger.Error("updating job failed", "error", err)
		writeBadRequest(w, "updating job failed")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleDeleteJob removes a job record.
//
// DELETE /api/v1/jobs/{id}
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.details.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "job not found")
			return
		}
		s.logger.Error("deleting job failed", "error", err)
		writeInternalError(w, "deleting job failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetDefaultJob returns a person's primary occupation.
//
// GET /api/v1/persons/{id}/jobs/default
func (s *Server) handleGetDefaultJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.details.GetDefaultJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "no default job set")
			return
		}
		s.logger.Error("fetching default job failed", "error", err)
		writeInternalError(w, "fetching default job failed")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleSetDefaultJob marks a job as the person's primary occupation.
//
// PUT /api/v1/persons/{id}/jobs/default
func (s *Server) handleSetDefaultJob(w http.ResponseWriter, r *http.Request) {
	var req defaultJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.JobID == "" {
		writeBadRequest(w, "job_id is required")
		return
	}

	if err := s.details.SetDefaultJob(r.Context(), chi.URLParam(r, "id"), req.JobID); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "job not found for person")
			return
		}
		s.logger.Error("setting default job failed", "error", err)
		writeInternalError(w, "setting default job failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearDefaultJob removes the person's primary occupation mark.
//
// DELETE /api/v1/persons/{id}/jobs/default
func (s *Server) handleClearDefaultJob(w http.ResponseWriter, r *http.Request) {
	if err := s.details.ClearDefaultJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.logger.Error("clearing default job failed", "error", err)
		writeInternalError(w, "clearing default job failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListSkills returns a person's skills.
//
// GET /api/v1/persons/{id}/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.details.ListSkills(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("listing skills failed", "error", err)
		writeInternalError(w, "listing skills failed")
		return
	}
	if skills == nil {
		skills = []*casework.PersonSkill{}
	}
	writeJSON(w, http.StatusOK, skills)
}

// handleCreateSkill records a skill for a person.
//
// POST /api/v1/persons/{id}/skills
func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Skill == "" {
		writeBadRequest(w, "skill is required")
		return
	}

	personID := chi.URLParam(r, "id")
	if _, err := s.persons.GetByID(r.Context(), personID); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		s.logger.Error("fetching person failed", "error", err)
		writeInternalError(w, "creating skill failed")
		return
	}

	skill, err := s.details.CreateSkill(r.Context(), personID, req.Skill)
	if err != nil {
		s.logger.Error("creating skill failed", "error", err)
		writeBadRequest(w, "creating skill failed")
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// handleDeleteSkill removes a skill record.
//
// DELETE /api/v1/skills/{id}
func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := s.details.DeleteSkill(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "skill not found")
			return
		}
		s.logger.Error("deleting skill failed", "error", err)
		writeInternalError(w, "deleting skill failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListRequirements returns a person's requirements.
//
// GET /api/v1/persons/{id}/requirements
func (s *Server) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.details.ListRequirements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("listing requirements failed", "error", err)
		writeInternalError(w, "listing requirements failed")
		return
	}
	if reqs == nil {
		reqs = []*casework.PersonRequirement{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

// handleCreateRequirement records a requirement for a person.
//
// POST /api/v1/persons/{id}/requirements
func (s *Server) handleCreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req requirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Description == "" {
		writeBadRequest(w, "description is required")
		return
	}

	personID := chi.URLParam(r, "id")
	if _, err := s.persons.GetByID(r.Context(), personID); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "person not found")
			return
		}
		s.logger.Error("fetching person failed", "error", err)
		writeInternalError(w, "creating requirement failed")
		return
	}

	requirement, err := s.details.CreateRequirement(r.Context(), personID, req.Description)
	if err != nil {
		s.logger.Error("creating requirement failed", "error", err)
		writeBadRequest(w, "creating requirement failed")
		return
	}
	writeJSON(w, http.StatusCreated, requirement)
}

// handleUpdateRequirement updates a requirement record.
//
// PUT /api/v1/requirements/{id}
func (s *Server) handleUpdateRequirement(w http.ResponseWriter, r *http.Request) {
	var req requirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Description == "" {
		writeBadRequest(w, "description is required")
		return
	}

	requirement, err := s.details.UpdateRequirement(r.Context(), chi.URLParam(r, "id"), req.Description)
	if err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "requirement not found")
			return
		}
		s.logger.Error("updating requirement failed", "error", err)
		writeBadRequest(w, "updating requirement failed")
		return
	}
	writeJSON(w, http.StatusOK, requirement)
}

// handleDeleteRequirement removes a requirement record.
//
// DELETE /api/v1/requirements/{id}
func (s *Server) handleDeleteRequirement(w http.ResponseWriter, r *http.Request) {
	if err := s.details.DeleteRequirement(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, casework.ErrNotFound) {
			writeNotFound(w, "requirement not found")
			return
		}
		s.logger.Error("deleting requirement failed", "error", err)
		writeInternalError(w, "deleting requirement failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
