package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/auth"
)

// createUserRequest is the account creation payload.
type createUserRequest struct {
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"password"`
	Role      auth.Role `json:"role"`
}

// updateUserRequest is the account update payload.
type updateUserRequest struct {
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      auth.Role `json:"role"`
}

// setPasswordRequest is the password change payload.
type setPasswordRequest struct {
	Password string `json:"password"`
}

// handleListUsers returns all user accounts.
//
// GET /api/v1/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error("listing users failed", "error", err)
		writeInternalError(w, "listing users failed")
		return
	}

	infos := make([]auth.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, u.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleCreateUser creates a user account.
//
// POST /api/v1/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, err := s.users.Create(r.Context(), auth.NewUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			writeConflict(w, "username already exists")
			return
		}
		if errors.Is(err, auth.ErrInvalidRole) {
			writeBadRequest(w, "invalid role")
			return
		}
		s.logger.Error("creating user failed", "error", err)
		writeBadRequest(w, "creating user failed")
		return
	}

	s.recordAudit(r, audit.ActionCreate, entityUser, user.ID,
		map[string]any{"username": user.Username, "role": user.Role.String()})

	writeJSON(w, http.StatusCreated, user.Info())
}

// handleGetUser returns a user account by ID.
//
// GET /api/v1/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("fetching user failed", "error", err)
		writeInternalError(w, "fetching user failed")
		return
	}

	writeJSON(w, http.StatusOK, user.Info())
}

// handleUpdateUser updates a user's profile and role.
//
// PUT /api/v1/users/{id}
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" {
		writeBadRequest(w, "username is required")
		return
	}

	user, err := s.users.Update(r.Context(), chi.URLParam(r, "id"), auth.UpdateUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeNotFound(w, "user not found")
		case errors.Is(err, auth.ErrUsernameExists):
			writeConflict(w, "username already exists")
		case errors.Is(err, auth.ErrInvalidRole):
			writeBadRequest(w, "invalid role")
		default:
			s.logger.Error("updating user failed", "error", err)
			writeBadRequest(w, "updating user failed")
		}
		return
	}

	s.recordAudit(r, audit.ActionUpdate, entityUser, user.ID,
		map[string]any{"username": user.Username, "role": user.Role.String()})

	writeJSON(w, http.StatusOK, user.Info())
}

// handleDeleteUser removes a user account and its sessions.
//
// DELETE /api/v1/users/{id}
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Deleting yourself would orphan the current session mid-request.
	if claims := claimsFromContext(r.Context()); claims != nil && claims.UserID == id {
		writeBadRequest(w, "cannot delete your own account")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("deleting user failed", "error", err)
		writeInternalError(w, "deleting user failed")
		return
	}

	s.recordAudit(r, audit.ActionDelete, entityUser, id, nil)

	w.WriteHeader(http.StatusNoContent)
}

// handleSetUserPassword replaces a user's password.
//
// PUT /api/v1/users/{id}/password
func (s *Server) handleSetUserPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Password == "" {
		writeBadRequest(w, "password is required")
		return
	}

	if err := s.users.UpdatePassword(r.Context(), chi.URLParam(r, "id"), req.Password); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("updating password failed", "error", err)
		writeInternalError(w, "updating password failed")
		return
	}

	s.recordAudit(r, audit.ActionUpdate, entityUser, chi.URLParam(r, "id"),
		map[string]any{"password_changed": true})

	w.WriteHeader(http.StatusNoContent)
}
