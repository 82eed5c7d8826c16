package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/auth"
)

// loginRequest is the login payload.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest is the token refresh payload.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleLogin verifies credentials and issues a token pair.
//
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	pair, err := s.issuer.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeBadRequest(w, "invalid credentials")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	entry := &audit.Entry{Action: audit.ActionLogin, EntityType: entitySession,
		Details: map[string]any{"username": req.Username}}
	if user, err := s.users.GetByUsername(r.Context(), req.Username); err == nil {
		entry.UserID = user.ID
	}
	if err := s.trail.Record(r.Context(), entry); err != nil {
		s.logger.Error("recording audit entry failed", "error", err, "action", audit.ActionLogin)
	}

	writeJSON(w, http.StatusOK, pair)
}

// handleRefresh rotates a refresh token into a new token pair.
//
// POST /api/v1/auth/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	pair, err := s.issuer.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrTokenExpired) {
			writeBadRequest(w, "invalid refresh token")
			return
		}
		s.logger.Error("refresh failed", "error", err)
		writeInternalError(w, "refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// handleLogout revokes the caller's refresh token.
//
// POST /api/v1/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	if err := s.issuer.Logout(r.Context(), claims.UserID); err != nil {
		s.logger.Error("logout failed", "error", err, "user_id", claims.UserID)
		writeInternalError(w, "logout failed")
		return
	}

	s.recordAudit(r, audit.ActionLogout, entitySession, "", nil)

	w.WriteHeader(http.StatusNoContent)
}

// handleUserInfo returns the authenticated user's profile.
//
// GET /api/v1/auth/user-info
func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Account deleted while the access token was still live.
			writeUnauthorized(w, "unauthorised")
			return
		}
		s.logger.Error("fetching user info failed", "error", err, "user_id", claims.UserID)
		writeInternalError(w, "fetching user info failed")
		return
	}

	writeJSON(w, http.StatusOK, user.Info())
}
