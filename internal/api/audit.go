package api

import (
	"net/http"
	"strconv"

	"github.com/caseflow/caseflow/internal/audit"
)

// Entity types recorded in the audit trail.
const (
	entityUser    = "user"
	entityCase    = "case"
	entitySession = "session"
)

// recordAudit writes an audit entry for the given action. Audit failures
// are logged but never fail the request that triggered them.
func (s *Server) recordAudit(r *http.Request, action, entityType, entityID string, details map[string]any) {
	entry := &audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if claims := claimsFromContext(r.Context()); claims != nil {
		entry.UserID = claims.UserID
	}

	if err := s.trail.Record(r.Context(), entry); err != nil {
		s.logger.Error("recording audit entry failed",
			"error", err, "action", action, "entity_type", entityType)
	}
}

// handleListAudit returns the audit trail, filtered and paginated.
//
// GET /api/v1/audit
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		UserID:     q.Get("user_id"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "invalid offset")
			return
		}
		filter.Offset = n
	}

	result, err := s.trail.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries failed", "error", err)
		writeInternalError(w, "listing audit entries failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
