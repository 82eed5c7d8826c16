package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/auth"
)

// ─── Audit Trail Tests ─────────────────────────────────────────────

func TestAudit_RecordsLoginAndMutations(t *testing.T) {
	srv, _, users := testServer(t)
	router := srv.buildRouter()

	admin := seedUser(t, users, "admin", "secret", auth.RoleAdmin)
	pair := loginAs(t, router, "admin", "secret")

	// Create and delete a user, both of which should leave a trail.
	w := doJSON(t, router, http.MethodPost, "/api/v1/users", pair.AccessToken, map[string]any{
		"username": "temp", "password": "pw", "role": "editor",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user status = %d, body = %s", w.Code, w.Body.String())
	}
	var created auth.UserInfo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created user: %v", err)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/"+created.ID, pair.AccessToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete user status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/audit", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("audit status = %d, body = %s", w.Code, w.Body.String())
	}

	var result audit.ListResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal audit result: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3 (login, create, delete)", result.Total)
	}

	// The three requests can land within the same second, so check the
	// recorded actions rather than their order.
	byAction := make(map[string]audit.Entry, len(result.Entries))
	for _, e := range result.Entries {
		byAction[e.Action] = e
	}
	if e, ok := byAction[audit.ActionLogin]; !ok || e.UserID != admin.ID {
		t.Errorf("login entry = %+v, want login by %s", e, admin.ID)
	}
	if e, ok := byAction[audit.ActionCreate]; !ok || e.UserID != admin.ID || e.EntityID != created.ID {
		t.Errorf("create entry = %+v, want create of %s by %s", e, created.ID, admin.ID)
	}
	if e, ok := byAction[audit.ActionDelete]; !ok || e.EntityID != created.ID {
		t.Errorf("delete entry = %+v, want delete of %s", e, created.ID)
	}
}

func TestAudit_FilterByEntityType(t *testing.T) {
	srv, _, users := testServer(t)
	router := srv.buildRouter()

	seedUser(t, users, "admin", "secret", auth.RoleAdmin)
	pair := loginAs(t, router, "admin", "secret")

	w := doJSON(t, router, http.MethodPost, "/api/v1/cases", pair.AccessToken, map[string]any{
		"registration_date": "2026-09-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create case status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/audit?entity_type=case", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("audit status = %d, body = %s", w.Code, w.Body.String())
	}

	var result audit.ListResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal audit result: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total = %d, want 1", result.Total)
	}
	if result.Entries[0].Action != audit.ActionCreate || result.Entries[0].EntityType != "case" {
		t.Errorf("unexpected entry: %+v", result.Entries[0])
	}
}

func TestAudit_InvalidLimitRejected(t *testing.T) {
	srv, _, users := testServer(t)
	router := srv.buildRouter()

	seedUser(t, users, "admin", "secret", auth.RoleAdmin)
	pair := loginAs(t, router, "admin", "secret")

	w := doJSON(t, router, http.MethodGet, "/api/v1/audit?limit=abc", pair.AccessToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAudit_EditorDenied(t *testing.T) {
	srv, _, users := testServer(t)
	router := srv.buildRouter()

	seedUser(t, users, "editor", "secret", auth.RoleEditor)
	pair := loginAs(t, router, "editor", "secret")

	w := doJSON(t, router, http.MethodGet, "/api/v1/audit", pair.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
