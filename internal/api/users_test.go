package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/caseflow/caseflow/internal/auth"
)

func TestUserAdministration(t *testing.T) {
	srv, _, users := testServer(t)
	router := srv.buildRouter()

	admin := seedUser(t, users, "root", "adminpw", auth.RoleAdmin)
	adminPair := loginAs(t, router, "root", "adminpw")

	t.Run("create user", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/users", adminPair.AccessToken,
			map[string]any{
				"username": "newbie", "first_name": "New", "last_name": "User",
				"password": "pw", "role": "user",
			})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var info auth.UserInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if info.Username != "newbie" || info.Role != auth.RoleUser {
			t.Errorf("created user mismatch: %+v", info)
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/users", adminPair.AccessToken,
			map[string]any{"username": "newbie", "password": "pw", "role": "user"})
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/users", adminPair.AccessToken,
			map[string]any{"username": "odd", "password": "pw", "role": "overlord"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("list users", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/users", adminPair.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var infos []auth.UserInfo
		if err := json.Unmarshal(w.Body.Bytes(), &infos); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(infos) != 2 {
			t.Errorf("listed %d users, want 2", len(infos))
		}
	})

	t.Run("update user role", func(t *testing.T) {
		target := seedUser(t, users, "promote", "pw", auth.RoleUser)
		w := doJSON(t, router, http.MethodPut, "/api/v1/users/"+target.ID, adminPair.AccessToken,
			map[string]any{"username": "promote", "role": "editor"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var info auth.UserInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if info.Role != auth.RoleEditor {
			t.Errorf("role = %v, want editor", info.Role)
		}
	})

	t.Run("set password", func(t *testing.T) {
		target := seedUser(t, users, "rotated", "oldpw", auth.RoleUser)
		w := doJSON(t, router, http.MethodPut, "/api/v1/users/"+target.ID+"/password", adminPair.AccessToken,
			map[string]string{"password": "newpw"})
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d", w.Code)
		}
		loginAs(t, router, "rotated", "newpw")
	})

	t.Run("delete user", func(t *testing.T) {
		target := seedUser(t, users, "doomed", "pw", auth.RoleUser)
		w := doJSON(t, router, http.MethodDelete, "/api/v1/users/"+target.ID, adminPair.AccessToken, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d", w.Code)
		}
		w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+target.ID, adminPair.AccessToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("cannot delete own account", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/v1/users/"+admin.ID, adminPair.AccessToken, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("editor cannot administer users", func(t *testing.T) {
		seedUser(t, users, "staff", "pw", auth.RoleEditor)
		staffPair := loginAs(t, router, "staff", "pw")

		w := doJSON(t, router, http.MethodGet, "/api/v1/users", staffPair.AccessToken, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}
