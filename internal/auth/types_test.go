package auth

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRoleFromInt(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		want    Role
		wantErr bool
	}{
		{"admin", 0, RoleAdmin, false},
		{"editor", 1, RoleEditor, false},
		{"user", 2, RoleUser, false},
		{"negative", -1, 0, true},
		{"out of range", 3, 0, true},
		{"far out of range", 99, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoleFromInt(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("RoleFromInt(%d) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidRole) {
					t.Errorf("RoleFromInt(%d) error = %v, want ErrInvalidRole", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RoleFromInt(%d) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("RoleFromInt(%d) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleJSON(t *testing.T) {
	t.Run("marshals as lowercase name", func(t *testing.T) {
		data, err := json.Marshal(RoleEditor)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(data) != `"editor"` {
			t.Errorf("Marshal(RoleEditor) = %s, want %q", data, `"editor"`)
		}
	})

	t.Run("rejects invalid role on marshal", func(t *testing.T) {
		if _, err := json.Marshal(Role(7)); err == nil {
			t.Error("Marshal(Role(7)) expected error")
		}
	})

	t.Run("round trips", func(t *testing.T) {
		for _, role := range []Role{RoleAdmin, RoleEditor, RoleUser} {
			data, err := json.Marshal(role)
			if err != nil {
				t.Fatalf("Marshal(%v) error = %v", role, err)
			}
			var got Role
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", data, err)
			}
			if got != role {
				t.Errorf("round trip %v = %v", role, got)
			}
		}
	})

	t.Run("rejects unknown name on unmarshal", func(t *testing.T) {
		var got Role
		if err := json.Unmarshal([]byte(`"superuser"`), &got); err == nil {
			t.Error("Unmarshal(superuser) expected error")
		}
	})
}

func TestUserJSONHidesSecrets(t *testing.T) {
	user := User{
		ID:           "u1",
		Username:     "alice",
		PasswordHash: []byte("hash"),
		PasswordSalt: []byte("salt"),
		Role:         RoleUser,
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, field := range []string{"password_hash", "password_salt", "PasswordHash", "PasswordSalt"} {
		if _, ok := raw[field]; ok {
			t.Errorf("serialised user exposes %s", field)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"admin", "alice.b", "a-b_c", "User123", "x"}
	for _, u := range valid {
		if !IsValidUsername(u) {
			t.Errorf("IsValidUsername(%q) = false, want true", u)
		}
	}

	invalid := []string{"", "with space", "tab\tchar", "semi;colon", "ünïcode"}
	for _, u := range invalid {
		if IsValidUsername(u) {
			t.Errorf("IsValidUsername(%q) = true, want false", u)
		}
	}
}
