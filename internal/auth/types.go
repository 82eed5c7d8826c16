package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Role represents an authorisation tier in the system.
// It is persisted as a small integer with a closed domain; any other
// stored value is an invariant violation, never coerced to a default.
type Role int

const (
	// RoleAdmin has full control: user management plus everything editors do.
	RoleAdmin Role = 0

	// RoleEditor manages case content: cases, persons, jobs, skills,
	// requirements, and actions.
	RoleEditor Role = 1

	// RoleUser is a read-limited account with no editing capabilities.
	RoleUser Role = 2
)

// roleNames maps each role to its wire representation.
var roleNames = map[Role]string{
	RoleAdmin:  "admin",
	RoleEditor: "editor",
	RoleUser:   "user",
}

// RoleFromInt converts a stored integer into a Role.
// Values outside the domain are reported as ErrInvalidRole — the value
// comes from persisted data, but it is still treated defensively.
func RoleFromInt(n int) (Role, error) {
	r := Role(n)
	if _, ok := roleNames[r]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRole, n)
	}
	return r, nil
}

// RoleFromString converts a wire name ("admin", "editor", "user") into a Role.
func RoleFromString(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// String returns the wire name of the role, or "unknown" outside the domain.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON serialises the role as its wire name.
func (r Role) MarshalJSON() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, int(r))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a role from its wire name.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("parsing role: %w", err)
	}
	parsed, err := RoleFromString(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User represents a stored credential: account identity plus the salted
// password digest and role. Hash and salt never leave this package's
// persistence layer in serialised form.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash []byte `json:"-"` // never serialised
	PasswordSalt []byte `json:"-"` // never serialised
	Role         Role   `json:"role"`
}

// UserInfo is the outward projection of a user account.
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// Info returns the serialisable projection of the user.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// PurposeRefreshToken is the purpose discriminator for refresh tokens
// in the user_tokens store.
const PurposeRefreshToken = "REFRESH_TOKEN"

// UserToken represents a stored opaque token for session management.
// At most one live row exists per (user, purpose).
type UserToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Purpose   string    `json:"purpose"`
	TokenHash string    `json:"-"` // never serialised
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Payload   string    `json:"payload,omitempty"`
}

// Sentinel errors for auth operations.
var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords — callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	ErrMissingCredentials = errors.New("missing credentials")
	ErrMalformedToken     = errors.New("malformed token")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")

	ErrInvalidRole = errors.New("invalid user role")
	ErrForbidden   = errors.New("insufficient permissions")
)
