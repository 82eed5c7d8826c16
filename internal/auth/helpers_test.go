package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/caseflow/caseflow/internal/infrastructure/config"
	"github.com/caseflow/caseflow/internal/infrastructure/database"
	"github.com/caseflow/caseflow/internal/infrastructure/logging"
)

const testSchema = `
CREATE TABLE users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	password_hash BLOB NOT NULL,
	password_salt BLOB NOT NULL,
	role INTEGER NOT NULL DEFAULT 2
);

CREATE TABLE user_tokens (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	purpose TEXT NOT NULL,
	token_hash TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	expires_at TEXT NOT NULL,
	payload TEXT NOT NULL DEFAULT ''
);
`

// openTestDB opens a fresh temp-file database with the auth schema.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "auth_test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}
	return db
}

// testLogger returns a quiet logger for tests.
func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{
		Level:  "error",
		Format: "text",
		Output: "stderr",
	}, "test")
}

// seedTestUser creates a user directly through the repository.
func seedTestUser(t *testing.T, users UserRepository, username, password string, role Role) *User {
	t.Helper()

	user, err := users.Create(context.Background(), NewUserInput{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  password,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("seeding test user %q: %v", username, err)
	}
	return user
}

// countTokens returns the number of token rows for a user and purpose.
func countTokens(t *testing.T, db *database.DB, userID, purpose string) int {
	t.Helper()

	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM user_tokens WHERE user_id = ? AND purpose = ?`,
		userID, purpose).Scan(&n)
	if err != nil {
		t.Fatalf("counting tokens: %v", err)
	}
	return n
}

// fixedClock returns a deterministic clock for issuance tests.
func fixedClock(instant time.Time) func() time.Time {
	return func() time.Time { return instant }
}

func timeNowPlusHour() time.Time {
	return time.Now().Add(time.Hour)
}
