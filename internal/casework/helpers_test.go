package casework

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/infrastructure/database"
	_ "github.com/caseflow/caseflow/migrations"
)

// openTestDB opens a fresh temp-file database with the full migrated
// schema, since the casework tables reference users.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "casework_test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// seedEditor creates a user account that cases can reference.
func seedEditor(t *testing.T, db *database.DB) *auth.User {
	t.Helper()

	users := auth.NewUserRepository(db)
	user, err := users.Create(context.Background(), auth.NewUserInput{
		Username: "editor",
		Password: "pw",
		Role:     auth.RoleEditor,
	})
	if err != nil {
		t.Fatalf("seeding editor: %v", err)
	}
	return user
}

// seedCase registers a case owned by the editor.
func seedCase(t *testing.T, cases CaseRepository, editorID string) *Case {
	t.Helper()

	c, err := cases.Create(context.Background(), NewCaseInput{
		RegistrationDate: "2026-09-01",
		Editor:           editorID,
	})
	if err != nil {
		t.Fatalf("seeding case: %v", err)
	}
	return c
}

// seedPerson attaches a person to the case.
func seedPerson(t *testing.T, persons PersonRepository, caseID string) *Person {
	t.Helper()

	p, err := persons.Create(context.Background(), PersonInput{
		FirstName:      "Test",
		LastName:       "Person",
		FatherName:     "Father",
		Birthday:       "1990-01-01",
		NationalNumber: "1234567890",
		PhoneNumber:    "+100000000",
		CaseID:         caseID,
	})
	if err != nil {
		t.Fatalf("seeding person: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }
