package casework

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestCaseRepositoryCreate(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	ctx := context.Background()

	t.Run("assigns sequential numbers", func(t *testing.T) {
		first := seedCase(t, cases, editor.ID)
		second := seedCase(t, cases, editor.ID)

		if first.Number != 1 {
			t.Errorf("first case number = %d, want 1", first.Number)
		}
		if second.Number != first.Number+1 {
			t.Errorf("second case number = %d, want %d", second.Number, first.Number+1)
		}
	})

	t.Run("numbers are not reused after delete", func(t *testing.T) {
		third := seedCase(t, cases, editor.ID)
		if err := cases.Delete(ctx, third.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		fourth := seedCase(t, cases, editor.ID)
		if fourth.Number <= third.Number {
			t.Errorf("number %d reused after deleting case %d", fourth.Number, third.Number)
		}
	})

	t.Run("new cases start active", func(t *testing.T) {
		c := seedCase(t, cases, editor.ID)
		if !c.Active {
			t.Error("new case is not active")
		}
	})
}

func TestCaseRepositoryConcurrentCreate(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	ctx := context.Background()

	const goroutines = 8
	var wg sync.WaitGroup
	results := make(chan *Case, goroutines)
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := cases.Create(ctx, NewCaseInput{
				RegistrationDate: "2026-09-01",
				Editor:           editor.ID,
			})
			if err != nil {
				errs <- err
				return
			}
			results <- c
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Create() error = %v", err)
	}

	seen := make(map[int64]bool)
	for c := range results {
		if seen[c.Number] {
			t.Errorf("case number %d assigned twice", c.Number)
		}
		seen[c.Number] = true
	}
}

func TestCaseRepositoryLookups(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	ctx := context.Background()

	created := seedCase(t, cases, editor.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := cases.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Number != created.Number {
			t.Errorf("Number = %d, want %d", got.Number, created.Number)
		}
	})

	t.Run("by number", func(t *testing.T) {
		got, err := cases.GetByNumber(ctx, created.Number)
		if err != nil {
			t.Fatalf("GetByNumber() error = %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("ID = %q, want %q", got.ID, created.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := cases.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestCaseRepositoryUpdate(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	ctx := context.Background()

	created := seedCase(t, cases, editor.ID)

	got, err := cases.Update(ctx, created.ID, UpdateCaseInput{
		Active:           true,
		RegistrationDate: "2026-08-15",
		Editor:           editor.ID,
		Address:          strPtr("12 High Street"),
		Description:      strPtr("relocated"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Address == nil || *got.Address != "12 High Street" {
		t.Errorf("Address = %v, want 12 High Street", got.Address)
	}
	if got.Number != created.Number {
		t.Errorf("Number changed on update: %d -> %d", created.Number, got.Number)
	}

	if _, err := cases.Update(ctx, "nope", UpdateCaseInput{Editor: editor.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCaseRepositorySetActive(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	ctx := context.Background()

	created := seedCase(t, cases, editor.ID)

	if err := cases.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	got, err := cases.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Active {
		t.Error("case still active after SetActive(false)")
	}

	if err := cases.SetActive(ctx, "nope", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCaseRepositoryDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	persons := NewPersonRepository(db)
	actions := NewActionRepository(db)
	ctx := context.Background()

	created := seedCase(t, cases, editor.ID)
	person := seedPerson(t, persons, created.ID)
	action, err := actions.Create(ctx, ActionInput{CaseID: created.ID, Action: "visit"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := cases.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := persons.GetByID(ctx, person.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("person survived case delete, error = %v", err)
	}
	if _, err := actions.GetByID(ctx, action.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("action survived case delete, error = %v", err)
	}
}
