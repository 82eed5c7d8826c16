package casework

import (
	"context"
	"errors"
	"testing"
)

func TestPersonRepositoryCRUD(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	persons := NewPersonRepository(db)
	ctx := context.Background()

	c := seedCase(t, cases, editor.ID)

	t.Run("create and fetch", func(t *testing.T) {
		created, err := persons.Create(ctx, PersonInput{
			FirstName:      "Amina",
			LastName:       "Rahimi",
			FatherName:     "Karim",
			Birthday:       "1985-03-12",
			NationalNumber: "9876543210",
			PhoneNumber:    "+1987654321",
			CaseID:         c.ID,
			IsLeader:       true,
			FamilyRole:     1,
			EducationField: strPtr("nursing"),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := persons.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.FirstName != "Amina" || !got.IsLeader {
			t.Errorf("fetched person mismatch: %+v", got)
		}
		if got.EducationField == nil || *got.EducationField != "nursing" {
			t.Errorf("EducationField = %v, want nursing", got.EducationField)
		}
		if got.Description != nil {
			t.Errorf("Description = %v, want nil", got.Description)
		}
	})

	t.Run("update", func(t *testing.T) {
		p := seedPerson(t, persons, c.ID)
		got, err := persons.Update(ctx, p.ID, PersonInput{
			FirstName:      "Updated",
			LastName:       p.LastName,
			FatherName:     p.FatherName,
			Birthday:       p.Birthday,
			NationalNumber: p.NationalNumber,
			PhoneNumber:    p.PhoneNumber,
			CaseID:         c.ID,
			FamilyRole:     2,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.FirstName != "Updated" || got.FamilyRole != 2 {
			t.Errorf("update not applied: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		p := seedPerson(t, persons, c.ID)
		if err := persons.Delete(ctx, p.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := persons.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := persons.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
		if err := persons.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestPersonRepositoryListByCase(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	persons := NewPersonRepository(db)
	ctx := context.Background()

	c1 := seedCase(t, cases, editor.ID)
	c2 := seedCase(t, cases, editor.ID)

	if _, err := persons.Create(ctx, PersonInput{
		FirstName: "B", LastName: "Member", FatherName: "F",
		Birthday: "2000-01-01", NationalNumber: "1", PhoneNumber: "1",
		CaseID: c1.ID,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := persons.Create(ctx, PersonInput{
		FirstName: "A", LastName: "Leader", FatherName: "F",
		Birthday: "1970-01-01", NationalNumber: "2", PhoneNumber: "2",
		CaseID: c1.ID, IsLeader: true,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	seedPerson(t, persons, c2.ID)

	list, err := persons.ListByCase(ctx, c1.ID)
	if err != nil {
		t.Fatalf("ListByCase() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByCase() returned %d persons, want 2", len(list))
	}
	if !list[0].IsLeader {
		t.Error("family leader not listed first")
	}
}
