package casework

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/infrastructure/database"
)

// PersonInput carries the writable fields of a person record.
type PersonInput struct {
	FirstName         string
	LastName          string
	FatherName        string
	Birthday          string
	NationalNumber    string
	PhoneNumber       string
	CaseID            string
	IsLeader          bool
	FamilyRole        int
	Description       *string
	EducationField    *string
	EducationLocation *string
}

// PersonRepository manages the persons attached to cases.
type PersonRepository interface {
	Create(ctx context.Context, input PersonInput) (*Person, error)
	GetByID(ctx context.Context, id string) (*Person, error)
	ListByCase(ctx context.Context, caseID string) ([]*Person, error)
	Update(ctx context.Context, id string, input PersonInput) (*Person, error)
	Delete(ctx context.Context, id string) error
}

// SQLPersonRepository implements PersonRepository over SQLite.
type SQLPersonRepository struct {
	db *database.DB
}

// NewPersonRepository creates a person repository backed by the database.
func NewPersonRepository(db *database.DB) *SQLPersonRepository {
	return &SQLPersonRepository{db: db}
}

const personColumns = `id, first_name, last_name, father_name, birthday,
	national_number, phone_number, case_id, is_leader, family_role,
	description, education_field, education_location`

func (r *SQLPersonRepository) Create(ctx context.Context, input PersonInput) (*Person, error) {
	p := personFromInput(uuid.New().String(), input)

	query := `
		INSERT INTO persons (` + personColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.FatherName, p.Birthday,
		p.NationalNumber, p.PhoneNumber, p.CaseID, boolToInt(p.IsLeader), p.FamilyRole,
		p.Description, p.EducationField, p.EducationLocation)
	if err != nil {
		return nil, fmt.Errorf("inserting person: %w", err)
	}
	return p, nil
}

func (r *SQLPersonRepository) GetByID(ctx context.Context, id string) (*Person, error) {
	p, err := scanPerson(r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying person: %w", err)
	}
	return p, nil
}

func (r *SQLPersonRepository) ListByCase(ctx context.Context, caseID string) ([]*Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE case_id = ? ORDER BY is_leader DESC, last_name, first_name`,
		caseID)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}
	defer rows.Close()

	var persons []*Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating persons: %w", err)
	}
	return persons, nil
}

func (r *SQLPersonRepository) Update(ctx context.Context, id string, input PersonInput) (*Person, error) {
	query := `
		UPDATE persons SET first_name = ?, last_name = ?, father_name = ?, birthday = ?,
			national_number = ?, phone_number = ?, case_id = ?, is_leader = ?, family_role = ?,
			description = ?, education_field = ?, education_location = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		input.FirstName, input.LastName, input.FatherName, input.Birthday,
		input.NationalNumber, input.PhoneNumber, input.CaseID, boolToInt(input.IsLeader), input.FamilyRole,
		input.Description, input.EducationField, input.EducationLocation, id)
	if err != nil {
		return nil, fmt.Errorf("updating person: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLPersonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func personFromInput(id string, input PersonInput) *Person {
	return &Person{
		ID:                id,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		FatherName:        input.FatherName,
		Birthday:          input.Birthday,
		NationalNumber:    input.NationalNumber,
		PhoneNumber:       input.PhoneNumber,
		CaseID:            input.CaseID,
		IsLeader:          input.IsLeader,
		FamilyRole:        input.FamilyRole,
		Description:       input.Description,
		EducationField:    input.EducationField,
		EducationLocation: input.EducationLocation,
	}
}

func scanPerson(row rowScanner) (*Person, error) {
	var p Person
	var isLeader int
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.FatherName, &p.Birthday,
		&p.NationalNumber, &p.PhoneNumber, &p.CaseID, &isLeader, &p.FamilyRole,
		&p.Description, &p.EducationField, &p.EducationLocation)
	if err != nil {
		return nil, err
	}
	p.IsLeader = isLeader != 0
	return &p, nil
}
