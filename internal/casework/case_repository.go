package casework

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/infrastructure/database"
)

// NewCaseInput carries the fields needed to register a case. The case
// number is assigned by the repository.
type NewCaseInput struct {
	RegistrationDate string
	Editor           string
	Address          *string
	Description      *string
}

// UpdateCaseInput carries the mutable fields of a case. Number and ID
// are immutable.
type UpdateCaseInput struct {
	Active           bool
	RegistrationDate string
	Editor           string
	Address          *string
	Description      *string
}

// CaseRepository manages stored cases.
type CaseRepository interface {
	Create(ctx context.Context, input NewCaseInput) (*Case, error)
	GetByID(ctx context.Context, id string) (*Case, error)
	GetByNumber(ctx context.Context, number int64) (*Case, error)
	List(ctx context.Context) ([]*Case, error)
	Update(ctx context.Context, id string, input UpdateCaseInput) (*Case, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// SQLCaseRepository implements CaseRepository over SQLite.
type SQLCaseRepository struct {
	db *database.DB
}

// NewCaseRepository creates a case repository backed by the database.
func NewCaseRepository(db *database.DB) *SQLCaseRepository {
	return &SQLCaseRepository{db: db}
}

// Create registers a case with the next sequential number. Numbers
// come from a high-water-mark counter so a deleted case never frees
// its number; the bump and the insert share a transaction so
// concurrent creates cannot collide.
func (r *SQLCaseRepository) Create(ctx context.Context, input NewCaseInput) (*Case, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning case creation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE counters SET value = value + 1 WHERE name = 'case_number'`); err != nil {
		return nil, fmt.Errorf("advancing case number: %w", err)
	}

	var number int64
	if err := tx.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE name = 'case_number'`).Scan(&number); err != nil {
		return nil, fmt.Errorf("assigning case number: %w", err)
	}

	c := &Case{
		ID:               uuid.New().String(),
		Number:           number,
		Active:           true,
		RegistrationDate: input.RegistrationDate,
		Editor:           input.Editor,
		Address:          input.Address,
		Description:      input.Description,
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cases (id, number, active, registration_date, editor, address, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Number, boolToInt(c.Active), c.RegistrationDate, c.Editor, c.Address, c.Description); err != nil {
		return nil, fmt.Errorf("inserting case: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing case creation: %w", err)
	}
	return c, nil
}

func (r *SQLCaseRepository) GetByID(ctx context.Context, id string) (*Case, error) {
	c, err := scanCase(r.db.QueryRowContext(ctx,
		`SELECT id, number, active, registration_date, editor, address, description
		 FROM cases WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying case: %w", err)
	}
	return c, nil
}

func (r *SQLCaseRepository) GetByNumber(ctx context.Context, number int64) (*Case, error) {
	c, err := scanCase(r.db.QueryRowContext(ctx,
		`SELECT id, number, active, registration_date, editor, address, description
		 FROM cases WHERE number = ?`, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying case: %w", err)
	}
	return c, nil
}

func (r *SQLCaseRepository) List(ctx context.Context) ([]*Case, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, number, active, registration_date, editor, address, description
		 FROM cases ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var cases []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cases: %w", err)
	}
	return cases, nil
}

func (r *SQLCaseRepository) Update(ctx context.Context, id string, input UpdateCaseInput) (*Case, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cases SET active = ?, registration_date = ?, editor = ?, address = ?, description = ?
		 WHERE id = ?`,
		boolToInt(input.Active), input.RegistrationDate, input.Editor, input.Address, input.Description, id)
	if err != nil {
		return nil, fmt.Errorf("updating case: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLCaseRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cases SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("setting case active flag: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLCaseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting case: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCase(row rowScanner) (*Case, error) {
	var c Case
	var active int
	err := row.Scan(&c.ID, &c.Number, &active, &c.RegistrationDate, &c.Editor, &c.Address, &c.Description)
	if err != nil {
		return nil, err
	}
	c.Active = active != 0
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
