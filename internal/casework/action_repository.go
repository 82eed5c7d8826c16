package casework

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/infrastructure/database"
)

// dateLayout is the wire and storage format for action dates.
const dateLayout = "2006-01-02"

// ActionInput carries the writable fields of a case action.
type ActionInput struct {
	CaseID     string
	Action     string
	Status     ActionStatus
	ActionDate *string
}

// ActionRepository manages the actions scheduled against cases.
type ActionRepository interface {
	Create(ctx context.Context, input ActionInput) (*CaseAction, error)
	GetByID(ctx context.Context, id string) (*CaseAction, error)
	ListByCase(ctx context.Context, caseID string) ([]*CaseAction, error)
	Update(ctx context.Context, id string, input ActionInput) (*CaseAction, error)
	SetStatus(ctx context.Context, id string, status ActionStatus) error
	Delete(ctx context.Context, id string) error

	// ListDue returns pending and in-progress actions whose date falls
	// within [from, to), ordered by date. An empty caseID spans all
	// cases; otherwise results are scoped to that case.
	ListDue(ctx context.Context, caseID string, from, to time.Time) ([]*CaseAction, error)

	// ListDueToday returns unfinished actions dated today.
	ListDueToday(ctx context.Context, caseID string, now time.Time) ([]*CaseAction, error)

	// ListDueThisWeek returns unfinished actions dated within the
	// rolling seven days starting today.
	ListDueThisWeek(ctx context.Context, caseID string, now time.Time) ([]*CaseAction, error)
}

// SQLActionRepository implements ActionRepository over SQLite.
type SQLActionRepository struct {
	db *database.DB
}

// NewActionRepository creates an action repository backed by the database.
func NewActionRepository(db *database.DB) *SQLActionRepository {
	return &SQLActionRepository{db: db}
}

func (r *SQLActionRepository) Create(ctx context.Context, input ActionInput) (*CaseAction, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("invalid action status %d", input.Status)
	}
	if err := validateActionDate(input.ActionDate); err != nil {
		return nil, err
	}

	a := &CaseAction{
		ID:         uuid.New().String(),
		CaseID:     input.CaseID,
		Action:     input.Action,
		Status:     input.Status,
		ActionDate: input.ActionDate,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO case_actions (id, case_id, action, status, action_date) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.CaseID, a.Action, int(a.Status), a.ActionDate)
	if err != nil {
		return nil, fmt.Errorf("inserting action: %w", err)
	}
	return a, nil
}

func (r *SQLActionRepository) GetByID(ctx context.Context, id string) (*CaseAction, error) {
	a, err := scanAction(r.db.QueryRowContext(ctx,
		`SELECT id, case_id, action, status, action_date FROM case_actions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying action: %w", err)
	}
	return a, nil
}

func (r *SQLActionRepository) ListByCase(ctx context.Context, caseID string) ([]*CaseAction, error) {
	return r.queryActions(ctx,
		`SELECT id, case_id, action, status, action_date
		 FROM case_actions WHERE case_id = ?
		 ORDER BY action_date IS NULL, action_date`, caseID)
}

func (r *SQLActionRepository) Update(ctx context.Context, id string, input ActionInput) (*CaseAction, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("invalid action status %d", input.Status)
	}
	if err := validateActionDate(input.ActionDate); err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE case_actions SET case_id = ?, action = ?, status = ?, action_date = ? WHERE id = ?`,
		input.CaseID, input.Action, int(input.Status), input.ActionDate, id)
	if err != nil {
		return nil, fmt.Errorf("updating action: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLActionRepository) SetStatus(ctx context.Context, id string, status ActionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid action status %d", status)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE case_actions SET status = ? WHERE id = ?`, int(status), id)
	if err != nil {
		return fmt.Errorf("setting action status: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLActionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM case_actions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting action: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLActionRepository) ListDue(ctx context.Context, caseID string, from, to time.Time) ([]*CaseAction, error) {
	query := `SELECT id, case_id, action, status, action_date
		 FROM case_actions
		 WHERE status != ? AND action_date IS NOT NULL AND action_date >= ? AND action_date < ?`
	args := []interface{}{int(ActionStatusDone), from.Format(dateLayout), to.Format(dateLayout)}
	if caseID != "" {
		query += ` AND case_id = ?`
		args = append(args, caseID)
	}
	query += ` ORDER BY action_date`
	return r.queryActions(ctx, query, args...)
}

func (r *SQLActionRepository) ListDueToday(ctx context.Context, caseID string, now time.Time) ([]*CaseAction, error) {
	return r.ListDue(ctx, caseID, now, now.AddDate(0, 0, 1))
}

func (r *SQLActionRepository) ListDueThisWeek(ctx context.Context, caseID string, now time.Time) ([]*CaseAction, error) {
	return r.ListDue(ctx, caseID, now, now.AddDate(0, 0, 7))
}

func (r *SQLActionRepository) queryActions(ctx context.Context, query string, args ...interface{}) ([]*CaseAction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	defer rows.Close()

	var actions []*CaseAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actions: %w", err)
	}
	return actions, nil
}

func scanAction(row rowScanner) (*CaseAction, error) {
	var a CaseAction
	var status int
	err := row.Scan(&a.ID, &a.CaseID, &a.Action, &status, &a.ActionDate)
	if err != nil {
		return nil, err
	}
	a.Status = ActionStatus(status)
	return &a, nil
}

func validateActionDate(date *string) error {
	if date == nil {
		return nil
	}
	if _, err := time.Parse(dateLayout, *date); err != nil {
		return fmt.Errorf("invalid action date %q: %w", *date, err)
	}
	return nil
}
