package casework

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/infrastructure/database"
)

// PersonDetailsRepository manages the records hanging off a person:
// jobs (with an optional default), skills, and requirements.
type PersonDetailsRepository interface {
	CreateJob(ctx context.Context, personID, title string, income *int64, location *string) (*PersonJob, error)
	ListJobs(ctx context.Context, personID string) ([]*PersonJob, error)
	UpdateJob(ctx context.Context, id, title string, income *int64, location *string) (*PersonJob, error)
	DeleteJob(ctx context.Context, id string) error

	// SetDefaultJob marks a job as the person's primary occupation,
	// replacing any previous default.
	SetDefaultJob(ctx context.Context, personID, jobID string) error
	GetDefaultJob(ctx context.Context, personID string) (*PersonJob, error)
	ClearDefaultJob(ctx context.Context, personID string) error

	CreateSkill(ctx context.Context, personID, skill string) (*PersonSkill, error)
	ListSkills(ctx context.Context, personID string) ([]*PersonSkill, error)
	DeleteSkill(ctx context.Context, id string) error

	CreateRequirement(ctx context.Context, personID, description string) (*PersonRequirement, error)
	ListRequirements(ctx context.Context, personID string) ([]*PersonRequirement, error)
	UpdateRequirement(ctx context.Context, id, description string) (*PersonRequirement, error)
	DeleteRequirement(ctx context.Context, id string) error
}

// SQLPersonDetailsRepository implements PersonDetailsRepository over SQLite.
type SQLPersonDetailsRepository struct {
	db *database.DB
}

// NewPersonDetailsRepository creates a details repository backed by the
// database.
func NewPersonDetailsRepository(db *database.DB) *SQLPersonDetailsRepository {
	return &SQLPersonDetailsRepository{db: db}
}

func (r *SQLPersonDetailsRepository) CreateJob(ctx context.Context, personID, title string, income *int64, location *string) (*PersonJob, error) {
	job := &PersonJob{
		ID:       uuid.New().String(),
		PersonID: personID,
		Title:    title,
		Income:   income,
		Location: location,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO person_jobs (id, person_id, title, income, location) VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.PersonID, job.Title, job.Income, job.Location)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return job, nil
}

func (r *SQLPersonDetailsRepository) ListJobs(ctx context.Context, personID string) ([]*PersonJob, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, title, income, location FROM person_jobs WHERE person_id = ? ORDER BY title`,
		personID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*PersonJob
	for rows.Next() {
		var job PersonJob
		if err := rows.Scan(&job.ID, &job.PersonID, &job.Title, &job.Income, &job.Location); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func (r *SQLPersonDetailsRepository) UpdateJob(ctx context.Context, id, title string, income *int64, location *string) (*PersonJob, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE person_jobs SET title = ?, income = ?, location = ? WHERE id = ?`,
		title, income, location, id)
	if err != nil {
		return nil, fmt.Errorf("updating job: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	var job PersonJob
	err = r.db.QueryRowContext(ctx,
		`SELECT id, person_id, title, income, location FROM person_jobs WHERE id = ?`, id).
		Scan(&job.ID, &job.PersonID, &job.Title, &job.Income, &job.Location)
	if err != nil {
		return nil, fmt.Errorf("querying job: %w", err)
	}
	return &job, nil
}

func (r *SQLPersonDetailsRepository) DeleteJob(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "person_jobs", id)
}

// SetDefaultJob replaces any existing default in one transaction. The
// job must belong to the person.
func (r *SQLPersonDetailsRepository) SetDefaultJob(ctx context.Context, personID, jobID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning default job update: %w", err)
	}
	defer tx.Rollback()

	var owner string
	if err := tx.QueryRowContext(ctx,
		`SELECT person_id FROM person_jobs WHERE id = ?`, jobID).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("querying job owner: %w", err)
	}
	if owner != personID {
		return fmt.Errorf("job %s does not belong to person %s: %w", jobID, personID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM person_default_job WHERE person_id = ?`, personID); err != nil {
		return fmt.Errorf("clearing previous default job: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO person_default_job (person_id, person_job_id) VALUES (?, ?)`,
		personID, jobID); err != nil {
		return fmt.Errorf("setting default job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing default job update: %w", err)
	}
	return nil
}

func (r *SQLPersonDetailsRepository) GetDefaultJob(ctx context.Context, personID string) (*PersonJob, error) {
	var job PersonJob
	err := r.db.QueryRowContext(ctx,
		`SELECT j.id, j.person_id, j.title, j.income, j.location
		 FROM person_jobs j
		 JOIN person_default_job d ON d.person_job_id = j.id
		 WHERE d.person_id = ?`, personID).
		Scan(&job.ID, &job.PersonID, &job.Title, &job.Income, &job.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying default job: %w", err)
	}
	return &job, nil
}

func (r *SQLPersonDetailsRepository) ClearDefaultJob(ctx context.Context, personID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM person_default_job WHERE person_id = ?`, personID); err != nil {
		return fmt.Errorf("clearing default job: %w", err)
	}
	return nil
}

func (r *SQLPersonDetailsRepository) CreateSkill(ctx context.Context, personID, skill string) (*PersonSkill, error) {
	s := &PersonSkill{ID: uuid.New().String(), PersonID: personID, Skill: skill}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO person_skills (id, person_id, skill) VALUES (?, ?, ?)`,
		s.ID, s.PersonID, s.Skill)
	if err != nil {
		return nil, fmt.Errorf("inserting skill: %w", err)
	}
	return s, nil
}

func (r *SQLPersonDetailsRepository) ListSkills(ctx context.Context, personID string) ([]*PersonSkill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, skill FROM person_skills WHERE person_id = ? ORDER BY skill`,
		personID)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	defer rows.Close()

	var skills []*PersonSkill
	for rows.Next() {
		var s PersonSkill
		if err := rows.Scan(&s.ID, &s.PersonID, &s.Skill); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		skills = append(skills, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skills: %w", err)
	}
	return skills, nil
}

func (r *SQLPersonDetailsRepository) DeleteSkill(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "person_skills", id)
}

func (r *SQLPersonDetailsRepository) CreateRequirement(ctx context.Context, personID, description string) (*PersonRequirement, error) {
	req := &PersonRequirement{ID: uuid.New().String(), PersonID: personID, Description: description}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO person_requirements (id, person_id, description) VALUES (?, ?, ?)`,
		req.ID, req.PersonID, req.Description)
	if err != nil {
		return nil, fmt.Errorf("inserting requirement: %w", err)
	}
	return req, nil
}

func (r *SQLPersonDetailsRepository) ListRequirements(ctx context.Context, personID string) ([]*PersonRequirement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, description FROM person_requirements WHERE person_id = ?`,
		personID)
	if err != nil {
		return nil, fmt.Errorf("listing requirements: %w", err)
	}
	defer rows.Close()

	var reqs []*PersonRequirement
	for rows.Next() {
		var req PersonRequirement
		if err := rows.Scan(&req.ID, &req.PersonID, &req.Description); err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requirements: %w", err)
	}
	return reqs, nil
}

func (r *SQLPersonDetailsRepository) UpdateRequirement(ctx context.Context, id, description string) (*PersonRequirement, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE person_requirements SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return nil, fmt.Errorf("updating requirement: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	var req PersonRequirement
	err = r.db.QueryRowContext(ctx,
		`SELECT id, person_id, description FROM person_requirements WHERE id = ?`, id).
		Scan(&req.ID, &req.PersonID, &req.Description)
	if err != nil {
		return nil, fmt.Errorf("querying requirement: %w", err)
	}
	return &req, nil
}

func (r *SQLPersonDetailsRepository) DeleteRequirement(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "person_requirements", id)
}

// deleteByID removes a row from one of the detail tables. The table
// name is always a compile-time constant at call sites.
func (r *SQLPersonDetailsRepository) deleteByID(ctx context.Context, table, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}
