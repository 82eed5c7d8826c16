package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/caseflow/caseflow/internal/infrastructure/database"
)

// NewUserInput carries the fields needed to create an account.
type NewUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	Role      Role
}

// UpdateUserInput carries the mutable profile fields of an account.
// Password changes go through UpdatePassword.
type UpdateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Role      Role
}

// UserRepository manages stored user accounts.
type UserRepository interface {
	Create(ctx context.Context, input NewUserInput) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*User, error)
	UpdatePassword(ctx context.Context, id, password string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SQLUserRepository implements UserRepository over SQLite.
type SQLUserRepository struct {
	db *database.DB
}

// NewUserRepository creates a user repository backed by the database.
func NewUserRepository(db *database.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) Create(ctx context.Context, input NewUserInput) (*User, error) {
	if !IsValidUsername(input.Username) {
		return nil, fmt.Errorf("invalid username %q", input.Username)
	}
	if _, err := RoleFromInt(int(input.Role)); err != nil {
		return nil, err
	}

	hash, salt, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         input.Role,
	}

	query := `
		INSERT INTO users (id, username, first_name, last_name, password_hash, password_salt, role)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.FirstName, user.LastName,
		user.PasswordHash, user.PasswordSalt, int(user.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, input.Username)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, username, first_name, last_name, password_hash, password_salt, role
		FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, first_name, last_name, password_hash, password_salt, role
		FROM users WHERE username = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

func (r *SQLUserRepository) List(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, username, first_name, last_name, password_hash, password_salt, role
		FROM users ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (r *SQLUserRepository) Update(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	if !IsValidUsername(input.Username) {
		return nil, fmt.Errorf("invalid username %q", input.Username)
	}
	if _, err := RoleFromInt(int(input.Role)); err != nil {
		return nil, err
	}

	query := `
		UPDATE users SET username = ?, first_name = ?, last_name = ?, role = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		input.Username, input.FirstName, input.LastName, int(input.Role), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, input.Username)
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	} else if n == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLUserRepository) UpdatePassword(ctx context.Context, id, password string) error {
	hash, salt, err := HashPassword(password)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, password_salt = ? WHERE id = ?`,
		hash, salt, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking password update result: %w", err)
	} else if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *SQLUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	} else if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *SQLUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanUser.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUser reads a user row, validating the stored role.
func scanUser(row rowScanner) (*User, error) {
	var user User
	var roleInt int
	err := row.Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.PasswordSalt, &roleInt)
	if err != nil {
		return nil, err
	}
	role, err := RoleFromInt(roleInt)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	user.Role = role
	return &user, nil
}

// isUniqueViolation reports whether the error is a SQLite unique
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
