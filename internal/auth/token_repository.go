package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/infrastructure/database"
)

// GenerateRefreshToken produces a new opaque refresh token: 32 bytes of
// CSPRNG output, hex encoded. The raw value is handed to the client;
// only its hash is persisted.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of an opaque token.
// Lookups always go through the hash so a database leak does not expose
// usable tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenRepository manages persisted opaque tokens.
type TokenRepository interface {
	// Create inserts a token row. The token field of the input is the
	// raw opaque value; it is hashed before storage.
	Create(ctx context.Context, userID, purpose, token, payload string, expiresAt time.Time) (*UserToken, error)

	// GetByPurposeAndToken looks up a live token row by its purpose and
	// raw opaque value. Returns ErrTokenInvalid when no row matches.
	GetByPurposeAndToken(ctx context.Context, purpose, token string) (*UserToken, error)

	// RevokeByUserAndPurpose deletes all token rows for the user and
	// purpose. It is idempotent: revoking an absent token succeeds.
	RevokeByUserAndPurpose(ctx context.Context, userID, purpose string) error

	// Replace atomically revokes any existing tokens for the user and
	// purpose and inserts a new one. No interleaving can observe two
	// live tokens or zero tokens mid-rotation.
	Replace(ctx context.Context, userID, purpose, token, payload string, expiresAt time.Time) (*UserToken, error)

	// DeleteExpired removes token rows whose expiry is at or before the
	// given instant, returning the number of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SQLTokenRepository implements TokenRepository over SQLite.
type SQLTokenRepository struct {
	db *database.DB
}

// NewTokenRepository creates a token repository backed by the database.
func NewTokenRepository(db *database.DB) *SQLTokenRepository {
	return &SQLTokenRepository{db: db}
}

func (r *SQLTokenRepository) Create(ctx context.Context, userID, purpose, token, payload string, expiresAt time.Time) (*UserToken, error) {
	ut := &UserToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: HashToken(token),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
		Payload:   payload,
	}

	query := `
		INSERT INTO user_tokens (id, user_id, purpose, token_hash, created_at, expires_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		ut.ID, ut.UserID, ut.Purpose, ut.TokenHash,
		ut.CreatedAt.Format(time.RFC3339), ut.ExpiresAt.Format(time.RFC3339), ut.Payload)
	if err != nil {
		return nil, fmt.Errorf("inserting token: %w", err)
	}
	return ut, nil
}

func (r *SQLTokenRepository) GetByPurposeAndToken(ctx context.Context, purpose, token string) (*UserToken, error) {
	query := `
		SELECT id, user_id, purpose, token_hash, created_at, expires_at, payload
		FROM user_tokens
		WHERE purpose = ? AND token_hash = ?`

	row := r.db.QueryRowContext(ctx, query, purpose, HashToken(token))
	ut, err := scanToken(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("querying token: %w", err)
	}
	return ut, nil
}

func (r *SQLTokenRepository) RevokeByUserAndPurpose(ctx context.Context, userID, purpose string) error {
	query := `DELETE FROM user_tokens WHERE user_id = ? AND purpose = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, purpose); err != nil {
		return fmt.Errorf("revoking tokens: %w", err)
	}
	return nil
}

func (r *SQLTokenRepository) Replace(ctx context.Context, userID, purpose, token, payload string, expiresAt time.Time) (*UserToken, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning token rotation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = ? AND purpose = ?`,
		userID, purpose); err != nil {
		return nil, fmt.Errorf("revoking previous tokens: %w", err)
	}

	ut := &UserToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: HashToken(token),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
		Payload:   payload,
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_tokens (id, user_id, purpose, token_hash, created_at, expires_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ut.ID, ut.UserID, ut.Purpose, ut.TokenHash,
		ut.CreatedAt.Format(time.RFC3339), ut.ExpiresAt.Format(time.RFC3339), ut.Payload); err != nil {
		return nil, fmt.Errorf("inserting rotated token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing token rotation: %w", err)
	}
	return ut, nil
}

func (r *SQLTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM user_tokens WHERE expires_at <= ?`
	result, err := r.db.ExecContext(ctx, query, now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("deleting expired tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tokens: %w", err)
	}
	return n, nil
}

// scanToken reads a token row. Timestamps are stored as RFC 3339 text.
func scanToken(row *sql.Row) (*UserToken, error) {
	var ut UserToken
	var createdAt, expiresAt string
	err := row.Scan(&ut.ID, &ut.UserID, &ut.Purpose, &ut.TokenHash, &createdAt, &expiresAt, &ut.Payload)
	if err != nil {
		return nil, err
	}
	if ut.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing token created_at: %w", err)
	}
	if ut.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, fmt.Errorf("parsing token expires_at: %w", err)
	}
	return &ut, nil
}
