package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caseflow/caseflow/internal/infrastructure/logging"
)

// TokenPair is the result of a successful login or refresh: a signed
// access token plus the opaque refresh token that replaces any prior
// session.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Issuer orchestrates credential verification and token lifecycle. It
// is safe for concurrent use; all session mutations go through the
// token repository's transactional replace.
type Issuer struct {
	users      UserRepository
	tokens     TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *logging.Logger

	// now is the clock used for issuance and validation. Tests swap it
	// for a fixed instant.
	now func() time.Time
}

// NewIssuer creates an issuer with the given repositories and token
// lifetimes.
func NewIssuer(users UserRepository, tokens TokenRepository, secret []byte,
	accessTTL, refreshTTL time.Duration, logger *logging.Logger) *Issuer {
	return &Issuer{
		users:      users,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Login verifies the username and password and, on success, issues a
// fresh token pair. Any previously live refresh token for the user is
// revoked in the same transaction that persists the new one. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (i *Issuer) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := i.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("looking up user: %w", err)
		}
		// Burn a digest computation so unknown usernames take roughly
		// as long as wrong passwords.
		VerifyPassword(password, []byte("caseflow"), []byte("caseflow"))
		i.logger.Warn("login failed", "username", username, "reason", "unknown user")
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		i.logger.Warn("login failed", "username", username, "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	pair, err := i.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	i.logger.Info("login succeeded", "username", username, "user_id", user.ID, "role", user.Role.String())
	return pair, nil
}

// Refresh rotates a session: the presented refresh token is validated,
// revoked, and replaced by a new pair. A token that has already been
// rotated, revoked, or expired is rejected with no side effects.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := i.tokens.GetByPurposeAndToken(ctx, PurposeRefreshToken, refreshToken)
	if err != nil {
		if !errors.Is(err, ErrTokenInvalid) {
			return nil, fmt.Errorf("looking up refresh token: %w", err)
		}
		i.logger.Warn("refresh failed", "reason", "unknown token")
		return nil, ErrTokenInvalid
	}

	if !i.now().Before(stored.ExpiresAt) {
		// Expired rows are cleaned up lazily; reject and remove.
		_ = i.tokens.RevokeByUserAndPurpose(ctx, stored.UserID, PurposeRefreshToken)
		i.logger.Warn("refresh failed", "user_id", stored.UserID, "reason", "expired token")
		return nil, ErrTokenExpired
	}

	user, err := i.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("looking up token owner: %w", err)
		}
		// The account was deleted out from under the session.
		_ = i.tokens.RevokeByUserAndPurpose(ctx, stored.UserID, PurposeRefreshToken)
		i.logger.Warn("refresh failed", "user_id", stored.UserID, "reason", "user gone")
		return nil, ErrTokenInvalid
	}

	pair, err := i.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	i.logger.Info("session refreshed", "user_id", user.ID)
	return pair, nil
}

// Logout revokes the user's refresh token. Already-revoked sessions
// log out successfully; outstanding access tokens simply age out.
func (i *Issuer) Logout(ctx context.Context, userID string) error {
	if err := i.tokens.RevokeByUserAndPurpose(ctx, userID, PurposeRefreshToken); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	i.logger.Info("logout", "user_id", userID)
	return nil
}

// Verify validates an Authorization header against the issuer's secret
// and clock.
func (i *Issuer) Verify(header string) (*Claims, error) {
	return Authorize(header, i.secret, i.now())
}

// issue mints a token pair for the user. The refresh token replaces
// any prior session in one transaction.
func (i *Issuer) issue(ctx context.Context, user *User) (*TokenPair, error) {
	claims := NewClaims(user.ID, user.Role, i.now(), i.accessTTL)
	accessToken, err := SignAccessToken(claims, i.secret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := i.now().Add(i.refreshTTL)
	if _, err := i.tokens.Replace(ctx, user.ID, PurposeRefreshToken, refreshToken, "", expiresAt); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
