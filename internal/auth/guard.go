package auth

import (
	"fmt"
	"strings"
	"time"
)

// bearerPrefix is the authorisation scheme accepted by the guard.
const bearerPrefix = "Bearer "

// Authorize validates an Authorization header and returns the claims of
// the embedded access token. It distinguishes three failure modes so
// callers can log the cause, though they all map to the same outward
// 401 response:
//
//   - ErrMissingCredentials: the header is absent or empty
//   - ErrMalformedToken: the header does not carry a Bearer token
//   - ErrTokenInvalid / ErrTokenExpired: the token fails verification
func Authorize(header string, secret []byte, now time.Time) (*Claims, error) {
	if header == "" {
		return nil, ErrMissingCredentials
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, fmt.Errorf("%w: expected Bearer scheme", ErrMalformedToken)
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty bearer token", ErrMalformedToken)
	}
	return ParseAccessToken(tokenString, secret, now)
}

// Require checks that the claims satisfy the given capability check.
// Insufficient role is reported as ErrForbidden.
func Require(claims *Claims, check func(Role) bool) error {
	if claims == nil {
		return ErrMissingCredentials
	}
	if !check(claims.Role) {
		return fmt.Errorf("%w: role %s", ErrForbidden, claims.Role)
	}
	return nil
}
