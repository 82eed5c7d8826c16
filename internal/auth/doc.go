// Package auth provides authentication and authorisation for Caseflow.
//
// It implements a 3-tier role model (admin → editor → user) with:
//   - Argon2id credential digests over password + stored salt
//   - Short-lived HS256-signed JWT access tokens (no store access to validate)
//   - Long-lived opaque refresh tokens, persisted hashed, rotated on every use
//   - Stateless header guard producing verified claims per request
//   - Pure capability checks derived from the role (never stored)
//
// Refresh tokens follow a strict single-active-session model per
// (user, purpose): issuing a new token always revokes every existing one
// for that key inside the same transaction, so two concurrent logins can
// never leave two live sessions behind.
package auth
