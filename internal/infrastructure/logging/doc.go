// Package logging provides structured logging for Caseflow.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Security
//
// Never log secrets, tokens, passwords, or password hashes. Authentication
// failures are logged with their internal reason only — the HTTP response
// always carries a generic message.
package logging
