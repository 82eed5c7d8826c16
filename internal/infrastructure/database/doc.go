// Package database provides SQLite database connectivity for Caseflow.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Embedded schema migrations with a schema_migrations ledger
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//   - Refresh tokens are stored hashed, never raw
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
