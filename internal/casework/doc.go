// Package casework holds the case-management entities and their SQLite
// repositories: cases with sequential numbers, the persons attached to
// each case, per-person jobs, skills and requirements, and the actions
// scheduled against a case.
package casework
