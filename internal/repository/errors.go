package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

var (
	// ErrTestNotFound is returned when a test id has no row.
	ErrTestNotFound = errors.New("test not found")
	// ErrTestNotPending is returned when a start is attempted on a test
	// that already left the pending state.
	ErrTestNotPending = errors.New("test is not pending")
	// ErrProfileNotFound is returned when a user profile lookup misses.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrDuplicateResult is returned when a second result row is inserted
	// for the same (test, inbox) pair. Callers treat it as an idempotent
	// skip, not a failure.
	ErrDuplicateResult = errors.New("result already recorded for this inbox")
)

// isUniqueViolation reports whether err is a unique-constraint failure on
// any of the supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	// SQLite reports constraint failures as plain strings.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
