package database

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

var (
	driverMu     sync.RWMutex
	activeDriver string
)

// SetDriver records the driver the connection was opened with so queries
// written with PostgreSQL placeholders can be rewritten for other drivers.
func SetDriver(driver string) {
	driverMu.Lock()
	activeDriver = strings.ToLower(driver)
	driverMu.Unlock()
}

// GetDriver returns the active database driver. Tests may override it via
// TEST_DB_DRIVER without opening a connection.
func GetDriver() string {
	if driver := os.Getenv("TEST_DB_DRIVER"); driver != "" {
		return strings.ToLower(driver)
	}
	driverMu.RLock()
	defer driverMu.RUnlock()
	if activeDriver == "" {
		return "postgres"
	}
	return activeDriver
}

// IsPostgreSQL returns true if using PostgreSQL
func IsPostgreSQL() bool {
	return GetDriver() == "postgres"
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// ConvertPlaceholders converts PostgreSQL placeholders ($1, $2) to the ?
// form MySQL and SQLite expect. Queries are written once in PostgreSQL
// format and rewritten here for the other drivers.
func ConvertPlaceholders(query string) string {
	if IsPostgreSQL() {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}
