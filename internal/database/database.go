package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Vinay-014/email-spam-report/internal/config"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg *config.DatabaseConfig) (*sql.DB, error) {
	driver := normalizeDriver(cfg.Driver)
	db, err := sql.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	SetDriver(driver)
	return db, nil
}

func normalizeDriver(driver string) string {
	switch driver {
	case "", "postgres", "postgresql":
		return "postgres"
	case "mariadb":
		return "mysql"
	case "sqlite":
		return "sqlite3"
	default:
		return driver
	}
}
