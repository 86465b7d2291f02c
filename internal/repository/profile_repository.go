package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/database"
	"github.com/Vinay-014/email-spam-report/internal/models"
)

type SQLProfileRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewProfileRepository(db *sql.DB) *SQLProfileRepository {
	return &SQLProfileRepository{db: db, timeout: defaultQueryTimeout}
}

func (r *SQLProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		SELECT id, email, full_name, created_at, updated_at
		FROM profiles
		WHERE id = $1`)

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
