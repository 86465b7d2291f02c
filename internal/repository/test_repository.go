package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/database"
	"github.com/Vinay-014/email-spam-report/internal/models"
)

const defaultQueryTimeout = 10 * time.Second

type SQLTestRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTestRepository(db *sql.DB) *SQLTestRepository {
	return &SQLTestRepository{db: db, timeout: defaultQueryTimeout}
}

func (r *SQLTestRepository) Create(ctx context.Context, test *models.Test) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		INSERT INTO tests (id, user_id, test_code, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`)

	_, err := r.db.ExecContext(ctx, query,
		test.ID,
		test.UserID,
		test.TestCode,
		test.Status,
		test.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}
	return nil
}

func (r *SQLTestRepository) GetByID(ctx context.Context, id string) (*models.Test, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		SELECT id, user_id, test_code, status, deliverability_score,
			created_at, started_at, completed_at
		FROM tests
		WHERE id = $1`)

	test := &models.Test{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&test.ID,
		&test.UserID,
		&test.TestCode,
		&test.Status,
		&test.DeliverabilityScore,
		&test.CreatedAt,
		&test.StartedAt,
		&test.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return test, nil
}

func (r *SQLTestRepository) ListByStatus(ctx context.Context, status models.TestStatus) ([]*models.Test, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		SELECT id, user_id, test_code, status, deliverability_score,
			created_at, started_at, completed_at
		FROM tests
		WHERE status = $1
		ORDER BY created_at`)

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests by status: %w", err)
	}
	defer rows.Close()

	return scanTests(rows)
}

func (r *SQLTestRepository) ListByUser(ctx context.Context, userID string) ([]*models.Test, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		SELECT id, user_id, test_code, status, deliverability_score,
			created_at, started_at, completed_at
		FROM tests
		WHERE user_id = $1
		ORDER BY created_at DESC`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests for user: %w", err)
	}
	defer rows.Close()

	return scanTests(rows)
}

func scanTests(rows *sql.Rows) ([]*models.Test, error) {
	var tests []*models.Test
	for rows.Next() {
		test := &models.Test{}
		err := rows.Scan(
			&test.ID,
			&test.UserID,
			&test.TestCode,
			&test.Status,
			&test.DeliverabilityScore,
			&test.CreatedAt,
			&test.StartedAt,
			&test.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tests: %w", err)
	}
	return tests, nil
}

func (r *SQLTestRepository) MarkChecking(ctx context.Context, id string, startedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		UPDATE tests
		SET status = $2, started_at = $3
		WHERE id = $1 AND status = $4`)

	res, err := r.db.ExecContext(ctx, query, id, models.TestStatusChecking, startedAt, models.TestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to start test: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to start test: %w", err)
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrTestNotPending
	}
	return nil
}

func (r *SQLTestRepository) MarkCompleted(ctx context.Context, id string, score int, completedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		UPDATE tests
		SET status = $2, completed_at = $3, deliverability_score = $4
		WHERE id = $1`)

	res, err := r.db.ExecContext(ctx, query, id, models.TestStatusCompleted, completedAt, score)
	if err != nil {
		return fmt.Errorf("failed to complete test: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete test: %w", err)
	}
	if affected == 0 {
		return ErrTestNotFound
	}
	return nil
}
