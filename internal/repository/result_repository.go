package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/database"
	"github.com/Vinay-014/email-spam-report/internal/models"
)

type SQLResultRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewResultRepository(db *sql.DB) *SQLResultRepository {
	return &SQLResultRepository{db: db, timeout: defaultQueryTimeout}
}

func (r *SQLResultRepository) Insert(ctx context.Context, result *models.TestResult) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		INSERT INTO test_results (
			id, test_id, inbox_id, inbox_email, provider, result_type,
			detected_at, email_subject, email_from, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)

	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.TestID,
		result.InboxID,
		result.InboxEmail,
		result.Provider,
		result.ResultType,
		result.DetectedAt,
		result.EmailSubject,
		result.EmailFrom,
		result.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateResult
		}
		return fmt.Errorf("failed to insert test result: %w", err)
	}
	return nil
}

func (r *SQLResultRepository) Exists(ctx context.Context, testID, inboxID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		SELECT 1 FROM test_results
		WHERE test_id = $1 AND inbox_id = $2`)

	var one int
	err := r.db.QueryRowContext(ctx, query, testID, inboxID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existing result: %w", err)
	}
	return true, nil
}

func (r *SQLResultRepository) ListByTest(ctx context.Context, testID string) ([]*models.TestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := database.ConvertPlaceholders(`
		SELECT id, test_id, inbox_id, inbox_email, provider, result_type,
			detected_at, email_subject, email_from, created_at
		FROM test_results
		WHERE test_id = $1
		ORDER BY created_at`)

	rows, err := r.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	defer rows.Close()

	var results []*models.TestResult
	for rows.Next() {
		result := &models.TestResult{}
		err := rows.Scan(
			&result.ID,
			&result.TestID,
			&result.InboxID,
			&result.InboxEmail,
			&result.Provider,
			&result.ResultType,
			&result.DetectedAt,
			&result.EmailSubject,
			&result.EmailFrom,
			&result.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate test results: %w", err)
	}
	return results, nil
}
