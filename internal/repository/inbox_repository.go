package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/database"
	"github.com/Vinay-014/email-spam-report/internal/models"
)

type SQLInboxRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewInboxRepository(db *sql.DB) *SQLInboxRepository {
	return &SQLInboxRepository{db: db, timeout: defaultQueryTimeout}
}

func (r *SQLInboxRepository) List(ctx context.Context) ([]*models.TestInbox, error) {
	return r.list(ctx, false)
}

func (r *SQLInboxRepository) ListActive(ctx context.Context) ([]*models.TestInbox, error) {
	return r.list(ctx, true)
}

func (r *SQLInboxRepository) list(ctx context.Context, activeOnly bool) ([]*models.TestInbox, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, email, provider, display_name, is_active, created_at
		FROM test_inboxes`
	if activeOnly {
		query += `
		WHERE is_active = true`
	}
	query += `
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, database.ConvertPlaceholders(query))
	if err != nil {
		return nil, fmt.Errorf("failed to list test inboxes: %w", err)
	}
	defer rows.Close()

	var inboxes []*models.TestInbox
	for rows.Next() {
		inbox := &models.TestInbox{}
		err := rows.Scan(
			&inbox.ID,
			&inbox.Email,
			&inbox.Provider,
			&inbox.DisplayName,
			&inbox.IsActive,
			&inbox.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test inbox: %w", err)
		}
		inboxes = append(inboxes, inbox)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate test inboxes: %w", err)
	}
	return inboxes, nil
}
