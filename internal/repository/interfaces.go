package repository

import (
	"context"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

// TestRepository persists deliverability tests.
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id string) (*models.Test, error)
	ListByStatus(ctx context.Context, status models.TestStatus) ([]*models.Test, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Test, error)
	// MarkChecking moves a pending test into checking and stamps its start
	// time. Returns ErrTestNotPending when the test already left pending.
	MarkChecking(ctx context.Context, id string, startedAt time.Time) error
	// MarkCompleted finishes a test with its score. Writing the same score
	// and timestamp again is harmless so finalization stays re-runnable.
	MarkCompleted(ctx context.Context, id string, score int, completedAt time.Time) error
}

// InboxRepository reads the seeded provider inbox panel.
type InboxRepository interface {
	List(ctx context.Context) ([]*models.TestInbox, error)
	ListActive(ctx context.Context) ([]*models.TestInbox, error)
}

// ResultRepository persists placement rows. Rows are insert-only; a
// duplicate (test, inbox) insert fails with ErrDuplicateResult.
type ResultRepository interface {
	Insert(ctx context.Context, result *models.TestResult) error
	Exists(ctx context.Context, testID, inboxID string) (bool, error)
	ListByTest(ctx context.Context, testID string) ([]*models.TestResult, error)
}

// ProfileRepository reads user profiles for report delivery.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}
