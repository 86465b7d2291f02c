package checker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Vinay-014/email-spam-report/internal/metrics"
	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

// ReportNotifier receives completion events. Delivery is best-effort; a
// notifier failure never rolls back the completed test.
type ReportNotifier interface {
	TestCompleted(testID string)
}

// Finalizer closes out a test once its checking window has elapsed:
// inboxes without an organic result are back-filled as not_received, the
// deliverability score is computed, and the test row is marked completed.
type Finalizer struct {
	tests    repository.TestRepository
	results  repository.ResultRepository
	notifier ReportNotifier
	now      func() time.Time
	logger   *log.Logger
}

func NewFinalizer(tests repository.TestRepository, results repository.ResultRepository, notifier ReportNotifier, now func() time.Time, logger *log.Logger) *Finalizer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Finalizer{
		tests:    tests,
		results:  results,
		notifier: notifier,
		now:      now,
		logger:   logger,
	}
}

// Complete finalizes one test against the cycle's active-inbox snapshot.
// The snapshot is taken once per cycle and shared with the back-fill and
// the score so a panel edit mid-run cannot skew either.
//
// Re-running Complete on an already finalized test inserts nothing and
// recomputes the same score, so a crashed update is safely retried by the
// next cycle.
func (f *Finalizer) Complete(ctx context.Context, test *models.Test, activeInboxes []*models.TestInbox) error {
	existing, err := f.results.ListByTest(ctx, test.ID)
	if err != nil {
		return fmt.Errorf("failed to load results for test %s: %w", test.ID, err)
	}

	recorded := make(map[string]bool, len(existing))
	inboxCount := 0
	for _, result := range existing {
		recorded[result.InboxID] = true
		if result.ResultType == models.ResultTypeInbox {
			inboxCount++
		}
	}

	for _, inbox := range activeInboxes {
		if recorded[inbox.ID] {
			continue
		}
		backfill := &models.TestResult{
			ID:         uuid.NewString(),
			TestID:     test.ID,
			InboxID:    inbox.ID,
			InboxEmail: inbox.Email,
			Provider:   inbox.Provider,
			ResultType: models.ResultTypeNotReceived,
			CreatedAt:  f.now(),
		}
		if err := f.results.Insert(ctx, backfill); err != nil {
			if errors.Is(err, repository.ErrDuplicateResult) {
				continue
			}
			// Leave the test in checking; the next cycle retries the
			// back-fill before any status change.
			return fmt.Errorf("failed to back-fill result for %s: %w", inbox.Email, err)
		}
		metrics.ResultsRecorded.WithLabelValues(string(models.ResultTypeNotReceived)).Inc()
	}

	score := Score(inboxCount, len(activeInboxes))
	if err := f.tests.MarkCompleted(ctx, test.ID, score, f.now()); err != nil {
		return fmt.Errorf("failed to complete test %s: %w", test.ID, err)
	}

	metrics.TestsCompleted.Inc()
	f.logger.Printf("checker: test %s completed with score %d%%", test.TestCode, score)

	if f.notifier != nil {
		f.notifier.TestCompleted(test.ID)
	}
	return nil
}

// Score is the percentage of active inboxes whose placement was "inbox",
// rounded to the nearest integer. Zero active inboxes score zero.
func Score(inboxResults, activeInboxes int) int {
	if activeInboxes == 0 {
		return 0
	}
	return int(math.Round(100 * float64(inboxResults) / float64(activeInboxes)))
}
