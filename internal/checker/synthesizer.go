package checker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Vinay-014/email-spam-report/internal/metrics"
	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

// Synthesizer records at most one placement row per (test, inbox) pair.
// An inbox that already has a row is skipped, so re-checking is a no-op and
// overlapping cycles cannot double-write.
type Synthesizer struct {
	results       repository.ResultRepository
	source        ResultSource
	senderAddress string
	now           func() time.Time
	logger        *log.Logger
}

func NewSynthesizer(results repository.ResultRepository, source ResultSource, senderAddress string, now func() time.Time, logger *log.Logger) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Synthesizer{
		results:       results,
		source:        source,
		senderAddress: senderAddress,
		now:           now,
		logger:        logger,
	}
}

// CheckInbox asks the result source for a placement and persists it. Rows
// are immutable once written; detected_at stays null for not_received.
func (s *Synthesizer) CheckInbox(ctx context.Context, test *models.Test, inbox *models.TestInbox, elapsedMinutes float64) error {
	exists, err := s.results.Exists(ctx, test.ID, inbox.ID)
	if err != nil {
		return fmt.Errorf("failed to check existing result for %s: %w", inbox.Email, err)
	}
	if exists {
		return nil
	}

	resultType, ok := s.source.Draw(elapsedMinutes)
	if !ok {
		return nil
	}

	subject := "Test Email - " + test.TestCode
	result := &models.TestResult{
		ID:           uuid.NewString(),
		TestID:       test.ID,
		InboxID:      inbox.ID,
		InboxEmail:   inbox.Email,
		Provider:     inbox.Provider,
		ResultType:   resultType,
		EmailSubject: &subject,
		EmailFrom:    &s.senderAddress,
		CreatedAt:    s.now(),
	}
	if resultType != models.ResultTypeNotReceived {
		detected := s.now()
		result.DetectedAt = &detected
	}

	if err := s.results.Insert(ctx, result); err != nil {
		if errors.Is(err, repository.ErrDuplicateResult) {
			// Another cycle got there first.
			return nil
		}
		return fmt.Errorf("failed to record result for %s: %w", inbox.Email, err)
	}

	metrics.ResultsRecorded.WithLabelValues(string(resultType)).Inc()
	s.logger.Printf("checker: recorded %s for %s (test %s)", resultType, inbox.Email, test.TestCode)
	return nil
}
