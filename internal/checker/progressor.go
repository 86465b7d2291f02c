package checker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

// Progressor advances one checking test: it either hands the test to the
// finalizer once the window has elapsed, or runs a synthesizer pass over
// every inbox in the cycle's snapshot.
type Progressor struct {
	synthesizer *Synthesizer
	finalizer   *Finalizer
	window      time.Duration
	now         func() time.Time
	logger      *log.Logger
}

func NewProgressor(synthesizer *Synthesizer, finalizer *Finalizer, window time.Duration, now func() time.Time, logger *log.Logger) *Progressor {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Progressor{
		synthesizer: synthesizer,
		finalizer:   finalizer,
		window:      window,
		now:         now,
		logger:      logger,
	}
}

func (p *Progressor) Process(ctx context.Context, test *models.Test, inboxes []*models.TestInbox) error {
	if test.StartedAt == nil {
		return fmt.Errorf("test %s is checking but has no start time", test.ID)
	}

	elapsed := test.Elapsed(p.now())
	if elapsed >= p.window {
		return p.finalizer.Complete(ctx, test, inboxes)
	}

	elapsedMinutes := elapsed.Minutes()
	for _, inbox := range inboxes {
		// One inbox failing must not block the rest of the panel.
		if err := p.synthesizer.CheckInbox(ctx, test, inbox, elapsedMinutes); err != nil {
			p.logger.Printf("checker: inbox %s for test %s: %v", inbox.Email, test.TestCode, err)
		}
	}
	return nil
}
