package checker

import (
	"context"
	"fmt"
	"log"

	"github.com/Vinay-014/email-spam-report/internal/metrics"
	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

// Summary reports one check cycle. TestsProcessed counts the tests the
// cycle attempted, whether or not each one succeeded.
type Summary struct {
	TestsProcessed int `json:"testsProcessed"`
}

// Runner drives one check cycle over every in-flight test. Cycles are
// stateless; all progress is durable in the store, so a killed cycle loses
// nothing and the next scheduled run resumes correctly.
type Runner struct {
	tests      repository.TestRepository
	inboxes    repository.InboxRepository
	progressor *Progressor
	logger     *log.Logger
}

// RunCycle processes every checking test once. Store load failures abort
// the cycle; a single test failing is logged and skipped.
func (r *Runner) RunCycle(ctx context.Context) (Summary, error) {
	tests, err := r.tests.ListByStatus(ctx, models.TestStatusChecking)
	if err != nil {
		metrics.CheckCycles.WithLabelValues("failed").Inc()
		return Summary{}, fmt.Errorf("failed to load checking tests: %w", err)
	}

	if len(tests) == 0 {
		metrics.CheckCycles.WithLabelValues("empty").Inc()
		return Summary{}, nil
	}

	r.logger.Printf("checker: found %d active test(s)", len(tests))

	// One snapshot of the panel for the whole cycle; every test sees the
	// same inbox universe for both checking and finalization.
	inboxes, err := r.inboxes.ListActive(ctx)
	if err != nil {
		metrics.CheckCycles.WithLabelValues("failed").Inc()
		return Summary{}, fmt.Errorf("failed to load active inboxes: %w", err)
	}

	for _, test := range tests {
		if err := r.progressor.Process(ctx, test, inboxes); err != nil {
			r.logger.Printf("checker: test %s: %v", test.TestCode, err)
		}
		metrics.TestsProcessed.Inc()
	}

	metrics.CheckCycles.WithLabelValues("success").Inc()
	return Summary{TestsProcessed: len(tests)}, nil
}
