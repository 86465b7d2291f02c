package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

type brokenTestRepo struct {
	repository.TestRepository
}

func (r *brokenTestRepo) ListByStatus(context.Context, models.TestStatus) ([]*models.Test, error) {
	return nil, errors.New("store unavailable")
}

func newPanelRepo() *repository.MemoryInboxRepository {
	repo := repository.NewMemoryInboxRepository()
	for _, inbox := range fivePanel() {
		repo.Add(inbox)
	}
	return repo
}

func TestRunCycleNoActiveTests(t *testing.T) {
	runner := New(repository.NewMemoryTestRepository(), newPanelRepo(), repository.NewMemoryResultRepository(),
		WithLogger(quietLogger()))

	summary, err := runner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if summary.TestsProcessed != 0 {
		t.Fatalf("expected no tests processed, got %d", summary.TestsProcessed)
	}
}

func TestRunCycleLoadFailureAbortsCycle(t *testing.T) {
	runner := New(&brokenTestRepo{}, newPanelRepo(), repository.NewMemoryResultRepository(),
		WithLogger(quietLogger()))

	if _, err := runner.RunCycle(context.Background()); err == nil {
		t.Fatal("expected an error when the test load fails")
	}
}

func TestRunCycleIsolatesFailingTest(t *testing.T) {
	tests := repository.NewMemoryTestRepository()
	results := repository.NewMemoryResultRepository()

	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	now := started.Add(2 * time.Minute)

	first := checkingTest(started)
	first.ID, first.TestCode = "t-1", "AAAA1111"
	// The middle test is corrupt: checking with no start time.
	second := &models.Test{ID: "t-2", UserID: "u-1", TestCode: "BBBB2222", Status: models.TestStatusChecking, CreatedAt: started.Add(time.Second)}
	third := checkingTest(started)
	third.ID, third.TestCode = "t-3", "CCCC3333"
	third.CreatedAt = started.Add(2 * time.Second)

	for _, test := range []*models.Test{first, second, third} {
		if err := tests.Create(context.Background(), test); err != nil {
			t.Fatalf("create test %s: %v", test.ID, err)
		}
	}

	runner := New(tests, newPanelRepo(), results,
		WithSource(fixedSource{models.ResultTypeInbox, true}),
		WithClock(testClock(now)),
		WithLogger(quietLogger()))

	summary, err := runner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if summary.TestsProcessed != 3 {
		t.Fatalf("summary counts attempted tests; expected 3, got %d", summary.TestsProcessed)
	}

	for _, id := range []string{"t-1", "t-3"} {
		rows, _ := results.ListByTest(context.Background(), id)
		if len(rows) != 5 {
			t.Fatalf("test %s should have been processed, got %d rows", id, len(rows))
		}
	}
	rows, _ := results.ListByTest(context.Background(), "t-2")
	if len(rows) != 0 {
		t.Fatalf("corrupt test should be skipped, got %d rows", len(rows))
	}
}

func TestRunCycleEndToEnd(t *testing.T) {
	tests := repository.NewMemoryTestRepository()
	results := repository.NewMemoryResultRepository()
	inboxes := newPanelRepo()
	notifier := &recordingNotifier{}

	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	test := checkingTest(started)
	if err := tests.Create(context.Background(), test); err != nil {
		t.Fatalf("create test: %v", err)
	}

	clock := started
	runner := New(tests, inboxes, results,
		WithNotifier(notifier),
		WithClock(func() time.Time { return clock }),
		WithLogger(quietLogger()))

	// At elapsed 0 the detection probability is 0: nothing is recorded.
	if _, err := runner.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	rows, _ := results.ListByTest(context.Background(), test.ID)
	if len(rows) != 0 {
		t.Fatalf("expected no results at elapsed 0, got %d", len(rows))
	}

	// Past the window the next cycle must finalize.
	clock = started.Add(5*time.Minute + 6*time.Second)
	summary, err := runner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	if summary.TestsProcessed != 1 {
		t.Fatalf("expected 1 test processed, got %d", summary.TestsProcessed)
	}

	got, _ := tests.GetByID(context.Background(), test.ID)
	if got.Status != models.TestStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.DeliverabilityScore == nil {
		t.Fatal("completed test must carry a score")
	}

	rows, _ = results.ListByTest(context.Background(), test.ID)
	if len(rows) != 5 {
		t.Fatalf("expected exactly one row per active inbox, got %d", len(rows))
	}
	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.InboxID] {
			t.Fatalf("duplicate row for inbox %s", row.InboxID)
		}
		seen[row.InboxID] = true
	}

	if len(notifier.completed) != 1 {
		t.Fatalf("expected one completion notification, got %d", len(notifier.completed))
	}

	// A third cycle sees no checking tests.
	summary, err = runner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("third cycle failed: %v", err)
	}
	if summary.TestsProcessed != 0 {
		t.Fatalf("completed test must not be reprocessed, got %d", summary.TestsProcessed)
	}
}
