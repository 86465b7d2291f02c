package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

type recordingNotifier struct {
	completed []string
}

func (n *recordingNotifier) TestCompleted(testID string) {
	n.completed = append(n.completed, testID)
}

// failingTestRepo makes MarkCompleted fail while delegating everything else.
type failingTestRepo struct {
	repository.TestRepository
}

func (r *failingTestRepo) MarkCompleted(context.Context, string, int, time.Time) error {
	return errors.New("store unavailable")
}

func seedResult(t *testing.T, results repository.ResultRepository, testID string, inbox *models.TestInbox, resultType models.ResultType) {
	t.Helper()
	err := results.Insert(context.Background(), &models.TestResult{
		ID:         "r-" + inbox.ID,
		TestID:     testID,
		InboxID:    inbox.ID,
		InboxEmail: inbox.Email,
		Provider:   inbox.Provider,
		ResultType: resultType,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("seeding result for %s failed: %v", inbox.Email, err)
	}
}

func fivePanel() []*models.TestInbox {
	return []*models.TestInbox{
		panelInbox("i-1", "probe@gmail.com", "gmail"),
		panelInbox("i-2", "probe@outlook.com", "outlook"),
		panelInbox("i-3", "probe@yahoo.com", "yahoo"),
		panelInbox("i-4", "probe@aol.com", "aol"),
		panelInbox("i-5", "probe@zoho.com", "zoho"),
	}
}

func TestFinalizerScoreAndBackfill(t *testing.T) {
	tests := repository.NewMemoryTestRepository()
	results := repository.NewMemoryResultRepository()
	notifier := &recordingNotifier{}

	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	now := started.Add(6 * time.Minute)
	test := checkingTest(started)
	if err := tests.Create(context.Background(), test); err != nil {
		t.Fatalf("create test: %v", err)
	}

	panel := fivePanel()
	// 3 inbox placements out of 5 active inboxes, one spam, one silent.
	seedResult(t, results, test.ID, panel[0], models.ResultTypeInbox)
	seedResult(t, results, test.ID, panel[1], models.ResultTypeInbox)
	seedResult(t, results, test.ID, panel[2], models.ResultTypeInbox)
	seedResult(t, results, test.ID, panel[3], models.ResultTypeSpam)

	finalizer := NewFinalizer(tests, results, notifier, testClock(now), quietLogger())
	if err := finalizer.Complete(context.Background(), test, panel); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	got, err := tests.GetByID(context.Background(), test.ID)
	if err != nil {
		t.Fatalf("reload test: %v", err)
	}
	if got.Status != models.TestStatusCompleted {
		t.Fatalf("expected completed status, got %s", got.Status)
	}
	if got.DeliverabilityScore == nil || *got.DeliverabilityScore != 60 {
		t.Fatalf("expected score 60, got %v", got.DeliverabilityScore)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at %v, got %v", now, got.CompletedAt)
	}

	rows, _ := results.ListByTest(context.Background(), test.ID)
	if len(rows) != len(panel) {
		t.Fatalf("expected one row per active inbox (%d), got %d", len(panel), len(rows))
	}
	for _, row := range rows {
		if row.InboxID == "i-5" {
			if row.ResultType != models.ResultTypeNotReceived {
				t.Fatalf("silent inbox should be back-filled not_received, got %s", row.ResultType)
			}
			if row.DetectedAt != nil {
				t.Fatalf("back-filled row must have null detected_at")
			}
		}
	}

	if len(notifier.completed) != 1 || notifier.completed[0] != test.ID {
		t.Fatalf("expected one completion notification for %s, got %v", test.ID, notifier.completed)
	}
}

func TestFinalizerIsIdempotent(t *testing.T) {
	tests := repository.NewMemoryTestRepository()
	results := repository.NewMemoryResultRepository()

	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	test := checkingTest(started)
	if err := tests.Create(context.Background(), test); err != nil {
		t.Fatalf("create test: %v", err)
	}

	panel := fivePanel()
	seedResult(t, results, test.ID, panel[0], models.ResultTypeInbox)
	seedResult(t, results, test.ID, panel[1], models.ResultTypePromotions)

	finalizer := NewFinalizer(tests, results, nil, testClock(started.Add(6*time.Minute)), quietLogger())
	if err := finalizer.Complete(context.Background(), test, panel); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}
	firstRows, _ := results.ListByTest(context.Background(), test.ID)
	first, _ := tests.GetByID(context.Background(), test.ID)

	if err := finalizer.Complete(context.Background(), test, panel); err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	secondRows, _ := results.ListByTest(context.Background(), test.ID)
	second, _ := tests.GetByID(context.Background(), test.ID)

	if len(firstRows) != len(panel) || len(secondRows) != len(firstRows) {
		t.Fatalf("row count drifted: first=%d second=%d", len(firstRows), len(secondRows))
	}
	if *first.DeliverabilityScore != *second.DeliverabilityScore {
		t.Fatalf("score drifted: first=%d second=%d", *first.DeliverabilityScore, *second.DeliverabilityScore)
	}
	if *second.DeliverabilityScore != 20 {
		t.Fatalf("expected score 20 (1 of 5), got %d", *second.DeliverabilityScore)
	}
}

func TestFinalizerZeroActiveInboxes(t *testing.T) {
	tests := repository.NewMemoryTestRepository()
	results := repository.NewMemoryResultRepository()

	test := checkingTest(time.Now().Add(-6 * time.Minute))
	if err := tests.Create(context.Background(), test); err != nil {
		t.Fatalf("create test: %v", err)
	}

	finalizer := NewFinalizer(tests, results, nil, nil, quietLogger())
	if err := finalizer.Complete(context.Background(), test, nil); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	got, _ := tests.GetByID(context.Background(), test.ID)
	if got.DeliverabilityScore == nil || *got.DeliverabilityScore != 0 {
		t.Fatalf("expected score 0 with empty panel, got %v", got.DeliverabilityScore)
	}
}

func TestFinalizerUpdateFailureLeavesTestChecking(t *testing.T) {
	tests := repository.NewMemoryTestRepository()
	results := repository.NewMemoryResultRepository()
	notifier := &recordingNotifier{}

	test := checkingTest(time.Now().Add(-6 * time.Minute))
	if err := tests.Create(context.Background(), test); err != nil {
		t.Fatalf("create test: %v", err)
	}

	finalizer := NewFinalizer(&failingTestRepo{TestRepository: tests}, results, notifier, nil, quietLogger())
	err := finalizer.Complete(context.Background(), test, fivePanel())
	if err == nil {
		t.Fatal("expected error when the status update fails")
	}

	got, _ := tests.GetByID(context.Background(), test.ID)
	if got.Status != models.TestStatusChecking {
		t.Fatalf("test should stay checking for the next cycle, got %s", got.Status)
	}
	if len(notifier.completed) != 0 {
		t.Fatalf("notifier must not fire when completion failed")
	}

	// Back-fill rows from the failed attempt are kept; the retry must not
	// duplicate them.
	if err := finalizer.Complete(context.Background(), test, fivePanel()); err == nil {
		t.Fatal("expected error again from the failing repo")
	}
	rows, _ := results.ListByTest(context.Background(), test.ID)
	if len(rows) != 5 {
		t.Fatalf("expected 5 back-fill rows after retries, got %d", len(rows))
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		name          string
		inboxResults  int
		activeInboxes int
		want          int
	}{
		{"3 of 5", 3, 5, 60},
		{"all", 5, 5, 100},
		{"none", 0, 5, 0},
		{"zero active inboxes", 3, 0, 0},
		{"rounding up", 2, 3, 67},
		{"rounding down", 1, 3, 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.inboxResults, tc.activeInboxes); got != tc.want {
				t.Fatalf("Score(%d, %d) = %d, want %d", tc.inboxResults, tc.activeInboxes, got, tc.want)
			}
		})
	}
}
