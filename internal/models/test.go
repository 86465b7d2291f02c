package models

import "time"

// TestStatus tracks a deliverability test through its lifecycle.
type TestStatus string

const (
	TestStatusPending   TestStatus = "pending"
	TestStatusChecking  TestStatus = "checking"
	TestStatusCompleted TestStatus = "completed"
	// TestStatusFailed is reserved for a manual/administrative path; the
	// checker never sets it.
	TestStatusFailed TestStatus = "failed"
)

// Test represents one deliverability test run by a user. The score stays
// nil until the test completes and is written exactly once.
type Test struct {
	ID                  string     `json:"id" db:"id"`
	UserID              string     `json:"user_id" db:"user_id"`
	TestCode            string     `json:"test_code" db:"test_code"`
	Status              TestStatus `json:"status" db:"status"`
	DeliverabilityScore *int       `json:"deliverability_score" db:"deliverability_score"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	StartedAt           *time.Time `json:"started_at" db:"started_at"`
	CompletedAt         *time.Time `json:"completed_at" db:"completed_at"`
}

// Elapsed returns how long the test has been checking as of now. Zero when
// the test has not been started.
func (t *Test) Elapsed(now time.Time) time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return now.Sub(*t.StartedAt)
}
