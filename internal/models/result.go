package models

import "time"

// ResultType classifies where a test email landed for one inbox.
type ResultType string

const (
	ResultTypeInbox       ResultType = "inbox"
	ResultTypeSpam        ResultType = "spam"
	ResultTypePromotions  ResultType = "promotions"
	ResultTypeNotReceived ResultType = "not_received"
)

// TestResult is one immutable placement row per (test, inbox) pair. Inbox
// email and provider are denormalized alongside the foreign key so report
// rows survive panel edits.
type TestResult struct {
	ID           string     `json:"id" db:"id"`
	TestID       string     `json:"test_id" db:"test_id"`
	InboxID      string     `json:"inbox_id" db:"inbox_id"`
	InboxEmail   string     `json:"inbox_email" db:"inbox_email"`
	Provider     string     `json:"provider" db:"provider"`
	ResultType   ResultType `json:"result_type" db:"result_type"`
	DetectedAt   *time.Time `json:"detected_at" db:"detected_at"`
	EmailSubject *string    `json:"email_subject" db:"email_subject"`
	EmailFrom    *string    `json:"email_from" db:"email_from"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ResultCounts aggregates placements for a report summary.
type ResultCounts struct {
	Inbox       int `json:"inbox"`
	Spam        int `json:"spam"`
	Promotions  int `json:"promotions"`
	NotReceived int `json:"not_received"`
}

// CountResults tallies placements by classification.
func CountResults(results []*TestResult) ResultCounts {
	var counts ResultCounts
	for _, r := range results {
		switch r.ResultType {
		case ResultTypeInbox:
			counts.Inbox++
		case ResultTypeSpam:
			counts.Spam++
		case ResultTypePromotions:
			counts.Promotions++
		case ResultTypeNotReceived:
			counts.NotReceived++
		}
	}
	return counts
}
