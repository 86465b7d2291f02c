package models

import "time"

// TestInbox is one provider mailbox in the seeded test panel. The checker
// treats these rows as read-only; the active flag defines which inboxes a
// running test is expected to reach.
type TestInbox struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Provider    string    `json:"provider" db:"provider"`
	DisplayName string    `json:"display_name" db:"display_name"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
