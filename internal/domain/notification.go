package domain

import "time"

// NotificationKind enumerates the events surfaced to the operator.
type NotificationKind string

const (
	NotificationEmailSent        NotificationKind = "email_sent"
	NotificationResponseReceived NotificationKind = "response_received"
	NotificationFollowUpDue      NotificationKind = "follow_up_due"
)

// Notification is one entry in the append-only event log. Only IsRead/ReadAt
// ever change after creation; notifications are never deleted.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	ClubName  string           `json:"club_name" db:"club_name"`
	Stage     Stage            `json:"stage" db:"stage"`
	Kind      NotificationKind `json:"kind" db:"kind"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	ReadAt    *time.Time       `json:"read_at" db:"read_at"`
}
