package domain

import "time"

// ResponseRecord is a durably stored inbound reply. At most one response is
// kept per (club, stage, contact email); later duplicates are rejected rather
// than overwriting the first recorded reply.
type ResponseRecord struct {
	ID           string       `json:"id" db:"id"`
	ClubName     string       `json:"club_name" db:"club_name"`
	ContactName  string       `json:"contact_name" db:"contact_name"`
	ContactEmail string       `json:"contact_email" db:"contact_email"`
	Stage        Stage        `json:"stage" db:"stage"`
	Kind         ResponseKind `json:"kind" db:"kind"`
	Content      string       `json:"content" db:"content"`
	ReceivedAt   time.Time    `json:"received_at" db:"received_at"`

	// DetectionMethod records how the reply reached us: "brevo_api" or "manual".
	DetectionMethod string    `json:"detection_method" db:"detection_method"`
	Processed       bool      `json:"processed" db:"processed"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
