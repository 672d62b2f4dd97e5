package domain

import "time"

// EmailRecord is one generated message instance, keyed by (club, stage).
// Regenerating or resending overwrites the record in place.
type EmailRecord struct {
	ClubName string `json:"club_name" db:"club_name"`
	Stage    Stage  `json:"stage" db:"stage"`

	// PersonalizedContent is the short AI-written fragment inserted into the
	// stage template; FullEmail is the rendered message.
	PersonalizedContent string `json:"personalized_content" db:"personalized_content"`
	FullEmail           string `json:"full_email" db:"full_email"`

	Costs CostBreakdown `json:"costs"`

	// SentAt is nil while the email is drafted but not yet sent.
	SentAt    *time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Sent reports whether the email has been delivered.
func (e *EmailRecord) Sent() bool { return e.SentAt != nil }
