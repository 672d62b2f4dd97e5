package domain

import "time"

// ResearchRecord is the cached AI research for one club. At most one record
// exists per club: a new research run replaces the old record wholesale,
// never updates it in place.
type ResearchRecord struct {
	ClubName string `json:"club_name" db:"club_name"`
	Country  string `json:"country" db:"country"`
	Website  string `json:"website" db:"website"`

	IntroductionResearch string `json:"introduction_research" db:"introduction_research"`
	CheckupResearch      string `json:"checkup_research" db:"checkup_research"`
	AcceptanceResearch   string `json:"acceptance_research" db:"acceptance_research"`
	FullResearch         string `json:"full_research" db:"full_research"`

	Costs CostBreakdown `json:"costs"`

	ResearchedAt time.Time `json:"researched_at" db:"researched_at"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`

	// IsValid is false for fallback records written when the generator failed.
	IsValid bool `json:"is_valid" db:"is_valid"`
}

// Section returns the research text for one email stage.
func (r *ResearchRecord) Section(s Stage) string {
	switch s {
	case StageIntroduction:
		return r.IntroductionResearch
	case StageCheckup:
		return r.CheckupResearch
	case StageAcceptance:
		return r.AcceptanceResearch
	}
	return ""
}

// Expired reports whether the record's TTL has passed at the given time.
// Expiry is checked lazily on read; there is no background sweep.
func (r *ResearchRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
