package domain

import "time"

// StageTracking is the sub-state of one email stage for one club.
type StageTracking struct {
	Status       StageStatus  `json:"status"`
	SentAt       *time.Time   `json:"sent_at"`
	ResponseAt   *time.Time   `json:"response_at"`
	ResponseKind ResponseKind `json:"response_kind,omitempty"`
	Notes        string       `json:"notes"`
}

// StatusRecord tracks a club's progress through the outreach pipeline.
// Exactly one record exists per club, created lazily on the first send.
type StatusRecord struct {
	ClubName string `json:"club_name" db:"club_name"`
	Country  string `json:"country" db:"country"`
	Website  string `json:"website" db:"website"`

	Stages map[Stage]StageTracking `json:"stages"`

	CurrentStage   PipelineStage `json:"current_stage" db:"current_stage"`
	Priority       Priority      `json:"priority" db:"priority"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	LastActivityAt time.Time     `json:"last_activity_at" db:"last_activity_at"`
}

// NewStatusRecord initializes tracking for a club that is about to receive
// its first email.
func NewStatusRecord(club Club, now time.Time) *StatusRecord {
	stages := make(map[Stage]StageTracking, len(AllStages()))
	for _, s := range AllStages() {
		stages[s] = StageTracking{Status: StatusNotContacted}
	}
	return &StatusRecord{
		ClubName:       club.Name,
		Country:        club.Country,
		Website:        club.Website,
		Stages:         stages,
		CurrentStage:   PipelineNotContacted,
		Priority:       PriorityMedium,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
}

// Stage returns the tracking entry for one stage, defaulting to
// not_contacted for records loaded from stores that predate the stage.
func (r *StatusRecord) Stage(s Stage) StageTracking {
	if t, ok := r.Stages[s]; ok {
		return t
	}
	return StageTracking{Status: StatusNotContacted}
}

// ApplySent records an email send on the given stage. Re-sending simply
// overwrites the timestamp.
func (r *StatusRecord) ApplySent(s Stage, notes string, now time.Time) {
	t := r.Stage(s)
	t.Status = StatusEmailSent
	t.SentAt = &now
	t.Notes = notes
	r.Stages[s] = t

	if r.CurrentStage != PipelineNotInterested && r.CurrentStage != PipelinePartnershipActive {
		r.CurrentStage = PipelineStage(s)
	}
	r.touch(now)
}

// ApplyResponse records an inbound reply on the given stage and recomputes
// the derived pipeline stage and priority.
//
// not_interested is terminal: once any stage receives a negative response the
// overall stage never advances again, even if another stage later receives a
// positive reply. The per-stage sub-state and priority still update.
func (r *StatusRecord) ApplyResponse(s Stage, kind ResponseKind, notes string, now time.Time) {
	t := r.Stage(s)
	t.Status = kind.Status()
	t.ResponseAt = &now
	t.ResponseKind = kind
	t.Notes = notes
	r.Stages[s] = t

	switch kind {
	case ResponsePositive:
		if r.CurrentStage != PipelineNotInterested {
			r.CurrentStage = PipelineAfterPositive(s)
		}
		r.Priority = PriorityHigh
	case ResponseNegative:
		r.CurrentStage = PipelineNotInterested
		r.Priority = PriorityLow
	}
	r.touch(now)
}

func (r *StatusRecord) touch(now time.Time) {
	r.UpdatedAt = now
	r.LastActivityAt = now
}
