package status

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/pkg/keylock"
)

// Notifier is the slice of the notification center the tracker needs.
type Notifier interface {
	Emit(ctx context.Context, clubName string, stage domain.Stage, kind domain.NotificationKind, message string) (domain.Notification, error)
}

// Service implements the campaign state tracker. All public methods are safe
// for concurrent use; mutations on the same club are serialized.
type Service struct {
	repo     Repository
	notifier Notifier
	locks    *keylock.KeyedMutex
	now      func() time.Time
}

// NewService creates a state tracker backed by the given repository.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		locks:    keylock.New(),
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordSent marks an email stage as sent for a club, creating the status
// record on first contact. Re-sending overwrites the timestamp. Every call
// emits a fresh email_sent notification.
func (s *Service) RecordSent(ctx context.Context, club domain.Club, stage domain.Stage, notes string) (*domain.StatusRecord, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("record sent: unknown stage %q", stage)
	}

	unlock := s.locks.Lock(club.Name)
	defer unlock()

	now := s.now()
	rec, err := s.repo.Get(ctx, club.Name)
	if errors.Is(err, ErrNotFound) {
		rec = domain.NewStatusRecord(club, now)
	} else if err != nil {
		return nil, fmt.Errorf("record sent: %w", err)
	}

	rec.ApplySent(stage, notes, now)
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("record sent: %w", err)
	}

	s.emit(ctx, club.Name, stage, domain.NotificationEmailSent,
		fmt.Sprintf("%s email sent to %s", title(stage), club.Name))
	return rec, nil
}

// RecordResponse records an inbound reply for a club and stage, recomputing
// the pipeline stage and priority. Returns ErrNotFound if the club was never
// contacted.
func (s *Service) RecordResponse(ctx context.Context, clubName string, stage domain.Stage, kind domain.ResponseKind, notes string) (*domain.StatusRecord, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("record response: unknown stage %q", stage)
	}

	unlock := s.locks.Lock(clubName)
	defer unlock()

	rec, err := s.repo.Get(ctx, clubName)
	if err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	if kind == domain.ResponsePositive && rec.CurrentStage == domain.PipelineNotInterested {
		// Parked pipelines stay parked; keep the ambiguity visible.
		log.Printf("[status] %s: positive response on %s but pipeline is not_interested; stage state updated, pipeline unchanged", clubName, stage)
	}

	rec.ApplyResponse(stage, kind, notes, s.now())
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	s.emit(ctx, clubName, stage, domain.NotificationResponseReceived,
		fmt.Sprintf("New %s from %s", strings.ReplaceAll(string(kind), "_", " "), clubName))
	return rec, nil
}

// GetStatus returns the full status record for one club.
func (s *Service) GetStatus(ctx context.Context, clubName string) (*domain.StatusRecord, error) {
	return s.repo.Get(ctx, clubName)
}

// ListAll returns every status record.
func (s *Service) ListAll(ctx context.Context) ([]domain.StatusRecord, error) {
	return s.repo.List(ctx)
}

// ListByStageStatus returns clubs whose given stage is in the given sub-state.
func (s *Service) ListByStageStatus(ctx context.Context, stage domain.Stage, st domain.StageStatus) ([]domain.StatusRecord, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.StatusRecord
	for _, rec := range all {
		if rec.Stage(stage).Status == st {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListByOverallStage returns clubs at the given pipeline stage.
func (s *Service) ListByOverallStage(ctx context.Context, p domain.PipelineStage) ([]domain.StatusRecord, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.StatusRecord
	for _, rec := range all {
		if rec.CurrentStage == p {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FollowUp identifies one stage of one club that was sent an email and has
// waited past the threshold with no reply.
type FollowUp struct {
	ClubName      string       `json:"club_name"`
	Stage         domain.Stage `json:"stage"`
	SentAt        time.Time    `json:"sent_at"`
	DaysSinceSent int          `json:"days_since_sent"`
}

// ListNeedingFollowUp returns every (club, stage) whose email_sent sub-state
// is older than the threshold with no recorded response.
func (s *Service) ListNeedingFollowUp(ctx context.Context, threshold time.Duration) ([]FollowUp, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := now.Add(-threshold)
	var out []FollowUp
	for _, rec := range all {
		for _, stage := range domain.AllStages() {
			t := rec.Stage(stage)
			if t.Status != domain.StatusEmailSent || t.SentAt == nil {
				continue
			}
			if t.SentAt.Before(cutoff) {
				out = append(out, FollowUp{
					ClubName:      rec.ClubName,
					Stage:         stage,
					SentAt:        *t.SentAt,
					DaysSinceSent: int(now.Sub(*t.SentAt).Hours() / 24),
				})
			}
		}
	}
	return out, nil
}

// DashboardStats summarizes the pipeline for the operator dashboard.
type DashboardStats struct {
	TotalClubs        int                          `json:"total_clubs"`
	SentByStage       map[domain.Stage]int         `json:"sent_by_stage"`
	PositiveResponses int                          `json:"positive_responses"`
	AwaitingResponse  int                          `json:"awaiting_response"`
	PipelineStages    map[domain.PipelineStage]int `json:"pipeline_stages"`
}

// Stats aggregates counts across all status records.
func (s *Service) Stats(ctx context.Context) (DashboardStats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalClubs:     len(all),
		SentByStage:    make(map[domain.Stage]int),
		PipelineStages: make(map[domain.PipelineStage]int),
	}
	for _, rec := range all {
		stats.PipelineStages[rec.CurrentStage]++
		positive, awaiting := false, false
		for _, stage := range domain.AllStages() {
			switch rec.Stage(stage).Status {
			case domain.StatusEmailSent:
				stats.SentByStage[stage]++
				awaiting = true
			case domain.StatusPositiveResponse:
				positive = true
			}
		}
		if positive {
			stats.PositiveResponses++
		}
		if awaiting {
			stats.AwaitingResponse++
		}
	}
	return stats, nil
}

func (s *Service) emit(ctx context.Context, clubName string, stage domain.Stage, kind domain.NotificationKind, msg string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Emit(ctx, clubName, stage, kind, msg); err != nil {
		log.Printf("[status] emit %s notification for %s: %v", kind, clubName, err)
	}
}

func title(stage domain.Stage) string {
	str := string(stage)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}
