package responses

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/status"
)

// Tracker is the slice of the campaign state tracker the service needs.
type Tracker interface {
	RecordResponse(ctx context.Context, clubName string, stage domain.Stage, kind domain.ResponseKind, notes string) (*domain.StatusRecord, error)
}

// InboundReply is one reply detected by a mail event source.
type InboundReply struct {
	ClubName     string
	ContactName  string
	ContactEmail string
	Stage        domain.Stage
	Content      string
	ReceivedAt   time.Time
}

// Source supplies newly detected replies, typically from the Brevo API.
type Source interface {
	FetchReplies(ctx context.Context) ([]InboundReply, error)
}

// Service persists replies and drives state transitions from them.
type Service struct {
	repo    Repository
	tracker Tracker
	source  Source
	now     func() time.Time
}

// NewService creates a response intake service. source may be nil when no
// mail provider is configured; CheckNewReplies is then a no-op.
func NewService(repo Repository, tracker Tracker, source Source) *Service {
	return &Service{repo: repo, tracker: tracker, source: source, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SaveInput describes one reply to record.
type SaveInput struct {
	ClubName        string              `json:"club_name"`
	ContactName     string              `json:"contact_name"`
	ContactEmail    string              `json:"contact_email"`
	Stage           domain.Stage        `json:"stage"`
	Kind            domain.ResponseKind `json:"kind"`
	Content         string              `json:"content"`
	DetectionMethod string              `json:"detection_method"`
	ReceivedAt      time.Time           `json:"received_at"`
}

// Save stores a reply and records it on the state tracker.
//
// Returns ErrDuplicateResponse when the (club, stage, contact) tuple already
// has a reply; the stored original is kept untouched. Returns the tracker's
// ErrNotFound when the club was never contacted.
func (s *Service) Save(ctx context.Context, in SaveInput) (*domain.ResponseRecord, error) {
	if !in.Stage.Valid() {
		return nil, fmt.Errorf("save response: unknown stage %q", in.Stage)
	}
	if in.Kind == "" {
		// Replies detected by polling carry no classification yet; assume
		// positive until an operator reclassifies.
		in.Kind = domain.ResponsePositive
	}
	if in.DetectionMethod == "" {
		in.DetectionMethod = "manual"
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = s.now()
	}

	dup, err := s.repo.Exists(ctx, in.ClubName, in.Stage, in.ContactEmail)
	if err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}
	if dup {
		log.Printf("[responses] duplicate reply for %s/%s from %s, keeping original", in.ClubName, in.Stage, in.ContactEmail)
		return nil, ErrDuplicateResponse
	}

	rec := &domain.ResponseRecord{
		ID:              uuid.New().String(),
		ClubName:        in.ClubName,
		ContactName:     in.ContactName,
		ContactEmail:    in.ContactEmail,
		Stage:           in.Stage,
		Kind:            in.Kind,
		Content:         in.Content,
		ReceivedAt:      in.ReceivedAt,
		DetectionMethod: in.DetectionMethod,
		CreatedAt:       s.now(),
	}

	// Insert before touching the tracker: if the tracker update fails the
	// record is removed again, so a retry neither finds a stale duplicate
	// nor applies the transition twice.
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save response for %s: %w", in.ClubName, err)
	}
	if _, err := s.tracker.RecordResponse(ctx, in.ClubName, in.Stage, in.Kind, "Response: "+truncateNotes(in.Content)); err != nil {
		if delErr := s.repo.Delete(ctx, rec.ID); delErr != nil {
			log.Printf("[responses] rollback of %s failed: %v", rec.ID, delErr)
		}
		return nil, fmt.Errorf("save response for %s: %w", in.ClubName, err)
	}

	log.Printf("[responses] saved %s reply for %s/%s", in.Kind, in.ClubName, in.Stage)
	return rec, nil
}

// CheckNewReplies polls the mail event source and saves each detected reply.
// Duplicates are skipped. Returns the number of new replies recorded.
func (s *Service) CheckNewReplies(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, nil
	}

	replies, err := s.source.FetchReplies(ctx)
	if err != nil {
		return 0, fmt.Errorf("check replies: %w", err)
	}

	saved := 0
	for _, r := range replies {
		_, err := s.Save(ctx, SaveInput{
			ClubName:        r.ClubName,
			ContactName:     r.ContactName,
			ContactEmail:    r.ContactEmail,
			Stage:           r.Stage,
			Content:         r.Content,
			DetectionMethod: "brevo_api",
			ReceivedAt:      r.ReceivedAt,
		})
		switch {
		case err == nil:
			saved++
		case isExpected(err):
			// Already recorded or club unknown; logged inside Save.
		default:
			return saved, err
		}
	}
	return saved, nil
}

// List returns stored replies, optionally filtered by club.
func (s *Service) List(ctx context.Context, clubName string) ([]domain.ResponseRecord, error) {
	return s.repo.List(ctx, clubName)
}

// ListUnprocessed returns replies awaiting operator handling.
func (s *Service) ListUnprocessed(ctx context.Context) ([]domain.ResponseRecord, error) {
	return s.repo.ListUnprocessed(ctx)
}

// MarkProcessed flags a reply as handled. Returns false if the id is
// unknown.
func (s *Service) MarkProcessed(ctx context.Context, id string) bool {
	ok, err := s.repo.MarkProcessed(ctx, id)
	if err != nil {
		log.Printf("[responses] mark processed %s: %v", id, err)
		return false
	}
	return ok
}

// Stats summarizes stored replies for the dashboard.
type Stats struct {
	Total       int `json:"total"`
	Unprocessed int `json:"unprocessed"`
	Positive    int `json:"positive"`
	Negative    int `json:"negative"`
}

// GetStats counts stored replies by processing state and kind.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	recs, err := s.repo.List(ctx, "")
	if err != nil {
		return Stats{}, fmt.Errorf("response stats: %w", err)
	}

	st := Stats{Total: len(recs)}
	for _, rec := range recs {
		if !rec.Processed {
			st.Unprocessed++
		}
		switch rec.Kind {
		case domain.ResponsePositive:
			st.Positive++
		case domain.ResponseNegative:
			st.Negative++
		}
	}
	return st, nil
}

// truncateNotes shortens reply content for the tracker's notes field,
// cutting on a rune boundary so multi-byte characters survive intact.
func truncateNotes(content string) string {
	r := []rune(content)
	if len(r) <= 100 {
		return content
	}
	return string(r[:100]) + "..."
}

// isExpected reports errors that shouldn't abort a polling sweep: the reply
// was already recorded, or the club has no status record yet.
func isExpected(err error) bool {
	return errors.Is(err, ErrDuplicateResponse) || errors.Is(err, status.ErrNotFound)
}
