package content

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ignite/club-outreach/internal/costs"
	"github.com/ignite/club-outreach/internal/domain"
)

// Options tune email generation.
type Options struct {
	ContentModel     string        // pricing key for token cost, default "gpt-4.1-nano"
	GeneratorTimeout time.Duration // default 60s
}

func (o Options) withDefaults() Options {
	if o.ContentModel == "" {
		o.ContentModel = "gpt-4.1-nano"
	}
	if o.GeneratorTimeout == 0 {
		o.GeneratorTimeout = 60 * time.Second
	}
	return o
}

// Service generates, stores, and sends personalized outreach emails.
type Service struct {
	repo     Repository
	gen      Generator
	research ResearchProvider
	tracker  Tracker
	sender   Sender
	ledger   *costs.Ledger
	renderer *TemplateRenderer
	opts     Options
	now      func() time.Time
}

// NewService creates an email content service.
func NewService(repo Repository, gen Generator, research ResearchProvider, tracker Tracker, ledger *costs.Ledger, opts Options) *Service {
	return &Service{
		repo:     repo,
		gen:      gen,
		research: research,
		tracker:  tracker,
		ledger:   ledger,
		renderer: NewTemplateRenderer(),
		opts:     opts.withDefaults(),
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithSender enables real delivery through the given mail provider.
func (s *Service) WithSender(sender Sender) *Service {
	s.sender = sender
	return s
}

// Generate produces the personalized email for (club, stage) and stores it
// as a draft, replacing any previous record for the same key. Content-model
// failures degrade to a generic fragment rather than failing the draft.
func (s *Service) Generate(ctx context.Context, club domain.Club, stage domain.Stage) (*domain.EmailRecord, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("generate email: unknown stage %q", stage)
	}

	section, _, err := s.research.Get(ctx, club, stage)
	if err != nil {
		return nil, fmt.Errorf("generate email for %s: %w", club.Name, err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.opts.GeneratorTimeout)
	defer cancel()

	var breakdown domain.CostBreakdown
	fragment, usage, err := s.gen.Personalize(genCtx, club.Name, section)
	if err != nil {
		log.Printf("[content] content model failed for %s/%s, using fallback fragment: %v", club.Name, stage, err)
		fragment = fallbackFragment(club.Name)
	} else {
		breakdown.ContentCost = s.ledger.AddTokenCost(costs.KindContent, s.opts.ContentModel, usage)
	}
	breakdown.TotalCost = breakdown.ContentCost

	body, err := s.renderer.Render(stage, club.Name, fragment)
	if err != nil {
		return nil, fmt.Errorf("generate email for %s: %w", club.Name, err)
	}

	// Replacing a draft removes its cost from the store; mirror that in the
	// ledger so the totals keep matching the stored records.
	if old, err := s.repo.Get(ctx, club.Name, stage); err == nil {
		s.ledger.RemoveCost(costs.KindContent, old.Costs.ContentCost)
	}

	rec := &domain.EmailRecord{
		ClubName:            club.Name,
		Stage:               stage,
		PersonalizedContent: fragment,
		FullEmail:           body,
		Costs:               breakdown,
		CreatedAt:           s.now(),
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store email for %s: %w", club.Name, err)
	}
	log.Printf("[content] generated %s email for %s (cost $%.6f)", stage, club.Name, breakdown.TotalCost)
	return rec, nil
}

// Recipient identifies who a send is addressed to. A zero value records the
// send without delivering (the operator sent it by hand).
type Recipient struct {
	Name  string `json:"to_name"`
	Email string `json:"to_email"`
}

// MarkSent delivers the draft when a sender and recipient are available, then
// stamps it as sent and records the send on the campaign state tracker, which
// emits the notification.
func (s *Service) MarkSent(ctx context.Context, club domain.Club, stage domain.Stage, to Recipient) (*domain.EmailRecord, error) {
	rec, err := s.repo.Get(ctx, club.Name, stage)
	if err != nil {
		return nil, err
	}

	if s.sender != nil && to.Email != "" {
		msgID, err := s.sender.Send(ctx, OutboundMessage{
			Club:    club.Name,
			Stage:   stage,
			ToName:  to.Name,
			ToEmail: to.Email,
			Subject: Subject(stage),
			Body:    rec.FullEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("send %s/%s: %w", club.Name, stage, err)
		}
		log.Printf("[content] delivered %s email to %s (message %s)", stage, to.Email, msgID)
	}

	now := s.now()
	rec.SentAt = &now
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("mark sent %s/%s: %w", club.Name, stage, err)
	}

	if _, err := s.tracker.RecordSent(ctx, club, stage, ""); err != nil {
		return nil, fmt.Errorf("mark sent %s/%s: %w", club.Name, stage, err)
	}
	return rec, nil
}

// Regenerate discards the stored email and generates a fresh one.
func (s *Service) Regenerate(ctx context.Context, club domain.Club, stage domain.Stage) (*domain.EmailRecord, error) {
	if err := s.Delete(ctx, club.Name, stage); err != nil {
		return nil, fmt.Errorf("regenerate %s/%s: %w", club.Name, stage, err)
	}
	return s.Generate(ctx, club, stage)
}

// Get returns the stored email for (club, stage).
func (s *Service) Get(ctx context.Context, clubName string, stage domain.Stage) (*domain.EmailRecord, error) {
	return s.repo.Get(ctx, clubName, stage)
}

// Delete removes the stored email for (club, stage), reversing its cost in
// the ledger.
func (s *Service) Delete(ctx context.Context, clubName string, stage domain.Stage) error {
	if rec, err := s.repo.Get(ctx, clubName, stage); err == nil {
		s.ledger.RemoveCost(costs.KindContent, rec.Costs.ContentCost)
	}
	return s.repo.Delete(ctx, clubName, stage)
}

// List returns every generated email.
func (s *Service) List(ctx context.Context) ([]domain.EmailRecord, error) {
	return s.repo.List(ctx)
}

func fallbackFragment(clubName string) string {
	return fmt.Sprintf("As a club dedicated to great photography, %s is exactly the kind of community we built our tools for, and we'd love to learn more about your members' work.", clubName)
}
