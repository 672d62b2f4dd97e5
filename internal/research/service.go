package research

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ignite/club-outreach/internal/costs"
	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/pkg/keylock"
)

// Options tune the cache. Zero values select the defaults used in
// production.
type Options struct {
	TTL              time.Duration // default 30 days
	GeneratorTimeout time.Duration // default 90s; a hang counts as a failure
	SearchModel      string        // pricing key for token cost, default "o3"
	WebSearchFee     float64       // flat fee charged per generator call
}

func (o Options) withDefaults() Options {
	if o.TTL == 0 {
		o.TTL = 30 * 24 * time.Hour
	}
	if o.GeneratorTimeout == 0 {
		o.GeneratorTimeout = 90 * time.Second
	}
	if o.SearchModel == "" {
		o.SearchModel = "o3"
	}
	if o.WebSearchFee == 0 {
		o.WebSearchFee = costs.WebSearchCostPerQuery
	}
	return o
}

// Service is the get-or-compute research cache.
type Service struct {
	repo   Repository
	gen    Generator
	ledger *costs.Ledger
	opts   Options
	locks  *keylock.KeyedMutex
	now    func() time.Time
}

// NewService creates a research cache over the given store and generator.
func NewService(repo Repository, gen Generator, ledger *costs.Ledger, opts Options) *Service {
	return &Service{
		repo:   repo,
		gen:    gen,
		ledger: ledger,
		opts:   opts.withDefaults(),
		locks:  keylock.New(),
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the research section for (club, stage). A valid cached record
// is served directly at zero cost. On a miss or an expired record the stale
// entry is evicted, the generator is called once for all three stages, the
// ledger is charged, and the fresh record is stored.
//
// Concurrent calls for the same club coalesce into one generator call; calls
// for different clubs never block each other.
func (s *Service) Get(ctx context.Context, club domain.Club, stage domain.Stage) (string, *domain.ResearchRecord, error) {
	if !stage.Valid() {
		return "", nil, fmt.Errorf("research get: unknown stage %q", stage)
	}

	unlock := s.locks.Lock(club.Name)
	defer unlock()

	rec, err := s.repo.Get(ctx, club.Name)
	switch {
	case err == nil:
		if !rec.Expired(s.now()) {
			return rec.Section(stage), rec, nil
		}
		log.Printf("[research] cache expired for %s, evicting", club.Name)
		s.debit(rec)
		if err := s.repo.Delete(ctx, club.Name); err != nil {
			return "", nil, fmt.Errorf("evict expired research for %s: %w", club.Name, err)
		}
	case errors.Is(err, ErrNotFound):
		// fall through to compute
	default:
		return "", nil, fmt.Errorf("research get %s: %w", club.Name, err)
	}

	rec, err = s.compute(ctx, club)
	if err != nil {
		return "", nil, err
	}
	return rec.Section(stage), rec, nil
}

// Refresh discards any cached record for the club and researches it again
// immediately, regardless of expiry.
func (s *Service) Refresh(ctx context.Context, club domain.Club) (*domain.ResearchRecord, error) {
	unlock := s.locks.Lock(club.Name)
	defer unlock()

	rec, err := s.repo.Get(ctx, club.Name)
	switch {
	case err == nil:
		s.debit(rec)
	case errors.Is(err, ErrNotFound):
		// nothing to discard
	default:
		return nil, fmt.Errorf("refresh %s: %w", club.Name, err)
	}

	if err := s.repo.Delete(ctx, club.Name); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", club.Name, err)
	}
	return s.compute(ctx, club)
}

// debit reverses a discarded record's contribution so the ledger keeps
// matching the sum of costs across stored records.
func (s *Service) debit(rec *domain.ResearchRecord) {
	s.ledger.RemoveCost(costs.KindResearch, rec.Costs.ResearchCost)
	s.ledger.RemoveCost(costs.KindWebSearch, rec.Costs.FlatCost)
}

// compute runs one generator call and stores the result. Callers must hold
// the club's key lock. Generator failures (including timeouts) degrade to a
// fallback record with the same TTL; the error is never returned.
func (s *Service) compute(ctx context.Context, club domain.Club) (*domain.ResearchRecord, error) {
	log.Printf("[research] performing new research for %s", club.Name)

	genCtx, cancel := context.WithTimeout(ctx, s.opts.GeneratorTimeout)
	defer cancel()

	var breakdown domain.CostBreakdown
	breakdown.FlatCost = s.ledger.AddFlatCost(costs.KindWebSearch, 1, s.opts.WebSearchFee)

	raw, usage, err := s.gen.Research(genCtx, club.Name, club.Website, club.Country)
	valid := err == nil
	if err != nil {
		log.Printf("[research] generator failed for %s, storing fallback: %v", club.Name, err)
		raw = fallbackResearch(club)
	} else {
		breakdown.ResearchCost = s.ledger.AddTokenCost(costs.KindResearch, s.opts.SearchModel, usage)
	}
	breakdown.TotalCost = breakdown.ResearchCost + breakdown.FlatCost

	now := s.now()
	intro, checkup, acceptance := parseSections(raw)
	rec := &domain.ResearchRecord{
		ClubName:             club.Name,
		Country:              club.Country,
		Website:              club.Website,
		IntroductionResearch: intro,
		CheckupResearch:      checkup,
		AcceptanceResearch:   acceptance,
		FullResearch:         raw,
		Costs:                breakdown,
		ResearchedAt:         now,
		ExpiresAt:            now.Add(s.opts.TTL),
		IsValid:              valid,
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store research for %s: %w", club.Name, err)
	}
	log.Printf("[research] saved research for %s (expires %s, cost $%.4f)",
		club.Name, rec.ExpiresAt.Format("2006-01-02"), breakdown.TotalCost)
	return rec, nil
}

// List returns every stored research record.
func (s *Service) List(ctx context.Context) ([]domain.ResearchRecord, error) {
	return s.repo.List(ctx)
}

// Stats summarizes the cache contents.
type Stats struct {
	TotalClubs   int     `json:"total_clubs"`
	ValidCount   int     `json:"valid_count"`
	ExpiredCount int     `json:"expired_count"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// Stats counts current and expired records and sums research spend.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	st := Stats{TotalClubs: len(recs)}
	for i := range recs {
		if recs[i].Expired(now) {
			st.ExpiredCount++
		} else {
			st.ValidCount++
		}
		st.TotalCostUSD += recs[i].Costs.TotalCost
	}
	return st, nil
}

// fallbackResearch produces the clearly-marked placeholder stored when the
// generator is unreachable, structured with the same three markers so the
// parser handles it like any other blob.
func fallbackResearch(club domain.Club) string {
	region := club.Country
	if region == "" {
		region = "Unknown region"
	}
	return fmt.Sprintf(`%s
[FALLBACK] Unable to find specific current information about %s due to research limitations. General photography club activities assumed based on location: %s. Focus on general photography community support and learning more about their specific activities.

%s
[FALLBACK] No specific upcoming events or challenges found for %s. Suggest focusing on seasonal photography activities and common photography club needs.

%s
[FALLBACK] No specific club structure information found for %s. Assume a standard photography club structure with a leadership team and recommend the standard member communication approach.`,
		markerIntroduction, club.Name, region,
		markerCheckup, club.Name,
		markerAcceptance, club.Name)
}
