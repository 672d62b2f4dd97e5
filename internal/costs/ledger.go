// Package costs tracks metered AI spend across research and content
// generation. The ledger is a derived view: every dollar recorded here is
// also stored on the ResearchRecord or EmailRecord that incurred it.
package costs

import (
	"log"
	"sync"

	"github.com/ignite/club-outreach/internal/domain"
)

// Cost kinds used by the outreach services.
const (
	KindResearch  = "research"
	KindContent   = "content"
	KindWebSearch = "web_search"
)

// WebSearchCostPerQuery is the flat fee the provider charges per web search
// tool invocation ($10 per 1K calls).
const WebSearchCostPerQuery = 10.00 / 1000

// Pricing holds per-million-token rates for one model.
type Pricing struct {
	Input       float64 `yaml:"input" json:"input"`
	CachedInput float64 `yaml:"cached_input" json:"cached_input"`
	Output      float64 `yaml:"output" json:"output"`
}

// PriceTable maps model name to token rates.
type PriceTable map[string]Pricing

// DefaultPriceTable returns the rates for the models the platform ships with.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		"o3":           {Input: 2.00, CachedInput: 0.50, Output: 8.00},
		"gpt-4.1-nano": {Input: 0.100, CachedInput: 0.025, Output: 0.400},
	}
}

// Ledger accumulates cost per kind. Safe for concurrent use.
type Ledger struct {
	mu     sync.Mutex
	prices PriceTable
	byKind map[string]float64
}

// NewLedger creates a ledger using the given price table, falling back to the
// default table when nil.
func NewLedger(prices PriceTable) *Ledger {
	if prices == nil {
		prices = DefaultPriceTable()
	}
	return &Ledger{prices: prices, byKind: make(map[string]float64)}
}

// TokenCost computes the dollar cost of one call without recording it.
// Cached tokens are billed at the cached rate and excluded from regular
// input. An unknown model logs a warning and costs zero so a missing price
// table entry never blocks generation.
func (l *Ledger) TokenCost(model string, u domain.TokenUsage) float64 {
	l.mu.Lock()
	p, ok := l.prices[model]
	l.mu.Unlock()
	if !ok {
		log.Printf("[costs] warning: model %q not found in pricing table, recording zero cost", model)
		return 0
	}

	regular := u.InputTokens - u.CachedTokens
	if regular < 0 {
		regular = 0
	}
	cost := float64(regular) / 1_000_000 * p.Input
	cost += float64(u.CachedTokens) / 1_000_000 * p.CachedInput
	cost += float64(u.OutputTokens) / 1_000_000 * p.Output
	return cost
}

// AddTokenCost computes the token cost for one call and adds it to the
// running total for kind. Returns the cost of this call.
func (l *Ledger) AddTokenCost(kind, model string, u domain.TokenUsage) float64 {
	cost := l.TokenCost(model, u)
	l.add(kind, cost)
	return cost
}

// AddFlatCost records count fixed-price calls (e.g. web search queries) under
// kind. Returns the cost added.
func (l *Ledger) AddFlatCost(kind string, count int, unitPrice float64) float64 {
	cost := float64(count) * unitPrice
	l.add(kind, cost)
	return cost
}

// RemoveCost subtracts a previously recorded cost from kind. Callers invoke
// it when the record that carried the cost is evicted or replaced, so Totals
// keeps matching the sum of costs across persisted records.
func (l *Ledger) RemoveCost(kind string, cost float64) {
	l.add(kind, -cost)
}

func (l *Ledger) add(kind string, cost float64) {
	l.mu.Lock()
	l.byKind[kind] += cost
	l.mu.Unlock()
}

// Totals is a snapshot of accumulated spend.
type Totals struct {
	ByKind     map[string]float64 `json:"by_kind"`
	GrandTotal float64            `json:"grand_total"`
}

// Totals returns per-kind sums and the grand total.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := Totals{ByKind: make(map[string]float64, len(l.byKind))}
	for k, v := range l.byKind {
		t.ByKind[k] = v
		t.GrandTotal += v
	}
	return t
}
