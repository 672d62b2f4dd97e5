package domain

// TokenUsage is the metered usage reported by the AI provider for one call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	CachedTokens int `json:"cached_tokens"`
}

// CostBreakdown holds the dollar cost of the AI calls behind a record.
type CostBreakdown struct {
	ResearchCost float64 `json:"research_cost" db:"research_cost"`
	ContentCost  float64 `json:"content_cost" db:"content_cost"`
	FlatCost     float64 `json:"flat_cost" db:"flat_cost"`
	TotalCost    float64 `json:"total_cost" db:"total_cost"`
}
