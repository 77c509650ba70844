package models

import "time"

// UsageEvent is a tracked billing/usage occurrence. The sink is fire and
// forget; failures never affect analysis correctness.
type UsageEvent struct {
	EventType string         `json:"event_type"`
	UserID    string         `json:"user_id"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Recognized usage event types.
const (
	UsagePortfolioAnalysis = "portfolio_analysis"
	UsageStockSearch       = "stock_search"
	UsageAdviceGeneration  = "advice_generation"
)

// UsageStats is the summary returned to the client after tracking an event.
type UsageStats struct {
	PortfoliosAnalyzed int    `json:"portfoliosAnalyzed"`
	AdviceGenerated    int    `json:"adviceGenerated"`
	LastAnalysis       string `json:"lastAnalysis"`
}
