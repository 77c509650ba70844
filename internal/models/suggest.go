package models

// HeldStock is the caller's view of a current position for suggestion
// purposes: just the symbol and its sector classification.
type HeldStock struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector"`
}

// Suggestion is a candidate stock proposed to improve diversification.
type Suggestion struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changesPercentage"`
	Sector    string  `json:"sector"`
	Reason    string  `json:"reason"`
}

// SuggestionSet is the suggestion engine's output: at most five suggestions
// plus a portfolio-level reasoning string.
type SuggestionSet struct {
	Suggestions []Suggestion `json:"suggestions"`
	Reasoning   string       `json:"reasoning"`
	DataSource  DataSource   `json:"dataSource"`
}
