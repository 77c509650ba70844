package models

// MoverQuote is a row in a gainers/losers/actives listing.
type MoverQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changesPercentage"`
	Volume    int64   `json:"volume"`
	MarketCap float64 `json:"marketCap,omitempty"`
	PERatio   float64 `json:"pe,omitempty"`
}

// SearchResult is a symbol-search hit.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}
