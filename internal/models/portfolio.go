// Package models defines data structures for the advisor service
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the analysis engine. Transport code maps these onto
// HTTP status codes; the engine itself never panics for well-formed input.
var (
	// ErrInvalidInput indicates malformed holdings (empty symbol, non-positive shares).
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyPortfolio indicates no holdings survived quote matching.
	ErrEmptyPortfolio = errors.New("no valid stock quotes found")
	// ErrUpstreamUnavailable indicates a market-data or narration provider failure
	// for which no fallback path exists.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)

// Action is a per-stock recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Confidence qualifies an Action.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// RiskLevel is the coarse portfolio risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// DataSource marks whether a response was built from live or demo quotes.
type DataSource string

const (
	DataSourceLive DataSource = "live"
	DataSourceDemo DataSource = "demo"
)

// Holding is a user-supplied position before quote enrichment.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchasePrice,omitempty"`
}

// Normalize uppercases and trims the symbol.
func (h Holding) Normalize() Holding {
	h.Symbol = NormalizeSymbol(h.Symbol)
	return h
}

// Quote is a market snapshot for a single symbol. Lifetime is one analysis
// call; quotes are never cached or shared between requests.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	CurrentPrice  float64 `json:"currentPrice"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePct     float64 `json:"changesPercentage"`
	Volume        int64   `json:"volume,omitempty"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	PERatio       float64 `json:"peRatio,omitempty"`
	Sector        string  `json:"sector,omitempty"`
}

// ValuedStock is a Holding enriched with its Quote and derived valuation
// fields. Owned by exactly one Portfolio; never mutated after construction.
type ValuedStock struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	CurrentPrice  float64 `json:"currentPrice"`
	PreviousClose float64 `json:"previousClose"`
	MarketCap     string  `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	Sector        string  `json:"sector"`

	Value      float64 `json:"value"`
	PriorValue float64 `json:"priorValue"`
	// ChangePct is (current-previous)/previous*100, 0 when previous close is 0.
	ChangePct float64 `json:"priceChangePercent"`
}

// Portfolio is the full valued collection plus aggregate totals.
type Portfolio struct {
	Stocks               []ValuedStock `json:"stocks"`
	TotalValue           float64       `json:"totalValue"`
	TotalGainLoss        float64       `json:"totalGainLoss"`
	TotalGainLossPercent float64       `json:"totalGainLossPercent"`
}

// StockAdvice is the per-stock recommendation. Order matches Portfolio.Stocks.
type StockAdvice struct {
	Symbol     string     `json:"symbol"`
	Action     Action     `json:"action"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// PortfolioAnalysis is the engine's output aggregate. Constructed fresh per
// request and immutable once returned.
type PortfolioAnalysis struct {
	Portfolio            Portfolio     `json:"portfolio"`
	IndividualAdvice     []StockAdvice `json:"individualAdvice"`
	OverallAdvice        string        `json:"overallAdvice"`
	DiversificationScore int           `json:"diversificationScore"`
	RiskLevel            RiskLevel     `json:"riskLevel"`
	KeyInsights          []string      `json:"keyInsights"`
	DataSource           DataSource    `json:"dataSource"`
}

// NormalizeSymbol uppercases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// FormatMarketCap renders a market cap in trillions/billions/millions,
// matching the display convention of the quote providers ("2.85T", "791.0B").
func FormatMarketCap(cap float64) string {
	switch {
	case cap >= 1e12:
		return fmt.Sprintf("%.2fT", cap/1e12)
	case cap >= 1e9:
		return fmt.Sprintf("%.1fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("%.1fM", cap/1e6)
	case cap > 0:
		return fmt.Sprintf("%.0f", cap)
	default:
		return "N/A"
	}
}
