// Package interfaces defines service contracts for the advisor service
package interfaces

import (
	"context"

	"github.com/stockpilot/advisor/internal/models"
)

// QuoteService resolves quotes with live-primary and demo-fallback behavior.
type QuoteService interface {
	// GetQuotes fans out quote retrieval for symbols. Symbols that fail to
	// resolve are dropped. The returned source marks live vs demo data.
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, models.DataSource, error)

	// Search finds symbols matching a query, degrading to demo results
	Search(ctx context.Context, query string) ([]models.SearchResult, models.DataSource, error)

	// GetGainers retrieves the day's top gainers, degrading to demo data
	GetGainers(ctx context.Context) ([]models.MoverQuote, models.DataSource, error)

	// GetLosers retrieves the day's top losers, degrading to demo data
	GetLosers(ctx context.Context) ([]models.MoverQuote, models.DataSource, error)

	// GetActives retrieves the most active stocks, degrading to demo data
	GetActives(ctx context.Context) ([]models.MoverQuote, models.DataSource, error)
}

// AnalyzerService is the portfolio analysis engine.
type AnalyzerService interface {
	// Analyze builds a valued portfolio from holdings and quotes and scores it.
	// Returns a fully populated analysis or an error, never a partial result.
	Analyze(holdings []models.Holding, quotes []models.Quote) (*models.PortfolioAnalysis, error)

	// Narrate replaces the templated overall advice with narrator prose when
	// available, falling back silently to the template on error or timeout.
	Narrate(ctx context.Context, analysis *models.PortfolioAnalysis)

	// StockInsight produces a one-line insight for a single quote, narrated
	// when possible and templated otherwise.
	StockInsight(ctx context.Context, symbol string, quote *models.Quote) string
}

// SuggestService proposes stocks from underrepresented sectors.
type SuggestService interface {
	// Suggest returns at most five candidates plus portfolio-level reasoning.
	// Never fails: degrades to a static fallback set on upstream failure.
	Suggest(ctx context.Context, held []models.HeldStock, riskLevel models.RiskLevel, diversificationScore int) *models.SuggestionSet
}

// UsageService tracks usage events and reports stats.
type UsageService interface {
	// Track records an event and returns a usage summary. Never fails:
	// synthesizes local counters when the sink is unavailable.
	Track(ctx context.Context, eventType string, metadata map[string]any) *models.UsageStats
}

// SectorClassifier maps ticker symbols to sector labels. Total over all
// strings; unknown symbols map to the configured default sector.
type SectorClassifier interface {
	Classify(symbol string) string
}
