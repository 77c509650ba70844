// Package interfaces defines service contracts for the advisor service
package interfaces

import (
	"context"

	"github.com/stockpilot/advisor/internal/models"
)

// QuoteProvider supplies market snapshots for symbols. Implementations exist
// for live APIs and for deterministic demo data; the engine depends only on
// the normalized quote shape.
type QuoteProvider interface {
	// GetQuote retrieves a quote for a single symbol
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetQuotes retrieves quotes for a set of symbols. Symbols that fail to
	// resolve are omitted from the result, not errors.
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)

	// Search finds symbols matching a free-text query
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// MarketMoversClient supplies market-wide listings.
type MarketMoversClient interface {
	// GetGainers retrieves the day's top gaining stocks
	GetGainers(ctx context.Context) ([]models.MoverQuote, error)

	// GetLosers retrieves the day's top losing stocks
	GetLosers(ctx context.Context) ([]models.MoverQuote, error)

	// GetActives retrieves the most actively traded stocks
	GetActives(ctx context.Context) ([]models.MoverQuote, error)
}

// NarratorClient produces natural-language advice from structured engine
// output. Callers bound calls with a deadline and substitute local templates
// on error; narration never affects numeric scores.
type NarratorClient interface {
	// GeneratePortfolioAdvice produces a prose summary for a full analysis
	GeneratePortfolioAdvice(ctx context.Context, analysis *models.PortfolioAnalysis) (string, error)

	// GenerateStockInsight produces a one-line insight for a single quote
	GenerateStockInsight(ctx context.Context, symbol string, quote *models.Quote) (string, error)
}

// UsageSink receives usage/billing events.
type UsageSink interface {
	// TrackEvent records a usage event
	TrackEvent(ctx context.Context, event models.UsageEvent) error

	// GetStats retrieves aggregate usage statistics
	GetStats(ctx context.Context) (*models.UsageStats, error)
}
