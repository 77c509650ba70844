// Package analyzer is the portfolio analysis engine: valuation, rule-based
// per-stock advice, diversification and risk scoring, and narrated overall
// advice. The engine is deterministic; narration is a presentation layer that
// never alters scores.
package analyzer

import (
	"fmt"
	"time"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

const (
	// techConcentrationInsight triggers above this tech weight percentage.
	techConcentrationThreshold = 70
	// techRiskThreshold marks HIGH risk on tech concentration alone.
	techRiskThreshold = 80
	// sectorScoreStep is the diversification points granted per distinct sector.
	sectorScoreStep = 20
	// defaultNarrateTimeout bounds narrator calls before template fallback.
	defaultNarrateTimeout = 5 * time.Second
)

// Engine implements interfaces.AnalyzerService.
type Engine struct {
	narrator       interfaces.NarratorClient
	narrateTimeout time.Duration
	logger         *common.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNarrator attaches a narration client. Without one, overall advice stays
// on the deterministic templates.
func WithNarrator(n interfaces.NarratorClient) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithNarrateTimeout bounds each narration call.
func WithNarrateTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.narrateTimeout = d
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *common.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an analysis engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		narrateTimeout: defaultNarrateTimeout,
		logger:         common.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze values the holdings against the supplied quotes and scores the
// resulting portfolio. Holdings without a matching quote are dropped; if none
// survive, ErrEmptyPortfolio is returned. The result is fully populated with
// templated overall advice; Narrate may upgrade the prose afterwards.
func (e *Engine) Analyze(holdings []models.Holding, quotes []models.Quote) (*models.PortfolioAnalysis, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("%w: empty portfolio", models.ErrInvalidInput)
	}

	quotesBySymbol := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		quotesBySymbol[q.Symbol] = q
	}

	var stocks []models.ValuedStock
	var totalValue, totalCost float64

	for _, h := range holdings {
		h = h.Normalize()
		if h.Symbol == "" {
			return nil, fmt.Errorf("%w: holding with empty symbol", models.ErrInvalidInput)
		}
		if h.Shares <= 0 {
			return nil, fmt.Errorf("%w: %s has non-positive shares", models.ErrInvalidInput, h.Symbol)
		}

		quote, ok := quotesBySymbol[h.Symbol]
		if !ok {
			e.logger.Debug().Str("symbol", h.Symbol).Msg("No quote for holding, dropping")
			continue
		}

		stock := models.ValuedStock{
			Symbol:        h.Symbol,
			Shares:        h.Shares,
			CurrentPrice:  quote.CurrentPrice,
			PreviousClose: quote.PreviousClose,
			MarketCap:     models.FormatMarketCap(quote.MarketCap),
			PERatio:       quote.PERatio,
			Sector:        quote.Sector,
			Value:         quote.CurrentPrice * h.Shares,
			PriorValue:    quote.PreviousClose * h.Shares,
		}
		if quote.PreviousClose > 0 {
			stock.ChangePct = (quote.CurrentPrice - quote.PreviousClose) / quote.PreviousClose * 100
		}

		stocks = append(stocks, stock)
		totalValue += stock.Value
		totalCost += stock.PriorValue
	}

	if len(stocks) == 0 {
		return nil, models.ErrEmptyPortfolio
	}

	portfolio := models.Portfolio{
		Stocks:        stocks,
		TotalValue:    totalValue,
		TotalGainLoss: totalValue - totalCost,
	}
	if totalCost > 0 {
		portfolio.TotalGainLossPercent = portfolio.TotalGainLoss / totalCost * 100
	}

	advice := make([]models.StockAdvice, 0, len(stocks))
	sectors := make(map[string]int, len(stocks))
	var techValue, peSum float64

	for _, stock := range stocks {
		advice = append(advice, adviseStock(stock.Symbol, ruleInput{
			Weight:      stock.Value / totalValue * 100,
			PERatio:     stock.PERatio,
			PriceChange: stock.ChangePct,
		}))
		sectors[stock.Sector]++
		peSum += stock.PERatio
		if stock.Sector == "Technology" {
			techValue += stock.Value
		}
	}

	diversificationScore := len(sectors) * sectorScoreStep
	if diversificationScore > 100 {
		diversificationScore = 100
	}

	techWeight := techValue / totalValue * 100
	avgPE := peSum / float64(len(stocks))

	riskLevel := models.RiskMedium
	switch {
	case avgPE > 40 || techWeight > techRiskThreshold:
		riskLevel = models.RiskHigh
	case avgPE < 25 && diversificationScore > 60:
		riskLevel = models.RiskLow
	}

	analysis := &models.PortfolioAnalysis{
		Portfolio:            portfolio,
		IndividualAdvice:     advice,
		OverallAdvice:        overallAdvice(riskLevel, avgPE, diversificationScore, len(stocks)),
		DiversificationScore: diversificationScore,
		RiskLevel:            riskLevel,
		KeyInsights:          keyInsights(techWeight, len(stocks), portfolio.TotalGainLossPercent),
	}

	e.logger.Debug().
		Int("holdings", len(stocks)).
		Float64("totalValue", totalValue).
		Str("riskLevel", string(riskLevel)).
		Int("diversification", diversificationScore).
		Msg("Analyzed portfolio")

	return analysis, nil
}

// keyInsights builds the portfolio-level observations in fixed order.
func keyInsights(techWeight float64, holdingCount int, gainLossPct float64) []string {
	insights := make([]string, 0, 3)

	if techWeight > techConcentrationThreshold {
		insights = append(insights, "Portfolio is heavily concentrated in technology sector. Consider diversifying into other sectors.")
	}
	if holdingCount < 5 {
		insights = append(insights, "Portfolio has limited diversification. Consider adding more stocks across different sectors.")
	}
	if gainLossPct > 20 {
		insights = append(insights, "Strong portfolio performance. Consider taking some profits and rebalancing.")
	} else if gainLossPct < -10 {
		insights = append(insights, "Portfolio is underperforming. Review individual positions and consider adjustments.")
	}

	return insights
}

// overallAdvice renders the templated portfolio summary for a risk level.
func overallAdvice(risk models.RiskLevel, avgPE float64, diversificationScore, holdingCount int) string {
	switch risk {
	case models.RiskHigh:
		return fmt.Sprintf("Your portfolio shows high risk with an average P/E of %.1f. Consider diversifying across more sectors and adding defensive stocks to reduce volatility.", avgPE)
	case models.RiskLow:
		return fmt.Sprintf("Your portfolio is well-balanced with good diversification (score: %d/100). Maintain current allocation and monitor individual positions regularly.", diversificationScore)
	default:
		action := "rebalancing"
		if holdingCount < 8 {
			action = "adding more positions"
		}
		return fmt.Sprintf("Your portfolio has moderate risk. With %d holdings and %d/100 diversification score, consider %s to optimize returns.", holdingCount, diversificationScore, action)
	}
}

var _ interfaces.AnalyzerService = (*Engine)(nil)
