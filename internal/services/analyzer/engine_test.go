package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/models"
)

func newTestEngine(opts ...Option) *Engine {
	opts = append([]Option{WithLogger(common.NewSilentLogger())}, opts...)
	return NewEngine(opts...)
}

func quoteFor(symbol string, price, prev, pe float64, sector string) models.Quote {
	return models.Quote{
		Symbol:        symbol,
		CurrentPrice:  price,
		PreviousClose: prev,
		PERatio:       pe,
		Sector:        sector,
		MarketCap:     1e11,
	}
}

func TestAnalyze_ValuationTotals(t *testing.T) {
	engine := newTestEngine()

	holdings := []models.Holding{
		{Symbol: "AAPL", Shares: 50},
		{Symbol: "TSLA", Shares: 25},
	}
	quotes := []models.Quote{
		quoteFor("AAPL", 185.92, 182.31, 28.5, "Technology"),
		quoteFor("TSLA", 248.50, 245.12, 65.2, "Automotive"),
	}

	analysis, err := engine.Analyze(holdings, quotes)
	require.NoError(t, err)

	assert.InDelta(t, 15508.5, analysis.Portfolio.TotalValue, 0.001)
	assert.InDelta(t, 265.0, analysis.Portfolio.TotalGainLoss, 0.001)
	assert.InDelta(t, 265.0/15243.5*100, analysis.Portfolio.TotalGainLossPercent, 0.001)
	assert.Equal(t, 40, analysis.DiversificationScore)

	// Sum of per-stock values must equal the portfolio total.
	var sum float64
	for _, s := range analysis.Portfolio.Stocks {
		sum += s.Value
	}
	assert.InDelta(t, analysis.Portfolio.TotalValue, sum, 1e-9)
}

func TestAnalyze_EmptyHoldings(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Analyze(nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAnalyze_NonPositiveShares(t *testing.T) {
	engine := newTestEngine()

	for _, shares := range []float64{0, -5} {
		_, err := engine.Analyze(
			[]models.Holding{{Symbol: "AAPL", Shares: shares}},
			[]models.Quote{quoteFor("AAPL", 185.92, 182.31, 28.5, "Technology")},
		)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "shares=%v", shares)
	}
}

func TestAnalyze_NoMatchingQuotes(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Analyze(
		[]models.Holding{{Symbol: "ZZZZ", Shares: 10}},
		[]models.Quote{quoteFor("AAPL", 185.92, 182.31, 28.5, "Technology")},
	)
	assert.ErrorIs(t, err, models.ErrEmptyPortfolio)
}

func TestAnalyze_UnresolvedHoldingDropped(t *testing.T) {
	engine := newTestEngine()

	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "AAPL", Shares: 10},
			{Symbol: "ZZZZ", Shares: 10},
		},
		[]models.Quote{quoteFor("AAPL", 185.92, 182.31, 28.5, "Technology")},
	)
	require.NoError(t, err)
	require.Len(t, analysis.Portfolio.Stocks, 1)
	assert.Equal(t, "AAPL", analysis.Portfolio.Stocks[0].Symbol)
}

func TestAnalyze_ZeroPreviousCloseGuard(t *testing.T) {
	engine := newTestEngine()

	analysis, err := engine.Analyze(
		[]models.Holding{{Symbol: "NEWCO", Shares: 10}},
		[]models.Quote{quoteFor("NEWCO", 50, 0, 30, "Technology")},
	)
	require.NoError(t, err)
	assert.Zero(t, analysis.Portfolio.Stocks[0].ChangePct)
	assert.Zero(t, analysis.Portfolio.TotalGainLossPercent)
}

func TestAnalyze_OverweightRuleWinsFirst(t *testing.T) {
	engine := newTestEngine()

	// AAPL dominates the portfolio and also has a high P/E with big gains;
	// the concentration rule must win over the overvaluation rule.
	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "AAPL", Shares: 100},
			{Symbol: "JNJ", Shares: 1},
		},
		[]models.Quote{
			quoteFor("AAPL", 200, 180, 60, "Technology"),
			quoteFor("JNJ", 150, 150, 15, "Healthcare"),
		},
	)
	require.NoError(t, err)

	advice := adviceBySymbol(t, analysis, "AAPL")
	assert.Equal(t, models.ActionSell, advice.Action)
	assert.Equal(t, models.ConfidenceHigh, advice.Confidence)
	assert.Contains(t, advice.Reasoning, "Over-weighted at")
}

func TestAnalyze_OvervaluedRule(t *testing.T) {
	engine := newTestEngine()

	// Build a portfolio where TSLA sits under 40% weight but has pe>50 and
	// a day gain above 5%.
	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "TSLA", Shares: 10},
			{Symbol: "JNJ", Shares: 30},
			{Symbol: "XOM", Shares: 30},
		},
		[]models.Quote{
			quoteFor("TSLA", 106, 100, 65.2, "Automotive"),
			quoteFor("JNJ", 150, 150, 22, "Healthcare"),
			quoteFor("XOM", 110, 110, 12, "Energy"),
		},
	)
	require.NoError(t, err)

	advice := adviceBySymbol(t, analysis, "TSLA")
	assert.Equal(t, models.ActionSell, advice.Action)
	assert.Equal(t, models.ConfidenceMedium, advice.Confidence)
	assert.Equal(t, "High P/E ratio (65.2) with recent gains. May be overvalued.", advice.Reasoning)
}

func TestAnalyze_ValueDipRule(t *testing.T) {
	engine := newTestEngine()

	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "JPM", Shares: 10},
			{Symbol: "JNJ", Shares: 10},
			{Symbol: "XOM", Shares: 10},
		},
		[]models.Quote{
			quoteFor("JPM", 96, 100, 12.5, "Finance"),
			quoteFor("JNJ", 150, 150, 22, "Healthcare"),
			quoteFor("XOM", 110, 110, 14, "Energy"),
		},
	)
	require.NoError(t, err)

	advice := adviceBySymbol(t, analysis, "JPM")
	assert.Equal(t, models.ActionBuy, advice.Action)
	assert.Equal(t, models.ConfidenceHigh, advice.Confidence)
	assert.Equal(t, "Attractive P/E ratio (12.5) with recent dip. Good buying opportunity.", advice.Reasoning)
}

func TestAnalyze_MomentumAndStableRules(t *testing.T) {
	engine := newTestEngine()

	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "NVDA", Shares: 1},
			{Symbol: "JNJ", Shares: 1},
			{Symbol: "XOM", Shares: 2},
		},
		[]models.Quote{
			quoteFor("NVDA", 104, 100, 40, "Technology"),
			quoteFor("JNJ", 150.5, 150, 22, "Healthcare"),
			quoteFor("XOM", 110, 110, 14, "Energy"),
		},
	)
	require.NoError(t, err)

	momentum := adviceBySymbol(t, analysis, "NVDA")
	assert.Equal(t, models.ActionHold, momentum.Action)
	assert.Equal(t, "Strong recent performance (+4.0%). Monitor for continued momentum.", momentum.Reasoning)

	stable := adviceBySymbol(t, analysis, "JNJ")
	assert.Equal(t, models.ActionHold, stable.Action)
	assert.Contains(t, stable.Reasoning, "Stable performance.")
}

func TestAnalyze_DiversificationSteps(t *testing.T) {
	engine := newTestEngine()

	sectors := []string{"Technology", "Healthcare", "Finance", "Energy", "Industrials", "Consumer Cyclical"}
	for n := 1; n <= len(sectors); n++ {
		holdings := make([]models.Holding, 0, n)
		quotes := make([]models.Quote, 0, n)
		for i := 0; i < n; i++ {
			sym := fmt.Sprintf("S%d", i)
			holdings = append(holdings, models.Holding{Symbol: sym, Shares: 1})
			quotes = append(quotes, quoteFor(sym, 100, 100, 20, sectors[i]))
		}

		analysis, err := engine.Analyze(holdings, quotes)
		require.NoError(t, err)

		want := n * 20
		if want > 100 {
			want = 100
		}
		assert.Equal(t, want, analysis.DiversificationScore, "sectors=%d", n)
	}
}

func TestAnalyze_RiskBoundaries(t *testing.T) {
	engine := newTestEngine()

	// avgPE exactly 40 in a diversified low-tech portfolio stays MEDIUM;
	// 41 tips to HIGH.
	build := func(pe float64) *models.PortfolioAnalysis {
		analysis, err := engine.Analyze(
			[]models.Holding{
				{Symbol: "JNJ", Shares: 1},
				{Symbol: "XOM", Shares: 1},
			},
			[]models.Quote{
				quoteFor("JNJ", 100, 100, pe, "Healthcare"),
				quoteFor("XOM", 100, 100, pe, "Energy"),
			},
		)
		require.NoError(t, err)
		return analysis
	}

	assert.Equal(t, models.RiskMedium, build(40).RiskLevel)
	assert.Equal(t, models.RiskHigh, build(41).RiskLevel)
}

func TestAnalyze_RiskHighOnTechConcentration(t *testing.T) {
	engine := newTestEngine()

	// Low P/E but nearly all value in Technology.
	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "AAPL", Shares: 100},
			{Symbol: "XOM", Shares: 1},
		},
		[]models.Quote{
			quoteFor("AAPL", 100, 100, 20, "Technology"),
			quoteFor("XOM", 100, 100, 14, "Energy"),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, analysis.RiskLevel)
}

func TestAnalyze_RiskLow(t *testing.T) {
	engine := newTestEngine()

	// Four sectors (score 80) with cheap stocks.
	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "JPM", Shares: 1},
			{Symbol: "JNJ", Shares: 1},
			{Symbol: "XOM", Shares: 1},
			{Symbol: "CAT", Shares: 1},
		},
		[]models.Quote{
			quoteFor("JPM", 100, 100, 12, "Finance"),
			quoteFor("JNJ", 100, 100, 20, "Healthcare"),
			quoteFor("XOM", 100, 100, 14, "Energy"),
			quoteFor("CAT", 100, 100, 18, "Industrials"),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, analysis.RiskLevel)
	assert.Contains(t, analysis.OverallAdvice, "well-balanced")
	assert.Contains(t, analysis.OverallAdvice, "score: 80/100")
}

func TestAnalyze_InsightOrdering(t *testing.T) {
	engine := newTestEngine()

	// Tech-heavy, small, and strongly gaining portfolio triggers all three
	// insights in declaration order.
	analysis, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "AAPL", Shares: 10},
			{Symbol: "MSFT", Shares: 10},
		},
		[]models.Quote{
			quoteFor("AAPL", 130, 100, 28, "Technology"),
			quoteFor("MSFT", 130, 100, 32, "Technology"),
		},
	)
	require.NoError(t, err)

	require.Len(t, analysis.KeyInsights, 3)
	assert.Contains(t, analysis.KeyInsights[0], "concentrated in technology")
	assert.Contains(t, analysis.KeyInsights[1], "limited diversification")
	assert.Contains(t, analysis.KeyInsights[2], "taking some profits")
}

func TestAnalyze_UnderperformanceInsight(t *testing.T) {
	engine := newTestEngine()

	analysis, err := engine.Analyze(
		[]models.Holding{{Symbol: "JNJ", Shares: 10}},
		[]models.Quote{quoteFor("JNJ", 85, 100, 20, "Healthcare")},
	)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(analysis.KeyInsights, "\n"), "underperforming")
}

func TestAnalyze_ModerateAdviceHoldingCount(t *testing.T) {
	engine := newTestEngine()

	small, err := engine.Analyze(
		[]models.Holding{
			{Symbol: "AAPL", Shares: 1},
			{Symbol: "TSLA", Shares: 1},
		},
		[]models.Quote{
			quoteFor("AAPL", 100, 100, 30, "Technology"),
			quoteFor("TSLA", 100, 100, 35, "Automotive"),
		},
	)
	require.NoError(t, err)
	require.Equal(t, models.RiskMedium, small.RiskLevel)
	assert.Contains(t, small.OverallAdvice, "adding more positions")

	holdings := make([]models.Holding, 0, 8)
	quotes := make([]models.Quote, 0, 8)
	sectors := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, sector := range sectors {
		sym := fmt.Sprintf("S%d", i)
		holdings = append(holdings, models.Holding{Symbol: sym, Shares: 1})
		quotes = append(quotes, quoteFor(sym, 100, 100, 35, sector))
	}
	large, err := engine.Analyze(holdings, quotes)
	require.NoError(t, err)
	require.Equal(t, models.RiskMedium, large.RiskLevel)
	assert.Contains(t, large.OverallAdvice, "rebalancing")
}

func TestAnalyze_Idempotent(t *testing.T) {
	engine := newTestEngine()

	holdings := []models.Holding{
		{Symbol: "AAPL", Shares: 50},
		{Symbol: "TSLA", Shares: 25},
	}
	quotes := []models.Quote{
		quoteFor("AAPL", 185.92, 182.31, 28.5, "Technology"),
		quoteFor("TSLA", 248.50, 245.12, 65.2, "Automotive"),
	}

	first, err := engine.Analyze(holdings, quotes)
	require.NoError(t, err)
	second, err := engine.Analyze(holdings, quotes)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func adviceBySymbol(t *testing.T, analysis *models.PortfolioAnalysis, symbol string) models.StockAdvice {
	t.Helper()
	for _, a := range analysis.IndividualAdvice {
		if a.Symbol == symbol {
			return a
		}
	}
	t.Fatalf("no advice for %s", symbol)
	return models.StockAdvice{}
}

type stubNarrator struct {
	advice  string
	insight string
	err     error
	calls   int
}

func (s *stubNarrator) GeneratePortfolioAdvice(_ context.Context, _ *models.PortfolioAnalysis) (string, error) {
	s.calls++
	return s.advice, s.err
}

func (s *stubNarrator) GenerateStockInsight(_ context.Context, _ string, _ *models.Quote) (string, error) {
	s.calls++
	return s.insight, s.err
}

func TestNarrate_ReplacesAdvice(t *testing.T) {
	narrator := &stubNarrator{advice: "Consider holding steady this quarter."}
	engine := newTestEngine(WithNarrator(narrator))

	analysis := &models.PortfolioAnalysis{OverallAdvice: "templated"}
	engine.Narrate(context.Background(), analysis)

	assert.Equal(t, "Consider holding steady this quarter.", analysis.OverallAdvice)
	assert.Equal(t, 1, narrator.calls)
}

func TestNarrate_FallbackOnError(t *testing.T) {
	narrator := &stubNarrator{err: errors.New("quota exceeded")}
	engine := newTestEngine(WithNarrator(narrator))

	analysis := &models.PortfolioAnalysis{
		Portfolio:            models.Portfolio{TotalGainLossPercent: 8},
		DiversificationScore: 85,
		RiskLevel:            models.RiskLow,
		OverallAdvice:        "templated",
	}
	engine.Narrate(context.Background(), analysis)

	assert.Equal(t,
		"Your portfolio is performing well with strong gains. "+
			"Your portfolio shows excellent diversification. "+
			"Your conservative approach provides good stability for long-term growth.",
		analysis.OverallAdvice)
}

func TestNarrate_NoNarratorKeepsTemplate(t *testing.T) {
	engine := newTestEngine()

	analysis := &models.PortfolioAnalysis{OverallAdvice: "templated"}
	engine.Narrate(context.Background(), analysis)
	assert.Equal(t, "templated", analysis.OverallAdvice)
}

func TestStockInsight_Fallbacks(t *testing.T) {
	engine := newTestEngine()

	assert.Equal(t, "NVDA is showing strong momentum with significant gains today.",
		engine.StockInsight(context.Background(), "NVDA", &models.Quote{ChangePct: 6.1}))
	assert.Equal(t, "SNAP is experiencing a downturn, which may present a buying opportunity if fundamentals remain strong.",
		engine.StockInsight(context.Background(), "SNAP", &models.Quote{ChangePct: -6.3}))
	assert.Equal(t, "JPM appears reasonably valued with a low P/E ratio.",
		engine.StockInsight(context.Background(), "JPM", &models.Quote{ChangePct: 1, PERatio: 12}))
	assert.Equal(t, "MSFT is trading within normal ranges.",
		engine.StockInsight(context.Background(), "MSFT", &models.Quote{ChangePct: 1, PERatio: 30}))
}
