package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/models"
)

type stubQuotes struct {
	quotes []models.Quote
	err    error
}

func (s *stubQuotes) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	for i := range s.quotes {
		if s.quotes[i].Symbol == symbol {
			return &s.quotes[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubQuotes) GetQuotes(_ context.Context, _ []string) ([]models.Quote, error) {
	return s.quotes, s.err
}

func (s *stubQuotes) Search(_ context.Context, _ string) ([]models.SearchResult, error) {
	return nil, errors.New("not implemented")
}

func techHeavyPortfolio() []models.HeldStock {
	return []models.HeldStock{
		{Symbol: "AAPL", Sector: "Technology"},
		{Symbol: "MSFT", Sector: "Technology"},
		{Symbol: "NVDA", Sector: "Technology"},
	}
}

func TestSuggest_UnderrepresentedSectors(t *testing.T) {
	svc := NewService(nil, 7, common.NewSilentLogger())

	set := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 20)
	require.NotNil(t, set)
	require.NotEmpty(t, set.Suggestions)
	assert.LessOrEqual(t, len(set.Suggestions), 5)

	// Technology has 3 positions so the sampled sectors are the next three
	// underrepresented ones in catalog order.
	for _, s := range set.Suggestions {
		assert.Contains(t, []string{"Healthcare", "Finance", "Consumer Cyclical"}, s.Sector)
	}
	assert.Equal(t, models.DataSourceDemo, set.DataSource)
}

func TestSuggest_ExcludesHeldSymbols(t *testing.T) {
	svc := NewService(nil, 7, common.NewSilentLogger())

	held := []models.HeldStock{
		{Symbol: "JNJ", Sector: "Healthcare"},
		{Symbol: "JPM", Sector: "Finance"},
	}
	set := svc.Suggest(context.Background(), held, models.RiskMedium, 40)
	for _, s := range set.Suggestions {
		assert.NotEqual(t, "JNJ", s.Symbol)
		assert.NotEqual(t, "JPM", s.Symbol)
	}
}

func TestSuggest_CapAtFive(t *testing.T) {
	svc := NewService(nil, 7, common.NewSilentLogger())

	// Empty portfolio: every sector is underrepresented and nothing is held.
	set := svc.Suggest(context.Background(), nil, models.RiskMedium, 0)
	assert.Len(t, set.Suggestions, 5)
}

func TestSuggest_TechnologyBackfill(t *testing.T) {
	svc := NewService(nil, 7, common.NewSilentLogger())

	// Two or more positions in every catalog sector leaves no
	// underrepresented sector, forcing the Technology backfill.
	held := make([]models.HeldStock, 0, 12)
	for _, sector := range sectorOrder {
		for i := 0; i < 2; i++ {
			held = append(held, models.HeldStock{Symbol: catalog[sector][i].Symbol, Sector: sector})
		}
	}

	set := svc.Suggest(context.Background(), held, models.RiskLow, 100)
	require.NotEmpty(t, set.Suggestions)
	for _, s := range set.Suggestions {
		assert.Equal(t, "Technology", s.Sector)
	}
}

func TestSuggest_LiveQuotesShapeReason(t *testing.T) {
	quotes := &stubQuotes{quotes: []models.Quote{
		{Symbol: "JNJ", CurrentPrice: 162.30, Change: 1.50, ChangePct: 0.93},
		{Symbol: "UNH", CurrentPrice: 520.10, Change: -3.20, ChangePct: -0.61},
	}}
	svc := NewService(quotes, 7, common.NewSilentLogger())

	set := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 20)
	assert.Equal(t, models.DataSourceLive, set.DataSource)

	bySymbol := make(map[string]models.Suggestion)
	for _, s := range set.Suggestions {
		bySymbol[s.Symbol] = s
	}
	require.Contains(t, bySymbol, "JNJ")
	assert.Equal(t, "Diversifies into Healthcare sector - currently gaining 0.93%", bySymbol["JNJ"].Reason)
	require.Contains(t, bySymbol, "UNH")
	assert.Equal(t, "Diversifies into Healthcare sector - currently down 0.61%", bySymbol["UNH"].Reason)
}

func TestSuggest_PlaceholderOnQuoteFailure(t *testing.T) {
	quotes := &stubQuotes{err: errors.New("upstream down")}
	svc := NewService(quotes, 7, common.NewSilentLogger())

	set := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 20)
	assert.Equal(t, models.DataSourceDemo, set.DataSource)
	require.NotEmpty(t, set.Suggestions)
	for _, s := range set.Suggestions {
		assert.Positive(t, s.Price)
		assert.Contains(t, s.Reason, "Recommended to diversify into")
	}
}

func TestSuggest_PlaceholdersDeterministicForSeed(t *testing.T) {
	a := NewService(nil, 99, common.NewSilentLogger()).
		Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 20)
	b := NewService(nil, 99, common.NewSilentLogger()).
		Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 20)
	assert.Equal(t, a, b)
}

func TestSuggest_ReasoningBrackets(t *testing.T) {
	svc := NewService(nil, 7, common.NewSilentLogger())

	low := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 40)
	assert.Equal(t, "Your portfolio is heavily concentrated in Technology (3 stocks). These suggestions will help diversify across sectors.", low.Reasoning)

	mid := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 60)
	assert.Equal(t, "Your portfolio has decent diversification. These stocks from underrepresented sectors can further balance your holdings.", mid.Reasoning)

	high := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskMedium, 80)
	assert.Equal(t, "Your portfolio is well-diversified. Consider these top performers to complement your existing positions.", high.Reasoning)

	risky := svc.Suggest(context.Background(), techHeavyPortfolio(), models.RiskHigh, 40)
	assert.Contains(t, risky.Reasoning, "Focus on stable, established companies to balance your risk profile.")
}
