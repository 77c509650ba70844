package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/models"
	"github.com/stockpilot/advisor/internal/services/sector"
)

type stubProvider struct {
	quotes  []models.Quote
	results []models.SearchResult
	err     error
}

func (s *stubProvider) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.quotes {
		if s.quotes[i].Symbol == symbol {
			return &s.quotes[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubProvider) GetQuotes(_ context.Context, _ []string) ([]models.Quote, error) {
	return s.quotes, s.err
}

func (s *stubProvider) Search(_ context.Context, _ string) ([]models.SearchResult, error) {
	return s.results, s.err
}

type stubMovers struct {
	movers []models.MoverQuote
	err    error
}

func (s *stubMovers) GetGainers(_ context.Context) ([]models.MoverQuote, error) {
	return s.movers, s.err
}

func (s *stubMovers) GetLosers(_ context.Context) ([]models.MoverQuote, error) {
	return s.movers, s.err
}

func (s *stubMovers) GetActives(_ context.Context) ([]models.MoverQuote, error) {
	return s.movers, s.err
}

func newTestService(live *stubProvider, movers *stubMovers) *Service {
	classifier := sector.NewClassifier(sector.DefaultSectorMap(), sector.DefaultSector)
	svc := NewService(nil, nil, NewDemoProvider(42), classifier, common.NewSilentLogger())
	if live != nil {
		svc.live = live
	}
	if movers != nil {
		svc.movers = movers
	}
	return svc
}

func TestGetQuotes_LiveSource(t *testing.T) {
	live := &stubProvider{quotes: []models.Quote{
		{Symbol: "AAPL", CurrentPrice: 190, PreviousClose: 188, PERatio: 30, Sector: "Technology"},
	}}
	svc := newTestService(live, nil)

	quotes, source, err := svc.GetQuotes(context.Background(), []string{"aapl"})
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceLive, source)
	require.Len(t, quotes, 1)
	assert.Equal(t, "AAPL", quotes[0].Symbol)
}

func TestGetQuotes_DemoWhenNoProvider(t *testing.T) {
	svc := newTestService(nil, nil)

	quotes, source, err := svc.GetQuotes(context.Background(), []string{"AAPL", "TSLA"})
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceDemo, source)
	require.Len(t, quotes, 2)
	assert.InDelta(t, 185.92, quotes[0].CurrentPrice, 0.001)
	assert.InDelta(t, 248.50, quotes[1].CurrentPrice, 0.001)
}

func TestGetQuotes_DemoFallbackOnError(t *testing.T) {
	live := &stubProvider{err: errors.New("rate limited")}
	svc := newTestService(live, nil)

	quotes, source, err := svc.GetQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceDemo, source)
	require.Len(t, quotes, 1)
}

func TestGetQuotes_NormalizesMissingPEAndSector(t *testing.T) {
	live := &stubProvider{quotes: []models.Quote{
		{Symbol: "AAPL", CurrentPrice: 190, PreviousClose: 188},
	}}
	svc := newTestService(live, nil)

	quotes, _, err := svc.GetQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, quotes[0].PERatio, 0.001)
	assert.Equal(t, "Technology", quotes[0].Sector)
}

func TestGetQuotes_InvalidInput(t *testing.T) {
	svc := newTestService(nil, nil)

	_, _, err := svc.GetQuotes(context.Background(), []string{"", "  "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGetQuotes_DemoDeterministicForUnknownSymbol(t *testing.T) {
	first := newTestService(nil, nil)
	second := newTestService(nil, nil)

	a, _, err := first.GetQuotes(context.Background(), []string{"ZZZZ"})
	require.NoError(t, err)
	b, _, err := second.GetQuotes(context.Background(), []string{"ZZZZ"})
	require.NoError(t, err)
	assert.Equal(t, a[0].CurrentPrice, b[0].CurrentPrice)
}

func TestSearch_DemoFallback(t *testing.T) {
	live := &stubProvider{err: errors.New("boom")}
	svc := newTestService(live, nil)

	results, source, err := svc.Search(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceDemo, source)
	require.Len(t, results, 1)
	assert.Equal(t, "AAPL", results[0].Symbol)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newTestService(nil, nil)

	_, _, err := svc.Search(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGetGainers_LiveThenDemo(t *testing.T) {
	movers := &stubMovers{movers: []models.MoverQuote{{Symbol: "NVDA", ChangePct: 4.2}}}
	svc := newTestService(nil, movers)

	list, source, err := svc.GetGainers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceLive, source)
	assert.Len(t, list, 1)

	movers.movers = nil
	movers.err = errors.New("upstream down")
	list, source, err = svc.GetGainers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceDemo, source)
	assert.NotEmpty(t, list)
}

func TestGetActives_DemoWhenNoClient(t *testing.T) {
	svc := newTestService(nil, nil)

	list, source, err := svc.GetActives(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceDemo, source)
	assert.Len(t, list, 10)
}
