// Package quote resolves market data with live-primary, demo-fallback
// semantics. Every operation returns the data source alongside the data so
// callers can surface whether results are live or demo.
package quote

import (
	"context"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

// defaultPERatio stands in for quotes whose provider reports no P/E.
const defaultPERatio = 25

// Service implements interfaces.QuoteService. The live provider and movers
// client are optional; when absent (no API key configured) or failing, the
// service degrades to the deterministic demo provider instead of erroring.
type Service struct {
	live       interfaces.QuoteProvider
	movers     interfaces.MarketMoversClient
	demo       *DemoProvider
	classifier interfaces.SectorClassifier
	logger     *common.Logger
}

// NewService creates a quote service. live and movers may be nil.
func NewService(live interfaces.QuoteProvider, movers interfaces.MarketMoversClient, demo *DemoProvider, classifier interfaces.SectorClassifier, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		live:       live,
		movers:     movers,
		demo:       demo,
		classifier: classifier,
		logger:     logger,
	}
}

// GetQuotes resolves quotes for symbols. Live quotes that fail to resolve are
// dropped; if the live provider is unavailable or yields nothing, the full
// symbol set is served from demo data instead.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, models.DataSource, error) {
	normalized := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if n := models.NormalizeSymbol(sym); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return nil, models.DataSourceDemo, models.ErrInvalidInput
	}

	if s.live == nil {
		return s.normalize(s.demo.GetQuotes(normalized)), models.DataSourceDemo, nil
	}

	quotes, err := s.live.GetQuotes(ctx, normalized)
	if err != nil || len(quotes) == 0 {
		s.logger.Warn().Err(err).Int("symbols", len(normalized)).Msg("Live quotes unavailable, serving demo data")
		return s.normalize(s.demo.GetQuotes(normalized)), models.DataSourceDemo, nil
	}

	s.logger.Debug().Int("requested", len(normalized)).Int("resolved", len(quotes)).Msg("Resolved live quotes")
	return s.normalize(quotes), models.DataSourceLive, nil
}

// normalize fills gaps the providers leave: a default P/E when the provider
// reports none, and a classified sector when the quote carries none.
func (s *Service) normalize(quotes []models.Quote) []models.Quote {
	for i := range quotes {
		if quotes[i].PERatio == 0 {
			quotes[i].PERatio = defaultPERatio
		}
		if quotes[i].Sector == "" && s.classifier != nil {
			quotes[i].Sector = s.classifier.Classify(quotes[i].Symbol)
		}
	}
	return quotes
}

// Search finds symbols matching query, degrading to demo results on failure.
func (s *Service) Search(ctx context.Context, query string) ([]models.SearchResult, models.DataSource, error) {
	if query == "" {
		return nil, models.DataSourceDemo, models.ErrInvalidInput
	}
	if s.live != nil {
		results, err := s.live.Search(ctx, query)
		if err == nil {
			return results, models.DataSourceLive, nil
		}
		s.logger.Warn().Err(err).Str("query", query).Msg("Live search failed, serving demo data")
	}
	return s.demo.Search(query), models.DataSourceDemo, nil
}

// GetGainers retrieves the day's top gainers.
func (s *Service) GetGainers(ctx context.Context) ([]models.MoverQuote, models.DataSource, error) {
	return s.moverList(ctx, "gainers", func(c interfaces.MarketMoversClient) ([]models.MoverQuote, error) {
		return c.GetGainers(ctx)
	}, s.demo.GetGainers)
}

// GetLosers retrieves the day's top losers.
func (s *Service) GetLosers(ctx context.Context) ([]models.MoverQuote, models.DataSource, error) {
	return s.moverList(ctx, "losers", func(c interfaces.MarketMoversClient) ([]models.MoverQuote, error) {
		return c.GetLosers(ctx)
	}, s.demo.GetLosers)
}

// GetActives retrieves the most actively traded stocks.
func (s *Service) GetActives(ctx context.Context) ([]models.MoverQuote, models.DataSource, error) {
	return s.moverList(ctx, "actives", func(c interfaces.MarketMoversClient) ([]models.MoverQuote, error) {
		return c.GetActives(ctx)
	}, s.demo.GetActives)
}

func (s *Service) moverList(_ context.Context, kind string, fetch func(interfaces.MarketMoversClient) ([]models.MoverQuote, error), fallback func() []models.MoverQuote) ([]models.MoverQuote, models.DataSource, error) {
	if s.movers != nil {
		movers, err := fetch(s.movers)
		if err == nil && len(movers) > 0 {
			return movers, models.DataSourceLive, nil
		}
		s.logger.Warn().Err(err).Str("list", kind).Msg("Live movers unavailable, serving demo data")
	}
	return fallback(), models.DataSourceDemo, nil
}

var _ interfaces.QuoteService = (*Service)(nil)
