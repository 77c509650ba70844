// Package suggest proposes stocks from sectors the portfolio lacks. The
// service never fails: live prices degrade to seeded placeholders, and a
// total upstream failure yields a static fallback set.
package suggest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

const (
	// maxSuggestions caps the returned candidate list.
	maxSuggestions = 5
	// maxSectors limits how many underrepresented sectors are sampled.
	maxSectors = 3
	// perSector limits candidates drawn from each sampled sector.
	perSector = 2
	// minCandidates triggers the Technology backfill when unmet.
	minCandidates = 3
	// underrepresentedBelow is the position count under which a sector
	// counts as underrepresented.
	underrepresentedBelow = 2
)

// Service implements interfaces.SuggestService.
type Service struct {
	quotes interfaces.QuoteProvider
	logger *common.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a suggestion service. quotes may be nil; placeholder
// prices are synthesized from seed when live quotes are unavailable.
func NewService(quotes interfaces.QuoteProvider, seed int64, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		quotes: quotes,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Suggest returns up to five candidates from underrepresented sectors plus
// portfolio-level reasoning.
func (s *Service) Suggest(ctx context.Context, held []models.HeldStock, riskLevel models.RiskLevel, diversificationScore int) *models.SuggestionSet {
	sectorCounts := make(map[string]int, len(held))
	heldSymbols := make(map[string]bool, len(held))
	for _, h := range held {
		sectorCounts[h.Sector]++
		heldSymbols[models.NormalizeSymbol(h.Symbol)] = true
	}

	candidates := s.pickCandidates(sectorCounts, heldSymbols)
	if len(candidates) == 0 {
		s.logger.Warn().Msg("No suggestion candidates, serving static fallback")
		return staticFallback()
	}

	quotesBySymbol, live := s.fetchQuotes(ctx, candidates)

	suggestions := make([]models.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		if len(suggestions) == maxSuggestions {
			break
		}
		if q, ok := quotesBySymbol[c.Symbol]; ok {
			direction := "gaining"
			if q.ChangePct < 0 {
				direction = "down"
			}
			suggestions = append(suggestions, models.Suggestion{
				Symbol:    q.Symbol,
				Name:      c.Name,
				Price:     q.CurrentPrice,
				Change:    q.Change,
				ChangePct: q.ChangePct,
				Sector:    c.Sector,
				Reason:    fmt.Sprintf("Diversifies into %s sector - currently %s %.2f%%", c.Sector, direction, math.Abs(q.ChangePct)),
			})
			continue
		}
		suggestions = append(suggestions, s.placeholder(c))
	}

	source := models.DataSourceDemo
	if live {
		source = models.DataSourceLive
	}

	return &models.SuggestionSet{
		Suggestions: suggestions,
		Reasoning:   reasoning(sectorCounts, riskLevel, diversificationScore),
		DataSource:  source,
	}
}

// candidate is a catalog entry tagged with its sector.
type candidate struct {
	Symbol string
	Name   string
	Sector string
}

// pickCandidates selects catalog entries from underrepresented sectors,
// backfilling from Technology when the portfolio is already broad.
func (s *Service) pickCandidates(sectorCounts map[string]int, heldSymbols map[string]bool) []candidate {
	var underrepresented []string
	for _, sector := range sectorOrder {
		if sectorCounts[sector] < underrepresentedBelow {
			underrepresented = append(underrepresented, sector)
		}
	}
	if len(underrepresented) > maxSectors {
		underrepresented = underrepresented[:maxSectors]
	}

	var candidates []candidate
	for _, sector := range underrepresented {
		entries := catalog[sector]
		if len(entries) > perSector {
			entries = entries[:perSector]
		}
		for _, entry := range entries {
			if !heldSymbols[entry.Symbol] {
				candidates = append(candidates, candidate{Symbol: entry.Symbol, Name: entry.Name, Sector: sector})
			}
		}
	}

	if len(candidates) < minCandidates {
		added := 0
		for _, entry := range catalog["Technology"] {
			if added == minCandidates {
				break
			}
			if !heldSymbols[entry.Symbol] {
				candidates = append(candidates, candidate{Symbol: entry.Symbol, Name: entry.Name, Sector: "Technology"})
				added++
			}
		}
	}

	return candidates
}

// fetchQuotes resolves live quotes for candidates. Returns whether any live
// quote was obtained.
func (s *Service) fetchQuotes(ctx context.Context, candidates []candidate) (map[string]models.Quote, bool) {
	if s.quotes == nil {
		return nil, false
	}

	symbols := make([]string, 0, len(candidates))
	for _, c := range candidates {
		symbols = append(symbols, c.Symbol)
	}

	quotes, err := s.quotes.GetQuotes(ctx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Candidate quotes unavailable, using placeholder prices")
		return nil, false
	}

	bySymbol := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}
	return bySymbol, len(bySymbol) > 0
}

// placeholder synthesizes a suggestion when no live quote exists.
func (s *Service) placeholder(c candidate) models.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Suggestion{
		Symbol:    c.Symbol,
		Name:      c.Name,
		Price:     150 + s.rng.Float64()*200,
		Change:    (s.rng.Float64() - 0.5) * 10,
		ChangePct: (s.rng.Float64() - 0.5) * 5,
		Sector:    c.Sector,
		Reason:    fmt.Sprintf("Recommended to diversify into %s sector", c.Sector),
	}
}

// reasoning renders the portfolio-level explanation by diversification
// bracket, with an extra clause for high-risk portfolios.
func reasoning(sectorCounts map[string]int, riskLevel models.RiskLevel, diversificationScore int) string {
	var text string
	switch {
	case diversificationScore < 50:
		sector, count := topSector(sectorCounts)
		text = fmt.Sprintf("Your portfolio is heavily concentrated in %s (%d stocks). These suggestions will help diversify across sectors.", sector, count)
	case diversificationScore < 70:
		text = "Your portfolio has decent diversification. These stocks from underrepresented sectors can further balance your holdings."
	default:
		text = "Your portfolio is well-diversified. Consider these top performers to complement your existing positions."
	}

	if riskLevel == models.RiskHigh {
		text += " Focus on stable, established companies to balance your risk profile."
	}
	return text
}

// topSector returns the most held sector, ties broken alphabetically so the
// reasoning is stable across calls.
func topSector(sectorCounts map[string]int) (string, int) {
	sectors := make([]string, 0, len(sectorCounts))
	for sector := range sectorCounts {
		sectors = append(sectors, sector)
	}
	sort.Slice(sectors, func(i, j int) bool {
		if sectorCounts[sectors[i]] != sectorCounts[sectors[j]] {
			return sectorCounts[sectors[i]] > sectorCounts[sectors[j]]
		}
		return sectors[i] < sectors[j]
	})
	if len(sectors) == 0 {
		return "a single sector", 0
	}
	return sectors[0], sectorCounts[sectors[0]]
}

// staticFallback is the last-resort suggestion set.
func staticFallback() *models.SuggestionSet {
	return &models.SuggestionSet{
		Suggestions: []models.Suggestion{
			{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Price: 195.40, Change: 2.10, ChangePct: 1.09, Sector: "Finance", Reason: "Blue-chip financial stock for diversification"},
			{Symbol: "JNJ", Name: "Johnson & Johnson", Price: 162.30, Change: 1.50, ChangePct: 0.93, Sector: "Healthcare", Reason: "Defensive healthcare leader"},
			{Symbol: "XOM", Name: "Exxon Mobil Corporation", Price: 118.70, Change: 0.80, ChangePct: 0.68, Sector: "Energy", Reason: "Energy sector exposure"},
		},
		Reasoning:  "Consider these diversified stocks from different sectors",
		DataSource: models.DataSourceDemo,
	}
}

var _ interfaces.SuggestService = (*Service)(nil)
