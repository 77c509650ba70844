package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockpilot/advisor/internal/models"
)

// --- Portfolio handlers ---

// analyzeRequest accepts the current "portfolio" key and the legacy "stocks"
// alias for the holdings list.
type analyzeRequest struct {
	Portfolio []models.Holding `json:"portfolio"`
	Stocks    []models.Holding `json:"stocks"`
}

func (r analyzeRequest) holdings() []models.Holding {
	if len(r.Portfolio) > 0 {
		return r.Portfolio
	}
	return r.Stocks
}

func (s *Server) handlePortfolioAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	holdings := req.holdings()
	if len(holdings) == 0 {
		WriteError(w, http.StatusBadRequest, "Invalid portfolio data")
		return
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}

	quotes, source, err := s.app.QuoteService.GetQuotes(r.Context(), symbols)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, "Invalid portfolio data")
			return
		}
		s.logger.Error().Err(err).Msg("Quote retrieval failed")
		WriteError(w, http.StatusInternalServerError, "Failed to analyze portfolio")
		return
	}

	analysis, err := s.app.Analyzer.Analyze(holdings, quotes)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, "Invalid portfolio data")
		case errors.Is(err, models.ErrEmptyPortfolio):
			WriteError(w, http.StatusBadRequest, "No valid stock quotes found")
		default:
			s.logger.Error().Err(err).Msg("Portfolio analysis failed")
			WriteError(w, http.StatusInternalServerError, "Failed to analyze portfolio")
		}
		return
	}
	analysis.DataSource = source

	s.app.Analyzer.Narrate(r.Context(), analysis)

	go s.trackUsage(models.UsagePortfolioAnalysis, map[string]any{
		"stocks": len(analysis.Portfolio.Stocks),
	})

	WriteJSON(w, http.StatusOK, analysis)
}

// --- Stock handlers ---

type suggestRequest struct {
	CurrentStocks        []models.HeldStock `json:"currentStocks"`
	RiskLevel            models.RiskLevel   `json:"riskLevel"`
	DiversificationScore int                `json:"diversificationScore"`
}

func (s *Server) handleSuggestedStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// The suggestion surface never fails: a malformed body degrades to an
	// empty portfolio view rather than a 400.
	var req suggestRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	set := s.app.SuggestService.Suggest(r.Context(), req.CurrentStocks, req.RiskLevel, req.DiversificationScore)

	go s.trackUsage(models.UsageAdviceGeneration, map[string]any{
		"suggestions": len(set.Suggestions),
	})

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": set.Suggestions,
		"reasoning":   set.Reasoning,
		"count":       len(set.Suggestions),
		"dataSource":  set.DataSource,
	})
}

func (s *Server) handleGainers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	gainers, source, err := s.app.QuoteService.GetGainers(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch market gainers")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"gainers":    gainers,
		"dataSource": source,
	})
}

func (s *Server) handleLosers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	losers, source, err := s.app.QuoteService.GetLosers(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch market losers")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"losers":     losers,
		"dataSource": source,
	})
}

func (s *Server) handleActives(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	actives, source, err := s.app.QuoteService.GetActives(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch most active stocks")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"actives":    actives,
		"dataSource": source,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	results, source, err := s.app.QuoteService.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to search stocks")
		return
	}

	go s.trackUsage(models.UsageStockSearch, map[string]any{"query": query})

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":    results,
		"dataSource": source,
	})
}

func (s *Server) handleStockInsight(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := models.NormalizeSymbol(r.URL.Query().Get("symbol"))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'symbol' is required")
		return
	}

	quotes, source, err := s.app.QuoteService.GetQuotes(r.Context(), []string{symbol})
	if err != nil || len(quotes) == 0 {
		WriteError(w, http.StatusNotFound, "No quote found for symbol")
		return
	}

	insight := s.app.Analyzer.StockInsight(r.Context(), symbol, &quotes[0])

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":     symbol,
		"quote":      quotes[0],
		"insight":    insight,
		"dataSource": source,
	})
}

// --- Usage handlers ---

type usageTrackRequest struct {
	Event    string         `json:"event"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleUsageTrack(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req usageTrackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Event == "" {
		WriteError(w, http.StatusBadRequest, "Field 'event' is required")
		return
	}

	stats := s.app.UsageService.Track(r.Context(), req.Event, req.Metadata)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"usage":   stats,
	})
}

// trackUsage records an event in the background; request handling never waits
// on the usage sink.
func (s *Server) trackUsage(eventType string, metadata map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error().Interface("panic", rec).Msg("Usage tracking panicked")
		}
	}()
	s.app.UsageService.Track(context.Background(), eventType, metadata)
}
