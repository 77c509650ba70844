package server

import (
	"net/http"

	"github.com/stockpilot/advisor/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Portfolio
	mux.HandleFunc("/api/portfolio/analyze", s.handlePortfolioAnalyze)

	// Stocks
	mux.HandleFunc("/api/stocks/suggested", s.handleSuggestedStocks)
	mux.HandleFunc("/api/stocks/gainers", s.handleGainers)
	mux.HandleFunc("/api/stocks/losers", s.handleLosers)
	mux.HandleFunc("/api/stocks/actives", s.handleActives)
	mux.HandleFunc("/api/stocks/search", s.handleSearch)
	mux.HandleFunc("/api/stocks/insight", s.handleStockInsight)

	// Usage
	mux.HandleFunc("/api/usage/track", s.handleUsageTrack)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":          s.app.Config.Environment,
		"default_sector":       s.app.Config.Advisor.DefaultSector,
		"logging_level":        s.app.Config.Logging.Level,
		"finnhub_configured":   s.app.FinnhubClient != nil,
		"fmp_configured":       s.app.FMPClient != nil,
		"gemini_configured":    s.app.GeminiClient != nil,
		"flexprice_configured": s.app.FlexpriceClient != nil,
	})
}
