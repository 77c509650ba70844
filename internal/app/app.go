// Package app wires configuration, clients, and services into a single
// application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stockpilot/advisor/internal/clients/finnhub"
	"github.com/stockpilot/advisor/internal/clients/flexprice"
	"github.com/stockpilot/advisor/internal/clients/fmp"
	"github.com/stockpilot/advisor/internal/clients/gemini"
	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/services/analyzer"
	"github.com/stockpilot/advisor/internal/services/quote"
	"github.com/stockpilot/advisor/internal/services/sector"
	"github.com/stockpilot/advisor/internal/services/suggest"
	"github.com/stockpilot/advisor/internal/services/usage"
)

// App holds all initialized clients and services.
type App struct {
	Config *common.Config
	Logger *common.Logger

	FinnhubClient   *finnhub.Client
	FMPClient       *fmp.Client
	GeminiClient    *gemini.Client
	FlexpriceClient *flexprice.Client

	QuoteService   interfaces.QuoteService
	Analyzer       interfaces.AnalyzerService
	SuggestService interfaces.SuggestService
	UsageService   interfaces.UsageService
	Classifier     interfaces.SectorClassifier

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes clients and services. configPath may be empty, in which
// case ADVISOR_CONFIG, the binary directory, and config/advisor.toml are
// tried in that order. Missing API keys disable the corresponding client and
// the services degrade to demo data rather than failing startup.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("ADVISOR_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "advisor.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/advisor.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: startupStart,
	}

	if key := common.ResolveAPIKey("finnhub_api_key", config.Clients.Finnhub.APIKey); key != "" {
		a.FinnhubClient = finnhub.NewClient(key,
			finnhub.WithBaseURL(config.Clients.Finnhub.BaseURL),
			finnhub.WithRateLimit(config.Clients.Finnhub.RateLimit),
			finnhub.WithTimeout(config.Clients.Finnhub.GetTimeout()),
			finnhub.WithLogger(logger),
		)
	} else {
		logger.Warn().Msg("Finnhub API key not configured - quotes will use demo data")
	}

	if key := common.ResolveAPIKey("fmp_api_key", config.Clients.FMP.APIKey); key != "" {
		a.FMPClient = fmp.NewClient(key,
			fmp.WithBaseURL(config.Clients.FMP.BaseURL),
			fmp.WithRateLimit(config.Clients.FMP.RateLimit),
			fmp.WithTimeout(config.Clients.FMP.GetTimeout()),
			fmp.WithLogger(logger),
		)
	} else {
		logger.Warn().Msg("FMP API key not configured - market movers will use demo data")
	}

	if key := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey); key != "" {
		client, err := gemini.NewClient(context.Background(), key,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client init failed - advice will use templates")
		} else {
			a.GeminiClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - advice will use templates")
	}

	if key := common.ResolveAPIKey("flexprice_api_key", config.Clients.Flexprice.APIKey); key != "" {
		a.FlexpriceClient = flexprice.NewClient(key,
			flexprice.WithBaseURL(config.Clients.Flexprice.BaseURL),
			flexprice.WithTimeout(config.Clients.Flexprice.GetTimeout()),
			flexprice.WithLogger(logger),
		)
	} else {
		logger.Warn().Msg("Flexprice API key not configured - usage tracking is local only")
	}

	a.Classifier = sector.NewClassifier(sector.DefaultSectorMap(), config.Advisor.DefaultSector)

	// Interface-typed nils must stay nil, hence the explicit branches.
	var liveQuotes interfaces.QuoteProvider
	if a.FinnhubClient != nil {
		liveQuotes = a.FinnhubClient
	} else if a.FMPClient != nil {
		liveQuotes = a.FMPClient
	}
	var movers interfaces.MarketMoversClient
	if a.FMPClient != nil {
		movers = a.FMPClient
	}
	var narrator interfaces.NarratorClient
	if a.GeminiClient != nil {
		narrator = a.GeminiClient
	}
	var usageSink interfaces.UsageSink
	if a.FlexpriceClient != nil {
		usageSink = a.FlexpriceClient
	}

	demo := quote.NewDemoProvider(config.Advisor.DemoSeed)
	a.QuoteService = quote.NewService(liveQuotes, movers, demo, a.Classifier, logger)

	a.Analyzer = analyzer.NewEngine(
		analyzer.WithNarrator(narrator),
		analyzer.WithNarrateTimeout(config.Clients.Gemini.GetTimeout()),
		analyzer.WithLogger(logger),
	)

	var suggestQuotes interfaces.QuoteProvider
	if a.FMPClient != nil {
		suggestQuotes = a.FMPClient
	} else if a.FinnhubClient != nil {
		suggestQuotes = a.FinnhubClient
	}
	a.SuggestService = suggest.NewService(suggestQuotes, config.Advisor.DemoSeed, logger)
	a.UsageService = usage.NewService(usageSink, config.Advisor.DemoSeed, logger)

	logger.Info().
		Str("environment", config.Environment).
		Bool("finnhub", a.FinnhubClient != nil).
		Bool("fmp", a.FMPClient != nil).
		Bool("gemini", a.GeminiClient != nil).
		Bool("flexprice", a.FlexpriceClient != nil).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}
