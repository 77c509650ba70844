// Package common provides shared utilities for the advisor service
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the advisor service
type Config struct {
	Environment string        `toml:"environment"`
	Advisor     AdvisorConfig `toml:"advisor"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AdvisorConfig holds analysis engine configuration.
type AdvisorConfig struct {
	// DefaultSector is assigned to symbols absent from the sector table.
	// The reference behavior classifies unknowns as "Technology", which
	// biases tech-weight and risk scoring; it is configurable for that reason.
	DefaultSector string `toml:"default_sector"`
	// DemoSeed seeds the synthetic quote generator used when no market-data
	// key is configured. Fixed seed keeps demo responses reproducible.
	DemoSeed int64 `toml:"demo_seed"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub   FinnhubConfig   `toml:"finnhub"`
	FMP       FMPConfig       `toml:"fmp"`
	Gemini    GeminiConfig    `toml:"gemini"`
	Flexprice FlexpriceConfig `toml:"flexprice"`
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FMPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// GetTimeout returns the deadline applied to narration calls. Narration is
// additive text; when the deadline passes the caller falls back to templates.
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// FlexpriceConfig holds usage-tracking sink configuration
type FlexpriceConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FlexpriceConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Advisor: AdvisorConfig{
			DefaultSector: "Technology",
			DemoSeed:      1,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				RateLimit: 10,
				Timeout:   "10s",
			},
			FMP: FMPConfig{
				BaseURL:   "https://financialmodelingprep.com/api/v3",
				RateLimit: 5,
				Timeout:   "10s",
			},
			Gemini: GeminiConfig{
				Model:   "gemini-2.0-flash",
				Timeout: "5s",
			},
			Flexprice: FlexpriceConfig{
				BaseURL: "https://api.flexprice.io/v1",
				Timeout: "5s",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"console"},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded first so that locally
// developed keys are visible to the override pass.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env is optional; missing file is not an error
	_ = godotenv.Load()

	applyEnvOverrides(config)

	if config.Advisor.DefaultSector == "" {
		config.Advisor.DefaultSector = "Technology"
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ADVISOR_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ADVISOR_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ADVISOR_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ADVISOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if sector := os.Getenv("ADVISOR_DEFAULT_SECTOR"); sector != "" {
		config.Advisor.DefaultSector = sector
	}

	if seed := os.Getenv("ADVISOR_DEMO_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.Advisor.DemoSeed = s
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables or the config
// fallback. Every key is optional: an empty result selects the component's
// documented fallback behavior rather than failing startup.
func ResolveAPIKey(name string, fallback string) string {
	keyToEnvMapping := map[string][]string{
		"finnhub_api_key":   {"FINNHUB_API_KEY", "ADVISOR_FINNHUB_API_KEY"},
		"fmp_api_key":       {"FMP_API_KEY", "ADVISOR_FMP_API_KEY"},
		"gemini_api_key":    {"GEMINI_API_KEY", "ADVISOR_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"flexprice_api_key": {"FLEXPRICE_API_KEY", "ADVISOR_FLEXPRICE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue
			}
		}
	}

	return fallback
}
