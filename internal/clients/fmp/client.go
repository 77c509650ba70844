// Package fmp provides a client for the Financial Modeling Prep API
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

const (
	DefaultBaseURL   = "https://financialmodelingprep.com/api/v3"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second; free tier allows 250/day

	maxMovers = 10
)

// Client wraps the FMP REST API. It supplies batch quotes for the suggestion
// engine and the market movers/actives listings.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new FMP client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FMP API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("FMP API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// fmpQuote is the FMP /quote payload (one row per symbol)
type fmpQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePct     float64 `json:"changesPercentage"`
	PreviousClose float64 `json:"previousClose"`
	MarketCap     float64 `json:"marketCap"`
	PE            float64 `json:"pe"`
	Volume        int64   `json:"volume"`
}

func (q fmpQuote) toQuote() models.Quote {
	return models.Quote{
		Symbol:        models.NormalizeSymbol(q.Symbol),
		Name:          q.Name,
		CurrentPrice:  q.Price,
		PreviousClose: q.PreviousClose,
		Change:        q.Change,
		ChangePct:     q.ChangePct,
		Volume:        q.Volume,
		MarketCap:     q.MarketCap,
		PERatio:       q.PE,
	}
}

func (q fmpQuote) toMover() models.MoverQuote {
	return models.MoverQuote{
		Symbol:    models.NormalizeSymbol(q.Symbol),
		Name:      q.Name,
		Price:     q.Price,
		Change:    q.Change,
		ChangePct: q.ChangePct,
		Volume:    q.Volume,
		MarketCap: q.MarketCap,
		PERatio:   q.PE,
	}
}

// GetQuote retrieves a quote for a single symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	quotes, err := c.GetQuotes(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quote for symbol %s", symbol)
	}
	return &quotes[0], nil
}

// GetQuotes retrieves quotes for a set of symbols in one batched request.
// Symbols absent from the response are simply omitted.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	normalized := make([]string, len(symbols))
	for i, s := range symbols {
		normalized[i] = models.NormalizeSymbol(s)
	}

	path := "/quote/" + strings.Join(normalized, ",")

	var rows []fmpQuote
	if err := c.get(ctx, path, nil, &rows); err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, row.toQuote())
	}
	return quotes, nil
}

// Search finds symbols matching a free-text query
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", "10")

	var rows []struct {
		Symbol            string `json:"symbol"`
		Name              string `json:"name"`
		ExchangeShortName string `json:"exchangeShortName"`
	}
	if err := c.get(ctx, "/search", params, &rows); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.SearchResult{
			Symbol:   row.Symbol,
			Name:     row.Name,
			Exchange: row.ExchangeShortName,
		})
	}
	return results, nil
}

func (c *Client) movers(ctx context.Context, path string) ([]models.MoverQuote, error) {
	var rows []fmpQuote
	if err := c.get(ctx, path, nil, &rows); err != nil {
		return nil, err
	}

	limit := len(rows)
	if limit > maxMovers {
		limit = maxMovers
	}

	movers := make([]models.MoverQuote, 0, limit)
	for _, row := range rows[:limit] {
		movers = append(movers, row.toMover())
	}
	return movers, nil
}

// GetGainers retrieves the day's top gaining stocks
func (c *Client) GetGainers(ctx context.Context) ([]models.MoverQuote, error) {
	return c.movers(ctx, "/stock_market/gainers")
}

// GetLosers retrieves the day's top losing stocks
func (c *Client) GetLosers(ctx context.Context) ([]models.MoverQuote, error) {
	return c.movers(ctx, "/stock_market/losers")
}

// GetActives retrieves the most actively traded stocks
func (c *Client) GetActives(ctx context.Context) ([]models.MoverQuote, error) {
	return c.movers(ctx, "/stock_market/actives")
}

// Ensure Client implements the provider contracts
var (
	_ interfaces.QuoteProvider      = (*Client)(nil)
	_ interfaces.MarketMoversClient = (*Client)(nil)
)
