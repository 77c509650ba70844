// Package flexprice provides a client for the Flexprice usage/billing API
package flexprice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

const (
	DefaultBaseURL = "https://api.flexprice.io/v1"
	DefaultTimeout = 5 * time.Second
)

// Client implements the UsageSink interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Flexprice client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TrackEvent records a usage event
func (c *Client) TrackEvent(ctx context.Context, event models.UsageEvent) error {
	payload := map[string]any{
		"event_type": event.EventType,
		"user_id":    event.UserID,
		"timestamp":  event.Timestamp.Format(time.RFC3339),
		"metadata":   event.Metadata,
	}
	if event.UserID == "" {
		payload["user_id"] = "anonymous"
	}
	if event.Metadata == nil {
		payload["metadata"] = map[string]any{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("flexprice event rejected (status %d): %s", resp.StatusCode, msg)
	}

	c.logger.Debug().Str("event", event.EventType).Msg("Usage event tracked")
	return nil
}

// GetStats retrieves aggregate usage statistics
func (c *Client) GetStats(ctx context.Context) (*models.UsageStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/usage", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("flexprice usage query failed (status %d): %s", resp.StatusCode, msg)
	}

	var stats models.UsageStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &stats, nil
}

// Ensure Client implements UsageSink
var _ interfaces.UsageSink = (*Client)(nil)
