// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/stockpilot/advisor/internal/common"
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the NarratorClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// generate runs a single prompt through the configured model
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating narration")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return strings.TrimSpace(text), nil
}

// GeneratePortfolioAdvice produces a prose summary for a full analysis
func (c *Client) GeneratePortfolioAdvice(ctx context.Context, analysis *models.PortfolioAnalysis) (string, error) {
	return c.generate(ctx, buildPortfolioPrompt(analysis))
}

// GenerateStockInsight produces a one-line insight for a single quote
func (c *Client) GenerateStockInsight(ctx context.Context, symbol string, quote *models.Quote) (string, error) {
	return c.generate(ctx, buildStockInsightPrompt(symbol, quote))
}

// buildPortfolioPrompt creates the portfolio advice prompt
func buildPortfolioPrompt(analysis *models.PortfolioAnalysis) string {
	var sb strings.Builder

	sb.WriteString("You are a professional financial advisor. Provide concise, actionable investment advice for this portfolio in 2-3 sentences.\n\n")
	sb.WriteString("Portfolio Summary:\n")

	for _, s := range analysis.Portfolio.Stocks {
		sign := ""
		if s.ChangePct >= 0 {
			sign = "+"
		}
		sb.WriteString(fmt.Sprintf("- %s: %.0f shares @ $%.2f (%s%.2f%%) [%s]\n",
			s.Symbol, s.Shares, s.CurrentPrice, sign, s.ChangePct, s.Sector))
	}

	p := analysis.Portfolio
	gainSign := ""
	if p.TotalGainLoss >= 0 {
		gainSign = "+"
	}
	sb.WriteString(fmt.Sprintf("\nTotal Value: $%.2f\n", p.TotalValue))
	sb.WriteString(fmt.Sprintf("Total Gain/Loss: %s$%.2f (%.2f%%)\n", gainSign, p.TotalGainLoss, p.TotalGainLossPercent))
	sb.WriteString(fmt.Sprintf("Diversification: %d/100\n", analysis.DiversificationScore))
	sb.WriteString(fmt.Sprintf("Risk Level: %s\n\n", analysis.RiskLevel))
	sb.WriteString("Focus on overall strategy, not individual stocks. Be beginner-friendly and encouraging.")

	return sb.String()
}

// buildStockInsightPrompt creates the single-stock insight prompt
func buildStockInsightPrompt(symbol string, quote *models.Quote) string {
	var sb strings.Builder

	sign := ""
	if quote.ChangePct >= 0 {
		sign = "+"
	}

	sb.WriteString(fmt.Sprintf("As a financial analyst, provide a brief 1-2 sentence insight about %s stock.\n\n", symbol))
	sb.WriteString(fmt.Sprintf("Current Price: $%.2f\n", quote.CurrentPrice))
	sb.WriteString(fmt.Sprintf("Change: %s%.2f%%\n", sign, quote.ChangePct))
	sb.WriteString(fmt.Sprintf("Sector: %s\n", quote.Sector))
	if quote.PERatio != 0 {
		sb.WriteString(fmt.Sprintf("P/E Ratio: %.1f\n", quote.PERatio))
	}
	if quote.MarketCap != 0 {
		sb.WriteString(fmt.Sprintf("Market Cap: $%.2fB\n", quote.MarketCap/1e9))
	}
	sb.WriteString("\nBe concise and actionable.")

	return sb.String()
}

// Ensure Client implements NarratorClient
var _ interfaces.NarratorClient = (*Client)(nil)
