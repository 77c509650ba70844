package analyzer

import (
	"context"

	"github.com/stockpilot/advisor/internal/models"
)

// Narrate upgrades the templated overall advice to narrator prose. The call
// is bounded by the configured timeout; on any failure the fallback prose is
// substituted silently. Numeric scores are never touched.
func (e *Engine) Narrate(ctx context.Context, analysis *models.PortfolioAnalysis) {
	if analysis == nil {
		return
	}
	if e.narrator == nil {
		// No narrator configured: the templated advice stands.
		return
	}

	ctx, cancel := context.WithTimeout(ctx, e.narrateTimeout)
	defer cancel()

	prose, err := e.narrator.GeneratePortfolioAdvice(ctx, analysis)
	if err != nil || prose == "" {
		e.logger.Warn().Err(err).Msg("Narration failed, using fallback advice")
		analysis.OverallAdvice = fallbackAdvice(analysis)
		return
	}
	analysis.OverallAdvice = prose
}

// StockInsight produces a one-line insight for a single quote, narrated when
// possible and templated otherwise.
func (e *Engine) StockInsight(ctx context.Context, symbol string, quote *models.Quote) string {
	if e.narrator != nil {
		ctx, cancel := context.WithTimeout(ctx, e.narrateTimeout)
		defer cancel()

		insight, err := e.narrator.GenerateStockInsight(ctx, symbol, quote)
		if err == nil && insight != "" {
			return insight
		}
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Stock insight narration failed, using fallback")
	}
	return fallbackStockInsight(symbol, quote)
}

// fallbackAdvice composes deterministic prose from the analysis scores.
func fallbackAdvice(analysis *models.PortfolioAnalysis) string {
	var advice string

	switch pct := analysis.Portfolio.TotalGainLossPercent; {
	case pct > 5:
		advice = "Your portfolio is performing well with strong gains. "
	case pct < -5:
		advice = "Your portfolio is experiencing losses, but this is normal market behavior. "
	default:
		advice = "Your portfolio shows stable performance. "
	}

	if analysis.DiversificationScore < 40 {
		advice += "Consider diversifying across more sectors to reduce risk. "
	} else if analysis.DiversificationScore > 80 {
		advice += "Your portfolio shows excellent diversification. "
	}

	switch analysis.RiskLevel {
	case models.RiskHigh:
		advice += "Your current allocation carries higher risk - consider rebalancing for stability."
	case models.RiskLow:
		advice += "Your conservative approach provides good stability for long-term growth."
	default:
		advice += "Your balanced approach aligns well with moderate risk tolerance."
	}

	return advice
}

// fallbackStockInsight composes a deterministic one-liner for a quote.
func fallbackStockInsight(symbol string, quote *models.Quote) string {
	if quote != nil {
		switch {
		case quote.ChangePct > 5:
			return symbol + " is showing strong momentum with significant gains today."
		case quote.ChangePct < -5:
			return symbol + " is experiencing a downturn, which may present a buying opportunity if fundamentals remain strong."
		case quote.PERatio > 0 && quote.PERatio < 15:
			return symbol + " appears reasonably valued with a low P/E ratio."
		}
	}
	return symbol + " is trading within normal ranges."
}
