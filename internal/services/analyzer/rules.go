package analyzer

import (
	"fmt"

	"github.com/stockpilot/advisor/internal/models"
)

// ruleInput carries the signals a single advice rule evaluates.
type ruleInput struct {
	// Weight is the stock's share of total portfolio value, in percent.
	Weight float64
	// PERatio is the normalized price/earnings ratio.
	PERatio float64
	// PriceChange is the day change versus previous close, in percent.
	PriceChange float64
}

// adviceRule pairs a predicate with the recommendation it produces.
type adviceRule struct {
	name  string
	match func(ruleInput) bool
	apply func(ruleInput) models.StockAdvice
}

// adviceRules is evaluated in order; the first matching rule wins. The final
// rule matches unconditionally so every stock receives a recommendation.
var adviceRules = []adviceRule{
	{
		name:  "overweight",
		match: func(in ruleInput) bool { return in.Weight > 40 },
		apply: func(in ruleInput) models.StockAdvice {
			return models.StockAdvice{
				Action:     models.ActionSell,
				Confidence: models.ConfidenceHigh,
				Reasoning:  fmt.Sprintf("Over-weighted at %.1f%% of portfolio. Consider reducing position for better diversification.", in.Weight),
			}
		},
	},
	{
		name:  "overvalued",
		match: func(in ruleInput) bool { return in.PERatio > 50 && in.PriceChange > 5 },
		apply: func(in ruleInput) models.StockAdvice {
			return models.StockAdvice{
				Action:     models.ActionSell,
				Confidence: models.ConfidenceMedium,
				Reasoning:  fmt.Sprintf("High P/E ratio (%.1f) with recent gains. May be overvalued.", in.PERatio),
			}
		},
	},
	{
		name:  "value-dip",
		match: func(in ruleInput) bool { return in.PERatio < 20 && in.PriceChange < -3 },
		apply: func(in ruleInput) models.StockAdvice {
			return models.StockAdvice{
				Action:     models.ActionBuy,
				Confidence: models.ConfidenceHigh,
				Reasoning:  fmt.Sprintf("Attractive P/E ratio (%.1f) with recent dip. Good buying opportunity.", in.PERatio),
			}
		},
	},
	{
		name:  "momentum",
		match: func(in ruleInput) bool { return in.PriceChange > 3 },
		apply: func(in ruleInput) models.StockAdvice {
			return models.StockAdvice{
				Action:     models.ActionHold,
				Confidence: models.ConfidenceMedium,
				Reasoning:  fmt.Sprintf("Strong recent performance (+%.1f%%). Monitor for continued momentum.", in.PriceChange),
			}
		},
	},
	{
		name:  "stable",
		match: func(ruleInput) bool { return true },
		apply: func(in ruleInput) models.StockAdvice {
			return models.StockAdvice{
				Action:     models.ActionHold,
				Confidence: models.ConfidenceMedium,
				Reasoning:  fmt.Sprintf("Stable performance. Current position size (%.1f%%) is appropriate.", in.Weight),
			}
		},
	},
}

// adviseStock runs the rule table for one stock.
func adviseStock(symbol string, in ruleInput) models.StockAdvice {
	for _, rule := range adviceRules {
		if rule.match(in) {
			advice := rule.apply(in)
			advice.Symbol = symbol
			return advice
		}
	}
	// Unreachable: the stable rule always matches.
	return models.StockAdvice{Symbol: symbol, Action: models.ActionHold, Confidence: models.ConfidenceMedium}
}
