// Package sector maps ticker symbols to sector labels
package sector

import (
	"github.com/stockpilot/advisor/internal/interfaces"
	"github.com/stockpilot/advisor/internal/models"
)

// DefaultSector is assigned to symbols not present in the table. The
// reference data set skews toward large-cap tech, so "Technology" matches
// the historical behavior; it is injectable precisely because it biases
// tech-weight and risk scoring for unknown symbols.
const DefaultSector = "Technology"

// Classifier maps symbols to sectors via an injected read-only table.
// Safe for concurrent reads; the table is never mutated after construction.
type Classifier struct {
	table         map[string]string
	defaultSector string
}

// NewClassifier builds a classifier over the given table. A nil table means
// every symbol classifies to the default sector. An empty defaultSector
// falls back to DefaultSector.
func NewClassifier(table map[string]string, defaultSector string) *Classifier {
	if defaultSector == "" {
		defaultSector = DefaultSector
	}
	normalized := make(map[string]string, len(table))
	for symbol, s := range table {
		normalized[models.NormalizeSymbol(symbol)] = s
	}
	return &Classifier{table: normalized, defaultSector: defaultSector}
}

// Classify returns the sector for a symbol. Total over all strings:
// unknown symbols get the default sector, never an error.
func (c *Classifier) Classify(symbol string) string {
	if s, ok := c.table[models.NormalizeSymbol(symbol)]; ok {
		return s
	}
	return c.defaultSector
}

// DefaultSectorMap returns the built-in symbol-to-sector table.
func DefaultSectorMap() map[string]string {
	return map[string]string{
		"AAPL":  "Technology",
		"MSFT":  "Technology",
		"GOOGL": "Technology",
		"AMZN":  "Consumer Cyclical",
		"TSLA":  "Automotive",
		"NVDA":  "Technology",
		"META":  "Technology",
		"NFLX":  "Communication Services",
		"JPM":   "Financial",
		"BAC":   "Financial",
		"WMT":   "Consumer Defensive",
		"PG":    "Consumer Defensive",
		"JNJ":   "Healthcare",
		"UNH":   "Healthcare",
		"XOM":   "Energy",
		"CVX":   "Energy",
	}
}

// Ensure Classifier implements SectorClassifier
var _ interfaces.SectorClassifier = (*Classifier)(nil)
