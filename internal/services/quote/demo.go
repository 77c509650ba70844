package quote

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/stockpilot/advisor/internal/models"
)

// DemoProvider serves deterministic quote data when no market-data key is
// configured or the live provider fails entirely. Known symbols come from a
// fixed snapshot table; unknown symbols get synthesized values from a seeded
// random source so fallback paths stay reproducible in tests.
type DemoProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDemoProvider creates a demo provider with the given seed.
func NewDemoProvider(seed int64) *DemoProvider {
	return &DemoProvider{rng: rand.New(rand.NewSource(seed))}
}

// demoQuotes is a fixed snapshot of well-known symbols.
var demoQuotes = map[string]models.Quote{
	"AAPL":  {Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: 185.92, PreviousClose: 182.31, MarketCap: 2.85e12, PERatio: 28.5, Sector: "Technology"},
	"TSLA":  {Symbol: "TSLA", Name: "Tesla, Inc.", CurrentPrice: 248.50, PreviousClose: 245.12, MarketCap: 7.91e11, PERatio: 65.2, Sector: "Automotive"},
	"NVDA":  {Symbol: "NVDA", Name: "NVIDIA Corporation", CurrentPrice: 875.30, PreviousClose: 862.15, MarketCap: 2.16e12, PERatio: 73.8, Sector: "Technology"},
	"MSFT":  {Symbol: "MSFT", Name: "Microsoft Corporation", CurrentPrice: 420.15, PreviousClose: 418.90, MarketCap: 3.12e12, PERatio: 32.1, Sector: "Technology"},
	"GOOGL": {Symbol: "GOOGL", Name: "Alphabet Inc.", CurrentPrice: 142.80, PreviousClose: 140.25, MarketCap: 1.78e12, PERatio: 25.4, Sector: "Technology"},
	"AMZN":  {Symbol: "AMZN", Name: "Amazon.com Inc.", CurrentPrice: 155.20, PreviousClose: 152.75, MarketCap: 1.61e12, PERatio: 48.9, Sector: "Consumer Discretionary"},
	"META":  {Symbol: "META", Name: "Meta Platforms Inc.", CurrentPrice: 485.75, PreviousClose: 482.30, MarketCap: 1.23e12, PERatio: 24.7, Sector: "Technology"},
	"NFLX":  {Symbol: "NFLX", Name: "Netflix Inc.", CurrentPrice: 625.40, PreviousClose: 620.85, MarketCap: 2.77e11, PERatio: 42.3, Sector: "Communication Services"},
}

// demoSearchCatalog backs demo symbol search.
var demoSearchCatalog = []models.SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Exchange: "NASDAQ"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Exchange: "NASDAQ"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Exchange: "NASDAQ"},
	{Symbol: "NFLX", Name: "Netflix, Inc.", Exchange: "NASDAQ"},
}

var demoGainers = []models.MoverQuote{
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Price: 487.50, Change: 15.30, ChangePct: 3.24, Volume: 52000000, MarketCap: 1.2e12, PERatio: 45.2},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Price: 265.80, Change: 8.20, ChangePct: 3.18, Volume: 98000000, MarketCap: 8.5e11, PERatio: 68.3},
	{Symbol: "AMD", Name: "Advanced Micro Devices", Price: 167.40, Change: 5.10, ChangePct: 3.14, Volume: 45000000, MarketCap: 2.7e11, PERatio: 38.5},
	{Symbol: "META", Name: "Meta Platforms Inc.", Price: 498.20, Change: 14.50, ChangePct: 3.00, Volume: 18000000, MarketCap: 1.3e12, PERatio: 28.4},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 178.30, Change: 5.10, ChangePct: 2.95, Volume: 25000000, MarketCap: 2.2e12, PERatio: 26.7},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Price: 422.40, Change: 11.80, ChangePct: 2.87, Volume: 22000000, MarketCap: 3.1e12, PERatio: 35.2},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 184.60, Change: 4.90, ChangePct: 2.73, Volume: 48000000, MarketCap: 1.9e12, PERatio: 52.8},
	{Symbol: "AAPL", Name: "Apple Inc.", Price: 185.20, Change: 4.50, ChangePct: 2.49, Volume: 51000000, MarketCap: 2.9e12, PERatio: 29.1},
}

var demoLosers = []models.MoverQuote{
	{Symbol: "INTC", Name: "Intel Corporation", Price: 28.40, Change: -1.20, ChangePct: -4.05, Volume: 62000000, MarketCap: 1.2e11, PERatio: 15.8},
	{Symbol: "PYPL", Name: "PayPal Holdings Inc.", Price: 61.30, Change: -2.40, ChangePct: -3.77, Volume: 12000000, MarketCap: 6.8e10, PERatio: 18.2},
	{Symbol: "SNAP", Name: "Snap Inc.", Price: 10.80, Change: -0.38, ChangePct: -3.40, Volume: 28000000, MarketCap: 1.7e10, PERatio: -12.5},
	{Symbol: "BA", Name: "Boeing Company", Price: 168.20, Change: -5.40, ChangePct: -3.11, Volume: 8900000, MarketCap: 1.05e11, PERatio: 22.4},
	{Symbol: "DIS", Name: "Walt Disney Company", Price: 91.50, Change: -2.80, ChangePct: -2.97, Volume: 11000000, MarketCap: 1.67e11, PERatio: 38.9},
	{Symbol: "COIN", Name: "Coinbase Global Inc.", Price: 184.30, Change: -5.20, ChangePct: -2.74, Volume: 5400000, MarketCap: 4.2e10, PERatio: 35.7},
	{Symbol: "ROKU", Name: "Roku Inc.", Price: 68.90, Change: -1.80, ChangePct: -2.55, Volume: 6700000, MarketCap: 9.5e9, PERatio: -18.3},
	{Symbol: "SQ", Name: "Block Inc.", Price: 64.20, Change: -1.60, ChangePct: -2.43, Volume: 9200000, MarketCap: 3.8e10, PERatio: 24.6},
}

var demoActives = []models.MoverQuote{
	{Symbol: "TSLA", Name: "Tesla, Inc.", Price: 265.80, Change: 8.20, ChangePct: 3.18, Volume: 98000000},
	{Symbol: "AAPL", Name: "Apple Inc.", Price: 185.20, Change: 4.50, ChangePct: 2.49, Volume: 51000000},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Price: 487.50, Change: 15.30, ChangePct: 3.24, Volume: 52000000},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 184.60, Change: 4.90, ChangePct: 2.73, Volume: 48000000},
	{Symbol: "AMD", Name: "Advanced Micro Devices", Price: 167.40, Change: 5.10, ChangePct: 3.14, Volume: 45000000},
	{Symbol: "INTC", Name: "Intel Corporation", Price: 28.40, Change: -1.20, ChangePct: -4.05, Volume: 62000000},
	{Symbol: "SNAP", Name: "Snap Inc.", Price: 10.80, Change: -0.38, ChangePct: -3.40, Volume: 28000000},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 178.30, Change: 5.10, ChangePct: 2.95, Volume: 25000000},
	{Symbol: "UBER", Name: "Uber Technologies Inc.", Price: 72.40, Change: -1.70, ChangePct: -2.29, Volume: 24000000},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Price: 422.40, Change: 11.80, ChangePct: 2.87, Volume: 22000000},
}

// GetQuote returns the snapshot quote for known symbols and a synthesized
// quote otherwise.
func (d *DemoProvider) GetQuote(symbol string) models.Quote {
	symbol = models.NormalizeSymbol(symbol)
	if q, ok := demoQuotes[symbol]; ok {
		q.Change = q.CurrentPrice - q.PreviousClose
		if q.PreviousClose > 0 {
			q.ChangePct = q.Change / q.PreviousClose * 100
		}
		return q
	}
	return d.synthesize(symbol)
}

// GetQuotes resolves every requested symbol; demo data never drops symbols.
func (d *DemoProvider) GetQuotes(symbols []string) []models.Quote {
	quotes := make([]models.Quote, 0, len(symbols))
	for _, s := range symbols {
		quotes = append(quotes, d.GetQuote(s))
	}
	return quotes
}

// synthesize builds a plausible quote from the seeded random source.
func (d *DemoProvider) synthesize(symbol string) models.Quote {
	d.mu.Lock()
	defer d.mu.Unlock()

	price := 100 + d.rng.Float64()*400
	change := (d.rng.Float64() - 0.5) * 20
	previousClose := price - change

	return models.Quote{
		Symbol:        symbol,
		Name:          symbol + " Inc.",
		CurrentPrice:  price,
		PreviousClose: previousClose,
		Change:        change,
		ChangePct:     change / previousClose * 100,
		Volume:        int64(d.rng.Intn(50000000)) + 1000000,
		MarketCap:     float64(d.rng.Int63n(1000000000)) * 1000,
		PERatio:       d.rng.Float64()*50 + 10,
	}
}

// Search filters the demo catalog by symbol or name substring.
func (d *DemoProvider) Search(query string) []models.SearchResult {
	query = strings.ToLower(query)
	var results []models.SearchResult
	for _, stock := range demoSearchCatalog {
		if strings.Contains(strings.ToLower(stock.Symbol), query) ||
			strings.Contains(strings.ToLower(stock.Name), query) {
			results = append(results, stock)
		}
	}
	return results
}

// GetGainers returns the demo gainers table.
func (d *DemoProvider) GetGainers() []models.MoverQuote {
	return demoGainers
}

// GetLosers returns the demo losers table.
func (d *DemoProvider) GetLosers() []models.MoverQuote {
	return demoLosers
}

// GetActives returns the demo actives table.
func (d *DemoProvider) GetActives() []models.MoverQuote {
	return demoActives
}
