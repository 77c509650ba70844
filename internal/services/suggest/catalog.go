package suggest

// catalogEntry is a candidate stock in the suggestion catalog.
type catalogEntry struct {
	Symbol string
	Name   string
}

// sectorOrder fixes the iteration order over the catalog; underrepresented
// sectors are picked in this order.
var sectorOrder = []string{
	"Technology",
	"Healthcare",
	"Finance",
	"Consumer Cyclical",
	"Energy",
	"Industrials",
}

// catalog maps each covered sector to its candidate stocks, best first.
var catalog = map[string][]catalogEntry{
	"Technology": {
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "GOOGL", Name: "Alphabet Inc."},
		{Symbol: "NVDA", Name: "NVIDIA Corporation"},
		{Symbol: "AMD", Name: "Advanced Micro Devices"},
		{Symbol: "CRM", Name: "Salesforce Inc."},
		{Symbol: "ADBE", Name: "Adobe Inc."},
		{Symbol: "INTC", Name: "Intel Corporation"},
	},
	"Healthcare": {
		{Symbol: "JNJ", Name: "Johnson & Johnson"},
		{Symbol: "UNH", Name: "UnitedHealth Group"},
		{Symbol: "PFE", Name: "Pfizer Inc."},
		{Symbol: "ABBV", Name: "AbbVie Inc."},
		{Symbol: "TMO", Name: "Thermo Fisher Scientific"},
		{Symbol: "MRK", Name: "Merck & Co."},
	},
	"Finance": {
		{Symbol: "JPM", Name: "JPMorgan Chase & Co."},
		{Symbol: "BAC", Name: "Bank of America Corp"},
		{Symbol: "WFC", Name: "Wells Fargo & Company"},
		{Symbol: "GS", Name: "Goldman Sachs Group"},
		{Symbol: "V", Name: "Visa Inc."},
		{Symbol: "MA", Name: "Mastercard Inc."},
	},
	"Consumer Cyclical": {
		{Symbol: "AMZN", Name: "Amazon.com Inc."},
		{Symbol: "TSLA", Name: "Tesla, Inc."},
		{Symbol: "HD", Name: "Home Depot Inc."},
		{Symbol: "NKE", Name: "Nike Inc."},
		{Symbol: "MCD", Name: "McDonald's Corporation"},
		{Symbol: "SBUX", Name: "Starbucks Corporation"},
	},
	"Energy": {
		{Symbol: "XOM", Name: "Exxon Mobil Corporation"},
		{Symbol: "CVX", Name: "Chevron Corporation"},
		{Symbol: "COP", Name: "ConocoPhillips"},
		{Symbol: "SLB", Name: "Schlumberger NV"},
	},
	"Industrials": {
		{Symbol: "BA", Name: "Boeing Company"},
		{Symbol: "CAT", Name: "Caterpillar Inc."},
		{Symbol: "GE", Name: "General Electric"},
		{Symbol: "UPS", Name: "United Parcel Service"},
	},
}
