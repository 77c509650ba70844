package models

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"aapl", "AAPL"},
		{" TSLA ", "TSLA"},
		{"Nvda", "NVDA"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeSymbol(tt.input); got != tt.expected {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		cap      float64
		expected string
	}{
		{2.85e12, "2.85T"},
		{791e9, "791.0B"},
		{277.4e9, "277.4B"},
		{52.5e6, "52.5M"},
		{1234, "1234"},
		{0, "N/A"},
	}

	for _, tt := range tests {
		if got := FormatMarketCap(tt.cap); got != tt.expected {
			t.Errorf("FormatMarketCap(%v) = %q, want %q", tt.cap, got, tt.expected)
		}
	}
}

func TestHoldingNormalize(t *testing.T) {
	h := Holding{Symbol: " msft ", Shares: 10}
	n := h.Normalize()
	if n.Symbol != "MSFT" {
		t.Errorf("Normalize symbol = %q, want MSFT", n.Symbol)
	}
	if n.Shares != 10 {
		t.Errorf("Normalize must not touch shares, got %v", n.Shares)
	}
}
