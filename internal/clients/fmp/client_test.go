package fmp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetQuotes_BatchesSymbolsInPath(t *testing.T) {
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"symbol": "AAPL", "name": "Apple Inc.", "price": 185.92, "previousClose": 182.31, "change": 3.61, "changesPercentage": 1.98, "marketCap": 2.85e12, "pe": 28.5, "volume": int64(51000000)},
			{"symbol": "JPM", "name": "JPMorgan Chase & Co.", "price": 195.40, "previousClose": 193.30, "change": 2.10, "changesPercentage": 1.09, "marketCap": 5.6e11, "pe": 11.8, "volume": int64(9000000)},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	quotes, err := client.GetQuotes(context.Background(), []string{"aapl", "jpm"})
	if err != nil {
		t.Fatalf("GetQuotes failed: %v", err)
	}

	if capturedPath != "/quote/AAPL,JPM" {
		t.Errorf("expected path /quote/AAPL,JPM, got %s", capturedPath)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" || quotes[0].PERatio != 28.5 {
		t.Errorf("unexpected first quote: %+v", quotes[0])
	}
	if quotes[1].MarketCap != 5.6e11 {
		t.Errorf("expected market cap 5.6e11, got %v", quotes[1].MarketCap)
	}
}

func TestGetQuotes_EmptyInput(t *testing.T) {
	client := NewClient("test-key")
	quotes, err := client.GetQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetQuotes failed: %v", err)
	}
	if quotes != nil {
		t.Errorf("expected nil quotes for empty input, got %v", quotes)
	}
}

func TestGetGainers_CapsAtTen(t *testing.T) {
	rows := make([]map[string]interface{}, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, map[string]interface{}{
			"symbol": "SYM", "name": "Company", "price": 100.0, "change": 1.0, "changesPercentage": 1.0,
		})
	}

	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	gainers, err := client.GetGainers(context.Background())
	if err != nil {
		t.Fatalf("GetGainers failed: %v", err)
	}
	if capturedPath != "/stock_market/gainers" {
		t.Errorf("expected gainers path, got %s", capturedPath)
	}
	if len(gainers) != maxMovers {
		t.Errorf("expected %d gainers, got %d", maxMovers, len(gainers))
	}
}

func TestMovers_APIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.GetActives(context.Background())
	if err == nil {
		t.Fatal("expected error on HTTP 403")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Endpoint != "/stock_market/actives" {
		t.Errorf("expected actives endpoint in error, got %s", apiErr.Endpoint)
	}
}
