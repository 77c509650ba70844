package sector

import "testing"

func TestClassify_KnownSymbols(t *testing.T) {
	c := NewClassifier(DefaultSectorMap(), "")

	tests := []struct {
		symbol   string
		expected string
	}{
		{"AAPL", "Technology"},
		{"aapl", "Technology"}, // case-insensitive
		{"TSLA", "Automotive"},
		{"JPM", "Financial"},
		{"XOM", "Energy"},
		{"NFLX", "Communication Services"},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.symbol); got != tt.expected {
			t.Errorf("Classify(%q) = %q, want %q", tt.symbol, got, tt.expected)
		}
	}
}

func TestClassify_UnknownDefaultsToTechnology(t *testing.T) {
	c := NewClassifier(DefaultSectorMap(), "")
	if got := c.Classify("ZZZZ"); got != "Technology" {
		t.Errorf("Classify(ZZZZ) = %q, want Technology", got)
	}
}

func TestClassify_ConfigurableDefault(t *testing.T) {
	c := NewClassifier(DefaultSectorMap(), "Unclassified")
	if got := c.Classify("ZZZZ"); got != "Unclassified" {
		t.Errorf("Classify(ZZZZ) = %q, want Unclassified", got)
	}
	// Known symbols are unaffected by the default
	if got := c.Classify("UNH"); got != "Healthcare" {
		t.Errorf("Classify(UNH) = %q, want Healthcare", got)
	}
}

func TestClassify_NilTableIsTotal(t *testing.T) {
	c := NewClassifier(nil, "Unclassified")
	if got := c.Classify("AAPL"); got != "Unclassified" {
		t.Errorf("Classify with nil table = %q, want Unclassified", got)
	}
}

func TestClassify_SyntheticTable(t *testing.T) {
	c := NewClassifier(map[string]string{"abc": "Utilities"}, "")
	if got := c.Classify("ABC"); got != "Utilities" {
		t.Errorf("Classify(ABC) = %q, want Utilities (table keys normalized)", got)
	}
}
