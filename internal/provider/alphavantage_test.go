package provider

import (
	"strings"
	"testing"
)

func TestParseAlphaVantage(t *testing.T) {
	body := `{
		"Time Series (Daily)": {
			"2026-08-27": {"1. open": "100.0", "2. high": "102.0", "3. low": "99.0", "4. close": "101.0", "5. volume": "1000"},
			"2026-08-28": {"1. open": "101.5", "2. high": "103.0", "3. low": "100.5", "4. close": "102.5", "5. volume": "2000"}
		}
	}`
	bars, err := parseAlphaVantage([]byte(body), "AAPL")
	if err != nil {
		t.Fatalf("parseAlphaVantage: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	for _, b := range bars {
		if b.Symbol != "AAPL" {
			t.Errorf("bar symbol = %q", b.Symbol)
		}
	}
}

func TestParseAlphaVantageErrorMessage(t *testing.T) {
	body := `{"Error Message": "Invalid API call for symbol XXXX"}`
	_, err := parseAlphaVantage([]byte(body), "XXXX")
	if err == nil || !strings.Contains(err.Error(), "Invalid API call") {
		t.Errorf("err = %v, want vendor error message", err)
	}
}

func TestParseAlphaVantageNote(t *testing.T) {
	body := `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 5 requests per minute."}`
	_, err := parseAlphaVantage([]byte(body), "AAPL")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want rate-limit error", err)
	}
}

func TestParseAlphaVantageSkipsMalformedRows(t *testing.T) {
	body := `{
		"Time Series (Daily)": {
			"2026-08-27": {"1. open": "100.0", "2. high": "102.0", "3. low": "99.0", "4. close": "101.0", "5. volume": "1000"},
			"2026-08-28": {"1. open": "not-a-number", "2. high": "103.0", "3. low": "100.5", "4. close": "102.5", "5. volume": "2000"}
		}
	}`
	bars, err := parseAlphaVantage([]byte(body), "AAPL")
	if err != nil {
		t.Fatalf("parseAlphaVantage: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("got %d bars, want 1", len(bars))
	}
}
