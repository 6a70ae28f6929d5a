package provider

import (
	"strconv"
	"testing"
	"time"
)

func TestParsePolygonAggs(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	body := `{
		"status": "OK",
		"results": [
			{"t": ` + msString(monday) + `, "o": 100, "h": 102, "l": 99, "c": 101, "v": 1000},
			{"t": ` + msString(monday.AddDate(0, 0, 1)) + `, "o": 101, "h": 103, "l": 100, "c": 102, "v": 0}
		]
	}`
	bars, err := parsePolygonAggs([]byte(body), "AAPL")
	if err != nil {
		t.Fatalf("parsePolygonAggs: %v", err)
	}
	// The zero-volume row is dropped.
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].Volume != 1000 || bars[0].Close != 101 {
		t.Errorf("bar = %+v", bars[0])
	}
}

func TestParsePolygonAggsBadStatus(t *testing.T) {
	body := `{"status": "ERROR", "error": "Unknown API Key"}`
	if _, err := parsePolygonAggs([]byte(body), "AAPL"); err == nil {
		t.Error("expected error for ERROR status")
	}
}

func TestParsePolygonAggsFractionalVolume(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	body := `{
		"status": "OK",
		"results": [{"t": ` + msString(monday) + `, "o": 100, "h": 102, "l": 99, "c": 101, "v": 1500.75}]
	}`
	bars, err := parsePolygonAggs([]byte(body), "AAPL")
	if err != nil {
		t.Fatalf("parsePolygonAggs: %v", err)
	}
	if len(bars) != 1 || bars[0].Volume != 1500 {
		t.Errorf("bars = %+v, want one bar with volume 1500", bars)
	}
}

func msString(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func TestParseNextDividend(t *testing.T) {
	body := `{"status": "OK", "results": [{"ex_dividend_date": "2026-09-10", "cash_amount": 0.25}]}`
	d, err := parseNextDividend([]byte(body), "AAPL")
	if err != nil {
		t.Fatalf("parseNextDividend: %v", err)
	}
	if d.Format("2006-01-02") != "2026-09-10" {
		t.Errorf("date = %s, want 2026-09-10", d.Format("2006-01-02"))
	}
}

func TestParseNextDividendNoneScheduled(t *testing.T) {
	d, err := parseNextDividend([]byte(`{"status": "OK", "results": []}`), "GOOG")
	if err != nil {
		t.Fatalf("parseNextDividend: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("date = %v, want zero time", d)
	}
}

func TestParseNextDividendBadStatus(t *testing.T) {
	body := `{"status": "ERROR", "error": "Unknown API Key", "results": [{"ex_dividend_date": "2026-09-10"}]}`
	if _, err := parseNextDividend([]byte(body), "AAPL"); err == nil {
		t.Error("expected error for ERROR status")
	}
}
