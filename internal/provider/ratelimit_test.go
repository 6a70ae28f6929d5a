package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shazam/internal/domain"
	"shazam/internal/fetch"
	"shazam/internal/provider"
)

// A vendor that answers nothing but 429 must cost the run exactly one
// failed symbol: the adapter exhausts its retry budget, the batcher records
// the failure, and the batch itself still completes cleanly.
func TestBatcherRecordsRateLimitedSymbol(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ib := provider.NewIBKR(srv.URL)
	ib.SetRetryBaseDelay(0)

	b := fetch.NewBatcher("tase-ibkr", domain.MarketTASE, ib, []string{"TEVA.TA"}, 0, 50, false)
	report, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.SuccessfulSymbols != 0 {
		t.Errorf("SuccessfulSymbols = %d, want 0", report.SuccessfulSymbols)
	}
	if len(report.FailedSymbols) != 1 || report.FailedSymbols[0] != "TEVA.TA" {
		t.Errorf("FailedSymbols = %v, want [TEVA.TA]", report.FailedSymbols)
	}
	// One initial attempt plus three retries, then the adapter gives up.
	if requests != 4 {
		t.Errorf("gateway saw %d requests, want 4", requests)
	}
}
