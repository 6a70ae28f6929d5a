package util

import (
	"testing"
	"time"

	"shazam/internal/domain"
)

func TestIsTradingDay(t *testing.T) {
	// 2026-08-23 is a Sunday.
	sunday := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		offsetDays int
		market     domain.Market
		want       bool
	}{
		{0, domain.MarketUS, false},   // Sunday
		{1, domain.MarketUS, true},    // Monday
		{5, domain.MarketUS, true},    // Friday
		{6, domain.MarketUS, false},   // Saturday
		{0, domain.MarketTASE, true},  // Sunday
		{4, domain.MarketTASE, true},  // Thursday
		{5, domain.MarketTASE, false}, // Friday
		{6, domain.MarketTASE, false}, // Saturday
	}
	for _, tt := range tests {
		day := sunday.AddDate(0, 0, tt.offsetDays)
		if got := IsTradingDay(day, tt.market); got != tt.want {
			t.Errorf("IsTradingDay(%s, %s) = %v, want %v",
				day.Weekday(), tt.market, got, tt.want)
		}
	}
}

func TestLastCompleteTradingDay(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		market domain.Market
		want   string
	}{
		{
			"us friday after close",
			time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC), // Friday 5 PM
			domain.MarketUS,
			"2026-08-28",
		},
		{
			"us friday before close",
			time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC), // Friday 10 AM
			domain.MarketUS,
			"2026-08-27",
		},
		{
			"us saturday",
			time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
			domain.MarketUS,
			"2026-08-28",
		},
		{
			"us monday morning rolls to friday",
			time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
			domain.MarketUS,
			"2026-08-28",
		},
		{
			"tase friday",
			time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
			domain.MarketTASE,
			"2026-08-27", // Thursday
		},
		{
			"tase sunday before close",
			time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
			domain.MarketTASE,
			"2026-08-20", // previous Thursday
		},
		{
			"tase sunday after close",
			time.Date(2026, 8, 23, 17, 30, 0, 0, time.UTC),
			domain.MarketTASE,
			"2026-08-23",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastCompleteTradingDay(tt.now, tt.market)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("LastCompleteTradingDay() = %s, want %s",
					got.Format("2006-01-02"), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("result not at midnight: %v", got)
			}
		})
	}
}

func TestFilterTradingDays(t *testing.T) {
	bars := []domain.Bar{
		{Symbol: "X", Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)}, // Friday
		{Symbol: "X", Date: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)}, // Saturday
		{Symbol: "X", Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)}, // Sunday
	}

	us := FilterTradingDays(append([]domain.Bar(nil), bars...), domain.MarketUS)
	if len(us) != 1 || us[0].Date.Weekday() != time.Friday {
		t.Errorf("US filter kept %d bars", len(us))
	}

	tase := FilterTradingDays(append([]domain.Bar(nil), bars...), domain.MarketTASE)
	if len(tase) != 1 || tase[0].Date.Weekday() != time.Sunday {
		t.Errorf("TASE filter kept %d bars", len(tase))
	}
}
