package util

import (
	"time"

	"shazam/internal/domain"
)

// Local close times used to decide whether today's session is complete.
// These are deliberately naive wall-clock checks (no exchange timezone
// conversion), matching the behaviour the published data depends on.
const (
	usCloseHour     = 16 // 4:00 PM
	taseCloseHour   = 17
	taseCloseMinute = 25 // 5:25 PM
)

// IsTradingDay reports whether t falls on a trading weekday for the market:
// Monday-Friday for US exchanges, Sunday-Thursday for TASE. Exchange
// holidays are not modelled; vendors already omit them from daily bars.
func IsTradingDay(t time.Time, market domain.Market) bool {
	wd := t.Weekday()
	if market == domain.MarketTASE {
		return wd == time.Sunday || (wd >= time.Monday && wd <= time.Thursday)
	}
	return wd >= time.Monday && wd <= time.Friday
}

// LastCompleteTradingDay walks backward from now to the most recent trading
// day whose session has already closed, truncated to midnight. If now falls
// on a trading day before the market close, the previous trading day is
// returned instead.
func LastCompleteTradingDay(now time.Time, market domain.Market) time.Time {
	current := now
	for {
		if !IsTradingDay(current, market) {
			current = current.AddDate(0, 0, -1)
			continue
		}

		if current.Year() != now.Year() || current.YearDay() != now.YearDay() {
			// A prior day's session is always complete.
			return midnight(current)
		}

		if sessionClosed(current, market) {
			return midnight(current)
		}
		current = current.AddDate(0, 0, -1)
	}
}

// FilterTradingDays returns only the bars whose date falls on the market's
// trading weekday set. Vendors occasionally return weekend rows for thinly
// traded symbols; this drops them.
func FilterTradingDays(bars []domain.Bar, market domain.Market) []domain.Bar {
	out := bars[:0]
	for _, b := range bars {
		if IsTradingDay(b.Date, market) {
			out = append(out, b)
		}
	}
	return out
}

func sessionClosed(t time.Time, market domain.Market) bool {
	if market == domain.MarketTASE {
		return t.Hour() > taseCloseHour ||
			(t.Hour() == taseCloseHour && t.Minute() >= taseCloseMinute)
	}
	return t.Hour() >= usCloseHour
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
