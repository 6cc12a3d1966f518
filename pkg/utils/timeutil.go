package utils

import (
	"time"
)

// Warsaw is the exchange's local time zone.
var Warsaw *time.Location

func init() {
	var err error
	Warsaw, err = time.LoadLocation("Europe/Warsaw")
	if err != nil {
		// Fallback: CET without DST if the tz database is not available
		Warsaw = time.FixedZone("CET", 60*60)
	}
}

// NowWarsaw returns the current time at the exchange.
func NowWarsaw() time.Time {
	return time.Now().In(Warsaw)
}

// SessionOpenTime returns the session opening (09:00 local) for a given date.
func SessionOpenTime(date time.Time) time.Time {
	d := date.In(Warsaw)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, Warsaw)
}

// SessionCloseTime returns the end of the closing auction (17:05 local).
func SessionCloseTime(date time.Time) time.Time {
	d := date.In(Warsaw)
	return time.Date(d.Year(), d.Month(), d.Day(), 17, 5, 0, 0, Warsaw)
}

// IsSessionOpenAt checks whether continuous trading would be running at the
// given time, ignoring exchange holidays.
func IsSessionOpenAt(t time.Time) bool {
	t = t.In(Warsaw)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !t.Before(SessionOpenTime(t)) && !t.After(SessionCloseTime(t))
}

// MarketStatus returns the current session status string. Weekends only;
// exchange holidays are the calendar's business.
func MarketStatus() string {
	now := NowWarsaw()
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}
	switch {
	case now.Before(SessionOpenTime(now)):
		return "PRE-MARKET"
	case !now.After(SessionCloseTime(now)):
		return "OPEN"
	default:
		return "CLOSED"
	}
}

// FormatDate formats a time.Time to "2006-01-02" in exchange local time.
func FormatDate(t time.Time) string {
	return t.In(Warsaw).Format("2006-01-02")
}
