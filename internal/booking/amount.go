// Package booking computes the charge for a stay. Prices are stored as
// major-unit naira per night; the payment provider wants kobo.
package booking

import (
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// Nights is the whole-day difference between check-out and check-in,
// rounded up: the check-out day itself is not charged.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// AmountMinor converts the stay to payment-gateway minor units
// (nights x nightly price x 100). Anything non-positive - inverted
// dates, zero nights, zero price - comes back as 0, and 0 blocks
// payment upstream.
func AmountMinor(checkIn, checkOut time.Time, nightlyPrice float64) int64 {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 || nightlyPrice <= 0 {
		return 0
	}
	return int64(math.Round(float64(nights) * nightlyPrice * 100))
}

// ParseDate parses a calendar date in ISO form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// BeforeToday reports whether date falls on an earlier calendar day
// than now. The comparison is against now's local calendar day, not an
// epoch-aligned 24h window, so "today" stays bookable right up to
// midnight in any zone.
func BeforeToday(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return date.Before(today)
}
