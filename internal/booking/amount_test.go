package booking

import (
	"testing"
	"time"
)

func TestNights(t *testing.T) {
	tests := []struct {
		checkIn, checkOut string
		want              int
	}{
		{"2026-09-01", "2026-09-03", 2},
		{"2026-09-01", "2026-09-02", 1},
		{"2026-09-01", "2026-09-01", 0},
		{"2026-09-03", "2026-09-01", -2},
	}
	for _, tt := range tests {
		in, err := ParseDate(tt.checkIn)
		if err != nil {
			t.Fatal(err)
		}
		out, err := ParseDate(tt.checkOut)
		if err != nil {
			t.Fatal(err)
		}
		if got := Nights(in, out); got != tt.want {
			t.Errorf("Nights(%s, %s) = %d, want %d", tt.checkIn, tt.checkOut, got, tt.want)
		}
	}
}

func TestAmountMinor(t *testing.T) {
	tests := []struct {
		name              string
		checkIn, checkOut string
		price             float64
		want              int64
	}{
		{"two nights", "2026-09-01", "2026-09-03", 100000, 20000000},
		{"one night", "2026-09-01", "2026-09-02", 65000, 6500000},
		{"same day", "2026-09-01", "2026-09-01", 100000, 0},
		{"inverted dates", "2026-09-03", "2026-09-01", 100000, 0},
		{"zero price", "2026-09-01", "2026-09-03", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := ParseDate(tt.checkIn)
			out, _ := ParseDate(tt.checkOut)
			if got := AmountMinor(in, out, tt.price); got != tt.want {
				t.Errorf("AmountMinor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("15/09/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestBeforeToday(t *testing.T) {
	wat := time.FixedZone("WAT", 3600)
	// Just past midnight local time; in UTC it is still the previous
	// day. An epoch-aligned 24h window would misjudge this.
	now := time.Date(2026, 9, 1, 0, 30, 0, 0, wat)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"yesterday", "2026-08-31", true},
		{"today stays bookable", "2026-09-01", false},
		{"tomorrow", "2026-09-02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := BeforeToday(date, now); got != tt.want {
				t.Errorf("BeforeToday(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestBeforeTodayLateEvening(t *testing.T) {
	// 23:30 local: today must still not count as past.
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.FixedZone("WAT", 3600))
	date, _ := ParseDate("2026-09-01")
	if BeforeToday(date, now) {
		t.Error("today rejected late in the evening")
	}
}
