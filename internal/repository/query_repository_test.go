package repository

import (
	"testing"
	"time"
)

func TestClockConversionRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(0, time.January, 1, 9, 15, 0, 0, time.UTC),
		time.Date(0, time.January, 1, 23, 59, 59, 999999000, time.UTC),
	}
	for _, want := range cases {
		got := pgToClock(clockToPg(want))
		if !got.Equal(want) {
			t.Fatalf("round trip mismatch: got %v want %v", got, want)
		}
	}
}

func TestClockConversionDropsDatePart(t *testing.T) {
	in := time.Date(2024, time.March, 5, 10, 30, 45, 0, time.UTC)
	got := pgToClock(clockToPg(in))
	if got.Hour() != 10 || got.Minute() != 30 || got.Second() != 45 {
		t.Fatalf("clock component lost: %v", got)
	}
	if got.Year() != 0 {
		t.Fatalf("date component must be normalized, got year %d", got.Year())
	}
}

func TestOptionalClockNil(t *testing.T) {
	if optionalClockToPg(nil).Valid {
		t.Fatalf("nil time must map to NULL")
	}
	now := time.Date(0, time.January, 1, 12, 0, 0, 0, time.UTC)
	if !optionalClockToPg(&now).Valid {
		t.Fatalf("non-nil time must be valid")
	}
}
