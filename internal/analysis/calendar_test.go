package analysis

import (
	"math"
	"testing"
	"time"

	"stravadash/internal/activity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateCalendarLeapYear(t *testing.T) {
	acts := []activity.Canonical{
		{ID: 1, StartDate: day(2024, 1, 1), DistanceKm: 5},
		{ID: 2, StartDate: day(2024, 1, 1), DistanceKm: 3.5},
		{ID: 3, StartDate: day(2024, 2, 29), DistanceKm: 10},
		{ID: 4, StartDate: day(2024, 12, 31), DistanceKm: 21.1},
		{ID: 5, StartDate: day(2023, 12, 31), DistanceKm: 99}, // other year, ignored
	}

	cells := AggregateCalendar(acts, 2024)

	if len(cells) != 366 {
		t.Fatalf("2024 has %d cells, want 366", len(cells))
	}

	// Dense, unique, ascending.
	for i, c := range cells {
		want := day(2024, 1, 1).AddDate(0, 0, i)
		if !c.Date.Equal(want) {
			t.Fatalf("cell %d date = %v, want %v", i, c.Date, want)
		}
	}

	if cells[0].TotalDistanceKm != 8.5 {
		t.Errorf("Jan 1 total = %v, want 8.5", cells[0].TotalDistanceKm)
	}

	var sum float64
	for _, c := range cells {
		if c.TotalDistanceKm < 0 {
			t.Errorf("negative total on %v", c.Date)
		}
		sum += c.TotalDistanceKm
	}
	if math.Abs(sum-(5+3.5+10+21.1)) > 1e-9 {
		t.Errorf("cell sum = %v, want 39.6", sum)
	}
}

func TestAggregateCalendarNonLeapYear(t *testing.T) {
	cells := AggregateCalendar(nil, 2023)
	if len(cells) != 365 {
		t.Fatalf("2023 has %d cells, want 365", len(cells))
	}
	for _, c := range cells {
		if c.TotalDistanceKm != 0 {
			t.Errorf("empty year has nonzero total on %v", c.Date)
		}
	}
}
