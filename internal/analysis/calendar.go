package analysis

import (
	"time"

	"stravadash/internal/activity"
)

// CalendarCell is one day's total distance. The cell set for a year is
// dense: the heatmap indexes by (month, day) and must never hit a hole.
type CalendarCell struct {
	Date            time.Time `json:"date"`
	TotalDistanceKm float64   `json:"total_distance_km"`
}

// AggregateCalendar sums distance per calendar day over the given year.
// The result has exactly one cell per day of the year in ascending
// order, 365 or 366 entries depending on leap year, with zero-distance
// days included.
func AggregateCalendar(activities []activity.Canonical, year int) []CalendarCell {
	totals := make(map[time.Time]float64)
	for _, a := range activities {
		if a.StartDate.Year() != year {
			continue
		}
		totals[a.StartDate] += a.DistanceKm
	}

	var cells []CalendarCell
	for d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		cells = append(cells, CalendarCell{
			Date:            d,
			TotalDistanceKm: totals[d],
		})
	}
	return cells
}
