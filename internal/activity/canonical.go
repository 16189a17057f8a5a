package activity

import (
	"fmt"
	"time"

	"stravadash/internal/strava"
)

// SportCommute is the synthetic sport type assigned to commute rides.
// Strava reports commutes under their real sport with a flag; the
// dashboard treats them as their own category.
const SportCommute = "Commute"

const activityLinkTemplate = "https://www.strava.com/activities/%d"

// Canonical is the fixed-shape activity record all derived datasets are
// built from. Every field is always present regardless of what the raw
// record carried: values the source omitted are zero or nil, never
// missing, so downstream aggregation can index freely. Optional metrics
// that only some activity types report are pointers.
type Canonical struct {
	ID              int64     `json:"activity_id"`
	Name            string    `json:"name"`
	DistanceKm      float64   `json:"distance_km"`
	MovingTimeS     int       `json:"moving_time_s"`
	ElapsedTimeS    int       `json:"elapsed_time_s"`
	ElevationGainM  float64   `json:"elevation_gain_m"`
	SportType       string    `json:"sport_type"`
	StartDate       time.Time `json:"start_date"` // date only, midnight UTC
	AverageSpeedKmh float64   `json:"average_speed_kmh"`
	MaxSpeedKmh     float64   `json:"max_speed_kmh"`
	AverageCadence  *float64  `json:"average_cadence"`
	AverageWatts    *float64  `json:"average_watts"`
	MaxWatts        *float64  `json:"max_watts"`
	Kilojoules      *float64  `json:"kilojoules"`
	AverageHR       *float64  `json:"average_heartrate"`
	MaxHR           *float64  `json:"max_heartrate"`
	ElevHighM       *float64  `json:"elev_high_m"`
	ElevLowM        *float64  `json:"elev_low_m"`
	PhotoCount      int       `json:"photo_count"`
	SummaryPolyline string    `json:"map_summary_polyline,omitempty"`
	Link            string    `json:"activity_link"`
}

// Normalize maps raw API records onto the canonical schema, in order.
// It is a pure function: same input, same output, no I/O.
//
// Distance converts meters to kilometers, speeds convert m/s to km/h,
// and the start timestamp collapses to its local calendar date. Records
// flagged as commutes have their sport type rewritten to SportCommute
// regardless of what the source reported.
func Normalize(raws []strava.RawActivity) []Canonical {
	out := make([]Canonical, 0, len(raws))
	for _, raw := range raws {
		out = append(out, normalizeOne(raw))
	}
	return out
}

func normalizeOne(raw strava.RawActivity) Canonical {
	c := Canonical{
		Name:      raw.String("name"),
		SportType: raw.String("sport_type"),
	}

	if id, ok := raw.Int("id"); ok {
		c.ID = id
		c.Link = fmt.Sprintf(activityLinkTemplate, id)
	}
	if raw.Bool("commute") {
		c.SportType = SportCommute
	}

	if meters, ok := raw.Float("distance"); ok {
		c.DistanceKm = meters / 1000
	}
	if s, ok := raw.Int("moving_time"); ok {
		c.MovingTimeS = int(s)
	}
	if s, ok := raw.Int("elapsed_time"); ok {
		c.ElapsedTimeS = int(s)
	}
	if gain, ok := raw.Float("total_elevation_gain"); ok {
		c.ElevationGainM = gain
	}
	if mps, ok := raw.Float("average_speed"); ok {
		c.AverageSpeedKmh = mps * 3.6
	}
	if mps, ok := raw.Float("max_speed"); ok {
		c.MaxSpeedKmh = mps * 3.6
	}
	if n, ok := raw.Int("total_photo_count"); ok {
		c.PhotoCount = int(n)
	} else if n, ok := raw.Int("photo_count"); ok {
		c.PhotoCount = int(n)
	}

	c.AverageCadence = optionalFloat(raw, "average_cadence")
	c.AverageWatts = optionalFloat(raw, "average_watts")
	c.MaxWatts = optionalFloat(raw, "max_watts")
	c.Kilojoules = optionalFloat(raw, "kilojoules")
	c.AverageHR = optionalFloat(raw, "average_heartrate")
	c.MaxHR = optionalFloat(raw, "max_heartrate")
	c.ElevHighM = optionalFloat(raw, "elev_high")
	c.ElevLowM = optionalFloat(raw, "elev_low")

	c.StartDate = parseStartDate(raw.String("start_date_local"))
	c.SummaryPolyline = raw.Nested("map").String("summary_polyline")

	return c
}

// parseStartDate parses the local start timestamp and drops the
// time-of-day, so records on the same local date compare equal.
func parseStartDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func optionalFloat(raw strava.RawActivity, key string) *float64 {
	if v, ok := raw.Float(key); ok {
		return &v
	}
	return nil
}
