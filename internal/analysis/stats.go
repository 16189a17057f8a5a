package analysis

import (
	"stravadash/internal/activity"
)

// Stats are the aggregate figures shown in the dashboard's totals panel.
type Stats struct {
	Activities       int     `json:"activities"`
	TotalMovingTimeS int     `json:"total_moving_time_s"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	AvgDistanceKm    float64 `json:"avg_distance_km"`
	TotalElevationM  float64 `json:"total_elevation_m"`
	AvgElevationM    float64 `json:"avg_elevation_m"`
	MaxSpeedKmh      float64 `json:"max_speed_kmh"`
	AvgSpeedKmh      float64 `json:"avg_speed_kmh"`
}

// Summarize computes totals and averages over the given activities.
// Alpine ski runs inflate elevation totals with lift-served descent, so
// they are left out of the elevation figures unless includeAlpineSki is
// set.
func Summarize(activities []activity.Canonical, includeAlpineSki bool) Stats {
	var s Stats
	s.Activities = len(activities)
	if s.Activities == 0 {
		return s
	}

	elevCount := 0
	for _, a := range activities {
		s.TotalMovingTimeS += a.MovingTimeS
		s.TotalDistanceKm += a.DistanceKm
		if includeAlpineSki || a.SportType != "AlpineSki" {
			s.TotalElevationM += a.ElevationGainM
			elevCount++
		}
		if a.MaxSpeedKmh > s.MaxSpeedKmh {
			s.MaxSpeedKmh = a.MaxSpeedKmh
		}
		s.AvgSpeedKmh += a.AverageSpeedKmh
	}

	s.AvgDistanceKm = s.TotalDistanceKm / float64(s.Activities)
	s.AvgSpeedKmh /= float64(s.Activities)
	if elevCount > 0 {
		s.AvgElevationM = s.TotalElevationM / float64(elevCount)
	}
	return s
}

// HistogramBucket is one bar of a value-distribution histogram.
type HistogramBucket struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets values into bins equal-width buckets over the
// observed range. Returns nil when there is nothing to bucket.
func Histogram(values []float64, bins int) []HistogramBucket {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []HistogramBucket{{Lo: lo, Hi: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]HistogramBucket, bins)
	for i := range buckets {
		buckets[i].Lo = lo + float64(i)*width
		buckets[i].Hi = lo + float64(i+1)*width
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1 // hi falls into the last bucket
		}
		buckets[idx].Count++
	}
	return buckets
}
