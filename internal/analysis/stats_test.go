package analysis

import (
	"math"
	"testing"

	"stravadash/internal/activity"
)

func TestSummarize(t *testing.T) {
	acts := []activity.Canonical{
		{SportType: "Run", DistanceKm: 10, MovingTimeS: 3600, ElevationGainM: 100, AverageSpeedKmh: 10, MaxSpeedKmh: 14},
		{SportType: "Ride", DistanceKm: 30, MovingTimeS: 5400, ElevationGainM: 300, AverageSpeedKmh: 20, MaxSpeedKmh: 45},
		{SportType: "AlpineSki", DistanceKm: 20, MovingTimeS: 7200, ElevationGainM: 2000, AverageSpeedKmh: 30, MaxSpeedKmh: 80},
	}

	s := Summarize(acts, false)

	if s.Activities != 3 {
		t.Errorf("Activities = %d, want 3", s.Activities)
	}
	if s.TotalMovingTimeS != 16200 {
		t.Errorf("TotalMovingTimeS = %d, want 16200", s.TotalMovingTimeS)
	}
	if s.TotalDistanceKm != 60 {
		t.Errorf("TotalDistanceKm = %v, want 60", s.TotalDistanceKm)
	}
	// Lift-served descent excluded by default.
	if s.TotalElevationM != 400 {
		t.Errorf("TotalElevationM = %v, want 400", s.TotalElevationM)
	}
	if s.AvgElevationM != 200 {
		t.Errorf("AvgElevationM = %v, want 200", s.AvgElevationM)
	}
	if s.MaxSpeedKmh != 80 {
		t.Errorf("MaxSpeedKmh = %v, want 80", s.MaxSpeedKmh)
	}
	if s.AvgSpeedKmh != 20 {
		t.Errorf("AvgSpeedKmh = %v, want 20", s.AvgSpeedKmh)
	}

	withSki := Summarize(acts, true)
	if withSki.TotalElevationM != 2400 {
		t.Errorf("TotalElevationM with ski = %v, want 2400", withSki.TotalElevationM)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, false)
	if s.Activities != 0 || s.TotalDistanceKm != 0 || s.AvgDistanceKm != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}
	buckets := Histogram(values, 5)
	if len(buckets) != 5 {
		t.Fatalf("Histogram returned %d buckets, want 5", len(buckets))
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("bucket counts sum to %d, want %d", total, len(values))
	}

	// The max value lands in the last bucket, not off the end.
	if buckets[4].Count == 0 {
		t.Error("last bucket should contain the max value")
	}
	if math.Abs(buckets[0].Lo-0) > 1e-9 || math.Abs(buckets[4].Hi-10) > 1e-9 {
		t.Errorf("bucket range [%v, %v], want [0, 10]", buckets[0].Lo, buckets[4].Hi)
	}
}

func TestHistogramDegenerate(t *testing.T) {
	if got := Histogram(nil, 5); got != nil {
		t.Errorf("Histogram(nil) = %v, want nil", got)
	}
	if got := Histogram([]float64{1, 2}, 0); got != nil {
		t.Errorf("Histogram with 0 bins = %v, want nil", got)
	}

	same := Histogram([]float64{4.2, 4.2, 4.2}, 3)
	if len(same) != 1 || same[0].Count != 3 {
		t.Errorf("constant values = %+v, want single full bucket", same)
	}
}
