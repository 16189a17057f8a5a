package analysis

import (
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"

	"stravadash/internal/activity"
)

// GeoPath is one activity's route, decoded and shaped for a map path
// layer: an ordered list of [longitude, latitude] points plus a tooltip
// description.
type GeoPath struct {
	ActivityID  int64        `json:"activity_id"`
	Description string       `json:"description"`
	Path        [][2]float64 `json:"path"`
}

// ExtractPaths decodes each activity's summary polyline into a single
// connected path. Activities with no polyline, a malformed polyline, or
// fewer than two decoded points have nothing to render and are skipped;
// one bad record must not take the rest of the map down with it.
func ExtractPaths(activities []activity.Canonical) []GeoPath {
	var paths []GeoPath
	for _, a := range activities {
		if a.SummaryPolyline == "" {
			continue
		}
		coords, _, err := polyline.DecodeCoords([]byte(a.SummaryPolyline))
		if err != nil || len(coords) < 2 {
			continue
		}

		// Polylines encode (lat, lng); the path layer wants (lng, lat).
		path := make([][2]float64, len(coords))
		for i, c := range coords {
			path[i] = [2]float64{c[1], c[0]}
		}

		paths = append(paths, GeoPath{
			ActivityID:  a.ID,
			Description: pathDescription(a),
			Path:        path,
		})
	}
	return paths
}

func pathDescription(a activity.Canonical) string {
	return fmt.Sprintf("%s\n%.1f km\n%d m", a.Name, a.DistanceKm, int(math.Round(a.ElevationGainM)))
}
