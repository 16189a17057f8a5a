package activity

import "time"

// SportTypes returns the distinct sport types in first-seen order.
func SportTypes(activities []Canonical) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, a := range activities {
		if _, ok := seen[a.SportType]; ok {
			continue
		}
		seen[a.SportType] = struct{}{}
		types = append(types, a.SportType)
	}
	return types
}

// FilterSport keeps activities whose sport type is in sports. An empty
// selection keeps everything.
func FilterSport(activities []Canonical, sports []string) []Canonical {
	if len(sports) == 0 {
		return activities
	}
	want := make(map[string]struct{}, len(sports))
	for _, s := range sports {
		want[s] = struct{}{}
	}
	var out []Canonical
	for _, a := range activities {
		if _, ok := want[a.SportType]; ok {
			out = append(out, a)
		}
	}
	return out
}

// FilterDateRange keeps activities whose start date falls in [from, to]
// inclusive. A zero bound is open on that side.
func FilterDateRange(activities []Canonical, from, to time.Time) []Canonical {
	var out []Canonical
	for _, a := range activities {
		if !from.IsZero() && a.StartDate.Before(from) {
			continue
		}
		if !to.IsZero() && a.StartDate.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out
}
