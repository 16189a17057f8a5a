package strava

// RawActivity is an activity record exactly as the API returned it.
// The summary-activity schema is source-controlled and drifts over time
// (fields come and go depending on activity type and recording device),
// so raw records stay an open map until normalization.
type RawActivity map[string]any

// String returns the named field as a string, or "" if absent or not a string.
func (a RawActivity) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Float returns the named field as a float64. JSON numbers always decode
// to float64 when the target is an open map.
func (a RawActivity) Float(key string) (float64, bool) {
	f, ok := a[key].(float64)
	return f, ok
}

// Int returns the named field as an int64, truncating the JSON float.
func (a RawActivity) Int(key string) (int64, bool) {
	f, ok := a[key].(float64)
	return int64(f), ok
}

// Bool returns the named field as a bool, false if absent.
func (a RawActivity) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// Nested returns a nested object field (e.g. "map") as a RawActivity.
func (a RawActivity) Nested(key string) RawActivity {
	m, _ := a[key].(map[string]any)
	return RawActivity(m)
}

// Athlete is the profile summary returned by /athlete and embedded in
// the token response.
type Athlete struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Profile   string `json:"profile"`
}

// ActivityDetail is the subset of the single-activity response used for
// photo lookup.
type ActivityDetail struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Photos Photos `json:"photos"`
}

// Photos is the nested photo metadata on a detailed activity.
type Photos struct {
	Count   int           `json:"count"`
	Primary *PrimaryPhoto `json:"primary"`
}

// PrimaryPhoto holds the URL variants of an activity's primary photo.
type PrimaryPhoto struct {
	URLs map[string]string `json:"urls"`
}

// PrimaryPhotoURL returns the largest available URL of the primary photo,
// or "" when the activity has no primary photo.
func (d *ActivityDetail) PrimaryPhotoURL() string {
	if d == nil || d.Photos.Primary == nil {
		return ""
	}
	// Strava keys URL variants by pixel size; prefer the 600px one.
	if url, ok := d.Photos.Primary.URLs["600"]; ok {
		return url
	}
	for _, url := range d.Photos.Primary.URLs {
		return url
	}
	return ""
}
