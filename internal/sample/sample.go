package sample

import "time"

// Sample is a single timestamped observation returned by a metrics API.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit,omitempty"`
}

// Latest returns the sample with the greatest timestamp. ok is false when
// samples is empty. When several samples share the greatest timestamp the
// first one in iteration order wins.
func Latest(samples []Sample) (s Sample, ok bool) {
	return LatestBy(samples, func(s Sample) time.Time { return s.Timestamp })
}

// LatestBy is Latest for any element type; ts extracts the timestamp.
func LatestBy[T any](items []T, ts func(T) time.Time) (latest T, ok bool) {
	var newest time.Time
	for _, it := range items {
		t := ts(it)
		if !ok || t.After(newest) {
			latest, newest, ok = it, t, true
		}
	}
	return latest, ok
}
