package geo

import (
	"gigmap/internal/domain/entities"
	"gigmap/pkg/geomath"
)

// FilterByRadius returns the subset of events within radiusMiles of center.
//
// A nil center makes the filter the identity function: the input is returned
// unchanged. This is a contractual no-op branch for callers that have no
// reference point (location permission denied, list view without a map), not
// an error.
//
// NaN or out-of-range coordinates on the center or an event are contractual
// violations and produce a ValidationError rather than being coerced.
// Radius 0 keeps only events whose coordinates equal the center exactly.
func FilterByRadius(events []entities.EventRecord, center *entities.LatLng, radiusMiles float64) ([]entities.EventRecord, error) {
	if center == nil {
		return events, nil
	}
	if !center.Valid() {
		return nil, &entities.ValidationError{Field: "center", Reason: "coordinates out of range"}
	}
	if radiusMiles < 0 {
		return nil, &entities.ValidationError{Field: "radius", Reason: "must be non-negative"}
	}

	within := make([]entities.EventRecord, 0, len(events))
	for _, ev := range events {
		if !ev.Location.Valid() {
			return nil, &entities.ValidationError{Field: "events", Reason: "event " + ev.ID + " has invalid coordinates"}
		}
		d := geomath.HaversineMiles(
			center.Latitude, center.Longitude,
			ev.Location.Latitude, ev.Location.Longitude,
		)
		if d <= radiusMiles {
			within = append(within, ev)
		}
	}
	return within, nil
}
