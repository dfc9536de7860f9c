package entities

import "math"

// LatLng represents a geographic coordinate pair (latitude/longitude).
// It is a small value type, returned and passed by value; use a *LatLng
// only where "no center" is a meaningful state (see geo.FilterByRadius).
type LatLng struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewLatLng creates a LatLng value from latitude and longitude.
func NewLatLng(lat, lng float64) LatLng {
	return LatLng{
		Latitude:  lat,
		Longitude: lng,
	}
}

// Valid reports whether the coordinate is a real point on the globe.
// NaN or out-of-range coordinates are contractual violations and must be
// rejected at the boundary, never coerced.
func (l LatLng) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}
