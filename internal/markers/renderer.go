// Package markers maps marker type and count to the visual descriptors
// consumed by the external map renderer. The renderer owns pixel placement,
// zoom-level grouping and click handling; this package only decides color,
// badge and emphasis.
package markers

import (
	"sort"
	"strconv"

	"gigmap/internal/domain/entities"
)

// MarkerType distinguishes the two marker families, which use visually
// distinct palettes.
type MarkerType string

const (
	TypeEvent MarkerType = "event"
	TypeVenue MarkerType = "venue"
)

// Three-tier palettes: count < 10, 10-49, >= 50.
var (
	eventPalette = [3]string{"#E03131", "#C2255C", "#862E9C"}
	venuePalette = [3]string{"#1971C2", "#0C8599", "#087F5B"}
)

// Descriptor is the visual policy for one pin or cluster.
type Descriptor struct {
	Type  MarkerType `json:"type"`
	Count int        `json:"count"`
	Color string     `json:"color"`
	Label string     `json:"label,omitempty"`
	Faded bool       `json:"faded,omitempty"`
}

// Describe maps (type, count) to a descriptor. Deterministic: equal input
// always yields an identical descriptor.
//
// A venue with zero current events is faded but still present, and carries
// no numeric badge; badges appear only once the count exceeds 1.
func Describe(markerType MarkerType, count int) Descriptor {
	if count < 0 {
		count = 0
	}

	tier := 0
	switch {
	case count >= 50:
		tier = 2
	case count >= 10:
		tier = 1
	}

	palette := eventPalette
	if markerType == TypeVenue {
		palette = venuePalette
	}

	d := Descriptor{
		Type:  markerType,
		Count: count,
		Color: palette[tier],
	}
	if count > 1 {
		d.Label = strconv.Itoa(count)
	}
	if markerType == TypeVenue && count == 0 {
		d.Faded = true
	}
	return d
}

// VenueCluster pairs a venue and its position with the descriptor for its
// current event count.
type VenueCluster struct {
	Venue      entities.Venue `json:"venue"`
	Location   entities.LatLng `json:"location"`
	Descriptor Descriptor      `json:"descriptor"`
}

// VenueClusters groups events by venue and describes one cluster per venue.
// Output is sorted by venue id so equal input yields identical output.
func VenueClusters(events []entities.EventRecord) []VenueCluster {
	type group struct {
		venue    entities.Venue
		location entities.LatLng
		count    int
	}
	groups := make(map[string]*group)
	for _, ev := range events {
		g, ok := groups[ev.Venue.ID]
		if !ok {
			g = &group{venue: ev.Venue, location: ev.Location}
			groups[ev.Venue.ID] = g
		}
		g.count++
	}

	clusters := make([]VenueCluster, 0, len(groups))
	for _, g := range groups {
		clusters = append(clusters, VenueCluster{
			Venue:      g.venue,
			Location:   g.location,
			Descriptor: Describe(TypeVenue, g.count),
		})
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Venue.ID < clusters[j].Venue.ID
	})
	return clusters
}
