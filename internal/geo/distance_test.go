package geo

import (
	"errors"
	"math"
	"testing"

	"gigmap/internal/domain/entities"
)

func eventAt(id string, lat, lng float64) entities.EventRecord {
	return entities.EventRecord{
		ID:       id,
		Location: entities.NewLatLng(lat, lng),
	}
}

func TestFilterByRadiusNilCenter(t *testing.T) {
	events := []entities.EventRecord{
		eventAt("a", 52.0, -1.0),
		eventAt("b", 53.0, -2.0),
	}

	got, err := FilterByRadius(events, nil, 10)
	if err != nil {
		t.Fatalf("FilterByRadius() error = %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("nil center must be the identity filter, got %d of %d events", len(got), len(events))
	}
	for i := range events {
		if got[i].ID != events[i].ID {
			t.Errorf("event order changed at %d: got %v, want %v", i, got[i].ID, events[i].ID)
		}
	}
}

func TestFilterByRadius(t *testing.T) {
	near := eventAt("near", 52.0, -1.0)
	far := eventAt("far", 53.0, -2.0) // roughly 81 miles out
	center := entities.NewLatLng(52.0, -1.0)

	tests := []struct {
		name    string
		events  []entities.EventRecord
		radius  float64
		wantIDs []string
	}{
		{
			name:    "Keeps only events within the radius",
			events:  []entities.EventRecord{near, far},
			radius:  10,
			wantIDs: []string{"near"},
		},
		{
			name:    "Wide radius keeps everything",
			events:  []entities.EventRecord{near, far},
			radius:  100,
			wantIDs: []string{"near", "far"},
		},
		{
			name:    "Radius zero keeps exact matches only",
			events:  []entities.EventRecord{near, far},
			radius:  0,
			wantIDs: []string{"near"},
		},
		{
			name:    "Empty input",
			events:  nil,
			radius:  10,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterByRadius(tt.events, &center, tt.radius)
			if err != nil {
				t.Fatalf("FilterByRadius() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("event %d = %v, want %v", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterByRadiusValidation(t *testing.T) {
	valid := entities.NewLatLng(52.0, -1.0)
	nanCenter := entities.NewLatLng(math.NaN(), -1.0)
	outOfRange := entities.NewLatLng(95.0, -1.0)

	tests := []struct {
		name   string
		events []entities.EventRecord
		center *entities.LatLng
		radius float64
	}{
		{
			name:   "NaN center",
			events: []entities.EventRecord{eventAt("a", 52.0, -1.0)},
			center: &nanCenter,
			radius: 10,
		},
		{
			name:   "Out of range center",
			events: []entities.EventRecord{eventAt("a", 52.0, -1.0)},
			center: &outOfRange,
			radius: 10,
		},
		{
			name:   "Negative radius",
			events: []entities.EventRecord{eventAt("a", 52.0, -1.0)},
			center: &valid,
			radius: -1,
		},
		{
			name:   "Event with NaN coordinates",
			events: []entities.EventRecord{eventAt("a", math.NaN(), -1.0)},
			center: &valid,
			radius: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FilterByRadius(tt.events, tt.center, tt.radius)
			var ve *entities.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("FilterByRadius() error = %v, want a ValidationError", err)
			}
		})
	}
}
