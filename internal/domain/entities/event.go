package entities

import "time"

// EventStatus is the publication state of an event as reported by the backend.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusPostponed EventStatus = "postponed"
)

// EventSummary is the minimal record returned by a tile query: just the id.
// Summaries from overlapping tiles are deduplicated before enrichment.
type EventSummary struct {
	ID string `json:"id"`
}

// Venue is where an event takes place.
type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Artist is the performing act, when the event has one.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ticketing describes how an event is ticketed. Free or unticketed events
// leave Price and URL empty.
type Ticketing struct {
	Ticketed bool    `json:"ticketed"`
	Price    float64 `json:"price,omitempty"`
	URL      string  `json:"url,omitempty"`
}

// EventRecord is the fully joined event returned by batch enrichment.
// The backend owns these records; gigmap only holds transient, possibly
// stale copies and never writes them back.
type EventRecord struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Date      string      `json:"date"` // calendar date, YYYY-MM-DD
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time,omitempty"`
	Venue     Venue       `json:"venue"`
	Artist    *Artist     `json:"artist,omitempty"`
	Location  LatLng      `json:"location"`
	Ticketing Ticketing   `json:"ticketing"`
	Status    EventStatus `json:"status"`
	Source    string      `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
