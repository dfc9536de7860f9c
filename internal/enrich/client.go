// Package enrich provides the client for the external join service, which
// resolves minimal id records into fully joined event/venue/artist records.
//
// Backend responses are loosely typed JSON; they are validated and converted
// to the internal EventRecord representation here, at the boundary, so the
// rest of the pipeline never has to re-check field presence or shape.
package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"gigmap/internal/cache"
	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
)

// Options configures the enrichment client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues batch enrichment and broad list queries against the join
// service.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	cache   *cache.Cache[[]entities.EventRecord]
	log     zerolog.Logger
}

// New constructs an enrichment client sharing the given cache.
func New(opts Options, c *cache.Cache[[]entities.EventRecord], log zerolog.Logger) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
		cache:   c,
		log:     log,
	}
}

// wireVenue, wireArtist, wireTicketing and wireEvent mirror the backend's
// loose JSON. Nothing outside this file touches them.
type wireVenue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type wireArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireTicketing struct {
	Ticketed bool    `json:"ticketed"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
}

type wireEvent struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Date      string        `json:"date"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Venue     wireVenue     `json:"venue"`
	Artist    *wireArtist   `json:"artist"`
	Location  struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Ticketing wireTicketing `json:"ticketing"`
	Status    string        `json:"status"`
	Source    string        `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// toRecord validates the wire event and converts it to the typed internal
// representation.
func (w wireEvent) toRecord() (entities.EventRecord, error) {
	if w.ID == "" {
		return entities.EventRecord{}, &entities.ValidationError{Field: "id", Reason: "missing"}
	}
	loc := entities.NewLatLng(w.Location.Lat, w.Location.Lng)
	if !loc.Valid() {
		return entities.EventRecord{}, &entities.ValidationError{Field: "location", Reason: "coordinates out of range"}
	}
	if _, err := time.Parse("2006-01-02", w.Date); err != nil {
		return entities.EventRecord{}, &entities.ValidationError{Field: "date", Reason: "not a calendar date: " + w.Date}
	}

	status := entities.EventStatus(w.Status)
	switch status {
	case entities.EventStatusConfirmed, entities.EventStatusCancelled, entities.EventStatusPostponed:
	default:
		status = entities.EventStatusConfirmed
	}

	var artist *entities.Artist
	if w.Artist != nil && w.Artist.ID != "" {
		artist = &entities.Artist{ID: w.Artist.ID, Name: w.Artist.Name}
	}

	return entities.EventRecord{
		ID:        w.ID,
		Title:     w.Title,
		Date:      w.Date,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		Venue:     entities.Venue{ID: w.Venue.ID, Name: w.Venue.Name, City: w.Venue.City},
		Artist:    artist,
		Location:  loc,
		Ticketing: entities.Ticketing{Ticketed: w.Ticketing.Ticketed, Price: w.Ticketing.Price, URL: w.Ticketing.URL},
		Status:    status,
		Source:    w.Source,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

type eventsResponse struct {
	Events []wireEvent `json:"events"`
}

// EventsByIDs resolves a deduplicated id list into full event records with
// exactly one batched request. An empty id list short-circuits with no
// network call. Ids no longer present on the backend are silently omitted
// from the result, never reported as per-id errors.
func (c *Client) EventsByIDs(ctx context.Context, ids []string) ([]entities.EventRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	key := cache.IDKey(ids)
	return c.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]entities.EventRecord, error) {
		body, err := json.Marshal(batchRequest{IDs: ids})
		if err != nil {
			return nil, fmt.Errorf("batch enrich: encoding request: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events/batch", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("batch enrich: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		return c.doEvents(req, "batch enrich")
	})
}

// EventsByRange fetches the full event list for a date window from the
// broad list endpoint, with no spatial filter. The list view trades spatial
// precision for completeness and applies the distance filter client-side.
func (c *Client) EventsByRange(ctx context.Context, dateRange calendar.DateRange) ([]entities.EventRecord, error) {
	key := cache.RangeKey(dateRange)
	return c.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]entities.EventRecord, error) {
		q := url.Values{}
		q.Set("start", dateRange.Start.Format(time.RFC3339))
		q.Set("end", dateRange.End.Format(time.RFC3339))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("broad list: %w", err)
		}

		return c.doEvents(req, "broad list")
	})
}

// doEvents executes the request with the client timeout, decodes the loose
// response and converts it to typed records. Individual malformed records
// are logged and dropped rather than failing the whole batch.
func (c *Client) doEvents(req *http.Request, op string) ([]entities.EventRecord, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", op, entities.ErrTimeout)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var body eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}

	records := make([]entities.EventRecord, 0, len(body.Events))
	for _, we := range body.Events {
		record, err := we.toRecord()
		if err != nil {
			c.log.Warn().Err(err).Str("event_id", we.ID).Msg("dropping malformed event record")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
