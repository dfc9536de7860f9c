// Package index provides the client for the external spatial index service.
//
// The index answers id-only queries for a single geocell bounded by a date
// range. Responses are read through the shared cache, and every call is
// bounded by a timeout and a circuit breaker so a degraded backend fails
// fast instead of hanging the 9-tile fan-out.
package index

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"gigmap/internal/cache"
	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
	"gigmap/internal/metrics"
)

// Options configures the index client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues tile queries against the spatial index service.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]entities.EventSummary]
	cache   *cache.Cache[[]entities.EventSummary]
	log     zerolog.Logger
}

// New constructs an index client. The cache is owned by the caller and may
// be shared with other read paths.
func New(opts Options, c *cache.Cache[[]entities.EventSummary], log zerolog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]entities.EventSummary](gobreaker.Settings{
		Name:        "spatial-index",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})

	return &Client{
		http:    &http.Client{},
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
		breaker: breaker,
		cache:   c,
		log:     log,
	}
}

// tileResponse is the loose wire shape of a tile query response.
type tileResponse struct {
	IDs []string `json:"ids"`
}

// TileEvents returns the event ids indexed in one geocell within the date
// range. An empty id list is a normal, non-error response. Concurrent
// requests for the same cell and range share one underlying call.
func (c *Client) TileEvents(ctx context.Context, cell string, dateRange calendar.DateRange) ([]entities.EventSummary, error) {
	key := cache.TileKey([]string{cell}, dateRange)
	return c.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]entities.EventSummary, error) {
		return c.breaker.Execute(func() ([]entities.EventSummary, error) {
			return c.fetchTile(ctx, cell, dateRange)
		})
	})
}

func (c *Client) fetchTile(ctx context.Context, cell string, dateRange calendar.DateRange) ([]entities.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("start", dateRange.Start.Format(time.RFC3339))
	q.Set("end", dateRange.End.Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/tiles/%s/events?%s", c.baseURL, url.PathEscape(cell), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", cell, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.TileQueries.WithLabelValues("timeout").Inc()
			return nil, fmt.Errorf("tile %s: %w", cell, entities.ErrTimeout)
		}
		metrics.TileQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tile %s: %w", cell, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.TileQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tile %s: unexpected status %d", cell, resp.StatusCode)
	}

	var body tileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.TileQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tile %s: decoding response: %w", cell, err)
	}

	summaries := make([]entities.EventSummary, 0, len(body.IDs))
	for _, id := range body.IDs {
		if id == "" {
			continue
		}
		summaries = append(summaries, entities.EventSummary{ID: id})
	}

	if len(summaries) == 0 {
		metrics.TileQueries.WithLabelValues("empty").Inc()
	} else {
		metrics.TileQueries.WithLabelValues("ok").Inc()
	}
	c.log.Debug().Str("cell", cell).Int("ids", len(summaries)).Msg("tile query resolved")

	return summaries, nil
}
