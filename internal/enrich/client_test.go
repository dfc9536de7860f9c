package enrich

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"gigmap/internal/cache"
	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
)

func testRange(t *testing.T) calendar.DateRange {
	t.Helper()
	r, err := calendar.Range(calendar.FilterThisWeek, time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := cache.New[[]entities.EventRecord]("events-test", time.Minute, time.Hour)
	t.Cleanup(c.Stop)

	return New(Options{BaseURL: srv.URL, Timeout: timeout}, c, zerolog.Nop())
}

// wireBody builds a minimal valid wire event as raw JSON.
func wireBody(id string) string {
	return `{"id":"` + id + `","title":"Show ` + id + `","date":"2025-06-06",` +
		`"venue":{"id":"v1","name":"The Sunflower","city":"Birmingham"},` +
		`"location":{"lat":52.48,"lng":-1.90},"status":"confirmed"}`
}

func TestEventsByIDsEmptyShortCircuits(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), time.Second)

	got, err := client.EventsByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("EventsByIDs(nil) error = %v", err)
	}
	if got != nil {
		t.Errorf("EventsByIDs(nil) = %v, want nil", got)
	}
	if hits.Load() != 0 {
		t.Error("an empty id list must not reach the backend")
	}
}

func TestEventsByIDs(t *testing.T) {
	var gotMethod, gotPath string
	var gotIDs []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decoding batch request: %v", err)
		}
		gotIDs = req.IDs

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"events":[` + wireBody("e1") + `,` + wireBody("e2") + `]}`))
	}), time.Second)

	got, err := client.EventsByIDs(context.Background(), []string{"e1", "e2", "e9"})
	if err != nil {
		t.Fatalf("EventsByIDs() error = %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/events/batch" {
		t.Errorf("request = %s %s, want POST /events/batch", gotMethod, gotPath)
	}
	if len(gotIDs) != 3 {
		t.Errorf("batch request carried %d ids, want 3", len(gotIDs))
	}

	// e9 is unknown to the backend and is silently omitted.
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != "e2" {
		t.Errorf("record ids = %v, %v; want e1, e2", got[0].ID, got[1].ID)
	}
	if got[0].Venue.Name != "The Sunflower" {
		t.Errorf("venue name = %q, want The Sunflower", got[0].Venue.Name)
	}
}

func TestEventsByIDsDropsMalformedRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing id, junk date and out-of-range coordinates, between two
		// valid records.
		w.Write([]byte(`{"events":[` +
			wireBody("e1") + `,` +
			`{"id":"","date":"2025-06-06","location":{"lat":52.48,"lng":-1.90}},` +
			`{"id":"e2","date":"someday","location":{"lat":52.48,"lng":-1.90}},` +
			`{"id":"e3","date":"2025-06-06","location":{"lat":95.0,"lng":-1.90}},` +
			wireBody("e4") + `]}`))
	}), time.Second)

	got, err := client.EventsByIDs(context.Background(), []string{"e1", "e2", "e3", "e4"})
	if err != nil {
		t.Fatalf("EventsByIDs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want the 2 well-formed ones", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != "e4" {
		t.Errorf("record ids = %v, %v; want e1, e4", got[0].ID, got[1].ID)
	}
}

func TestEventsByIDsUnknownStatusDefaultsToConfirmed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":[{"id":"e1","date":"2025-06-06",` +
			`"location":{"lat":52.48,"lng":-1.90},"status":"maybe"}]}`))
	}), time.Second)

	got, err := client.EventsByIDs(context.Background(), []string{"e1"})
	if err != nil {
		t.Fatalf("EventsByIDs() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != entities.EventStatusConfirmed {
		t.Errorf("unknown status should default to confirmed, got %+v", got)
	}
}

func TestEventsByIDsCached(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"events":[` + wireBody("e1") + `]}`))
	}), time.Second)

	// Same ids in a different order land on the same cache entry.
	if _, err := client.EventsByIDs(context.Background(), []string{"e1", "e2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.EventsByIDs(context.Background(), []string{"e2", "e1"}); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("upstream hit %d times for the same id set, want 1", n)
	}
}

func TestEventsByIDsTimeout(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}), 20*time.Millisecond)

	_, err := client.EventsByIDs(context.Background(), []string{"e1"})
	if !errors.Is(err, entities.ErrTimeout) {
		t.Fatalf("EventsByIDs() error = %v, want ErrTimeout", err)
	}
}

func TestEventsByRange(t *testing.T) {
	dr := testRange(t)
	var gotStart, gotEnd string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("request path = %q, want /events", r.URL.Path)
		}
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Write([]byte(`{"events":[` + wireBody("e1") + `]}`))
	}), time.Second)

	got, err := client.EventsByRange(context.Background(), dr)
	if err != nil {
		t.Fatalf("EventsByRange() error = %v", err)
	}
	if gotStart != dr.Start.Format(time.RFC3339) || gotEnd != dr.End.Format(time.RFC3339) {
		t.Errorf("range query = (%q, %q), want the requested window", gotStart, gotEnd)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("got %+v, want one record e1", got)
	}
}

func TestEventsByRangeUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "join service unavailable", http.StatusBadGateway)
	}), time.Second)

	if _, err := client.EventsByRange(context.Background(), testRange(t)); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}
