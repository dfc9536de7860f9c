package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
	"gigmap/internal/geo"
	"gigmap/internal/metrics"
)

// TileQuerier answers id-only queries for a single geocell bounded by a
// date range.
type TileQuerier interface {
	TileEvents(ctx context.Context, cell string, dateRange calendar.DateRange) ([]entities.EventSummary, error)
}

// Enricher resolves a deduplicated id list into full event records.
type Enricher interface {
	EventsByIDs(ctx context.Context, ids []string) ([]entities.EventRecord, error)
}

// Phase is the pipeline state for one viewport. The two-phase tile→enrich
// pipeline is an explicit state machine rather than an implicit promise
// chain, so the current tri-state (loading/data/error) can always be read
// off directly.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseTiling         Phase = "tiling"
	PhaseDeduped        Phase = "deduped"
	PhaseEnriching      Phase = "enriching"
	PhaseReady          Phase = "ready"
	PhasePartiallyReady Phase = "partially_ready"
	PhaseErrored        Phase = "errored"
)

// DiscoveryResult is the outcome of one discovery run.
type DiscoveryResult struct {
	Viewport    entities.Viewport      `json:"viewport"`
	Events      []entities.EventRecord `json:"events"`
	FailedCells []string               `json:"failed_cells,omitempty"`
}

// Degraded reports whether some tile queries failed and the result covers
// only the tiles that succeeded.
func (r *DiscoveryResult) Degraded() bool {
	return len(r.FailedCells) > 0
}

// Snapshot is the externally visible tri-state of the pipeline.
type Snapshot struct {
	Phase  Phase
	Result *DiscoveryResult
	Err    error
}

// Loading reports whether a run is still in flight.
func (s Snapshot) Loading() bool {
	switch s.Phase {
	case PhaseTiling, PhaseDeduped, PhaseEnriching:
		return true
	}
	return false
}

// DiscoveryService runs the viewport discovery pipeline: cover the center
// with 9 geocells, query all 9 concurrently, merge and deduplicate the ids,
// then enrich them in one batch.
//
// Every run is tagged with the viewport it was issued for. When a run
// resolves, its results are applied only if that viewport is still current
// (last-viewport-wins); stale results are discarded, not merged. The
// service therefore guarantees eventual correctness across overlapping
// viewport changes, not global consistency.
type DiscoveryService struct {
	precision int
	tiles     TileQuerier
	enricher  Enricher
	log       zerolog.Logger

	mu       sync.Mutex
	token    string
	viewport entities.Viewport
	phase    Phase
	result   *DiscoveryResult
	lastErr  error
}

// NewDiscoveryService creates the pipeline with the given geohash precision
// and backend clients.
func NewDiscoveryService(precision int, tiles TileQuerier, enricher Enricher, log zerolog.Logger) *DiscoveryService {
	return &DiscoveryService{
		precision: precision,
		tiles:     tiles,
		enricher:  enricher,
		log:       log,
		phase:     PhaseIdle,
	}
}

// Snapshot returns the current pipeline state.
func (s *DiscoveryService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Phase: s.phase, Result: s.result, Err: s.lastErr}
}

// tileOutcome is the per-cell result variant: ids or an error, never both.
// Capturing failures per slot is what keeps one failing tile from voiding
// the other eight.
type tileOutcome struct {
	cell      string
	summaries []entities.EventSummary
	err       error
}

// Discover runs the pipeline for a viewport and date range.
//
// Returns, in order of precedence:
//   - (nil, ValidationError) for malformed input;
//   - (nil, ErrAllTilesFailed-wrapped) when every tile query failed;
//   - (nil, enrichment error) when the batch lookup failed;
//   - (nil, ErrStaleViewport) when the viewport was superseded mid-flight;
//   - (result, *PartialFailure) when some tiles failed: the result is
//     usable and the error is a recoverable signal, not a replacement;
//   - (result, nil) on full success.
func (s *DiscoveryService) Discover(ctx context.Context, viewport entities.Viewport, dateRange calendar.DateRange) (*DiscoveryResult, error) {
	if !viewport.Center.Valid() {
		return nil, &entities.ValidationError{Field: "viewport", Reason: "coordinates out of range"}
	}
	if !dateRange.Valid() {
		return nil, &entities.ValidationError{Field: "dateRange", Reason: "start after end"}
	}

	token := s.begin(viewport)
	cells := geo.Cover(viewport.Center.Latitude, viewport.Center.Longitude, s.precision)

	// Fan-out: all 9 tile queries issued together. Fan-in always resolves;
	// dedupe does not start until every query has settled, and enrichment
	// never overlaps the tiling phase.
	outcomes := s.queryTiles(ctx, cells, dateRange)

	var failedCells []string
	var tileErrs []error
	for _, o := range outcomes {
		if o.err != nil {
			failedCells = append(failedCells, o.cell)
			tileErrs = append(tileErrs, o.err)
		}
	}

	if len(failedCells) == len(cells) {
		err := fmt.Errorf("%w: %w", entities.ErrAllTilesFailed, errors.Join(tileErrs...))
		s.finish(token, nil, err, PhaseErrored)
		metrics.DiscoveryRuns.WithLabelValues("errored").Inc()
		return nil, err
	}

	ids := mergeIDs(outcomes)
	s.transition(token, PhaseDeduped)
	s.log.Debug().
		Int("cells", len(cells)).
		Int("failed_cells", len(failedCells)).
		Int("unique_ids", len(ids)).
		Msg("tile results merged")

	s.transition(token, PhaseEnriching)
	events, err := s.enricher.EventsByIDs(ctx, ids)
	if err != nil {
		s.finish(token, nil, err, PhaseErrored)
		metrics.DiscoveryRuns.WithLabelValues("errored").Inc()
		return nil, fmt.Errorf("enriching %d events: %w", len(ids), err)
	}

	result := &DiscoveryResult{
		Viewport:    viewport,
		Events:      events,
		FailedCells: failedCells,
	}

	var runErr error
	phase := PhaseReady
	outcome := "ready"
	if len(failedCells) > 0 {
		runErr = &entities.PartialFailure{FailedCells: failedCells, Errs: tileErrs}
		phase = PhasePartiallyReady
		outcome = "partial"
	}

	if !s.finish(token, result, runErr, phase) {
		metrics.DiscoveryRuns.WithLabelValues("stale").Inc()
		return nil, entities.ErrStaleViewport
	}
	metrics.DiscoveryRuns.WithLabelValues(outcome).Inc()

	return result, runErr
}

// queryTiles issues one query per cell concurrently and waits for all of
// them. Each slot captures its own error so the fan-in never rejects.
func (s *DiscoveryService) queryTiles(ctx context.Context, cells []string, dateRange calendar.DateRange) []tileOutcome {
	outcomes := make([]tileOutcome, len(cells))

	var wg sync.WaitGroup
	for i, cell := range cells {
		wg.Add(1)
		go func(i int, cell string) {
			defer wg.Done()
			summaries, err := s.tiles.TileEvents(ctx, cell, dateRange)
			outcomes[i] = tileOutcome{cell: cell, summaries: summaries, err: err}
		}(i, cell)
	}
	wg.Wait()

	return outcomes
}

// mergeIDs deduplicates tile results into a flat id list. First occurrence
// wins; within one tile the source order is preserved. Failed tiles
// contribute nothing. |output| <= sum of |per-tile inputs| by construction.
func mergeIDs(outcomes []tileOutcome) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		for _, summary := range o.summaries {
			if _, dup := seen[summary.ID]; dup {
				continue
			}
			seen[summary.ID] = struct{}{}
			ids = append(ids, summary.ID)
		}
	}
	return ids
}

// begin records a new current viewport and returns the run token tied to it.
func (s *DiscoveryService) begin(viewport entities.Viewport) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = uuid.NewString()
	s.viewport = viewport
	s.phase = PhaseTiling
	s.result = nil
	s.lastErr = nil
	return s.token
}

// transition advances the phase if the run still owns the viewport.
func (s *DiscoveryService) transition(token string, phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.token {
		s.phase = phase
	}
}

// finish applies a run's outcome if its viewport is still current. Returns
// false when the run has been superseded.
func (s *DiscoveryService) finish(token string, result *DiscoveryResult, err error, phase Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		return false
	}
	s.phase = phase
	s.result = result
	s.lastErr = err
	return true
}
