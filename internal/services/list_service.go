package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gigmap/internal/calendar"
	"gigmap/internal/domain/entities"
	"gigmap/internal/geo"
)

// BroadLister fetches the full event list for a date window with no spatial
// filter.
type BroadLister interface {
	EventsByRange(ctx context.Context, dateRange calendar.DateRange) ([]entities.EventRecord, error)
}

// ListService backs the non-map list view. It fetches broadly by date range
// and narrows the set client-side with the distance filter, trading spatial
// precision for completeness.
type ListService struct {
	lister BroadLister
	log    zerolog.Logger
}

func NewListService(lister BroadLister, log zerolog.Logger) *ListService {
	return &ListService{
		lister: lister,
		log:    log,
	}
}

// Upcoming returns the events matching a named date filter, optionally
// narrowed to a radius around a center. A nil center skips distance
// filtering entirely (the identity branch of geo.FilterByRadius).
func (s *ListService) Upcoming(ctx context.Context, filter calendar.Filter, base time.Time, center *entities.LatLng, radiusMiles float64) ([]entities.EventRecord, error) {
	dateRange, err := calendar.Range(filter, base)
	if err != nil {
		return nil, err
	}

	events, err := s.lister.EventsByRange(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("listing events for %s: %w", filter, err)
	}

	filtered, err := geo.FilterByRadius(events, center, radiusMiles)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("filter", string(filter)).
		Int("fetched", len(events)).
		Int("within_radius", len(filtered)).
		Msg("list view resolved")

	return filtered, nil
}
