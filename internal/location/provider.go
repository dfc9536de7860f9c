// Package location abstracts the optional device location provider.
package location

import (
	"context"
	"errors"

	"gigmap/internal/domain/entities"
)

// ErrUnavailable is reported when the device location cannot be obtained,
// whether denied by the user or simply not present.
var ErrUnavailable = errors.New("device location unavailable")

// Provider yields the device's current position.
type Provider interface {
	Current(ctx context.Context) (entities.LatLng, error)
}

// Static always reports a fixed position.
type Static struct {
	Position entities.LatLng
}

func (s Static) Current(context.Context) (entities.LatLng, error) {
	return s.Position, nil
}

// Denied models a provider whose permission was refused.
type Denied struct{}

func (Denied) Current(context.Context) (entities.LatLng, error) {
	return entities.LatLng{}, ErrUnavailable
}

// Resolve returns the provider's position, falling back to the given
// default center on denial or unavailability rather than blocking. A nil
// provider resolves to the fallback immediately.
func Resolve(ctx context.Context, p Provider, fallback entities.LatLng) entities.LatLng {
	if p == nil {
		return fallback
	}
	pos, err := p.Current(ctx)
	if err != nil || !pos.Valid() {
		return fallback
	}
	return pos
}
