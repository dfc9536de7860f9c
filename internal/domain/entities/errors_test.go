package entities

import (
	"errors"
	"math"
	"testing"
)

func TestLatLngValid(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"Birmingham", 52.4797, -1.9026, true},
		{"Poles and antimeridian", 90, 180, true},
		{"Negative extremes", -90, -180, true},
		{"Latitude too high", 90.1, 0, false},
		{"Longitude too low", 0, -180.1, false},
		{"NaN latitude", math.NaN(), 0, false},
		{"NaN longitude", 0, math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLatLng(tt.lat, tt.lng).Valid(); got != tt.want {
				t.Errorf("Valid(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestViewportEqual(t *testing.T) {
	a := Viewport{Center: NewLatLng(52.48, -1.90)}
	b := Viewport{Center: NewLatLng(52.48, -1.90)}
	c := Viewport{Center: NewLatLng(51.51, -0.13)}

	if !a.Equal(b) {
		t.Error("viewports with the same center must be equal")
	}
	if a.Equal(c) {
		t.Error("viewports with different centers must not be equal")
	}
}

func TestPartialFailureUnwrap(t *testing.T) {
	inner := errors.New("tile backend down")
	pf := &PartialFailure{
		FailedCells: []string{"gcqdsc8", "gcqdsc9"},
		Errs:        []error{inner, ErrTimeout},
	}

	if !errors.Is(pf, inner) {
		t.Error("PartialFailure must unwrap to its per-tile errors")
	}
	if !errors.Is(pf, ErrTimeout) {
		t.Error("PartialFailure must surface a wrapped timeout")
	}

	var target *PartialFailure
	wrapped := error(pf)
	if !errors.As(wrapped, &target) {
		t.Error("errors.As must recover the PartialFailure")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "radius", Reason: "must be non-negative"}
	want := "invalid radius: must be non-negative"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
