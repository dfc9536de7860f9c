package entities

// Viewport identifies what the map is currently looking at. Identity is
// structural: two viewports with the same center are the same viewport.
// The discovery pipeline tags every in-flight run with the viewport it was
// issued for and discards results whose viewport has since been superseded.
type Viewport struct {
	Center LatLng `json:"center"`
}

// Equal reports structural identity, used for the last-viewport-wins check.
func (v Viewport) Equal(other Viewport) bool {
	return v.Center == other.Center
}
