package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout marks a network call that hit its deadline. It is distinct
// from other transport failures so callers can tell "slow backend" apart
// from "broken backend". A timed-out call always resolves; callers are
// never left waiting.
var ErrTimeout = errors.New("request timed out")

// ErrAllTilesFailed is returned when every tile query of a discovery run
// failed. A subset failing is a PartialFailure instead.
var ErrAllTilesFailed = errors.New("all tile queries failed")

// ErrStaleViewport is returned when a discovery run resolves after its
// viewport has been superseded. Stale results are discarded, not merged.
var ErrStaleViewport = errors.New("viewport superseded while query was in flight")

// ValidationError reports a contractual violation passed to a pure
// function: NaN coordinates, an inverted date range, and so on. These are
// caller bugs and are surfaced immediately rather than silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PartialFailure reports that some, but not all, of the tile queries in a
// discovery run failed. The run still produced a usable result from the
// tiles that succeeded; this error travels alongside it as a recoverable
// signal, never instead of it.
type PartialFailure struct {
	FailedCells []string
	Errs        []error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%d tile queries failed (cells %s): %v",
		len(e.FailedCells), strings.Join(e.FailedCells, ","), errors.Join(e.Errs...))
}

func (e *PartialFailure) Unwrap() []error { return e.Errs }
