package calendar

import (
	"errors"
	"testing"
	"time"

	"gigmap/internal/domain/entities"
)

// The anchor week runs Monday 2025-06-02 through Sunday 2025-06-08.
func date(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func TestParseFilter(t *testing.T) {
	for _, s := range []string{"today", "thisWeek", "thisWeekend", "nextWeek", "nextWeekend"} {
		if _, err := ParseFilter(s); err != nil {
			t.Errorf("ParseFilter(%q) error = %v", s, err)
		}
	}

	_, err := ParseFilter("someday")
	var ve *entities.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("ParseFilter(someday) error = %v, want a ValidationError", err)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		base      time.Time
		wantStart time.Time
		wantEnd   time.Time // end day; the time is checked separately
	}{
		{
			name:      "Today midweek",
			filter:    FilterToday,
			base:      date(4), // Wednesday
			wantStart: date(4),
			wantEnd:   date(4),
		},
		{
			name:      "This week midweek runs through Sunday",
			filter:    FilterThisWeek,
			base:      date(4), // Wednesday
			wantStart: date(4),
			wantEnd:   date(8),
		},
		{
			name:      "This week on a Sunday collapses to one day",
			filter:    FilterThisWeek,
			base:      date(8), // Sunday
			wantStart: date(8),
			wantEnd:   date(8),
		},
		{
			name:      "This weekend from a Monday starts Friday",
			filter:    FilterThisWeekend,
			base:      date(2), // Monday
			wantStart: date(6), // Friday
			wantEnd:   date(8),
		},
		{
			name:      "This weekend from a Thursday starts Friday",
			filter:    FilterThisWeekend,
			base:      date(5), // Thursday
			wantStart: date(6),
			wantEnd:   date(8),
		},
		{
			name:      "This weekend already underway starts today",
			filter:    FilterThisWeekend,
			base:      date(7), // Saturday
			wantStart: date(7),
			wantEnd:   date(8),
		},
		{
			name:      "This weekend on a Sunday is just Sunday",
			filter:    FilterThisWeekend,
			base:      date(8), // Sunday
			wantStart: date(8),
			wantEnd:   date(8),
		},
		{
			name:      "Next week from a Monday",
			filter:    FilterNextWeek,
			base:      date(2),  // Monday
			wantStart: date(9),  // next Monday
			wantEnd:   date(15), // next Sunday
		},
		{
			name:      "Next week midweek lands on the same Monday",
			filter:    FilterNextWeek,
			base:      date(4), // Wednesday
			wantStart: date(9),
			wantEnd:   date(15),
		},
		{
			name:      "Next week from a Sunday starts tomorrow",
			filter:    FilterNextWeek,
			base:      date(8), // Sunday
			wantStart: date(9),
			wantEnd:   date(15),
		},
		{
			name:      "Next weekend from a Monday",
			filter:    FilterNextWeekend,
			base:      date(2),  // Monday
			wantStart: date(13), // Friday after this coming one
			wantEnd:   date(15),
		},
		{
			name:      "Next weekend from a Saturday skips the current weekend",
			filter:    FilterNextWeekend,
			base:      date(7), // Saturday
			wantStart: date(13),
			wantEnd:   date(15),
		},
		{
			name:      "Next weekend from a Sunday skips the current weekend",
			filter:    FilterNextWeekend,
			base:      date(8), // Sunday
			wantStart: date(13),
			wantEnd:   date(15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Range(tt.filter, tt.base)
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if !got.Valid() {
				t.Errorf("Range() produced an invalid range: %+v", got)
			}
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			wantEnd := time.Date(tt.wantEnd.Year(), tt.wantEnd.Month(), tt.wantEnd.Day(),
				23, 59, 59, int(999*time.Millisecond), time.UTC)
			if !got.End.Equal(wantEnd) {
				t.Errorf("End = %v, want %v", got.End, wantEnd)
			}
		})
	}
}

func TestRangeIgnoresTimeOfDay(t *testing.T) {
	midnight := date(4)
	evening := time.Date(2025, time.June, 4, 18, 30, 12, 0, time.UTC)

	for _, f := range []Filter{FilterToday, FilterThisWeek, FilterThisWeekend, FilterNextWeek, FilterNextWeekend} {
		a, err := Range(f, midnight)
		if err != nil {
			t.Fatalf("Range(%v) error = %v", f, err)
		}
		b, err := Range(f, evening)
		if err != nil {
			t.Fatalf("Range(%v) error = %v", f, err)
		}
		if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
			t.Errorf("filter %v: time of day shifted the window: %+v vs %+v", f, a, b)
		}
	}
}

func TestRangeIdempotent(t *testing.T) {
	base := date(6) // Friday
	for _, f := range []Filter{FilterToday, FilterThisWeek, FilterThisWeekend, FilterNextWeek, FilterNextWeekend} {
		a, _ := Range(f, base)
		b, _ := Range(f, base)
		if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
			t.Errorf("filter %v not idempotent: %+v vs %+v", f, a, b)
		}
	}
}

func TestRangeUnknownFilter(t *testing.T) {
	_, err := Range(Filter("fortnight"), date(4))
	var ve *entities.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("Range(fortnight) error = %v, want a ValidationError", err)
	}
}
