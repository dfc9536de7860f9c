// Package calendar centralizes the weekday arithmetic behind the named date
// filters (today, this week, this weekend, next week, next weekend).
//
// All five filters resolve through Range with an injectable base date, so
// weekday-boundary behavior (especially Sunday) is testable without touching
// the wall clock. Ranges are inclusive on both ends: the start is local
// midnight and the end is 23:59:59.999 local time.
package calendar

import (
	"time"

	"gigmap/internal/domain/entities"
)

// Filter names a date window relative to a base date.
type Filter string

const (
	FilterToday       Filter = "today"
	FilterThisWeek    Filter = "thisWeek"
	FilterThisWeekend Filter = "thisWeekend"
	FilterNextWeek    Filter = "nextWeek"
	FilterNextWeekend Filter = "nextWeekend"
)

// ParseFilter validates a filter name from an untrusted source.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterToday, FilterThisWeek, FilterThisWeekend, FilterNextWeek, FilterNextWeekend:
		return f, nil
	default:
		return "", &entities.ValidationError{Field: "filter", Reason: "unknown filter " + s}
	}
}

// DateRange is an inclusive date window. Start <= End always holds for
// ranges produced by Range.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Valid reports whether the range is well-formed (Start <= End).
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Range converts a named filter and a base date into an inclusive date
// range. A zero base date means "now". The base date is normalized to local
// midnight first, so the time-of-day of the input never shifts the window.
//
// Pure and idempotent: identical arguments always produce identical ranges.
func Range(filter Filter, base time.Time) (DateRange, error) {
	if base.IsZero() {
		base = time.Now()
	}
	day := startOfDay(base)
	wd := int(day.Weekday()) // Sunday = 0 ... Saturday = 6

	switch filter {
	case FilterToday:
		return DateRange{Start: day, End: endOfDay(day)}, nil

	case FilterThisWeek:
		// Today through the upcoming Sunday. On a Sunday the week has one
		// day left, so the range collapses to just today.
		sunday := day.AddDate(0, 0, daysUntilSunday(wd))
		return DateRange{Start: day, End: endOfDay(sunday)}, nil

	case FilterThisWeekend:
		// Upcoming Friday if the weekend hasn't started, otherwise today.
		// On a Sunday both ends land on today: [Sunday, Sunday].
		start := day
		if wd >= int(time.Monday) && wd <= int(time.Thursday) {
			start = day.AddDate(0, 0, int(time.Friday)-wd)
		}
		sunday := day.AddDate(0, 0, daysUntilSunday(wd))
		return DateRange{Start: start, End: endOfDay(sunday)}, nil

	case FilterNextWeek:
		// Next Monday through the following Sunday. (8 - wd) % 7 maps
		// Sunday to tomorrow's Monday; Monday itself maps to 0, which
		// means a full week out.
		days := (8 - wd) % 7
		if days == 0 {
			days = 7
		}
		monday := day.AddDate(0, 0, days)
		return DateRange{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}, nil

	case FilterNextWeekend:
		// The Friday of the current Fri-Sun block (projected backward on
		// Sat/Sun, forward on Mon-Thu) plus seven days, through Sunday.
		friday := currentFriday(day, wd)
		start := friday.AddDate(0, 0, 7)
		return DateRange{Start: start, End: endOfDay(start.AddDate(0, 0, 2))}, nil

	default:
		return DateRange{}, &entities.ValidationError{Field: "filter", Reason: "unknown filter " + string(filter)}
	}
}

// daysUntilSunday returns how many days from the given weekday to the next
// Sunday, with Sunday itself mapping to 0.
func daysUntilSunday(wd int) int {
	return (7 - wd) % 7
}

// currentFriday resolves the Friday anchoring the weekend that the given day
// belongs to (or leads into).
func currentFriday(day time.Time, wd int) time.Time {
	switch time.Weekday(wd) {
	case time.Friday:
		return day
	case time.Saturday:
		return day.AddDate(0, 0, -1)
	case time.Sunday:
		return day.AddDate(0, 0, -2)
	default:
		return day.AddDate(0, 0, int(time.Friday)-wd)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
