package temporal

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("end must be after start")

// DefaultSpan is the query length used when neither end nor a date-only
// start is given.
const DefaultSpan = 7

// Range is a half-open [Start, End) interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// StartOfDay returns the first instant of the calendar day t falls on in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return dayStart(l.Year(), l.Month(), l.Day(), loc)
}

// nextDayStart returns the first instant of the day after the one t falls on in loc.
func nextDayStart(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return dayStart(l.Year(), l.Month(), l.Day()+1, loc)
}

// dayStart returns local midnight of the given day, or the first instant
// after it when a DST jump skips midnight. Out of range days are normalized
// like time.Date does.
func dayStart(year int, month time.Month, day int, loc *time.Location) time.Time {
	want := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)

	for i := 0; i < 3 && !sameDay(t.In(loc), want); i++ {
		_, end := t.ZoneBounds()
		if end.IsZero() || !end.After(t) {
			break
		}
		t = end
	}

	return t
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EndOfDay returns 23:59:59 of the calendar day t falls on in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, 0, loc)
}

// NormalizeQueryRange builds the search range from optional bounds.
//
// A missing start means now. A date-only start is moved to local midnight.
// A missing end is one day after a date-only start, or DefaultSpan days after
// any other start. A date-only end covers its whole day, so it is moved to
// midnight of the following day.
func NormalizeQueryRange(start, end *Parsed, now time.Time, loc *time.Location) (Range, error) {
	var r Range

	startDateOnly := false
	switch {
	case start == nil:
		r.Start = now
	case start.DateOnly:
		r.Start = StartOfDay(start.Instant, loc)
		startDateOnly = true
	default:
		r.Start = start.Instant
	}

	switch {
	case end == nil && startDateOnly:
		r.End = nextDayStart(r.Start, loc)
	case end == nil:
		r.End = r.Start.In(loc).AddDate(0, 0, DefaultSpan)
	case end.DateOnly:
		r.End = nextDayStart(end.Instant, loc)
	default:
		r.End = end.Instant
	}

	if !r.End.After(r.Start) {
		return Range{}, ErrInvalidRange
	}

	return r, nil
}

// NormalizeAllDaySpan returns 00:00:00 of the start day and 23:59:59 of the
// end day, ignoring any time of day on the inputs.
func NormalizeAllDaySpan(start, end Parsed, loc *time.Location) (time.Time, time.Time, error) {
	from := StartOfDay(start.Instant, loc)
	to := EndOfDay(end.Instant, loc)

	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}

	return from, to, nil
}
