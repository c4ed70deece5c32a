// Package temporal parses loosely formatted date and date-time strings and
// normalizes them into concrete time ranges.
package temporal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrMalformed       = errors.New("malformed date or time")
	ErrAmbiguousFormat = errors.New("ambiguous or unsupported format")
)

// ParseError is returned for any input that can not be turned into an instant.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parsed is a parsed instant together with the date-only flag.
// If DateOnly is set, Instant is the first instant of that day in the parse
// location, which is midnight unless a DST jump skips it.
type Parsed struct {
	Instant  time.Time
	DateOnly bool
}

// zonedLayouts are tried first, in order. The lowercase "z" designator is
// upper-cased before these are tried.
var zonedLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
}

// naiveLayouts carry no zone and are read in the caller's location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

var spaceZonedLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05Z07",
}

var fallbackLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

var (
	dateOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// A bare hour offset only counts after a time of day, otherwise the day
	// of "2024-03-01" would read as a "-01" offset.
	zoneSuffixRe = regexp.MustCompile(`\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?\s*(?:[Zz]|[+-]\d{2}(?::?\d{2})?)$`)
	dateZoneRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s*(?:[Zz]|[+-]\d{2}:?\d{2})$`)
)

// IsDateOnly reports whether s is exactly YYYY-MM-DD.
func IsDateOnly(s string) bool {
	return dateOnlyRe.MatchString(s)
}

// Parse converts input into an instant. Strings without zone information are
// read in loc. Strings that carry a zone but do not match any strict layout
// are rejected rather than read as local time.
func Parse(input string, loc *time.Location) (Parsed, error) {
	if input == "" {
		return Parsed{}, &ParseError{Input: input, Err: fmt.Errorf("%w: empty input", ErrMalformed)}
	}

	if IsDateOnly(input) {
		d, err := time.Parse("2006-01-02", input)
		if err != nil {
			return Parsed{}, &ParseError{Input: input, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
		}
		return Parsed{Instant: dayStart(d.Year(), d.Month(), d.Day(), loc), DateOnly: true}, nil
	}

	instant, err := parseInstant(input, loc)
	if err != nil {
		return Parsed{}, err
	}

	return Parsed{Instant: instant}, nil
}

func parseInstant(input string, loc *time.Location) (time.Time, error) {
	zoned := input
	if strings.HasSuffix(zoned, "z") {
		zoned = zoned[:len(zoned)-1] + "Z"
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, zoned); err == nil {
			return t, nil
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	for _, layout := range spaceZonedLayouts {
		if t, err := time.Parse(layout, zoned); err == nil {
			return t, nil
		}
	}

	if zoneSuffixRe.MatchString(input) || dateZoneRe.MatchString(input) {
		return time.Time{}, &ParseError{Input: input, Err: ErrAmbiguousFormat}
	}

	var lastErr error
	for _, layout := range fallbackLayouts {
		t, err := time.ParseInLocation(layout, input, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, &ParseError{Input: input, Err: fmt.Errorf("%w: %v", ErrMalformed, lastErr)}
}
