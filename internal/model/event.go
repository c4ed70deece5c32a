package model

import (
	"fmt"
	"strings"
	"time"
)

type EventStatus int

const (
	EventStatusNone EventStatus = iota
	EventStatusConfirmed
	EventStatusTentative
	EventStatusCanceled
)

var eventStatusNames = map[EventStatus]string{
	EventStatusNone:      "none",
	EventStatusConfirmed: "confirmed",
	EventStatusTentative: "tentative",
	EventStatusCanceled:  "canceled",
}

func (s EventStatus) String() string {
	if name, ok := eventStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("EventStatus(%d)", int(s))
}

func ParseEventStatus(s string) (EventStatus, error) {
	for status, name := range eventStatusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown event status %q", s)
}

type Availability int

const (
	AvailabilityNotSupported Availability = iota
	AvailabilityBusy
	AvailabilityFree
	AvailabilityTentative
	AvailabilityUnavailable
)

var availabilityNames = map[Availability]string{
	AvailabilityNotSupported: "not_supported",
	AvailabilityBusy:         "busy",
	AvailabilityFree:         "free",
	AvailabilityTentative:    "tentative",
	AvailabilityUnavailable:  "unavailable",
}

func (a Availability) String() string {
	if name, ok := availabilityNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Availability(%d)", int(a))
}

func ParseAvailability(s string) (Availability, error) {
	for availability, name := range availabilityNames {
		if strings.EqualFold(name, s) {
			return availability, nil
		}
	}
	return 0, fmt.Errorf("unknown availability %q", s)
}

// Event is a stored calendar event as returned by the store.
type Event struct {
	ID              string
	CalendarID      int64
	CalendarTitle   string
	Title           string
	Location        string
	Notes           string
	URL             string
	Start           time.Time
	End             time.Time
	AllDay          bool
	Status          EventStatus
	Availability    Availability
	Alarms          []Alarm
	RecurrenceRules []string
}

func (e *Event) HasAlarms() bool {
	return len(e.Alarms) > 0
}

func (e *Event) IsRecurring() bool {
	return len(e.RecurrenceRules) > 0
}

// EventFilterCriteria holds the in-memory predicates applied after the store
// query. Nil fields do not restrict the result.
type EventFilterCriteria struct {
	Calendars     []string
	Query         *string
	Status        *EventStatus
	Availability  *Availability
	HasAlarms     *bool
	IsRecurring   *bool
	IncludeAllDay *bool
}

// EventsQuery is a search request with raw, unparsed bounds.
type EventsQuery struct {
	Start    string
	End      string
	Criteria EventFilterCriteria
}

// EventsFilter is the store level restriction.
type EventsFilter struct {
	From        time.Time
	To          time.Time
	CalendarIDs []int64
}

// EventDraftInput is an event creation request as received from a client.
type EventDraftInput struct {
	Title        string
	Start        string
	End          string
	IsAllDay     bool
	Calendar     string
	Location     string
	Notes        string
	URL          string
	Availability *Availability
	Alarms       []AlarmInput
}

// EventDraft is a fully validated event ready to be saved.
type EventDraft struct {
	Title        string
	Start        time.Time
	End          time.Time
	AllDay       bool
	Calendar     *Calendar
	Location     string
	Notes        string
	URL          string
	Availability Availability
	Alarms       []Alarm
}
