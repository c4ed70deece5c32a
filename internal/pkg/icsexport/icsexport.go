// Package icsexport writes events as an iCalendar stream.
package icsexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	ics "github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

const productID = "-//calendar-engine//calendar-engine//EN"

// Encode writes events to w. stamp is used for DTSTAMP of every event,
// days of all-day events are taken in loc.
func Encode(w io.Writer, events []*model.Event, stamp time.Time, loc *time.Location) error {
	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, productID)

	for _, e := range events {
		comp, err := eventComponent(e, stamp, loc)
		if err != nil {
			return fmt.Errorf("event %v: %w", e.ID, err)
		}
		cal.Children = append(cal.Children, comp)
	}

	if err := ics.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ICS: %w", err)
	}

	return nil
}

func eventComponent(e *model.Event, stamp time.Time, loc *time.Location) (*ics.Component, error) {
	comp := ics.NewComponent(ics.CompEvent)

	comp.Props.SetText(ics.PropUID, e.ID)
	comp.Props.SetText(ics.PropSummary, e.Title)
	comp.Props.SetDateTime(ics.PropDateTimeStamp, stamp.UTC())

	if e.Notes != "" {
		comp.Props.SetText(ics.PropDescription, e.Notes)
	}
	if e.Location != "" {
		comp.Props.SetText(ics.PropLocation, e.Location)
	}
	if e.URL != "" {
		comp.Props.SetText(ics.PropURL, e.URL)
	}
	if e.CalendarTitle != "" {
		comp.Props.SetText(ics.PropCategories, e.CalendarTitle)
	}

	if e.AllDay {
		// All-day events end at 23:59:59, DTEND of a date is exclusive.
		comp.Props.SetDate(ics.PropDateTimeStart, e.Start.In(loc))
		comp.Props.SetDate(ics.PropDateTimeEnd, e.End.Add(time.Second).In(loc))
	} else {
		comp.Props.SetDateTime(ics.PropDateTimeStart, e.Start.UTC())
		comp.Props.SetDateTime(ics.PropDateTimeEnd, e.End.UTC())
	}

	if status, ok := statusValue(e.Status); ok {
		comp.Props.SetText(ics.PropStatus, status)
	}
	if e.Availability == model.AvailabilityFree {
		comp.Props.SetText(ics.PropTransparency, "TRANSPARENT")
	}

	for _, r := range e.RecurrenceRules {
		opt, err := rrule.StrToROption(r)
		if err != nil {
			continue
		}
		p := ics.NewProp(ics.PropRecurrenceRule)
		p.Value = opt.RRuleString()
		comp.Props.Add(p)
	}

	for _, a := range e.Alarms {
		alarm, err := alarmComponent(a, e.Title)
		if err != nil {
			return nil, err
		}
		comp.Children = append(comp.Children, alarm)
	}

	return comp, nil
}

func statusValue(s model.EventStatus) (string, bool) {
	switch s {
	case model.EventStatusConfirmed:
		return "CONFIRMED", true
	case model.EventStatusTentative:
		return "TENTATIVE", true
	case model.EventStatusCanceled:
		return "CANCELLED", true
	default:
		return "", false
	}
}

func alarmComponent(a model.Alarm, title string) (*ics.Component, error) {
	comp := ics.NewComponent(ics.CompAlarm)
	comp.Props.SetText(ics.PropDescription, title)

	trigger := ics.NewProp(ics.PropTrigger)

	switch alarm := a.(type) {
	case model.RelativeAlarm:
		trigger.Value = formatOffset(alarm.OffsetSeconds)

	case model.AbsoluteAlarm:
		trigger.SetDateTime(alarm.At.UTC())
		trigger.Params.Set(ics.ParamValue, string(ics.ValueDateTime))

	case model.ProximityAlarm:
		trigger.Value = formatOffset(0)

		proximity := "ARRIVE"
		if alarm.Trigger == model.ProximityLeave {
			proximity = "DEPART"
		}
		comp.Props.SetText("X-APPLE-PROXIMITY", proximity)

		loc := ics.NewProp("X-APPLE-STRUCTURED-LOCATION")
		loc.Params.Set(ics.ParamValue, "URI")
		loc.Params.Set("X-TITLE", alarm.Title)
		loc.Params.Set("X-APPLE-RADIUS", strconv.FormatFloat(alarm.RadiusMeters, 'f', -1, 64))
		loc.Value = fmt.Sprintf("geo:%s,%s",
			strconv.FormatFloat(alarm.Latitude, 'f', -1, 64),
			strconv.FormatFloat(alarm.Longitude, 'f', -1, 64),
		)
		comp.Props.Set(loc)

	default:
		return nil, fmt.Errorf("unknown alarm %T", a)
	}

	comp.Props.Set(trigger)

	opts := a.Options()
	switch {
	case opts.NotifyEmail != "":
		comp.Props.SetText(ics.PropAction, "EMAIL")
		comp.Props.SetText(ics.PropSummary, title)
		attendee := ics.NewProp(ics.PropAttendee)
		attendee.Value = "mailto:" + opts.NotifyEmail
		comp.Props.Set(attendee)
	case opts.Sound != nil:
		comp.Props.SetText(ics.PropAction, "AUDIO")
		attach := ics.NewProp(ics.PropAttach)
		attach.Params.Set(ics.ParamValue, "URI")
		attach.Value = string(*opts.Sound)
		comp.Props.Set(attach)
	default:
		comp.Props.SetText(ics.PropAction, "DISPLAY")
	}

	return comp, nil
}

// formatOffset renders seconds as an iCalendar duration, e.g. -PT15M.
func formatOffset(seconds int) string {
	var b strings.Builder
	if seconds < 0 {
		b.WriteByte('-')
		seconds = -seconds
	}
	b.WriteByte('P')

	days := seconds / 86400
	seconds %= 86400
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}

	if seconds == 0 && days > 0 {
		return b.String()
	}

	b.WriteByte('T')
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 || (h == 0 && m == 0) {
		fmt.Fprintf(&b, "%dS", s)
	}

	return b.String()
}
