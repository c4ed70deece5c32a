package events

import (
	"fmt"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/jackc/pgtype"
	"github.com/teambition/rrule-go"
)

type eventDTO struct {
	ID              string
	CalendarID      int64
	CalendarTitle   string
	Title           string
	Location        string
	Notes           string
	URL             string `db:"url"`
	StartDate       time.Time
	EndDate         time.Time
	AllDay          bool
	Status          int
	Availability    int
	RecurrenceRules []string
}

func mapToEvent(dto *eventDTO) *model.Event {
	return &model.Event{
		ID:              dto.ID,
		CalendarID:      dto.CalendarID,
		CalendarTitle:   dto.CalendarTitle,
		Title:           dto.Title,
		Location:        dto.Location,
		Notes:           dto.Notes,
		URL:             dto.URL,
		Start:           dto.StartDate,
		End:             dto.EndDate,
		AllDay:          dto.AllDay,
		Status:          model.EventStatus(dto.Status),
		Availability:    model.Availability(dto.Availability),
		RecurrenceRules: validRules(dto.RecurrenceRules),
	}
}

// validRules drops rules that do not parse, so only real recurrences make an
// event recurring.
func validRules(rules []string) []string {
	var res []string
	for _, r := range rules {
		if _, err := rrule.StrToROption(r); err == nil {
			res = append(res, r)
		}
	}
	return res
}

type alarmDTO struct {
	EventID       string
	Kind          string
	OffsetSeconds *int
	FireAt        *time.Time
	Proximity     pgtype.JSONB
	Sound         *string
	Email         *string
}

type proximityDTO struct {
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	Leave     bool    `json:"leave,omitempty"`
}

func mapToAlarm(dto *alarmDTO) (model.Alarm, error) {
	opts := model.AlarmOptions{}
	if dto.Sound != nil {
		if sound, ok := model.LookupSound(*dto.Sound); ok {
			opts.Sound = &sound
		}
	}
	if dto.Email != nil {
		opts.NotifyEmail = *dto.Email
	}

	switch model.AlarmKind(dto.Kind) {
	case model.AlarmKindRelative:
		if dto.OffsetSeconds == nil {
			return nil, fmt.Errorf("relative alarm without offset")
		}
		return model.RelativeAlarm{OffsetSeconds: *dto.OffsetSeconds, AlarmOptions: opts}, nil

	case model.AlarmKindAbsolute:
		if dto.FireAt == nil {
			return nil, fmt.Errorf("absolute alarm without time")
		}
		return model.AbsoluteAlarm{At: *dto.FireAt, AlarmOptions: opts}, nil

	case model.AlarmKindProximity:
		var p proximityDTO
		if err := dto.Proximity.AssignTo(&p); err != nil {
			return nil, fmt.Errorf("proximity: %w", err)
		}

		trigger := model.ProximityEnter
		if p.Leave {
			trigger = model.ProximityLeave
		}

		return model.ProximityAlarm{
			Title:        p.Title,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			RadiusMeters: p.Radius,
			Trigger:      trigger,
			AlarmOptions: opts,
		}, nil

	default:
		return nil, fmt.Errorf("unknown alarm kind %q", dto.Kind)
	}
}

// alarmRow holds the insert values for one alarm in column order.
func alarmRow(eventID string, position int, alarm model.Alarm) ([]interface{}, error) {
	var (
		offset    *int
		fireAt    *time.Time
		proximity pgtype.JSONB
	)

	if err := proximity.Set(nil); err != nil {
		return nil, err
	}

	switch a := alarm.(type) {
	case model.RelativeAlarm:
		offset = &a.OffsetSeconds
	case model.AbsoluteAlarm:
		fireAt = &a.At
	case model.ProximityAlarm:
		if err := proximity.Set(&proximityDTO{
			Title:     a.Title,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Radius:    a.RadiusMeters,
			Leave:     a.Trigger == model.ProximityLeave,
		}); err != nil {
			return nil, fmt.Errorf("proximity: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown alarm %T", alarm)
	}

	opts := alarm.Options()

	var sound, email *string
	if opts.Sound != nil {
		s := string(*opts.Sound)
		sound = &s
	}
	if opts.NotifyEmail != "" {
		email = &opts.NotifyEmail
	}

	return []interface{}{eventID, position, string(alarm.Kind()), offset, fireAt, proximity, sound, email}, nil
}
