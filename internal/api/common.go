package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
)

const dateTimeFormat = time.RFC3339

type calendarResp struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source,omitempty"`
	Color      string `json:"color,omitempty"`
	ColorName  string `json:"color_name,omitempty"`
	Editable   bool   `json:"editable"`
	Subscribed bool   `json:"subscribed"`
	Default    bool   `json:"default"`
}

func mapToCalendarResp(c *model.Calendar) (*calendarResp, error) {
	return &calendarResp{
		ID:         c.ID,
		Title:      c.Title,
		Source:     c.SourceTitle,
		Color:      c.Color,
		ColorName:  c.ColorName,
		Editable:   c.Editable,
		Subscribed: c.Subscribed,
		Default:    c.Default,
	}, nil
}

type alarmResp struct {
	Type          string   `json:"type"`
	OffsetSeconds *int     `json:"offset_seconds,omitempty"`
	DateTime      string   `json:"date_time,omitempty"`
	Title         string   `json:"title,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Radius        *float64 `json:"radius,omitempty"`
	Proximity     string   `json:"proximity,omitempty"`
	Sound         string   `json:"sound,omitempty"`
	Email         string   `json:"email,omitempty"`
}

type eventResp struct {
	ID              string       `json:"id"`
	CalendarID      int64        `json:"calendar_id"`
	Calendar        string       `json:"calendar"`
	Title           string       `json:"title"`
	Location        string       `json:"location,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	URL             string       `json:"url,omitempty"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
	AllDay          bool         `json:"all_day"`
	Status          string       `json:"status"`
	Availability    string       `json:"availability"`
	RecurrenceRules []string     `json:"recurrence_rules,omitempty"`
	Alarms          []*alarmResp `json:"alarms"`
}

func (a *Api) mapToEventResp(e *model.Event) (*eventResp, error) {
	alarms, err := mapSlice(e.Alarms, a.mapToAlarmResp)
	if err != nil {
		return nil, err
	}

	return &eventResp{
		ID:              e.ID,
		CalendarID:      e.CalendarID,
		Calendar:        e.CalendarTitle,
		Title:           e.Title,
		Location:        e.Location,
		Notes:           e.Notes,
		URL:             e.URL,
		Start:           e.Start.In(a.loc).Format(dateTimeFormat),
		End:             e.End.In(a.loc).Format(dateTimeFormat),
		AllDay:          e.AllDay,
		Status:          e.Status.String(),
		Availability:    e.Availability.String(),
		RecurrenceRules: e.RecurrenceRules,
		Alarms:          alarms,
	}, nil
}

func (a *Api) mapToAlarmResp(alarm model.Alarm) (*alarmResp, error) {
	opts := alarm.Options()
	resp := &alarmResp{
		Type:  string(alarm.Kind()),
		Email: opts.NotifyEmail,
	}
	if opts.Sound != nil {
		resp.Sound = string(*opts.Sound)
	}

	switch al := alarm.(type) {
	case model.RelativeAlarm:
		resp.OffsetSeconds = &al.OffsetSeconds
	case model.AbsoluteAlarm:
		resp.DateTime = al.At.In(a.loc).Format(dateTimeFormat)
	case model.ProximityAlarm:
		resp.Title = al.Title
		resp.Latitude = &al.Latitude
		resp.Longitude = &al.Longitude
		resp.Radius = &al.RadiusMeters
		resp.Proximity = al.Trigger.String()
	default:
		return nil, fmt.Errorf("unknown alarm %T", alarm)
	}

	return resp, nil
}

type alarmReq struct {
	Type      string   `json:"type"`
	Minutes   *int     `json:"minutes"`
	DateTime  string   `json:"date_time"`
	Title     string   `json:"title"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius"`
	Proximity string   `json:"proximity"`
	Sound     string   `json:"sound"`
	Email     string   `json:"email"`
}

func mapToAlarmInput(r *alarmReq) (model.AlarmInput, error) {
	if r == nil {
		return model.AlarmInput{}, errors.New("alarms must not contain null")
	}

	return model.AlarmInput{
		Type:      r.Type,
		Minutes:   r.Minutes,
		DateTime:  r.DateTime,
		Title:     r.Title,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Radius:    r.Radius,
		Proximity: r.Proximity,
		Sound:     r.Sound,
		Email:     r.Email,
	}, nil
}
