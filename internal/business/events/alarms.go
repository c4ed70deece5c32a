package events

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/temporal"
)

const (
	defaultProximityRadius = 100.0
	defaultProximityTitle  = "Location"

	// offsets are stored as 32-bit seconds
	maxAlarmMinutes = math.MaxInt32 / 60
)

var (
	errUnknownAlarmType  = errors.New("unknown alarm type")
	errMissingMinutes    = errors.New("relative alarm needs minutes")
	errMinutesRange      = errors.New("relative alarm minutes out of range")
	errMissingDateTime   = errors.New("absolute alarm needs a date-time")
	errDateOnlyAlarm     = errors.New("absolute alarm needs a time of day")
	errMissingCoordinate = errors.New("proximity alarm needs latitude and longitude")
	errCoordinateRange   = errors.New("coordinates out of range")
)

// buildAlarms converts every entry it can. Invalid entries are logged and dropped.
func (b *Builder) buildAlarms(inputs []model.AlarmInput, eventLocation string) []model.Alarm {
	alarms := make([]model.Alarm, 0, len(inputs))
	for i, in := range inputs {
		alarm, err := b.buildAlarm(in, eventLocation)
		if err != nil {
			b.logger.Warnw("skipping alarm",
				"index", i,
				"type", in.Type,
				"error", err,
			)
			continue
		}
		alarms = append(alarms, alarm)
	}
	return alarms
}

func (b *Builder) buildAlarm(in model.AlarmInput, eventLocation string) (model.Alarm, error) {
	opts := b.alarmOptions(in)

	switch model.AlarmKind(strings.ToLower(in.Type)) {
	case model.AlarmKindRelative:
		if in.Minutes == nil {
			return nil, errMissingMinutes
		}
		if m := *in.Minutes; m > maxAlarmMinutes || m < -maxAlarmMinutes {
			return nil, fmt.Errorf("%w: %d", errMinutesRange, m)
		}
		return model.RelativeAlarm{OffsetSeconds: -*in.Minutes * 60, AlarmOptions: opts}, nil

	case model.AlarmKindAbsolute:
		at, err := b.absoluteTime(in.DateTime)
		if err != nil {
			return nil, err
		}
		return model.AbsoluteAlarm{At: at, AlarmOptions: opts}, nil

	case model.AlarmKindProximity:
		return b.proximityAlarm(in, eventLocation, opts)

	default:
		return nil, fmt.Errorf("%w %q", errUnknownAlarmType, in.Type)
	}
}

func (b *Builder) absoluteTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errMissingDateTime
	}

	if temporal.IsDateOnly(s) {
		return time.Time{}, errDateOnlyAlarm
	}

	p, err := temporal.Parse(s, b.loc)
	if err != nil {
		return time.Time{}, err
	}

	return p.Instant, nil
}

func (b *Builder) proximityAlarm(in model.AlarmInput, eventLocation string, opts model.AlarmOptions) (model.Alarm, error) {
	if in.Latitude == nil || in.Longitude == nil {
		return nil, errMissingCoordinate
	}

	lat, lon := *in.Latitude, *in.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: %v, %v", errCoordinateRange, lat, lon)
	}

	trigger, err := model.ParseProximityTrigger(in.Proximity)
	if err != nil {
		return nil, err
	}

	radius := defaultProximityRadius
	if in.Radius != nil && *in.Radius > 0 {
		radius = *in.Radius
	}

	title := in.Title
	if title == "" {
		title = eventLocation
	}
	if title == "" {
		title = defaultProximityTitle
	}

	return model.ProximityAlarm{
		Title:        title,
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		Trigger:      trigger,
		AlarmOptions: opts,
	}, nil
}

// alarmOptions never fails: unknown sounds and bad addresses are dropped
// from the alarm, the alarm itself is kept.
func (b *Builder) alarmOptions(in model.AlarmInput) model.AlarmOptions {
	var opts model.AlarmOptions

	if in.Sound != "" {
		if sound, ok := model.LookupSound(in.Sound); ok {
			opts.Sound = &sound
		} else {
			b.logger.Warnw("ignoring unknown alarm sound", "sound", in.Sound, "known", model.KnownSounds())
		}
	}

	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err == nil {
			opts.NotifyEmail = addr.Address
		} else {
			b.logger.Warnw("ignoring alarm email", "email", in.Email, "error", err)
		}
	}

	return opts
}
