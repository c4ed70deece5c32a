package model

import (
	"fmt"
	"strings"
	"time"
)

// Alarm is one of RelativeAlarm, AbsoluteAlarm or ProximityAlarm.
type Alarm interface {
	Kind() AlarmKind
	Options() AlarmOptions
	isAlarm()
}

type AlarmKind string

const (
	AlarmKindRelative  AlarmKind = "relative"
	AlarmKindAbsolute  AlarmKind = "absolute"
	AlarmKindProximity AlarmKind = "proximity"
)

type AlarmOptions struct {
	Sound       *Sound
	NotifyEmail string
}

// RelativeAlarm fires OffsetSeconds relative to the event start.
// Negative offsets are before the start.
type RelativeAlarm struct {
	OffsetSeconds int
	AlarmOptions
}

type AbsoluteAlarm struct {
	At time.Time
	AlarmOptions
}

type ProximityTrigger int

const (
	ProximityEnter ProximityTrigger = iota
	ProximityLeave
)

func (t ProximityTrigger) String() string {
	if t == ProximityLeave {
		return "leave"
	}
	return "enter"
}

func ParseProximityTrigger(s string) (ProximityTrigger, error) {
	switch strings.ToLower(s) {
	case "", "enter":
		return ProximityEnter, nil
	case "leave":
		return ProximityLeave, nil
	default:
		return 0, fmt.Errorf("unknown proximity trigger %q", s)
	}
}

type ProximityAlarm struct {
	Title        string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Trigger      ProximityTrigger
	AlarmOptions
}

func (RelativeAlarm) Kind() AlarmKind  { return AlarmKindRelative }
func (AbsoluteAlarm) Kind() AlarmKind  { return AlarmKindAbsolute }
func (ProximityAlarm) Kind() AlarmKind { return AlarmKindProximity }

func (a RelativeAlarm) Options() AlarmOptions  { return a.AlarmOptions }
func (a AbsoluteAlarm) Options() AlarmOptions  { return a.AlarmOptions }
func (a ProximityAlarm) Options() AlarmOptions { return a.AlarmOptions }

func (RelativeAlarm) isAlarm()  {}
func (AbsoluteAlarm) isAlarm()  {}
func (ProximityAlarm) isAlarm() {}

// AlarmInput is an unvalidated alarm entry.
type AlarmInput struct {
	Type      string
	Minutes   *int
	DateTime  string
	Title     string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
	Proximity string
	Sound     string
	Email     string
}

// Sound is one of the alert sounds known to the calendar store.
type Sound string

var knownSounds = []Sound{
	"Basso", "Blow", "Bottle", "Frog", "Funk", "Glass", "Hero",
	"Morse", "Ping", "Pop", "Purr", "Sosumi", "Submarine", "Tink",
}

// KnownSounds returns the enumerated alert sounds.
func KnownSounds() []Sound {
	res := make([]Sound, len(knownSounds))
	copy(res, knownSounds)
	return res
}

// LookupSound finds the known sound matching name case-insensitively.
func LookupSound(name string) (Sound, bool) {
	for _, s := range knownSounds {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}
