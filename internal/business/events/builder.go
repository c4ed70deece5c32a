package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/temporal"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/validator"
	"go.uber.org/zap"
)

// Builder validates creation requests and turns them into drafts.
type Builder struct {
	logger *zap.SugaredLogger
	loc    *time.Location
}

func NewBuilder(logger *zap.SugaredLogger, loc *time.Location) *Builder {
	return &Builder{logger: logger, loc: loc}
}

func (b *Builder) Build(input *model.EventDraftInput, calendars []*model.Calendar, defaultCalendar *model.Calendar) (*model.EventDraft, error) {
	v := validator.New()

	v.Check(strings.TrimSpace(input.Title) != "", "title", "must be provided")
	start := b.parseField(v, "start", input.Start)
	end := b.parseField(v, "end", input.End)

	calendar := b.resolveCalendar(input.Calendar, calendars, defaultCalendar)
	v.Check(calendar != nil, "calendar", "no calendar available")

	if !v.Valid() {
		return nil, &model.MissingFieldError{Fields: v.Errors}
	}

	var from, to time.Time
	if input.IsAllDay {
		var err error
		from, to, err = temporal.NormalizeAllDaySpan(start, end, b.loc)
		if err != nil {
			return nil, fmt.Errorf("temporal.NormalizeAllDaySpan: %w", err)
		}
	} else {
		// start is always present here, so now is never used.
		r, err := temporal.NormalizeQueryRange(&start, &end, time.Time{}, b.loc)
		if err != nil {
			return nil, fmt.Errorf("temporal.NormalizeQueryRange: %w", err)
		}
		from, to = r.Start, r.End
	}

	availability := model.AvailabilityNotSupported
	if input.Availability != nil {
		availability = *input.Availability
	}

	return &model.EventDraft{
		Title:        input.Title,
		Start:        from,
		End:          to,
		AllDay:       input.IsAllDay,
		Calendar:     calendar,
		Location:     input.Location,
		Notes:        input.Notes,
		URL:          input.URL,
		Availability: availability,
		Alarms:       b.buildAlarms(input.Alarms, input.Location),
	}, nil
}

func (b *Builder) parseField(v *validator.Validator, key, value string) temporal.Parsed {
	if value == "" {
		v.AddError(key, "must be provided")
		return temporal.Parsed{}
	}

	p, err := temporal.Parse(value, b.loc)
	if err != nil {
		v.AddError(key, err.Error())
		return temporal.Parsed{}
	}

	return p
}

func (b *Builder) resolveCalendar(name string, calendars []*model.Calendar, defaultCalendar *model.Calendar) *model.Calendar {
	if name == "" {
		return defaultCalendar
	}

	for _, c := range calendars {
		if strings.EqualFold(c.Title, name) {
			return c
		}
	}

	b.logger.Infow("calendar not found, using default", "calendar", name)
	return defaultCalendar
}
