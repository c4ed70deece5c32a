package events

import (
	"strings"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"golang.org/x/text/cases"
)

// FilterEvents returns the events matching every criterion, keeping the input
// order. All-day events are included unless IncludeAllDay is set to false.
func FilterEvents(events []*model.Event, criteria model.EventFilterCriteria) []*model.Event {
	fold := cases.Fold()

	query := ""
	if criteria.Query != nil {
		query = fold.String(*criteria.Query)
	}

	res := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if !matchesCalendar(e, criteria.Calendars) {
			continue
		}

		if query != "" &&
			!strings.Contains(fold.String(e.Title), query) &&
			!strings.Contains(fold.String(e.Location), query) {
			continue
		}

		if criteria.Status != nil && e.Status != *criteria.Status {
			continue
		}

		if criteria.Availability != nil && e.Availability != *criteria.Availability {
			continue
		}

		if e.AllDay && criteria.IncludeAllDay != nil && !*criteria.IncludeAllDay {
			continue
		}

		if criteria.HasAlarms != nil && e.HasAlarms() != *criteria.HasAlarms {
			continue
		}

		if criteria.IsRecurring != nil && e.IsRecurring() != *criteria.IsRecurring {
			continue
		}

		res = append(res, e)
	}

	return res
}

func matchesCalendar(e *model.Event, names []string) bool {
	if len(names) == 0 {
		return true
	}
	return matchesAnyName(e.CalendarTitle, names)
}
