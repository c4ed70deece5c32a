package events

import (
	"strings"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
)

// selectCalendars keeps the calendars whose title matches one of names,
// ignoring case. No names selects every calendar.
func selectCalendars(calendars []*model.Calendar, names []string) []*model.Calendar {
	if len(names) == 0 {
		return calendars
	}

	var res []*model.Calendar
	for _, c := range calendars {
		if matchesAnyName(c.Title, names) {
			res = append(res, c)
		}
	}

	return res
}

func matchesAnyName(title string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(title, n) {
			return true
		}
	}
	return false
}

func calendarIDs(calendars []*model.Calendar) []int64 {
	ids := make([]int64, len(calendars))
	for i, c := range calendars {
		ids[i] = c.ID
	}
	return ids
}
