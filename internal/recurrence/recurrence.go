// Package recurrence decides whether a schedule fires on a calendar date.
// It is pure: no storage and no clocks, just plain YYYY-MM-DD dates.
package recurrence

import (
	"kron/internal/dateutil"
	"kron/internal/models"
	"kron/internal/validation"
)

// Fires reports whether the schedule naturally produces an occurrence on
// date. days is the schedule's weekday set and only matters for weekly
// schedules. Overrides are not consulted here; that is the resolver's job.
func Fires(s models.Schedule, days []int, date string) (bool, error) {
	if err := validation.Date(date); err != nil {
		return false, err
	}

	if !s.Active {
		return false, nil
	}
	if dateutil.After(s.StartDate, date) {
		return false, nil
	}
	if s.EndDate != nil && dateutil.Before(*s.EndDate, date) {
		return false, nil
	}

	switch s.Repeat {
	case models.RepeatOnce:
		return s.StartDate == date, nil
	case models.RepeatDaily:
		return true, nil
	case models.RepeatWeekly:
		weekday, err := dateutil.ISOWeekday(date)
		if err != nil {
			return false, err
		}
		for _, d := range days {
			if d == weekday {
				return true, nil
			}
		}
		return false, nil
	}
	return false, validation.Invalidf("unknown repeat %q", s.Repeat)
}
