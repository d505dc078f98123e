package validation

import (
	"fmt"
	"strings"

	"kron/internal/dateutil"
	"kron/internal/models"
)

// MaxMinutes is the last valid minutes-since-midnight value (23:59).
const MaxMinutes = 1439

// Name checks a schedule or profile name.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return Invalidf("name must not be empty")
	}
	return nil
}

// Time checks a minutes-since-midnight value.
func Time(minutes int) error {
	if minutes < 0 || minutes > MaxMinutes {
		return Invalidf("time %d out of range 0..%d", minutes, MaxMinutes)
	}
	return nil
}

// Date checks a YYYY-MM-DD calendar date.
func Date(date string) error {
	if !dateutil.ValidDate(date) {
		return Invalidf("invalid date %q (want YYYY-MM-DD)", date)
	}
	return nil
}

// DateRange checks start/end ordering. end may be nil (open-ended).
func DateRange(start string, end *string) error {
	if err := Date(start); err != nil {
		return err
	}
	if end == nil {
		return nil
	}
	if err := Date(*end); err != nil {
		return err
	}
	if dateutil.After(start, *end) {
		return Invalidf("start_date %s is after end_date %s", start, *end)
	}
	return nil
}

// Repeat checks the repeat kind and its weekday set. Weekly schedules need
// at least one weekday; other kinds must not carry any.
func Repeat(repeat models.Repeat, days []int) error {
	switch repeat {
	case models.RepeatOnce, models.RepeatDaily:
		if len(days) > 0 {
			return Invalidf("repeat %q does not take weekdays", repeat)
		}
	case models.RepeatWeekly:
		if len(days) == 0 {
			return Invalidf("weekly schedule needs at least one weekday")
		}
		seen := make(map[int]bool)
		for _, d := range days {
			if d < 1 || d > 7 {
				return Invalidf("weekday %d out of range 1..7", d)
			}
			if seen[d] {
				return Invalidf("duplicate weekday %d", d)
			}
			seen[d] = true
		}
	default:
		return Invalidf("unknown repeat %q", repeat)
	}
	return nil
}

// Scope checks a mutation scope value.
func Scope(scope models.Scope) error {
	switch scope {
	case models.ScopeOnly, models.ScopeAfterward, models.ScopeAll:
		return nil
	}
	return Invalidf("unknown scope %q", scope)
}

// Issue is one data problem found by CheckSchedules.
type Issue struct {
	ScheduleID  int64
	Description string
}

// Result collects issues found during a data check.
type Result struct {
	Issues []Issue
}

func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// FormatReport returns a human-readable report of all issues.
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}
	report := "Issues detected:\n"
	for _, issue := range r.Issues {
		report += fmt.Sprintf("- schedule %d: %s\n", issue.ScheduleID, issue.Description)
	}
	return report
}

// CheckSchedules inspects stored schedules for consistency problems the
// write path should have prevented. Used by doctor.
func CheckSchedules(schedules []models.Schedule, days map[int64][]int) Result {
	result := Result{}
	add := func(id int64, format string, args ...any) {
		result.Issues = append(result.Issues, Issue{
			ScheduleID:  id,
			Description: fmt.Sprintf(format, args...),
		})
	}

	for _, s := range schedules {
		if strings.TrimSpace(s.Name) == "" {
			add(s.ID, "empty name")
		}
		if s.Time < 0 || s.Time > MaxMinutes {
			add(s.ID, "time %d out of range", s.Time)
		}
		if !dateutil.ValidDate(s.StartDate) {
			add(s.ID, "malformed start_date %q", s.StartDate)
		}
		if s.EndDate != nil {
			if !dateutil.ValidDate(*s.EndDate) {
				add(s.ID, "malformed end_date %q", *s.EndDate)
			} else if dateutil.ValidDate(s.StartDate) && dateutil.After(s.StartDate, *s.EndDate) {
				add(s.ID, "start_date %s after end_date %s", s.StartDate, *s.EndDate)
			}
		}
		switch s.Repeat {
		case models.RepeatOnce, models.RepeatDaily:
		case models.RepeatWeekly:
			if len(days[s.ID]) == 0 {
				add(s.ID, "weekly schedule with no weekday rows")
			}
			for _, d := range days[s.ID] {
				if d < 1 || d > 7 {
					add(s.ID, "weekday %d out of range 1..7", d)
				}
			}
		default:
			add(s.ID, "unknown repeat %q", s.Repeat)
		}
	}

	return result
}
