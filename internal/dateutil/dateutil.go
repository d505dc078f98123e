package dateutil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used everywhere in kron.
// Dates are plain YYYY-MM-DD values with no time-of-day and no timezone.
const DateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// Today returns the current local calendar date.
func Today() string {
	return time.Now().Format(DateLayout)
}

// AddDays shifts a calendar date by n days (n may be negative).
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}

// ISOWeekday returns the ISO weekday of a date: Monday=1 .. Sunday=7.
func ISOWeekday(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd, nil
}

// Because dates are zero-padded YYYY-MM-DD, lexicographic order is
// chronological order; callers compare date strings directly. These helpers
// only exist to make call sites read as date comparisons.

func Before(a, b string) bool { return a < b }
func After(a, b string) bool  { return a > b }

// MinutesToClock formats minutes since midnight as HH:MM.
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToMinutes parses an HH:MM string into minutes since midnight.
func ClockToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range: %q", clock)
	}
	return hour*60 + minute, nil
}

// ParseWeekdays parses a comma-separated weekday list ("mon,wed,fri" or
// "1,3,5") into sorted unique ISO weekday numbers.
func ParseWeekdays(s string) ([]int, error) {
	dayMap := map[string]int{
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
		"sun": 7, "sunday": 7,
	}

	seen := make(map[int]bool)
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		day, ok := dayMap[part]
		if !ok {
			num, err := strconv.Atoi(part)
			if err != nil || num < 1 || num > 7 {
				return nil, fmt.Errorf("invalid weekday: %q", part)
			}
			day = num
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", s)
	}
	sort.Ints(days)
	return days, nil
}

// WeekdayName returns the short English name for an ISO weekday number.
func WeekdayName(day int) string {
	names := [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if day < 1 || day > 7 {
		return "?"
	}
	return names[day-1]
}

