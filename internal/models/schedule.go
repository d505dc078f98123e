package models

import "time"

type Repeat string

const (
	RepeatOnce   Repeat = "once"
	RepeatDaily  Repeat = "daily"
	RepeatWeekly Repeat = "weekly"
)

// Scope controls how far a schedule mutation reaches.
type Scope string

const (
	// ScopeOnly touches a single date via an override row.
	ScopeOnly Scope = "only"
	// ScopeAfterward splits the series at the given date.
	ScopeAfterward Scope = "afterward"
	// ScopeAll mutates the series itself, past and future.
	ScopeAll Scope = "all"
)

// Schedule is one alarm series owned by a profile.
type Schedule struct {
	ID        int64      `json:"id"`
	ProfileID int64      `json:"profile_id"`
	SoundID   *int64     `json:"sound_id,omitempty"`
	Name      string     `json:"name"`
	Time      int        `json:"time"` // minutes since midnight, 0..1439
	StartDate string     `json:"start_date"` // YYYY-MM-DD
	EndDate   *string    `json:"end_date,omitempty"` // YYYY-MM-DD
	Repeat    Repeat     `json:"repeat"`
	Active    bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ScheduleDay is a weekday membership row for a weekly schedule.
// DayOfWeek is the ISO weekday, Monday=1 through Sunday=7.
type ScheduleDay struct {
	ScheduleID int64 `json:"schedule_id"`
	DayOfWeek  int   `json:"day_of_week"`
}

// ScheduleOverride is a one-time deviation for a single occurrence,
// keyed by the date the recurrence would naturally produce. At most one
// override exists per (schedule_id, original_date).
type ScheduleOverride struct {
	ScheduleID   int64      `json:"schedule_id"`
	OriginalDate string     `json:"original_date"` // YYYY-MM-DD
	NewName      *string    `json:"new_name,omitempty"`
	NewSoundID   *int64     `json:"new_sound_id,omitempty"`
	NewDate      *string    `json:"new_date,omitempty"` // YYYY-MM-DD
	NewTime      *int       `json:"new_time,omitempty"`
	Cancelled    bool       `json:"is_cancelled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
