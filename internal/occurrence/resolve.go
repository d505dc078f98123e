// Package occurrence resolves the effective occurrence set of a profile
// for one calendar date: recurrence evaluation, override shadowing, search
// filtering and ordering.
package occurrence

import (
	"kron/internal/models"
)

// Resolve computes the effective occurrence of a schedule on date, applying
// an optional override. Returns nil when the occurrence is suppressed by a
// cancellation.
//
// Coalesce rule: an override field replaces the base value only when it is
// explicitly set; nil means inherit. The returned Date is the override's
// new_date when present, otherwise date; callers gate visibility on it.
func Resolve(s models.Schedule, ov *models.ScheduleOverride, date string) *models.Occurrence {
	occ := &models.Occurrence{
		ScheduleID: s.ID,
		Name:       s.Name,
		Time:       s.Time,
		SoundID:    s.SoundID,
		Repeat:     s.Repeat,
		Date:       date,
	}

	if ov == nil {
		return occ
	}
	if ov.Cancelled {
		return nil
	}

	if ov.NewName != nil {
		occ.Name = *ov.NewName
	}
	if ov.NewTime != nil {
		occ.Time = *ov.NewTime
	}
	if ov.NewSoundID != nil {
		occ.SoundID = ov.NewSoundID
	}
	if ov.NewDate != nil {
		occ.Date = *ov.NewDate
	}
	return occ
}
