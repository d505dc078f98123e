// Package series mutates schedule series. Every mutation takes a scope:
// "only" touches a single date through an override, "afterward" splits the
// series at the date, "all" rewrites or removes the whole series. Multi-
// statement mutations are transactional; partial application is never
// observable.
package series

import (
	"kron/internal/dateutil"
	"kron/internal/models"
	"kron/internal/storage"
	"kron/internal/validation"
)

// Engine drives schedule mutations against the store.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// ScheduleInput describes a new series.
type ScheduleInput struct {
	Name      string
	Time      int // minutes since midnight
	SoundID   *int64
	Repeat    models.Repeat
	StartDate string // YYYY-MM-DD
	EndDate   *string
	Days      []int // ISO weekdays, weekly only
}

func (in ScheduleInput) validate() error {
	if err := validation.Name(in.Name); err != nil {
		return err
	}
	if err := validation.Time(in.Time); err != nil {
		return err
	}
	if err := validation.DateRange(in.StartDate, in.EndDate); err != nil {
		return err
	}
	return validation.Repeat(in.Repeat, in.Days)
}

// OccurrenceEdit carries the new values of an update or the cancellation
// flag of a delete. All fields are explicit; the override they may produce
// stores them as written (later write wins the whole slot).
type OccurrenceEdit struct {
	Name      string
	Time      int
	SoundID   *int64
	Cancelled bool
}

func (e OccurrenceEdit) validate() error {
	if err := validation.Name(e.Name); err != nil {
		return err
	}
	return validation.Time(e.Time)
}

// Create inserts a new schedule series and, for weekly schedules, its
// weekday rows. Atomic. Returns the new schedule id.
func (e *Engine) Create(profileID int64, in ScheduleInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	if in.SoundID != nil {
		if _, err := e.store.GetSound(*in.SoundID); err != nil {
			return 0, validation.Invalidf("schedule references unknown sound %d", *in.SoundID)
		}
	}

	var id int64
	err := e.store.WithTx(func(tx *storage.Tx) error {
		var err error
		id, err = tx.InsertSchedule(models.Schedule{
			ProfileID: profileID,
			SoundID:   in.SoundID,
			Name:      in.Name,
			Time:      in.Time,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Repeat:    in.Repeat,
			Active:    true,
		})
		if err != nil {
			return err
		}
		if in.Repeat == models.RepeatWeekly {
			return tx.InsertScheduleDays(id, in.Days)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies an edit to a series with the given blast radius. Returns
// the id of the schedule carrying the occurrence from date onward: the new
// continuation for a non-cancelling "afterward" split, the original id
// otherwise.
func (e *Engine) Update(profileID, scheduleID int64, date string, scope models.Scope, edit OccurrenceEdit) (int64, error) {
	if err := validation.Date(date); err != nil {
		return 0, err
	}
	if err := validation.Scope(scope); err != nil {
		return 0, err
	}
	if err := edit.validate(); err != nil {
		return 0, err
	}
	if edit.SoundID != nil {
		if _, err := e.store.GetSound(*edit.SoundID); err != nil {
			return 0, validation.Invalidf("edit references unknown sound %d", *edit.SoundID)
		}
	}

	switch scope {
	case models.ScopeOnly:
		return e.updateOnly(profileID, scheduleID, date, edit)
	case models.ScopeAfterward:
		return e.split(profileID, scheduleID, date, edit)
	default:
		return e.updateAll(profileID, scheduleID, edit)
	}
}

// Delete removes occurrences with the given blast radius. Returns the
// schedule id the mutation acted on.
func (e *Engine) Delete(profileID, scheduleID int64, date string, scope models.Scope) (int64, error) {
	if err := validation.Date(date); err != nil {
		return 0, err
	}
	if err := validation.Scope(scope); err != nil {
		return 0, err
	}

	err := e.store.WithTx(func(tx *storage.Tx) error {
		if _, err := tx.GetScheduleForProfile(scheduleID, profileID); err != nil {
			return err
		}

		switch scope {
		case models.ScopeOnly:
			// Skip this date. Re-deleting the same date rewrites the same
			// override slot; no duplicate row can appear.
			return tx.UpsertOverride(models.ScheduleOverride{
				ScheduleID:   scheduleID,
				OriginalDate: date,
				Cancelled:    true,
			})
		case models.ScopeAfterward:
			dayBefore, err := dateutil.AddDays(date, -1)
			if err != nil {
				return err
			}
			return tx.SetEndDate(scheduleID, profileID, dayBefore)
		default:
			return tx.DeleteSchedule(scheduleID, profileID)
		}
	})
	if err != nil {
		return 0, err
	}
	return scheduleID, nil
}

func (e *Engine) updateOnly(profileID, scheduleID int64, date string, edit OccurrenceEdit) (int64, error) {
	err := e.store.WithTx(func(tx *storage.Tx) error {
		if _, err := tx.GetScheduleForProfile(scheduleID, profileID); err != nil {
			return err
		}
		name := edit.Name
		minutes := edit.Time
		return tx.UpsertOverride(models.ScheduleOverride{
			ScheduleID:   scheduleID,
			OriginalDate: date,
			NewName:      &name,
			NewTime:      &minutes,
			NewSoundID:   edit.SoundID,
			Cancelled:    edit.Cancelled,
		})
	})
	if err != nil {
		return 0, err
	}
	return scheduleID, nil
}

func (e *Engine) updateAll(profileID, scheduleID int64, edit OccurrenceEdit) (int64, error) {
	err := e.store.WithTx(func(tx *storage.Tx) error {
		if _, err := tx.GetScheduleForProfile(scheduleID, profileID); err != nil {
			return err
		}
		return tx.UpdateScheduleAll(scheduleID, profileID, edit.Name, edit.Time, edit.SoundID, !edit.Cancelled)
	})
	if err != nil {
		return 0, err
	}
	return scheduleID, nil
}

// split is the "afterward" edit: end the original series the day before
// date and, unless the edit cancels the series, spawn a continuation
// starting at date carrying the new values and the original weekday set.
func (e *Engine) split(profileID, scheduleID int64, date string, edit OccurrenceEdit) (int64, error) {
	resultID := scheduleID
	err := e.store.WithTx(func(tx *storage.Tx) error {
		// Pre-split values: repeat carries over to the continuation, time
		// is the match key for continuations spawned by earlier splits.
		original, err := tx.GetScheduleForProfile(scheduleID, profileID)
		if err != nil {
			return err
		}
		var days []int
		if original.Repeat == models.RepeatWeekly {
			days, err = tx.GetScheduleDays(scheduleID)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				return validation.Inconsistentf("weekly schedule %d has no weekday rows", scheduleID)
			}
		}

		// The split supersedes a same-date "only" override, if any.
		if err := tx.DeleteOverride(scheduleID, date); err != nil {
			return err
		}

		// Drop continuations from earlier splits of this series so a
		// re-split cannot leave duplicate future series behind.
		if _, err := tx.DeleteSiblingContinuations(profileID, scheduleID, date, original.Time); err != nil {
			return err
		}

		dayBefore, err := dateutil.AddDays(date, -1)
		if err != nil {
			return err
		}
		if err := tx.SetEndDate(scheduleID, profileID, dayBefore); err != nil {
			return err
		}

		if edit.Cancelled {
			// The series simply ends the day before date.
			return nil
		}

		newID, err := tx.InsertSchedule(models.Schedule{
			ProfileID: profileID,
			SoundID:   edit.SoundID,
			Name:      edit.Name,
			Time:      edit.Time,
			StartDate: date,
			Repeat:    original.Repeat,
			Active:    true,
		})
		if err != nil {
			return err
		}
		if original.Repeat == models.RepeatWeekly {
			if err := tx.InsertScheduleDays(newID, days); err != nil {
				return err
			}
		}
		resultID = newID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return resultID, nil
}
