package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kron/internal/models"
)

const overrideColumns = `schedule_id, original_date, new_name, new_sound_id, new_date, new_time, is_cancelled, created_at, updated_at`

func scanOverride(scan func(dest ...any) error) (models.ScheduleOverride, error) {
	var ov models.ScheduleOverride
	var newName, newDate, createdAt, updatedAt sql.NullString
	var newSoundID sql.NullInt64
	var newTime sql.NullInt64

	err := scan(
		&ov.ScheduleID, &ov.OriginalDate, &newName, &newSoundID,
		&newDate, &newTime, &ov.Cancelled, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.ScheduleOverride{}, err
	}

	if newName.Valid {
		ov.NewName = &newName.String
	}
	if newSoundID.Valid {
		ov.NewSoundID = &newSoundID.Int64
	}
	if newDate.Valid {
		ov.NewDate = &newDate.String
	}
	if newTime.Valid {
		t := int(newTime.Int64)
		ov.NewTime = &t
	}
	if createdAt.Valid {
		ov.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}
	if updatedAt.Valid {
		if t, err := time.Parse(time.RFC3339, updatedAt.String); err == nil {
			ov.UpdatedAt = &t
		}
	}
	return ov, nil
}

// GetOverride returns the override for (scheduleID, originalDate), or nil
// when none exists.
func (s *Store) GetOverride(scheduleID int64, originalDate string) (*models.ScheduleOverride, error) {
	row := s.db.QueryRow(
		`SELECT `+overrideColumns+` FROM schedule_overrides WHERE schedule_id = ? AND original_date = ?`,
		scheduleID, originalDate,
	)
	ov, err := scanOverride(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get override (%d, %s): %w", scheduleID, originalDate, err)
	}
	return &ov, nil
}

func (s *Store) listOverrides(where string, args ...any) ([]models.ScheduleOverride, error) {
	rows, err := s.db.Query(`
		SELECT so.schedule_id, so.original_date, so.new_name, so.new_sound_id,
		       so.new_date, so.new_time, so.is_cancelled, so.created_at, so.updated_at
		FROM schedule_overrides so
		JOIN schedules sc ON sc.id = so.schedule_id
		WHERE `+where+`
		ORDER BY so.schedule_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []models.ScheduleOverride
	for rows.Next() {
		ov, err := scanOverride(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		overrides = append(overrides, ov)
	}
	return overrides, rows.Err()
}

// ListOverridesByOriginalDate returns the overrides of a profile keyed by
// the given original date.
func (s *Store) ListOverridesByOriginalDate(profileID int64, date string) ([]models.ScheduleOverride, error) {
	return s.listOverrides(`sc.profile_id = ? AND so.original_date = ?`, profileID, date)
}

// ListOverridesByNewDate returns the overrides of a profile that relocate
// an occurrence onto the given date.
func (s *Store) ListOverridesByNewDate(profileID int64, date string) ([]models.ScheduleOverride, error) {
	return s.listOverrides(`sc.profile_id = ? AND so.new_date = ?`, profileID, date)
}

// UpsertOverride writes the override slot for (schedule_id, original_date).
// A later write wins wholesale; created_at survives re-upserts.
func (t *Tx) UpsertOverride(ov models.ScheduleOverride) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := t.tx.Exec(`
		INSERT INTO schedule_overrides (schedule_id, original_date, new_name, new_sound_id, new_date, new_time, is_cancelled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (schedule_id, original_date) DO UPDATE SET
			new_name = excluded.new_name,
			new_sound_id = excluded.new_sound_id,
			new_date = excluded.new_date,
			new_time = excluded.new_time,
			is_cancelled = excluded.is_cancelled,
			updated_at = ?`,
		ov.ScheduleID, ov.OriginalDate, nullString(ov.NewName), nullInt64(ov.NewSoundID),
		nullString(ov.NewDate), nullInt(ov.NewTime), ov.Cancelled, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert override (%d, %s): %w", ov.ScheduleID, ov.OriginalDate, err)
	}
	return nil
}

// DeleteOverride removes the override slot if present. Removing a missing
// slot is not an error.
func (t *Tx) DeleteOverride(scheduleID int64, originalDate string) error {
	_, err := t.tx.Exec(
		`DELETE FROM schedule_overrides WHERE schedule_id = ? AND original_date = ?`,
		scheduleID, originalDate,
	)
	if err != nil {
		return fmt.Errorf("delete override (%d, %s): %w", scheduleID, originalDate, err)
	}
	return nil
}
