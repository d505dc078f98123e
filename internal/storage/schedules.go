package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kron/internal/models"
	"kron/internal/validation"
)

const scheduleColumns = `id, profile_id, sound_id, name, time, start_date, end_date, repeat, is_active, created_at, updated_at`

func scanSchedule(scan func(dest ...any) error) (models.Schedule, error) {
	var s models.Schedule
	var soundID sql.NullInt64
	var endDate, createdAt sql.NullString
	var updatedAt sql.NullString

	err := scan(
		&s.ID, &s.ProfileID, &soundID, &s.Name, &s.Time,
		&s.StartDate, &endDate, &s.Repeat, &s.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Schedule{}, err
	}

	if soundID.Valid {
		s.SoundID = &soundID.Int64
	}
	if endDate.Valid {
		s.EndDate = &endDate.String
	}
	if createdAt.Valid {
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}
	if updatedAt.Valid {
		if t, err := time.Parse(time.RFC3339, updatedAt.String); err == nil {
			s.UpdatedAt = &t
		}
	}
	return s, nil
}

func getSchedule(q dbtx, id int64) (models.Schedule, error) {
	row := q.QueryRow(`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Schedule{}, validation.NotFoundf("schedule %d", id)
	}
	if err != nil {
		return models.Schedule{}, fmt.Errorf("get schedule %d: %w", id, err)
	}
	return s, nil
}

func (s *Store) GetSchedule(id int64) (models.Schedule, error) {
	return getSchedule(s.db, id)
}

func (t *Tx) GetSchedule(id int64) (models.Schedule, error) {
	return getSchedule(t.tx, id)
}

// GetScheduleForProfile fetches a schedule and verifies ownership. A
// schedule belonging to another profile is reported as not found, never
// leaked.
func getScheduleForProfile(q dbtx, id, profileID int64) (models.Schedule, error) {
	sched, err := getSchedule(q, id)
	if err != nil {
		return models.Schedule{}, err
	}
	if sched.ProfileID != profileID {
		return models.Schedule{}, validation.NotFoundf("schedule %d", id)
	}
	return sched, nil
}

func (s *Store) GetScheduleForProfile(id, profileID int64) (models.Schedule, error) {
	return getScheduleForProfile(s.db, id, profileID)
}

func (t *Tx) GetScheduleForProfile(id, profileID int64) (models.Schedule, error) {
	return getScheduleForProfile(t.tx, id, profileID)
}

func (s *Store) ListSchedulesByProfile(profileID int64) ([]models.Schedule, error) {
	rows, err := s.db.Query(
		`SELECT `+scheduleColumns+` FROM schedules WHERE profile_id = ? ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, sched)
	}
	return schedules, rows.Err()
}

// ListScheduleDays returns the weekday sets of all schedules of a profile,
// keyed by schedule id.
func (s *Store) ListScheduleDays(profileID int64) (map[int64][]int, error) {
	rows, err := s.db.Query(`
		SELECT sd.schedule_id, sd.day_of_week
		FROM schedule_days sd
		JOIN schedules sc ON sc.id = sd.schedule_id
		WHERE sc.profile_id = ?
		ORDER BY sd.schedule_id, sd.day_of_week`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedule days: %w", err)
	}
	defer rows.Close()

	days := make(map[int64][]int)
	for rows.Next() {
		var scheduleID int64
		var day int
		if err := rows.Scan(&scheduleID, &day); err != nil {
			return nil, fmt.Errorf("scan schedule day: %w", err)
		}
		days[scheduleID] = append(days[scheduleID], day)
	}
	return days, rows.Err()
}

func getScheduleDays(q dbtx, scheduleID int64) ([]int, error) {
	rows, err := q.Query(
		`SELECT day_of_week FROM schedule_days WHERE schedule_id = ? ORDER BY day_of_week`,
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("get days of schedule %d: %w", scheduleID, err)
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan day of schedule %d: %w", scheduleID, err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *Store) GetScheduleDays(scheduleID int64) ([]int, error) {
	return getScheduleDays(s.db, scheduleID)
}

func (t *Tx) GetScheduleDays(scheduleID int64) ([]int, error) {
	return getScheduleDays(t.tx, scheduleID)
}

// InsertSchedule inserts a schedule row and returns its id. CreatedAt is
// stamped here.
func (t *Tx) InsertSchedule(sched models.Schedule) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.tx.Exec(`
		INSERT INTO schedules (profile_id, sound_id, name, time, start_date, end_date, repeat, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.ProfileID, nullInt64(sched.SoundID), sched.Name, sched.Time,
		sched.StartDate, nullString(sched.EndDate), sched.Repeat, sched.Active, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert schedule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert schedule id: %w", err)
	}
	return id, nil
}

func (t *Tx) InsertScheduleDays(scheduleID int64, days []int) error {
	for _, day := range days {
		if _, err := t.tx.Exec(
			`INSERT INTO schedule_days (schedule_id, day_of_week) VALUES (?, ?)`,
			scheduleID, day,
		); err != nil {
			return fmt.Errorf("insert day %d of schedule %d: %w", day, scheduleID, err)
		}
	}
	return nil
}

// SetEndDate truncates a series. endDate may be before start_date, in which
// case the series produces nothing anymore.
func (t *Tx) SetEndDate(id, profileID int64, endDate string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.tx.Exec(
		`UPDATE schedules SET end_date = ?, updated_at = ? WHERE id = ? AND profile_id = ?`,
		endDate, now, id, profileID,
	)
	if err != nil {
		return fmt.Errorf("set end date of schedule %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set end date of schedule %d: %w", id, err)
	}
	if n == 0 {
		return validation.NotFoundf("schedule %d", id)
	}
	return nil
}

// UpdateScheduleAll rewrites the series-wide fields in place.
func (t *Tx) UpdateScheduleAll(id, profileID int64, name string, minutes int, soundID *int64, active bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.tx.Exec(
		`UPDATE schedules SET name = ?, time = ?, sound_id = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND profile_id = ?`,
		name, minutes, nullInt64(soundID), active, now, id, profileID,
	)
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", id, err)
	}
	if n == 0 {
		return validation.NotFoundf("schedule %d", id)
	}
	return nil
}

// DeleteSchedule hard-deletes a schedule; weekday rows and overrides cascade.
func (t *Tx) DeleteSchedule(id, profileID int64) error {
	res, err := t.tx.Exec(
		`DELETE FROM schedules WHERE id = ? AND profile_id = ?`, id, profileID,
	)
	if err != nil {
		return fmt.Errorf("delete schedule %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule %d: %w", id, err)
	}
	if n == 0 {
		return validation.NotFoundf("schedule %d", id)
	}
	return nil
}

// DeleteSiblingContinuations removes other schedules of the same profile
// that start on or after fromDate at the same time of day. These are
// continuations spawned by an earlier series split that a re-split would
// otherwise orphan. The match key is deliberately loose (no name or repeat
// comparison); see the data notes in DESIGN.md.
func (t *Tx) DeleteSiblingContinuations(profileID, excludeID int64, fromDate string, minutes int) (int64, error) {
	res, err := t.tx.Exec(`
		DELETE FROM schedules
		WHERE profile_id = ? AND id != ? AND start_date >= ? AND time = ?`,
		profileID, excludeID, fromDate, minutes,
	)
	if err != nil {
		return 0, fmt.Errorf("delete sibling continuations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sibling continuations: %w", err)
	}
	return n, nil
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
