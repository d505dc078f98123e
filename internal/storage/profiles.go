package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"kron/internal/models"
	"kron/internal/validation"
)

func (s *Store) CreateProfile(name, timezone string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO profiles (name, timezone) VALUES (?, ?)`,
		name, timezone,
	)
	if err != nil {
		return 0, fmt.Errorf("create profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create profile id: %w", err)
	}
	return id, nil
}

func (s *Store) GetProfile(id int64) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRow(
		`SELECT id, name, timezone FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, validation.NotFoundf("profile %d", id)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProfiles() ([]models.Profile, error) {
	rows, err := s.db.Query(`SELECT id, name, timezone FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Timezone); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile hard-deletes a profile. Schedules, their weekday rows and
// overrides go with it via cascade.
func (s *Store) DeleteProfile(id int64) error {
	res, err := s.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	if n == 0 {
		return validation.NotFoundf("profile %d", id)
	}
	return nil
}
