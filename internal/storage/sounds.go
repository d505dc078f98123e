package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"kron/internal/models"
	"kron/internal/validation"
)

func (s *Store) CreateSound(name, fileName string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sounds (name, file_name) VALUES (?, ?)`,
		name, fileName,
	)
	if err != nil {
		return 0, fmt.Errorf("create sound: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create sound id: %w", err)
	}
	return id, nil
}

func (s *Store) GetSound(id int64) (models.Sound, error) {
	var snd models.Sound
	err := s.db.QueryRow(
		`SELECT id, name, file_name FROM sounds WHERE id = ?`, id,
	).Scan(&snd.ID, &snd.Name, &snd.FileName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sound{}, validation.NotFoundf("sound %d", id)
	}
	if err != nil {
		return models.Sound{}, fmt.Errorf("get sound %d: %w", id, err)
	}
	return snd, nil
}

func (s *Store) ListSounds() ([]models.Sound, error) {
	rows, err := s.db.Query(`SELECT id, name, file_name FROM sounds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sounds: %w", err)
	}
	defer rows.Close()

	var sounds []models.Sound
	for rows.Next() {
		var snd models.Sound
		if err := rows.Scan(&snd.ID, &snd.Name, &snd.FileName); err != nil {
			return nil, fmt.Errorf("scan sound: %w", err)
		}
		sounds = append(sounds, snd)
	}
	return sounds, rows.Err()
}

func (s *Store) UpdateSound(snd models.Sound) error {
	res, err := s.db.Exec(
		`UPDATE sounds SET name = ?, file_name = ? WHERE id = ?`,
		snd.Name, snd.FileName, snd.ID,
	)
	if err != nil {
		return fmt.Errorf("update sound %d: %w", snd.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sound %d: %w", snd.ID, err)
	}
	if n == 0 {
		return validation.NotFoundf("sound %d", snd.ID)
	}
	return nil
}

// DeleteSound removes a sound. Schedules and overrides referencing it fall
// back to the default sound (sound_id set NULL via cascade).
func (s *Store) DeleteSound(id int64) error {
	res, err := s.db.Exec(`DELETE FROM sounds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sound %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sound %d: %w", id, err)
	}
	if n == 0 {
		return validation.NotFoundf("sound %d", id)
	}
	return nil
}
