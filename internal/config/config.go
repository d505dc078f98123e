// Package config is the key-value configuration store (config.json in the
// data directory) and the gateway resolving "which profile is acting".
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// KeyActiveProfile holds the id of the profile all "currentProfile"
// operations act on.
const KeyActiveProfile = "active_profile"

// FileName is the config file name inside the data directory.
const FileName = "config.json"

// Store is a flat JSON key-value file. Values keep their JSON encoding
// until a caller asks for them with a concrete type.
type Store struct {
	path   string
	values map[string]json.RawMessage
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the config file. A missing file is an empty store, not an
// error.
func (s *Store) Load() error {
	s.values = make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get decodes the value at key into out. The second return is false when
// the key is absent.
func (s *Store) Get(key string, out any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode config key %q: %w", key, err)
	}
	return true, nil
}

// Set writes the value at key and persists the file.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode config key %q: %w", key, err)
	}
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	s.values[key] = raw
	return s.save()
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Delete removes key and persists the file. Deleting an absent key is a
// no-op.
func (s *Store) Delete(key string) error {
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}
