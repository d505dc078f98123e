package config

import (
	"fmt"
	"strconv"

	"kron/internal/models"
	"kron/internal/validation"
)

// CurrentProfile is the sentinel callers pass instead of a numeric profile
// id to act on the active profile.
const CurrentProfile = "currentProfile"

// ProfileGetter is the slice of the storage layer the gateway needs.
type ProfileGetter interface {
	GetProfile(id int64) (models.Profile, error)
}

// Gateway resolves the acting profile for every profile-scoped operation.
// Resolution happens per call; nothing is cached.
type Gateway struct {
	config   *Store
	profiles ProfileGetter
}

func NewGateway(config *Store, profiles ProfileGetter) *Gateway {
	return &Gateway{config: config, profiles: profiles}
}

// Resolve turns a requested profile reference, either a decimal id or the
// CurrentProfile sentinel, into a validated profile id.
func (g *Gateway) Resolve(requested string) (int64, error) {
	var id int64
	if requested == CurrentProfile {
		var err error
		id, err = g.ActiveProfile()
		if err != nil {
			return 0, err
		}
	} else {
		var err error
		id, err = strconv.ParseInt(requested, 10, 64)
		if err != nil {
			return 0, validation.Invalidf("invalid profile reference %q", requested)
		}
	}

	if _, err := g.profiles.GetProfile(id); err != nil {
		return 0, err
	}
	return id, nil
}

// ActiveProfile reads the active profile id from the config store. Absent
// or zero values mean no profile has been chosen yet.
func (g *Gateway) ActiveProfile() (int64, error) {
	var id int64
	ok, err := g.config.Get(KeyActiveProfile, &id)
	if err != nil {
		return 0, err
	}
	if !ok || id == 0 {
		return 0, fmt.Errorf("set one with 'kron profile use': %w", validation.ErrNoProfile)
	}
	return id, nil
}

// SetActiveProfile validates the profile exists and records it as active.
func (g *Gateway) SetActiveProfile(id int64) error {
	if _, err := g.profiles.GetProfile(id); err != nil {
		return err
	}
	return g.config.Set(KeyActiveProfile, id)
}
