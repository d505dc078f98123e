package occurrence

import (
	"fmt"
	"sort"
	"strings"

	"kron/internal/models"
	"kron/internal/recurrence"
	"kron/internal/validation"
)

// Store is the slice of the storage layer the query needs.
type Store interface {
	ListSchedulesByProfile(profileID int64) ([]models.Schedule, error)
	ListScheduleDays(profileID int64) (map[int64][]int, error)
	ListOverridesByOriginalDate(profileID int64, date string) ([]models.ScheduleOverride, error)
	ListOverridesByNewDate(profileID int64, date string) ([]models.ScheduleOverride, error)
	ListSounds() ([]models.Sound, error)
}

// Query composes the recurrence evaluator and the override resolver against
// a profile's full schedule set.
type Query struct {
	store Store
}

func NewQuery(store Store) *Query {
	return &Query{store: store}
}

// List returns the effective occurrences of a profile on date, ordered by
// effective time ascending with ties broken by schedule id. search, when
// non-empty, is a case-insensitive substring filter on the effective name.
// An empty day yields an empty slice, not an error.
func (q *Query) List(profileID int64, date string, search string) ([]models.Occurrence, error) {
	if err := validation.Date(date); err != nil {
		return nil, err
	}

	schedules, err := q.store.ListSchedulesByProfile(profileID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	days, err := q.store.ListScheduleDays(profileID)
	if err != nil {
		return nil, fmt.Errorf("list schedule days: %w", err)
	}
	overrides, err := q.store.ListOverridesByOriginalDate(profileID, date)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	relocated, err := q.store.ListOverridesByNewDate(profileID, date)
	if err != nil {
		return nil, fmt.Errorf("list relocated overrides: %w", err)
	}

	byID := make(map[int64]models.Schedule, len(schedules))
	for _, s := range schedules {
		byID[s.ID] = s
	}
	ovBySchedule := make(map[int64]models.ScheduleOverride, len(overrides))
	for _, ov := range overrides {
		ovBySchedule[ov.ScheduleID] = ov
	}

	occurrences := make([]models.Occurrence, 0)

	for _, s := range schedules {
		fires, err := recurrence.Fires(s, days[s.ID], date)
		if err != nil {
			return nil, err
		}
		if !fires {
			continue
		}

		var ov *models.ScheduleOverride
		if o, ok := ovBySchedule[s.ID]; ok {
			ov = &o
		}
		occ := Resolve(s, ov, date)
		if occ == nil || occ.Date != date {
			// Cancelled, or relocated away from this date.
			continue
		}
		occurrences = append(occurrences, *occ)
	}

	// An override can relocate an occurrence onto a date where its series
	// would not naturally fire. The override stays keyed by the original
	// date; the moved occurrence must still exist there.
	for _, ov := range relocated {
		if ov.OriginalDate == date {
			continue // already handled above
		}
		s, ok := byID[ov.ScheduleID]
		if !ok {
			continue
		}
		fires, err := recurrence.Fires(s, days[s.ID], ov.OriginalDate)
		if err != nil {
			return nil, err
		}
		if !fires {
			continue
		}
		o := ov
		if occ := Resolve(s, &o, ov.OriginalDate); occ != nil && occ.Date == date {
			occurrences = append(occurrences, *occ)
		}
	}

	if search != "" {
		needle := strings.ToLower(search)
		filtered := occurrences[:0]
		for _, occ := range occurrences {
			if strings.Contains(strings.ToLower(occ.Name), needle) {
				filtered = append(filtered, occ)
			}
		}
		occurrences = filtered
	}

	if err := q.fillSoundNames(occurrences); err != nil {
		return nil, err
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		if occurrences[i].Time != occurrences[j].Time {
			return occurrences[i].Time < occurrences[j].Time
		}
		return occurrences[i].ScheduleID < occurrences[j].ScheduleID
	})

	return occurrences, nil
}

func (q *Query) fillSoundNames(occurrences []models.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}
	sounds, err := q.store.ListSounds()
	if err != nil {
		return fmt.Errorf("list sounds: %w", err)
	}
	byID := make(map[int64]models.Sound, len(sounds))
	for _, snd := range sounds {
		byID[snd.ID] = snd
	}

	for i := range occurrences {
		occurrences[i].SoundName = models.DefaultSoundName
		if occurrences[i].SoundID == nil {
			continue
		}
		if snd, ok := byID[*occurrences[i].SoundID]; ok {
			occurrences[i].SoundName = snd.Name
			file := snd.FileName
			occurrences[i].SoundFile = &file
		}
	}
	return nil
}
