package occurrence

import (
	"errors"
	"testing"

	"kron/internal/models"
	"kron/internal/storage"
	"kron/internal/validation"
)

func newTestQuery(t *testing.T) (*Query, *storage.Store, int64) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	profileID, err := store.CreateProfile("test", "UTC")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return NewQuery(store), store, profileID
}

func insertSchedule(t *testing.T, store *storage.Store, sched models.Schedule, days []int) int64 {
	t.Helper()
	var id int64
	err := store.WithTx(func(tx *storage.Tx) error {
		var err error
		id, err = tx.InsertSchedule(sched)
		if err != nil {
			return err
		}
		if len(days) > 0 {
			return tx.InsertScheduleDays(id, days)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert schedule: %v", err)
	}
	return id
}

func upsertOverride(t *testing.T, store *storage.Store, ov models.ScheduleOverride) {
	t.Helper()
	err := store.WithTx(func(tx *storage.Tx) error {
		return tx.UpsertOverride(ov)
	})
	if err != nil {
		t.Fatalf("upsert override: %v", err)
	}
}

func TestListEmptyDay(t *testing.T) {
	q, _, profileID := newTestQuery(t)

	occurrences, err := q.List(profileID, "2025-07-01", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if occurrences == nil {
		t.Fatal("got nil, want empty slice")
	}
	if len(occurrences) != 0 {
		t.Errorf("got %d occurrences on empty day", len(occurrences))
	}
}

func TestListRejectsMalformedDate(t *testing.T) {
	q, _, profileID := newTestQuery(t)

	if _, err := q.List(profileID, "July 1st", ""); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestListBaseOccurrence(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	id := insertSchedule(t, store, models.Schedule{
		ProfileID: profileID,
		Name:      "wake up",
		Time:      390, // 06:30
		StartDate: "2025-01-01",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}, nil)

	occurrences, err := q.List(profileID, "2025-05-14", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occurrences))
	}
	occ := occurrences[0]
	if occ.ScheduleID != id || occ.Name != "wake up" || occ.Time != 390 || occ.Date != "2025-05-14" {
		t.Errorf("occurrence = %+v", occ)
	}
	if occ.SoundName != models.DefaultSoundName {
		t.Errorf("sound name = %q, want default", occ.SoundName)
	}
}

func TestOverrideCoalescePartialFields(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	soundID, err := store.CreateSound("Bell", "bell.wav")
	if err != nil {
		t.Fatalf("CreateSound: %v", err)
	}
	id := insertSchedule(t, store, models.Schedule{
		ProfileID: profileID,
		SoundID:   &soundID,
		Name:      "meeting",
		Time:      600,
		StartDate: "2025-01-01",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}, nil)

	// Only the time is overridden; name and sound inherit.
	newTime := 630
	upsertOverride(t, store, models.ScheduleOverride{
		ScheduleID:   id,
		OriginalDate: "2025-04-10",
		NewTime:      &newTime,
	})

	occurrences, err := q.List(profileID, "2025-04-10", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occurrences))
	}
	occ := occurrences[0]
	if occ.Time != 630 {
		t.Errorf("time = %d, want 630", occ.Time)
	}
	if occ.Name != "meeting" {
		t.Errorf("name = %q, want inherited", occ.Name)
	}
	if occ.SoundName != "Bell" {
		t.Errorf("sound = %q, want inherited Bell", occ.SoundName)
	}

	// A different date is unaffected.
	occurrences, err = q.List(profileID, "2025-04-11", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 1 || occurrences[0].Time != 600 {
		t.Errorf("override leaked to other dates: %+v", occurrences)
	}
}

func TestCancellationSuppressesOccurrence(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	id := insertSchedule(t, store, models.Schedule{
		ProfileID: profileID,
		Name:      "lunch",
		Time:      720,
		StartDate: "2025-01-01",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}, nil)

	// A cancellation with stale field values still suppresses: is_cancelled
	// wins over everything else in the slot.
	staleName := "lunch (moved)"
	upsertOverride(t, store, models.ScheduleOverride{
		ScheduleID:   id,
		OriginalDate: "2025-04-01",
		NewName:      &staleName,
		Cancelled:    true,
	})

	occurrences, err := q.List(profileID, "2025-04-01", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("cancelled occurrence still listed: %+v", occurrences)
	}
}

func TestRelocationMovesVisibility(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	// Weekly on Mondays only.
	id := insertSchedule(t, store, models.Schedule{
		ProfileID: profileID,
		Name:      "review",
		Time:      900,
		StartDate: "2025-01-06", // Monday
		Repeat:    models.RepeatWeekly,
		Active:    true,
	}, []int{1})

	// Move Monday 2025-01-13 to Wednesday 2025-01-15, a day the series
	// would never fire on.
	newDate := "2025-01-15"
	upsertOverride(t, store, models.ScheduleOverride{
		ScheduleID:   id,
		OriginalDate: "2025-01-13",
		NewDate:      &newDate,
	})

	// Gone from the original date.
	occurrences, err := q.List(profileID, "2025-01-13", "")
	if err != nil {
		t.Fatalf("List original date: %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("relocated occurrence still on original date: %+v", occurrences)
	}

	// Present on the new date.
	occurrences, err = q.List(profileID, "2025-01-15", "")
	if err != nil {
		t.Fatalf("List new date: %v", err)
	}
	if len(occurrences) != 1 {
		t.Fatalf("got %d occurrences on new date, want 1", len(occurrences))
	}
	if occurrences[0].Date != "2025-01-15" || occurrences[0].Name != "review" {
		t.Errorf("relocated occurrence = %+v", occurrences[0])
	}

	// Other Mondays are untouched.
	occurrences, err = q.List(profileID, "2025-01-20", "")
	if err != nil {
		t.Fatalf("List next monday: %v", err)
	}
	if len(occurrences) != 1 {
		t.Errorf("relocation leaked to sibling dates: %+v", occurrences)
	}
}

func TestOrderingTimeThenID(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	base := models.Schedule{
		ProfileID: profileID,
		StartDate: "2025-01-01",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}

	late := base
	late.Name = "late"
	late.Time = 900
	lateID := insertSchedule(t, store, late, nil)

	earlyA := base
	earlyA.Name = "early a"
	earlyA.Time = 300
	earlyAID := insertSchedule(t, store, earlyA, nil)

	earlyB := base
	earlyB.Name = "early b"
	earlyB.Time = 300
	earlyBID := insertSchedule(t, store, earlyB, nil)

	occurrences, err := q.List(profileID, "2025-06-01", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(occurrences))
	}
	want := []int64{earlyAID, earlyBID, lateID}
	for i, occ := range occurrences {
		if occ.ScheduleID != want[i] {
			t.Errorf("position %d: got schedule %d, want %d", i, occ.ScheduleID, want[i])
		}
	}
}

func TestOrderingUsesEffectiveTime(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	a := insertSchedule(t, store, models.Schedule{
		ProfileID: profileID, Name: "a", Time: 300,
		StartDate: "2025-01-01", Repeat: models.RepeatDaily, Active: true,
	}, nil)
	insertSchedule(t, store, models.Schedule{
		ProfileID: profileID, Name: "b", Time: 600,
		StartDate: "2025-01-01", Repeat: models.RepeatDaily, Active: true,
	}, nil)

	// Push a past b for one day.
	moved := 900
	upsertOverride(t, store, models.ScheduleOverride{
		ScheduleID:   a,
		OriginalDate: "2025-06-01",
		NewTime:      &moved,
	})

	occurrences, err := q.List(profileID, "2025-06-01", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occurrences))
	}
	if occurrences[0].Name != "b" || occurrences[1].Name != "a" {
		t.Errorf("order = [%s %s], want [b a]", occurrences[0].Name, occurrences[1].Name)
	}
}

func TestSearchFiltersEffectiveName(t *testing.T) {
	q, store, profileID := newTestQuery(t)

	insertSchedule(t, store, models.Schedule{
		ProfileID: profileID, Name: "Morning Run", Time: 360,
		StartDate: "2025-01-01", Repeat: models.RepeatDaily, Active: true,
	}, nil)
	renamed := insertSchedule(t, store, models.Schedule{
		ProfileID: profileID, Name: "Dentist", Time: 540,
		StartDate: "2025-01-01", Repeat: models.RepeatDaily, Active: true,
	}, nil)

	// The override renames Dentist for this date; search matches the
	// effective name, not the stored one.
	newName := "morning review"
	upsertOverride(t, store, models.ScheduleOverride{
		ScheduleID:   renamed,
		OriginalDate: "2025-06-01",
		NewName:      &newName,
	})

	occurrences, err := q.List(profileID, "2025-06-01", "MORNING")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 2 {
		t.Fatalf("got %d matches, want 2", len(occurrences))
	}

	occurrences, err = q.List(profileID, "2025-06-01", "dentist")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("search matched the stored name, not the effective one: %+v", occurrences)
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	q, store, profileID := newTestQuery(t)
	other, err := store.CreateProfile("other", "UTC")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	insertSchedule(t, store, models.Schedule{
		ProfileID: other, Name: "theirs", Time: 60,
		StartDate: "2025-01-01", Repeat: models.RepeatDaily, Active: true,
	}, nil)

	occurrences, err := q.List(profileID, "2025-06-01", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("saw another profile's occurrences: %+v", occurrences)
	}
}

func TestResolveCoalesce(t *testing.T) {
	base := models.Schedule{
		ID:        7,
		Name:      "base",
		Time:      100,
		Repeat:    models.RepeatDaily,
		StartDate: "2025-01-01",
		Active:    true,
	}

	if occ := Resolve(base, nil, "2025-02-01"); occ == nil || occ.Name != "base" || occ.Time != 100 || occ.Date != "2025-02-01" {
		t.Errorf("nil override: %+v", occ)
	}

	if occ := Resolve(base, &models.ScheduleOverride{Cancelled: true}, "2025-02-01"); occ != nil {
		t.Errorf("cancellation not suppressed: %+v", occ)
	}

	name := "renamed"
	if occ := Resolve(base, &models.ScheduleOverride{NewName: &name}, "2025-02-01"); occ.Name != "renamed" || occ.Time != 100 {
		t.Errorf("partial override: %+v", occ)
	}

	newDate := "2025-02-03"
	if occ := Resolve(base, &models.ScheduleOverride{NewDate: &newDate}, "2025-02-01"); occ.Date != "2025-02-03" {
		t.Errorf("date override: %+v", occ)
	}
}
