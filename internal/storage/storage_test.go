package storage

import (
	"errors"
	"testing"

	"kron/internal/models"
	"kron/internal/validation"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustProfile(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.CreateProfile(name, "Europe/Berlin")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return id
}

func mustSchedule(t *testing.T, s *Store, sched models.Schedule, days []int) int64 {
	t.Helper()
	var id int64
	err := s.WithTx(func(tx *Tx) error {
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

func TestProfileCRUD(t *testing.T) {
	s := newTestStore(t)

	id := mustProfile(t, s, "work")
	p, err := s.GetProfile(id)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Name != "work" || p.Timezone != "Europe/Berlin" {
		t.Errorf("got profile %+v", p)
	}

	if _, err := s.GetProfile(999); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("missing profile: got %v, want ErrNotFound", err)
	}

	if err := s.DeleteProfile(id); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if err := s.DeleteProfile(id); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestProfileDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	profileID := mustProfile(t, s, "home")

	schedID := mustSchedule(t, s, models.Schedule{
		ProfileID: profileID,
		Name:      "gym",
		Time:      420,
		StartDate: "2025-01-06",
		Repeat:    models.RepeatWeekly,
		Active:    true,
	}, []int{1, 3, 5})

	err := s.WithTx(func(tx *Tx) error {
		return tx.UpsertOverride(models.ScheduleOverride{
			ScheduleID:   schedID,
			OriginalDate: "2025-01-08",
			Cancelled:    true,
		})
	})
	if err != nil {
		t.Fatalf("UpsertOverride: %v", err)
	}

	if err := s.DeleteProfile(profileID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	if _, err := s.GetSchedule(schedID); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("schedule survived cascade: %v", err)
	}
	days, err := s.GetScheduleDays(schedID)
	if err != nil {
		t.Fatalf("GetScheduleDays: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("weekday rows survived cascade: %v", days)
	}
	ov, err := s.GetOverride(schedID, "2025-01-08")
	if err != nil {
		t.Fatalf("GetOverride: %v", err)
	}
	if ov != nil {
		t.Errorf("override survived cascade: %+v", ov)
	}
}

func TestSoundDeleteNullsReferences(t *testing.T) {
	s := newTestStore(t)
	profileID := mustProfile(t, s, "p")

	soundID, err := s.CreateSound("Chime", "chime.wav")
	if err != nil {
		t.Fatalf("CreateSound: %v", err)
	}
	schedID := mustSchedule(t, s, models.Schedule{
		ProfileID: profileID,
		SoundID:   &soundID,
		Name:      "wake",
		Time:      390,
		StartDate: "2025-03-01",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}, nil)

	if err := s.DeleteSound(soundID); err != nil {
		t.Fatalf("DeleteSound: %v", err)
	}

	sched, err := s.GetSchedule(schedID)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if sched.SoundID != nil {
		t.Errorf("sound_id not nulled, got %d", *sched.SoundID)
	}
}

func TestGetScheduleForProfileScoping(t *testing.T) {
	s := newTestStore(t)
	alice := mustProfile(t, s, "alice")
	bob := mustProfile(t, s, "bob")

	schedID := mustSchedule(t, s, models.Schedule{
		ProfileID: alice,
		Name:      "standup",
		Time:      540,
		StartDate: "2025-02-03",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}, nil)

	if _, err := s.GetScheduleForProfile(schedID, alice); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := s.GetScheduleForProfile(schedID, bob); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("cross-profile lookup: got %v, want ErrNotFound", err)
	}
}

func TestUpsertOverrideLaterWriteWins(t *testing.T) {
	s := newTestStore(t)
	profileID := mustProfile(t, s, "p")
	schedID := mustSchedule(t, s, models.Schedule{
		ProfileID: profileID,
		Name:      "meds",
		Time:      480,
		StartDate: "2025-01-01",
		Repeat:    models.RepeatDaily,
		Active:    true,
	}, nil)

	name := "meds (moved)"
	minutes := 500
	err := s.WithTx(func(tx *Tx) error {
		return tx.UpsertOverride(models.ScheduleOverride{
			ScheduleID:   schedID,
			OriginalDate: "2025-01-10",
			NewName:      &name,
			NewTime:      &minutes,
		})
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	first, err := s.GetOverride(schedID, "2025-01-10")
	if err != nil {
		t.Fatalf("GetOverride: %v", err)
	}
	if first == nil || first.NewName == nil || *first.NewName != name {
		t.Fatalf("first override wrong: %+v", first)
	}

	// Second write rewrites the whole slot: the name override disappears,
	// only cancellation remains.
	err = s.WithTx(func(tx *Tx) error {
		return tx.UpsertOverride(models.ScheduleOverride{
			ScheduleID:   schedID,
			OriginalDate: "2025-01-10",
			Cancelled:    true,
		})
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	second, err := s.GetOverride(schedID, "2025-01-10")
	if err != nil {
		t.Fatalf("GetOverride: %v", err)
	}
	if second == nil {
		t.Fatal("override gone after upsert")
	}
	if !second.Cancelled {
		t.Error("cancellation not stored")
	}
	if second.NewName != nil || second.NewTime != nil {
		t.Errorf("stale fields survived rewrite: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on re-upsert: %v != %v", second.CreatedAt, first.CreatedAt)
	}

	// Only one row may exist for the slot.
	overrides, err := s.ListOverridesByOriginalDate(profileID, "2025-01-10")
	if err != nil {
		t.Fatalf("ListOverridesByOriginalDate: %v", err)
	}
	if len(overrides) != 1 {
		t.Errorf("got %d override rows, want 1", len(overrides))
	}
}

func TestDeleteOverrideMissingSlot(t *testing.T) {
	s := newTestStore(t)
	err := s.WithTx(func(tx *Tx) error {
		return tx.DeleteOverride(42, "2025-06-01")
	})
	if err != nil {
		t.Errorf("deleting absent override: %v", err)
	}
}

func TestDeleteSiblingContinuations(t *testing.T) {
	s := newTestStore(t)
	profileID := mustProfile(t, s, "p")

	base := models.Schedule{
		ProfileID: profileID,
		Time:      600,
		Repeat:    models.RepeatDaily,
		Active:    true,
	}

	self := base
	self.Name = "series"
	self.StartDate = "2025-01-01"
	selfID := mustSchedule(t, s, self, nil)

	sibling := base
	sibling.Name = "series"
	sibling.StartDate = "2025-04-01"
	siblingID := mustSchedule(t, s, sibling, nil)

	// Same start window but a different time of day: not a continuation.
	other := base
	other.Name = "unrelated"
	other.Time = 601
	other.StartDate = "2025-04-01"
	otherID := mustSchedule(t, s, other, nil)

	// Starts before the cut date: not a continuation either.
	earlier := base
	earlier.Name = "earlier"
	earlier.StartDate = "2025-03-31"
	earlierID := mustSchedule(t, s, earlier, nil)

	var deleted int64
	err := s.WithTx(func(tx *Tx) error {
		var err error
		deleted, err = tx.DeleteSiblingContinuations(profileID, selfID, "2025-04-01", 600)
		return err
	})
	if err != nil {
		t.Fatalf("DeleteSiblingContinuations: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d rows, want 1", deleted)
	}

	if _, err := s.GetSchedule(siblingID); !errors.Is(err, validation.ErrNotFound) {
		t.Errorf("sibling survived: %v", err)
	}
	for _, id := range []int64{selfID, otherID, earlierID} {
		if _, err := s.GetSchedule(id); err != nil {
			t.Errorf("schedule %d wrongly deleted: %v", id, err)
		}
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	profileID := mustProfile(t, s, "p")

	boom := errors.New("boom")
	err := s.WithTx(func(tx *Tx) error {
		if _, err := tx.InsertSchedule(models.Schedule{
			ProfileID: profileID,
			Name:      "ghost",
			Time:      60,
			StartDate: "2025-01-01",
			Repeat:    models.RepeatOnce,
			Active:    true,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	schedules, err := s.ListSchedulesByProfile(profileID)
	if err != nil {
		t.Fatalf("ListSchedulesByProfile: %v", err)
	}
	if len(schedules) != 0 {
		t.Errorf("insert survived rollback: %+v", schedules)
	}
}

func TestListScheduleDaysKeyedBySchedule(t *testing.T) {
	s := newTestStore(t)
	profileID := mustProfile(t, s, "p")

	a := mustSchedule(t, s, models.Schedule{
		ProfileID: profileID, Name: "a", Time: 60,
		StartDate: "2025-01-01", Repeat: models.RepeatWeekly, Active: true,
	}, []int{1, 5})
	b := mustSchedule(t, s, models.Schedule{
		ProfileID: profileID, Name: "b", Time: 120,
		StartDate: "2025-01-01", Repeat: models.RepeatWeekly, Active: true,
	}, []int{7})

	days, err := s.ListScheduleDays(profileID)
	if err != nil {
		t.Fatalf("ListScheduleDays: %v", err)
	}
	if got := days[a]; len(got) != 2 || got[0] != 1 || got[1] != 5 {
		t.Errorf("schedule a days = %v, want [1 5]", got)
	}
	if got := days[b]; len(got) != 1 || got[0] != 7 {
		t.Errorf("schedule b days = %v, want [7]", got)
	}
}
