// Package alarm is the foreground runner that watches the clock and
// announces due occurrences. It polls once per minute; playback of the
// sound itself is left to the platform.
package alarm

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"kron/internal/config"
	"kron/internal/dateutil"
	"kron/internal/models"
	"kron/internal/occurrence"
	"kron/internal/validation"
)

// Ticker fires alarms for the active profile.
type Ticker struct {
	query   *occurrence.Query
	gateway *config.Gateway
	log     zerolog.Logger

	// OnAlarm is called once per due occurrence. Defaults to a log line.
	OnAlarm func(occ models.Occurrence)

	// now is swappable in tests.
	now func() time.Time

	lastMinute string
}

func NewTicker(query *occurrence.Query, gateway *config.Gateway, log zerolog.Logger) *Ticker {
	t := &Ticker{
		query:   query,
		gateway: gateway,
		log:     log,
		now:     time.Now,
	}
	t.OnAlarm = func(occ models.Occurrence) {
		e := t.log.Info().
			Str("name", occ.Name).
			Str("time", dateutil.MinutesToClock(occ.Time)).
			Str("sound", occ.SoundName)
		if occ.SoundFile != nil {
			e = e.Str("file", *occ.SoundFile)
		}
		e.Msg("alarm")
	}
	return t
}

// Run blocks until ctx is cancelled, ticking once per minute.
func (t *Ticker) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() { t.Tick() }); err != nil {
		return err
	}

	t.log.Info().Msg("alarm ticker started")
	c.Start()
	// Fire immediately as well, so an alarm set for the current minute is
	// not missed while waiting for the first cron tick.
	t.Tick()

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	t.log.Info().Msg("alarm ticker stopped")
	return nil
}

// Tick resolves the active profile and announces every occurrence whose
// effective time matches the current minute. A minute is processed at most
// once even if ticks overlap it.
func (t *Ticker) Tick() {
	now := t.now()
	minute := now.Format("2006-01-02 15:04")
	if minute == t.lastMinute {
		return
	}
	t.lastMinute = minute

	profileID, err := t.gateway.ActiveProfile()
	if err != nil {
		if !errors.Is(err, validation.ErrNoProfile) {
			t.log.Error().Err(err).Msg("resolve active profile")
		}
		return
	}

	date := now.Format(dateutil.DateLayout)
	minutes := now.Hour()*60 + now.Minute()

	occurrences, err := t.query.List(profileID, date, "")
	if err != nil {
		t.log.Error().Err(err).Str("date", date).Msg("list occurrences")
		return
	}

	for _, occ := range occurrences {
		if occ.Time == minutes {
			t.OnAlarm(occ)
		}
	}
}
