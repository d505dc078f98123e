package cli

import (
	"fmt"

	"kron/internal/dateutil"
)

type DayCmd struct {
	Date    string `arg:"" help:"Date to show (YYYY-MM-DD), defaults to today." optional:""`
	Search  string `help:"Case-insensitive name filter." optional:""`
	Profile string `help:"Profile id, or the active profile." default:"currentProfile"`
}

func (cmd *DayCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	profileID, err := ctx.Gateway().Resolve(cmd.Profile)
	if err != nil {
		return err
	}

	date := cmd.Date
	if date == "" {
		date = dateutil.Today()
	}

	occurrences, err := ctx.Query().List(profileID, date, cmd.Search)
	if err != nil {
		return err
	}
	if len(occurrences) == 0 {
		fmt.Printf("No alarms on %s\n", date)
		return nil
	}

	fmt.Printf("Alarms on %s:\n", date)
	for _, occ := range occurrences {
		fmt.Printf("  %s  %s (%s, %s) [#%d]\n",
			dateutil.MinutesToClock(occ.Time), occ.Name, occ.SoundName, occ.Repeat, occ.ScheduleID)
	}
	return nil
}
