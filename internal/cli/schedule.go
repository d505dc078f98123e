package cli

import (
	"fmt"

	"kron/internal/dateutil"
	"kron/internal/models"
	"kron/internal/series"
)

type ScheduleAddCmd struct {
	Name    string `help:"Schedule name." required:""`
	Time    string `help:"Alarm time as HH:MM." required:""`
	Repeat  string `help:"Repeat kind: once, daily or weekly." enum:"once,daily,weekly" default:"once"`
	Days    string `help:"Weekdays for weekly schedules, e.g. 'mon,wed,fri'." optional:""`
	Start   string `help:"Start date (YYYY-MM-DD), defaults to today." optional:""`
	End     string `help:"End date (YYYY-MM-DD), open-ended when omitted." optional:""`
	Sound   int64  `help:"Sound id, default sound when omitted." optional:""`
	Profile string `help:"Profile id, or the active profile." default:"currentProfile"`
}

func (cmd *ScheduleAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	profileID, err := ctx.Gateway().Resolve(cmd.Profile)
	if err != nil {
		return err
	}

	minutes, err := dateutil.ClockToMinutes(cmd.Time)
	if err != nil {
		return err
	}

	in := series.ScheduleInput{
		Name:      cmd.Name,
		Time:      minutes,
		Repeat:    models.Repeat(cmd.Repeat),
		StartDate: cmd.Start,
	}
	if in.StartDate == "" {
		in.StartDate = dateutil.Today()
	}
	if cmd.End != "" {
		end := cmd.End
		in.EndDate = &end
	}
	if cmd.Sound != 0 {
		soundID := cmd.Sound
		in.SoundID = &soundID
	}
	if cmd.Days != "" {
		in.Days, err = dateutil.ParseWeekdays(cmd.Days)
		if err != nil {
			return err
		}
	}

	id, err := ctx.Engine().Create(profileID, in)
	if err != nil {
		return err
	}
	fmt.Printf("Created schedule %d (%s at %s)\n", id, in.Name, cmd.Time)
	return nil
}

type ScheduleEditCmd struct {
	ID      int64  `arg:"" help:"Schedule id."`
	Date    string `help:"Occurrence date the edit applies from (YYYY-MM-DD), defaults to today." optional:""`
	Scope   string `help:"Blast radius: only this date, this date and after, or the entire series." enum:"only,afterward,all" default:"only"`
	Name    string `help:"New name, current name when omitted." optional:""`
	Time    string `help:"New time as HH:MM, current time when omitted." optional:""`
	Sound   int64  `help:"New sound id; 0 clears to the default sound." optional:"" default:"-1"`
	Cancel  bool   `help:"Cancel instead of ring: skip the date (only), end the series (afterward), or deactivate it (all)."`
	Profile string `help:"Profile id, or the active profile." default:"currentProfile"`
}

func (cmd *ScheduleEditCmd) Run(ctx *Context) error {
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

	// Unspecified fields inherit the schedule's current values, so an edit
	// can change just the time without retyping the name.
	current, err := ctx.Store().GetScheduleForProfile(cmd.ID, profileID)
	if err != nil {
		return err
	}
	edit := series.OccurrenceEdit{
		Name:      current.Name,
		Time:      current.Time,
		SoundID:   current.SoundID,
		Cancelled: cmd.Cancel,
	}
	if cmd.Name != "" {
		edit.Name = cmd.Name
	}
	if cmd.Time != "" {
		edit.Time, err = dateutil.ClockToMinutes(cmd.Time)
		if err != nil {
			return err
		}
	}
	switch {
	case cmd.Sound == 0:
		edit.SoundID = nil
	case cmd.Sound > 0:
		soundID := cmd.Sound
		edit.SoundID = &soundID
	}

	id, err := ctx.Engine().Update(profileID, cmd.ID, date, models.Scope(cmd.Scope), edit)
	if err != nil {
		return err
	}

	if id != cmd.ID {
		fmt.Printf("Series split: schedule %d ends, schedule %d continues from %s\n", cmd.ID, id, date)
	} else {
		fmt.Printf("Updated schedule %d (scope %s)\n", id, cmd.Scope)
	}
	return nil
}

type ScheduleDeleteCmd struct {
	ID      int64  `arg:"" help:"Schedule id."`
	Date    string `help:"Occurrence date the delete applies from (YYYY-MM-DD), defaults to today." optional:""`
	Scope   string `help:"Blast radius: only this date, this date and after, or the entire series." enum:"only,afterward,all" default:"only"`
	Profile string `help:"Profile id, or the active profile." default:"currentProfile"`
}

func (cmd *ScheduleDeleteCmd) Run(ctx *Context) error {
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

	if _, err := ctx.Engine().Delete(profileID, cmd.ID, date, models.Scope(cmd.Scope)); err != nil {
		return err
	}

	switch models.Scope(cmd.Scope) {
	case models.ScopeOnly:
		fmt.Printf("Schedule %d skipped on %s\n", cmd.ID, date)
	case models.ScopeAfterward:
		fmt.Printf("Schedule %d ends before %s\n", cmd.ID, date)
	default:
		fmt.Printf("Deleted schedule %d entirely\n", cmd.ID)
	}
	return nil
}
