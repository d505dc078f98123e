package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"kron/internal/cli"
)

var CLI struct {
	Version kong.VersionFlag
	DataDir string `help:"Data directory." type:"path" default:"~/.config/kron"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd `cmd:"" help:"Initialize kron storage."`
	Tui     cli.TuiCmd  `cmd:"" help:"Launch the interactive day browser." default:"1"`
	Day     cli.DayCmd  `cmd:"" help:"Show alarms for a day."`
	Run     cli.RunCmd  `cmd:"" help:"Run the alarm loop in the foreground."`
	Profile struct {
		Add    cli.ProfileAddCmd    `cmd:"" help:"Add a profile."`
		List   cli.ProfileListCmd   `cmd:"" help:"List profiles."`
		Use    cli.ProfileUseCmd    `cmd:"" help:"Switch the active profile."`
		Delete cli.ProfileDeleteCmd `cmd:"" help:"Delete a profile and its schedules."`
	} `cmd:"" help:"Manage profiles."`
	Sound struct {
		Add    cli.SoundAddCmd    `cmd:"" help:"Add a sound."`
		List   cli.SoundListCmd   `cmd:"" help:"List sounds."`
		Edit   cli.SoundEditCmd   `cmd:"" help:"Edit a sound."`
		Delete cli.SoundDeleteCmd `cmd:"" help:"Delete a sound."`
	} `cmd:"" help:"Manage alarm sounds."`
	Schedule struct {
		Add    cli.ScheduleAddCmd    `cmd:"" help:"Add an alarm schedule."`
		Edit   cli.ScheduleEditCmd   `cmd:"" help:"Edit a schedule or one of its dates."`
		Delete cli.ScheduleDeleteCmd `cmd:"" help:"Delete a schedule, a date, or the future of a series."`
	} `cmd:"" help:"Manage alarm schedules."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a database backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage database backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("kron"),
		kong.Description("Desktop alarm and reminder scheduler"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	level := zerolog.InfoLevel
	if CLI.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	appCtx := &cli.Context{
		DataDir: filepath.Clean(CLI.DataDir),
		Log:     log,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
