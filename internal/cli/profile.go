package cli

import (
	"fmt"
	"time"

	"kron/internal/config"
)

type ProfileAddCmd struct {
	Name     string `help:"Profile name." required:""`
	Timezone string `help:"Timezone label stored with the profile." default:""`
}

func (cmd *ProfileAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	tz := cmd.Timezone
	if tz == "" {
		tz, _ = time.Now().Zone()
	}

	id, err := ctx.Store().CreateProfile(cmd.Name, tz)
	if err != nil {
		return err
	}
	// A freshly created profile becomes the active one.
	if err := ctx.Gateway().SetActiveProfile(id); err != nil {
		return err
	}

	fmt.Printf("Created profile %d (%s), now active\n", id, cmd.Name)
	return nil
}

type ProfileListCmd struct{}

func (cmd *ProfileListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	profiles, err := ctx.Store().ListProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles found")
		return nil
	}

	activeID, _ := ctx.Gateway().ActiveProfile()
	fmt.Println("Profiles:")
	for _, p := range profiles {
		marker := " "
		if p.ID == activeID {
			marker = "*"
		}
		fmt.Printf("  %s %d  %s (%s)\n", marker, p.ID, p.Name, p.Timezone)
	}
	return nil
}

type ProfileUseCmd struct {
	ID int64 `arg:"" help:"Profile id to activate."`
}

func (cmd *ProfileUseCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	if err := ctx.Gateway().SetActiveProfile(cmd.ID); err != nil {
		return err
	}
	fmt.Printf("Active profile is now %d\n", cmd.ID)
	return nil
}

type ProfileDeleteCmd struct {
	ID int64 `arg:"" help:"Profile id to delete."`
}

func (cmd *ProfileDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	if err := ctx.Store().DeleteProfile(cmd.ID); err != nil {
		return err
	}
	// Clear the active pointer if it referenced the deleted profile.
	if activeID, err := ctx.Gateway().ActiveProfile(); err == nil && activeID == cmd.ID {
		if err := ctx.Config().Delete(config.KeyActiveProfile); err != nil {
			return err
		}
	}

	fmt.Printf("Deleted profile %d and its schedules\n", cmd.ID)
	return nil
}
