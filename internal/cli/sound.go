package cli

import (
	"fmt"

	"kron/internal/models"
)

type SoundAddCmd struct {
	Name string `help:"Display name." required:""`
	File string `help:"Sound file name." required:""`
}

func (cmd *SoundAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	id, err := ctx.Store().CreateSound(cmd.Name, cmd.File)
	if err != nil {
		return err
	}
	fmt.Printf("Created sound %d (%s)\n", id, cmd.Name)
	return nil
}

type SoundListCmd struct{}

func (cmd *SoundListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	sounds, err := ctx.Store().ListSounds()
	if err != nil {
		return err
	}
	if len(sounds) == 0 {
		fmt.Println("No sounds found")
		return nil
	}

	fmt.Println("Sounds:")
	for _, snd := range sounds {
		fmt.Printf("  %d  %s (%s)\n", snd.ID, snd.Name, snd.FileName)
	}
	return nil
}

type SoundEditCmd struct {
	ID   int64  `arg:"" help:"Sound id."`
	Name string `help:"New display name." optional:""`
	File string `help:"New file name." optional:""`
}

func (cmd *SoundEditCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	snd, err := ctx.Store().GetSound(cmd.ID)
	if err != nil {
		return err
	}
	if cmd.Name != "" {
		snd.Name = cmd.Name
	}
	if cmd.File != "" {
		snd.FileName = cmd.File
	}
	if err := ctx.Store().UpdateSound(models.Sound{ID: snd.ID, Name: snd.Name, FileName: snd.FileName}); err != nil {
		return err
	}
	fmt.Printf("Updated sound %d\n", snd.ID)
	return nil
}

type SoundDeleteCmd struct {
	ID int64 `arg:"" help:"Sound id."`
}

func (cmd *SoundDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	if err := ctx.Store().DeleteSound(cmd.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted sound %d; schedules using it fall back to the default sound\n", cmd.ID)
	return nil
}
