package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"kron/internal/tui"
)

type TuiCmd struct {
	Profile string `help:"Profile to browse." default:"currentProfile"`
}

func (cmd *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	profileID, err := ctx.Gateway().Resolve(cmd.Profile)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Query(), ctx.Engine(), profileID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
