package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kron/internal/alarm"
)

type RunCmd struct{}

func (cmd *RunCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	defer ctx.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := alarm.NewTicker(ctx.Query(), ctx.Gateway(), ctx.Log)
	return ticker.Run(runCtx)
}
