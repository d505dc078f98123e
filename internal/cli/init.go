package cli

import (
	"fmt"
	"os"
)

type InitCmd struct{}

func (cmd *InitCmd) Run(ctx *Context) error {
	if _, err := os.Stat(ctx.DBPath()); err == nil {
		return fmt.Errorf("storage already initialized at %s", ctx.DBPath())
	}

	if err := ctx.open(); err != nil {
		return err
	}
	defer ctx.Close()

	fmt.Printf("Initialized kron storage at %s\n", ctx.DataDir)
	fmt.Println("Create a profile next: kron profile add --name <name>")
	return nil
}
