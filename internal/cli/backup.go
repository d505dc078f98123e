package cli

import (
	"fmt"
	"path/filepath"

	"kron/internal/backup"
)

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	ctx.Close() // snapshot from a quiesced database

	path, err := backup.NewManager(ctx.DBPath()).Create()
	if err != nil {
		return err
	}
	fmt.Printf("Created backup %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	backups, err := backup.NewManager(ctx.DBPath()).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	fmt.Println("Backups (newest first):")
	for _, b := range backups {
		fmt.Printf("  %s  %s (%d bytes)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), b.Size)
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name or path to restore."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.DBPath())

	path := cmd.File
	if filepath.Dir(path) == "." {
		path = filepath.Join(mgr.Dir(), path)
	}

	if err := mgr.Restore(path); err != nil {
		return err
	}
	fmt.Printf("Restored database from %s\n", filepath.Base(path))
	return nil
}
