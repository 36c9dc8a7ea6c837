package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/trackfit/internal/backup"
	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/config"
	"github.com/julianstephens/trackfit/internal/storage"
)

type InitCmd struct {
	Force       bool   `help:"Delete existing local storage before initialization."`
	Source      string `help:"Storage (file, directory or connection string) to copy tracking data from."`
	WriteConfig bool   `help:"Write the effective configuration to the config file."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized trackfit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	// opening the engine writes the starter profile when none exists
	if _, err := ctx.Engine(); err != nil {
		return err
	}

	if c.WriteConfig && ctx.ConfigPath != "" {
		if err := ctx.Config.Write(ctx.ConfigPath); err != nil {
			return err
		}
		ctx.Printf("Wrote config: %s\n", ctx.ConfigPath)
	}
	return nil
}

// removeExisting only ever deletes local files; a remote database is left alone.
func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if ctx.Config.Backend != config.BackendSQLite && ctx.Config.Backend != config.BackendJSON {
		return fmt.Errorf("--force is only supported for local storage")
	}
	path := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absPath, err1 := filepath.Abs(path)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absPath == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing storage: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete existing storage: %w", err)
	}
	ctx.Printf("Deleted existing storage at: %s\n", path)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	backend, target := config.InferBackend(c.Source)
	src, err := cli.NewProvider(backend, target)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	for _, key := range backup.Documents {
		data, err := src.GetDocument(key)
		if errors.Is(err, storage.ErrNotFound) {
			ctx.Printf("  %s: not present, skipped\n", key)
			continue
		}
		if err != nil {
			return err
		}
		if err := ctx.Store.PutDocument(key, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		ctx.Printf("  %s: copied\n", key)
	}
	return nil
}
