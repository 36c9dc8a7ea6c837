package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
	"github.com/julianstephens/trackfit/internal/storage"
	"github.com/julianstephens/trackfit/internal/storage/sqlite"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	needsDB bool
	// gate failing skips every needsDB check after it
	gate bool
	// warn checks never fail the command
	warn bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorageReachable, gate: true},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Activities document", run: checkActivities, needsDB: true},
	{name: "Profile document", run: checkProfile, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "Health source", run: checkHealthSource, warn: true},
	{name: "Clock/timezone", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := 0
	reachable := true
	for _, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			failed++
			if c.gate {
				reachable = false
			}
		}
	}

	ctx.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		var one int
		if err := s.GetDB().QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("schema version %d is newer than this binary supports (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("schema version %d is behind %d, run 'trackfit init' to migrate", current, latest)
	}
	return nil
}

// readDocument returns nil data for a document that was never written.
func readDocument(ctx *cli.Context, key string) ([]byte, error) {
	data, err := ctx.Store.GetDocument(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

func checkActivities(ctx *cli.Context) error {
	data, err := readDocument(ctx, constants.DocumentActivities)
	if err != nil || data == nil {
		return err
	}
	var entries []models.Activity
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("document is corrupt and would be ignored: %w", err)
	}
	seen := make(map[string]bool, len(entries))
	for _, a := range entries {
		if seen[a.ID] {
			return fmt.Errorf("duplicate activity ID found: %s", a.ID)
		}
		seen[a.ID] = true
		if err := a.Validate(); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
	}
	return nil
}

func checkProfile(ctx *cli.Context) error {
	data, err := readDocument(ctx, constants.DocumentProfile)
	if err != nil {
		return err
	}
	if data == nil {
		return errors.New("no profile stored yet, defaults will be used")
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("document is corrupt and would be replaced by defaults: %w", err)
	}
	if _, err := period.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("profile timezone %q is invalid: %w", p.Timezone, err)
	}
	for _, g := range p.Goals {
		if g.WeeklyTarget <= 0 {
			return fmt.Errorf("goal %s has a non-positive weekly target", g.ID)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'trackfit backup create'")
	}
	return nil
}

func checkHealthSource(ctx *cli.Context) error {
	h := ctx.Config.Health
	switch {
	case h.URL != "":
		return nil
	case h.File != "":
		if _, err := os.Stat(h.File); err != nil {
			return fmt.Errorf("health file is not readable: %w", err)
		}
		return nil
	}
	return errors.New("no health source configured, sync will only clear synced entries")
}

func checkClock(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := period.LoadLocation(constants.DefaultTimezone); err != nil {
		return fmt.Errorf("local timezone unavailable: %w", err)
	}
	return nil
}
