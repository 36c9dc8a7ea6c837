package system

import (
	"github.com/julianstephens/trackfit/internal/cli"
)

// ResetCmd clears every activity and restores the starter profile.
type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if !c.Yes {
		ctx.Println("⚠️  WARNING: This deletes every activity, goal and badge and resets your profile.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	e.Reset()
	ctx.Println("✓ All tracking data reset")
	ctx.WarnPersist(e)
	return nil
}
