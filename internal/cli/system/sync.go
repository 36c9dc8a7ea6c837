package system

import (
	"context"
	"os"
	"os/signal"

	"github.com/julianstephens/trackfit/internal/cli"
)

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rng := e.SyncRange()
	ctx.Printf("Syncing %s\n", cli.FormatRange(rng))
	res := e.SyncNow(sigCtx)
	if res.Err != nil {
		return res.Err
	}

	for _, s := range res.Samples {
		switch {
		case s.Err != nil:
			ctx.Printf("  %-12s %s\n", s.Category, cli.Faint.Render("no data ("+s.Err.Error()+")"))
		case s.Empty():
			ctx.Printf("  %-12s %s\n", s.Category, cli.Faint.Render("no activity"))
		default:
			ctx.Printf("  %-12s %d, %.2f km\n", s.Category, s.Count, s.DistanceKm)
		}
	}
	ctx.Printf("Replaced %d synced entr%s with %d\n", res.Removed, plural(res.Removed), len(res.Inserted))
	ctx.PrintAchieved(res.Achieved)
	ctx.WarnPersist(e)
	return nil
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
