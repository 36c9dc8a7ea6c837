package system

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/models"
)

// StopwatchCmd times an activity and records it when Enter is pressed.
type StopwatchCmd struct {
	Category string        `arg:"" help:"Category to record."`
	Name     string        `short:"n" help:"Display name. Defaults to the category label."`
	Count    *int          `help:"Count to record. Minute-based categories default to the elapsed minutes."`
	Interval time.Duration `default:"1s" help:"Display refresh interval."`
	Discard  bool          `help:"Only time, do not record an entry."`
}

func (c *StopwatchCmd) Validate() error {
	if c.Count != nil && *c.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	_, err := models.ParseCategory(c.Category)
	return err
}

func (c *StopwatchCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	cat, _ := models.ParseCategory(c.Category)
	started := e.Now()

	ctx.Printf("Timing %s, press Enter to stop.\n", cat.Label())
	err = e.StartStopwatch(c.Interval, func(d time.Duration) {
		ctx.Printf("\r  %s", formatElapsed(d))
	})
	if err != nil {
		return err
	}

	in := ctx.In
	if in == nil {
		in = os.Stdin
	}
	_, _ = bufio.NewReader(in).ReadString('\n')

	secs, _ := e.StopStopwatch()
	ctx.Printf("\rElapsed: %s\n", formatElapsed(time.Duration(secs)*time.Second))
	if c.Discard {
		return nil
	}

	minutes := int(math.Round(float64(secs) / 60))
	a := models.Activity{
		Name:        c.Name,
		Category:    cat,
		DurationMin: models.Int(minutes),
		Timestamp:   started,
	}
	if a.Name == "" {
		a.Name = cat.Label()
	}
	switch {
	case c.Count != nil:
		a.Count = *c.Count
	case cat.DefaultUnit() == "min":
		a.Count = minutes
	}

	added, achieved := e.AddActivity(a)
	ctx.Printf("Added %s: %d min (ID: %s)\n", added.Name, minutes, added.ID)
	ctx.PrintAchieved(achieved)
	ctx.WarnPersist(e)
	return nil
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
