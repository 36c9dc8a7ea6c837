package activities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

type ActivityAddCmd struct {
	Category string   `arg:"" help:"Category (walking, running, cycling, swimming, squats, pushups, situps, weight_training, yoga, other)."`
	Count    int      `arg:"" help:"Steps, reps or minutes depending on the category."`
	Name     string   `short:"n" help:"Display name. Defaults to the category label."`
	Distance *float64 `short:"d" help:"Distance in km."`
	Duration *int     `help:"Duration in minutes."`
	Calories *int     `short:"c" help:"Calories burned."`
	Estimate bool     `help:"Estimate calories from the count when --calories is not given."`
	At       string   `short:"a" help:"When it happened (YYYY-MM-DD or YYYY-MM-DD HH:MM). Defaults to now."`
	Note     string   `help:"Free-form note."`
}

func (c *ActivityAddCmd) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	if _, err := models.ParseCategory(c.Category); err != nil {
		return err
	}
	return nil
}

func (c *ActivityAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	cat, _ := models.ParseCategory(c.Category)
	at, err := cli.ParseWhen(e, c.At)
	if err != nil {
		return err
	}

	a := models.Activity{
		Name:        c.Name,
		Category:    cat,
		Count:       c.Count,
		DistanceKm:  c.Distance,
		DurationMin: c.Duration,
		Calories:    c.Calories,
		Timestamp:   at,
		Note:        c.Note,
	}
	if a.Name == "" {
		a.Name = cat.Label()
	}
	if a.Calories == nil && c.Estimate {
		if kcal := models.EstimateCalories(cat, c.Count); kcal > 0 {
			a.Calories = models.Int(kcal)
		}
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}

	added, achieved := e.AddActivity(a)
	ctx.Printf("Added %s: %d %s (ID: %s)\n", added.Name, added.Count, cat.DefaultUnit(), added.ID)
	ctx.PrintAchieved(achieved)
	ctx.WarnPersist(e)
	return nil
}

type ActivityEditCmd struct {
	ID       string   `arg:"" help:"Activity ID."`
	Name     *string  `short:"n" help:"New name."`
	Category *string  `help:"New category."`
	Count    *int     `help:"New count."`
	Distance *float64 `short:"d" help:"New distance in km."`
	Duration *int     `help:"New duration in minutes."`
	Calories *int     `short:"c" help:"New calories."`
	At       *string  `short:"a" help:"New time (YYYY-MM-DD or YYYY-MM-DD HH:MM)."`
	Note     *string  `help:"New note."`
}

func (c *ActivityEditCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	a, ok := e.Activity(c.ID)
	if !ok {
		return fmt.Errorf("activity not found: %s", c.ID)
	}
	if a.External {
		return errors.New("synced activities are replaced on every sync and cannot be edited")
	}

	if c.Name != nil {
		a.Name = *c.Name
	}
	if c.Category != nil {
		cat, err := models.ParseCategory(*c.Category)
		if err != nil {
			return err
		}
		a.Category = cat
	}
	if c.Count != nil {
		a.Count = *c.Count
	}
	if c.Distance != nil {
		a.DistanceKm = c.Distance
	}
	if c.Duration != nil {
		a.DurationMin = c.Duration
	}
	if c.Calories != nil {
		a.Calories = c.Calories
	}
	if c.At != nil {
		if a.Timestamp, err = cli.ParseWhen(e, *c.At); err != nil {
			return err
		}
	}
	if c.Note != nil {
		a.Note = *c.Note
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}

	_, achieved := e.UpdateActivity(a)
	ctx.Printf("Updated activity: %s\n", a.Name)
	ctx.PrintAchieved(achieved)
	ctx.WarnPersist(e)
	return nil
}

type ActivityDeleteCmd struct {
	IDs []string `arg:"" name:"id" help:"Activity IDs to delete."`
}

func (c *ActivityDeleteCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	n := e.DeleteActivities(c.IDs...)
	if n == 0 {
		return fmt.Errorf("no matching activities found")
	}
	ctx.Printf("Deleted %d activit%s\n", n, plural(n, "y", "ies"))
	ctx.WarnPersist(e)
	return nil
}

type ActivityListCmd struct {
	Category string `short:"c" help:"Only this category."`
	Period   string `short:"p" help:"Only this period around --date (week, month, year)."`
	LastWeek bool   `help:"Show the week before --date."`
	Date     string `help:"Reference day (YYYY-MM-DD). Defaults to today."`
	External bool   `help:"Only entries created by health sync."`
	ShowIDs  bool   `help:"Show activity IDs." name:"show-ids"`
}

func (c *ActivityListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	ref, err := cli.ParseRef(e, c.Date)
	if err != nil {
		return err
	}

	var cat models.Category
	if c.Category != "" {
		if cat, err = models.ParseCategory(c.Category); err != nil {
			return err
		}
	}

	var rng *period.Range
	switch {
	case c.LastWeek:
		r := e.Calendar().PreviousWeek(ref)
		rng = &r
	case c.Period != "":
		kind, err := period.ParseKind(c.Period)
		if err != nil {
			return err
		}
		r := e.Calendar().Period(kind, ref, e.Now())
		rng = &r
	}

	entries := e.Query(cat, rng)
	if c.External {
		entries = onlyExternal(entries)
	}
	if len(entries) == 0 {
		ctx.Println("No activities found")
		return nil
	}

	if rng != nil {
		ctx.Println(cli.Bold.Render("Activities " + cli.FormatRange(*rng)))
	} else {
		ctx.Println(cli.Bold.Render("Activities"))
	}
	loc := e.Calendar().Location
	for _, a := range entries {
		ctx.Printf("  %s  %s\n", a.Timestamp.In(loc).Format(constants.DateFormat+" "+constants.TimeFormat), describe(a))
		if c.ShowIDs {
			ctx.Printf("      ID: %s\n", a.ID)
		}
	}
	return nil
}

func onlyExternal(in []models.Activity) []models.Activity {
	var out []models.Activity
	for _, a := range in {
		if a.External {
			out = append(out, a)
		}
	}
	return out
}

func describe(a models.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d %s", a.Name, a.Count, a.Category.DefaultUnit())
	if a.DistanceKm != nil {
		fmt.Fprintf(&b, ", %.2f km", *a.DistanceKm)
	}
	if a.DurationMin != nil {
		fmt.Fprintf(&b, ", %d min", *a.DurationMin)
	}
	if a.Calories != nil {
		fmt.Fprintf(&b, ", %d kcal", *a.Calories)
	}
	if a.External {
		b.WriteString(" [synced]")
	}
	if a.Note != "" {
		fmt.Fprintf(&b, " (%s)", a.Note)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
