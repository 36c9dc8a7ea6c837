package progress

import (
	"fmt"
	"time"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

const barWidth = 20

type ProgressCmd struct {
	Category string `arg:"" optional:"" help:"Only this category."`
	Date     string `help:"Reference day (YYYY-MM-DD). Defaults to today."`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	ref, err := cli.ParseRef(e, c.Date)
	if err != nil {
		return err
	}

	if c.Category != "" {
		cat, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		p := e.ProgressFor(cat, ref)
		ctx.Printf("%s %s %3.0f%%\n", cat.Label(), cli.ProgressBar(p, barWidth), p*100)
		return nil
	}

	overall := e.OverallProgress(ref)
	ctx.Println(cli.Bold.Render("Week " + cli.FormatRange(e.Calendar().Week(ref))))
	ctx.Printf("  %-16s %s %3.0f%%\n", "Overall", cli.ProgressBar(overall, barWidth), overall*100)
	for _, st := range e.GoalStatuses(ref) {
		ctx.Printf("  %-16s %s %3.0f%%\n", st.Goal.Category.Label(), cli.ProgressBar(st.Progress, barWidth), st.Progress*100)
	}
	return nil
}

type SummaryCmd struct {
	Period   string `arg:"" optional:"" default:"week" help:"week, month or year."`
	Category string `short:"c" help:"Only this category."`
	Date     string `help:"Reference day (YYYY-MM-DD). Defaults to today."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	e, kind, cat, ref, err := periodArgs(ctx, c.Period, c.Category, c.Date)
	if err != nil {
		return err
	}

	s := e.Summary(kind, cat, ref)
	title := fmt.Sprintf("%s summary %s", kindTitles[kind], cli.FormatRange(s.Range))
	if cat != "" {
		title += " (" + cat.Label() + ")"
	}
	ctx.Println(cli.Bold.Render(title))
	ctx.Printf("  Entries:            %d\n", s.Entries)
	ctx.Printf("  Total count:        %d\n", s.TotalCount)
	ctx.Printf("  Total calories:     %d kcal\n", s.TotalCalories)
	ctx.Printf("  Total distance:     %.2f km\n", s.TotalDistanceKm)
	ctx.Printf("  Active days:        %d\n", s.ActiveDays)
	ctx.Printf("  Avg per active day: %.1f\n", s.AveragePerActiveDay)
	return nil
}

type SeriesCmd struct {
	Period   string `arg:"" optional:"" default:"week" help:"week, month or year."`
	Category string `short:"c" help:"Only this category."`
	Metric   string `short:"m" default:"count" help:"count, distance or calories."`
	Date     string `help:"Reference day (YYYY-MM-DD). Defaults to today."`
}

func (c *SeriesCmd) Run(ctx *cli.Context) error {
	metric, err := engine.ParseMetric(c.Metric)
	if err != nil {
		return err
	}
	e, kind, cat, ref, err := periodArgs(ctx, c.Period, c.Category, c.Date)
	if err != nil {
		return err
	}

	points := e.Series(kind, cat, metric, ref)
	peak := 0.0
	for _, p := range points {
		if p.Value > peak {
			peak = p.Value
		}
	}
	layout := "Mon 01-02"
	if kind == period.KindYear {
		layout = "Jan 2006"
	}
	for _, p := range points {
		ratio := 0.0
		if peak > 0 {
			ratio = p.Value / peak
		}
		ctx.Printf("  %-10s %s %g\n", p.Start.Format(layout), cli.ProgressBar(ratio, barWidth), p.Value)
	}
	return nil
}

func periodArgs(ctx *cli.Context, rawKind, rawCat, rawDate string) (*engine.Engine, period.Kind, models.Category, time.Time, error) {
	kind, err := period.ParseKind(rawKind)
	if err != nil {
		return nil, "", "", time.Time{}, err
	}
	var cat models.Category
	if rawCat != "" {
		if cat, err = models.ParseCategory(rawCat); err != nil {
			return nil, "", "", time.Time{}, err
		}
	}
	e, err := ctx.Engine()
	if err != nil {
		return nil, "", "", time.Time{}, err
	}
	ref, err := cli.ParseRef(e, rawDate)
	if err != nil {
		return nil, "", "", time.Time{}, err
	}
	return e, kind, cat, ref, nil
}

var kindTitles = map[period.Kind]string{
	period.KindWeek:  "Weekly",
	period.KindMonth: "Monthly",
	period.KindYear:  "Yearly",
}

type HomeCmd struct {
	Date string `help:"Reference day (YYYY-MM-DD). Defaults to today."`
}

func (c *HomeCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	ref, err := cli.ParseRef(e, c.Date)
	if err != nil {
		return err
	}

	name := e.Preferences().Name
	if name == "" {
		name = "there"
	}
	ctx.Println(cli.Bold.Render(fmt.Sprintf("Hi %s, here is your week", name)))
	for _, h := range e.HomeSummary(ref) {
		target := ""
		if h.Target > 0 {
			target = fmt.Sprintf(" / %g", h.Target)
		}
		ctx.Printf("  %-16s %s %.1f%s %s\n", h.Label, cli.ProgressBar(h.Progress, barWidth), h.Value, target, h.Unit)
	}
	return nil
}

type BadgeListCmd struct {
	Pending bool `help:"Only badges not achieved yet."`
}

func (c *BadgeListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	achieved, pending := e.BadgePartition()
	loc := e.Calendar().Location

	if !c.Pending {
		ctx.Println(cli.Bold.Render(fmt.Sprintf("Achieved (%d)", len(achieved))))
		for _, b := range achieved {
			when := ""
			if b.AchievedAt != nil {
				when = " on " + b.AchievedAt.In(loc).Format(constants.DateFormat)
			}
			ctx.Printf("  🏅 %s: %s%s\n", b.Name, b.Description, when)
		}
	}
	ctx.Println(cli.Bold.Render(fmt.Sprintf("Pending (%d)", len(pending))))
	for _, b := range pending {
		ctx.Printf("  %s %s: %s\n", cli.Faint.Render("○"), b.Name, b.Description)
	}
	return nil
}
