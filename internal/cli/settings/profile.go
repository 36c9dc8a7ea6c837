package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/models"
)

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	p := e.Preferences()

	ctx.Println(cli.Bold.Render("Profile"))
	ctx.Printf("  Name:                 %s\n", orDash(p.Name))
	ctx.Printf("  Age:                  %s\n", optInt(p.Age, ""))
	ctx.Printf("  Height:               %s\n", optFloat(p.HeightCm, " cm"))
	ctx.Printf("  Weight:               %s\n", optFloat(p.WeightKg, " kg"))
	ctx.Println(cli.Bold.Render("\nTracking"))
	ctx.Printf("  Week starts on:       %s\n", p.WeekStart)
	ctx.Printf("  Timezone:             %s\n", p.Timezone)
	ctx.Printf("  Distance target:      %g km/week\n", p.WeeklyDistanceTargetKm)
	ctx.Printf("  Preferred categories: %s\n", join(p.PreferredCategories))
	ctx.Printf("  Home items:           %s\n", join(p.HomeItems))
	ctx.Println(cli.Bold.Render("\nNotifications"))
	ctx.Printf("  Enabled:              %v\n", p.NotificationsEnabled)
	ctx.Printf("  Reminder time:        %s\n", p.ReminderTime)
	ctx.Printf("  Weekly report:        %v\n", p.WeeklyReportEnabled)
	return nil
}

type ProfileSetCmd struct {
	Key   string `arg:"" help:"Preference key. Run 'trackfit profile keys' to list them."`
	Value string `arg:"" optional:"" help:"New value. Empty clears optional body metrics."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.SetPreference(c.Key, c.Value); err != nil {
		return err
	}
	ctx.Printf("Updated %s\n", c.Key)
	ctx.WarnPersist(e)
	return nil
}

type ProfileKeysCmd struct{}

func (c *ProfileKeysCmd) Run(ctx *cli.Context) error {
	for _, k := range models.PreferenceKeys() {
		ctx.Println(k)
	}
	return nil
}

type WeekStartCmd struct {
	Day string `arg:"" help:"monday or sunday."`
}

func (c *WeekStartCmd) Run(ctx *cli.Context) error {
	ws, err := models.ParseWeekStart(c.Day)
	if err != nil {
		return err
	}
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	e.SetWeekStart(ws)
	ctx.Printf("Weeks now start on %s\n", ws)
	ctx.WarnPersist(e)
	return nil
}

type HomeItemsCmd struct {
	Items []string `arg:"" help:"Ordered home items: overall, steps, distance or a category."`
}

func (c *HomeItemsCmd) Run(ctx *cli.Context) error {
	items, err := models.ParseHomeItemList(strings.Join(c.Items, ","))
	if err != nil {
		return err
	}
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	e.SetHomeItems(items)
	ctx.Printf("Home items: %s\n", join(items))
	ctx.WarnPersist(e)
	return nil
}

type CategoriesCmd struct {
	Categories []string `arg:"" help:"Preferred categories in display order."`
}

func (c *CategoriesCmd) Run(ctx *cli.Context) error {
	cats, err := models.ParseCategoryList(strings.Join(c.Categories, ","))
	if err != nil {
		return err
	}
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	e.SetPreferredCategories(cats)
	ctx.Printf("Preferred categories: %s\n", join(cats))
	ctx.WarnPersist(e)
	return nil
}

func join[T ~string](items []T) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func optInt(v *int, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d%s", *v, unit)
}

func optFloat(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g%s", *v, unit)
}
