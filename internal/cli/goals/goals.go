package goals

import (
	"fmt"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/models"
)

type GoalSetCmd struct {
	Category string `arg:"" help:"Category the goal tracks."`
	Target   int    `arg:"" help:"Weekly target."`
	Unit     string `short:"u" help:"Unit label. Defaults to the category's unit."`
	ID       string `help:"Update the goal with this ID instead of the category's first goal."`
	New      bool   `help:"Always add a new goal, even if the category already has one."`
}

func (c *GoalSetCmd) Validate() error {
	if c.Target <= 0 {
		return fmt.Errorf("target must be greater than zero")
	}
	if c.ID != "" && c.New {
		return fmt.Errorf("--id and --new are mutually exclusive")
	}
	_, err := models.ParseCategory(c.Category)
	return err
}

func (c *GoalSetCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	cat, _ := models.ParseCategory(c.Category)

	g := models.Goal{ID: c.ID, Category: cat, WeeklyTarget: c.Target, Unit: c.Unit}
	if c.ID != "" || !c.New {
		for _, existing := range e.Goals() {
			if (c.ID != "" && existing.ID == c.ID) || (c.ID == "" && existing.Category == cat) {
				g.ID = existing.ID
				g.StartDate = existing.StartDate
				if g.Unit == "" {
					g.Unit = existing.Unit
				}
				break
			}
		}
	}

	saved := e.SetGoal(g)
	ctx.Printf("Goal set: %s %d %s per week (ID: %s)\n", cat.Label(), saved.WeeklyTarget, saved.Unit, saved.ID)
	ctx.WarnPersist(e)
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if !e.DeleteGoal(c.ID) {
		return fmt.Errorf("goal not found: %s", c.ID)
	}
	ctx.Println("Goal deleted")
	ctx.WarnPersist(e)
	return nil
}

type GoalListCmd struct {
	Date    string `help:"Reference day (YYYY-MM-DD). Defaults to today."`
	ShowIDs bool   `help:"Show goal IDs." name:"show-ids"`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	ref, err := cli.ParseRef(e, c.Date)
	if err != nil {
		return err
	}

	statuses := e.GoalStatuses(ref)
	if len(statuses) == 0 {
		ctx.Println("No goals set. Use 'trackfit goal set' to add one.")
		return nil
	}

	ctx.Println(cli.Bold.Render("Weekly goals " + cli.FormatRange(e.Calendar().Week(ref))))
	for _, st := range statuses {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", st.Goal.ID)
		}
		ctx.Printf("  %-16s %s %3.0f%%  %d / %d %s%s\n",
			st.Goal.Category.Label(), cli.ProgressBar(st.Progress, 20), st.Progress*100,
			st.Achieved, st.Goal.WeeklyTarget, st.Goal.Unit, idStr)
	}
	return nil
}
