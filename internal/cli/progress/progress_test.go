package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/storage"
)

var now = time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, *engine.Engine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:   storage.NewMemoryStore(),
		Options: []engine.Option{engine.WithClock(func() time.Time { return now })},
		Out:     out,
	}
	e, err := ctx.Engine()
	require.NoError(t, err)
	require.NoError(t, e.SetPreference(models.PrefTimezone, "UTC"))
	t.Cleanup(func() { _ = ctx.Close() })

	e.AddActivity(models.Activity{Name: "Walk", Category: models.CategoryWalking, Count: 35000, DistanceKm: models.Float64(25), Calories: models.Int(1400), Timestamp: now.Add(-24 * time.Hour)})
	e.AddActivity(models.Activity{Name: "Squats", Category: models.CategorySquats, Count: 100, Timestamp: now})
	out.Reset()
	return ctx, e, out
}

func TestProgressCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	require.NoError(t, (&ProgressCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Week 2024-05-13 to 2024-05-19")
	assert.Contains(t, out.String(), "Overall")
	assert.Contains(t, out.String(), " 75%")

	out.Reset()
	require.NoError(t, (&ProgressCmd{Category: "squats"}).Run(ctx))
	assert.Contains(t, out.String(), "Squats")
	assert.Contains(t, out.String(), "100%")

	out.Reset()
	require.NoError(t, (&ProgressCmd{Date: "2024-05-08"}).Run(ctx))
	assert.Contains(t, out.String(), "Week 2024-05-06 to 2024-05-12")
	assert.Contains(t, out.String(), "  0%")

	assert.Error(t, (&ProgressCmd{Category: "nope"}).Run(ctx))
	assert.Error(t, (&ProgressCmd{Date: "15/05/2024"}).Run(ctx))
}

func TestSummaryCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	require.NoError(t, (&SummaryCmd{Period: "week"}).Run(ctx))
	s := out.String()
	assert.Contains(t, s, "Weekly summary 2024-05-13 to 2024-05-19")
	assert.Contains(t, s, "Entries:            2")
	assert.Contains(t, s, "Total count:        35100")
	assert.Contains(t, s, "Total calories:     1400 kcal")
	assert.Contains(t, s, "Total distance:     25.00 km")
	assert.Contains(t, s, "Active days:        2")

	out.Reset()
	require.NoError(t, (&SummaryCmd{Period: "year", Category: "squats"}).Run(ctx))
	assert.Contains(t, out.String(), "Yearly summary 2024-01-01 to 2024-05-15 (Squats)")
	assert.Contains(t, out.String(), "Total count:        100")

	assert.Error(t, (&SummaryCmd{Period: "fortnight"}).Run(ctx))
}

func TestSeriesCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	require.NoError(t, (&SeriesCmd{Period: "week", Metric: "distance"}).Run(ctx))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "Mon 05-13")
	assert.Contains(t, lines[1], "25")

	out.Reset()
	require.NoError(t, (&SeriesCmd{Period: "year", Metric: "count"}).Run(ctx))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[4], "May 2024")
	assert.Contains(t, lines[4], "35100")

	assert.Error(t, (&SeriesCmd{Period: "week", Metric: "heartbeats"}).Run(ctx))
}

func TestHomeCmd(t *testing.T) {
	ctx, e, out := setupTestContext(t)
	require.NoError(t, e.SetPreference(models.PrefName, "Sam"))

	require.NoError(t, (&HomeCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Hi Sam, here is your week")
	assert.Contains(t, out.String(), "Overall")
}

func TestBadgeListCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	require.NoError(t, (&BadgeListCmd{}).Run(ctx))
	s := out.String()
	assert.Contains(t, s, "Achieved (2)")
	assert.Contains(t, s, "First Record")
	assert.Contains(t, s, "on 2024-05-15")
	assert.Contains(t, s, "Pending (1)")

	out.Reset()
	require.NoError(t, (&BadgeListCmd{Pending: true}).Run(ctx))
	assert.NotContains(t, out.String(), "Achieved")
}
