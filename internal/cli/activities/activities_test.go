package activities

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/storage/sqlite"
)

var now = time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:   store,
		Options: []engine.Option{engine.WithClock(func() time.Time { return now })},
		Out:     out,
	}
	e, err := ctx.Engine()
	require.NoError(t, err)
	require.NoError(t, e.SetPreference(models.PrefTimezone, "UTC"))
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close context: %v", err)
		}
	})
	return ctx, out
}

func TestActivityAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	cmd := &ActivityAddCmd{Category: "walking", Count: 4000, Distance: models.Float64(3.1), At: "2024-05-14 07:30"}
	require.NoError(t, cmd.Validate())
	require.NoError(t, cmd.Run(ctx))

	e, _ := ctx.Engine()
	all := e.Activities()
	require.Len(t, all, 1)
	assert.Equal(t, "Walking", all[0].Name)
	assert.Equal(t, time.Date(2024, 5, 14, 7, 30, 0, 0, time.UTC), all[0].Timestamp.UTC())
	assert.Nil(t, all[0].Calories)
	assert.Contains(t, out.String(), "Added Walking: 4000 steps")
	assert.Contains(t, out.String(), "Badge earned")
}

func TestActivityAddCmd_Estimate(t *testing.T) {
	ctx, _ := setupTestDB(t)

	require.NoError(t, (&ActivityAddCmd{Category: "squats", Count: 50, Estimate: true}).Run(ctx))

	e, _ := ctx.Engine()
	all := e.Activities()
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Calories)
	assert.Equal(t, 15, *all[0].Calories)
	assert.Equal(t, now, all[0].Timestamp)
}

func TestActivityAddCmd_Validate(t *testing.T) {
	assert.Error(t, (&ActivityAddCmd{Category: "walking", Count: -1}).Validate())
	assert.Error(t, (&ActivityAddCmd{Category: "juggling", Count: 1}).Validate())
	assert.NoError(t, (&ActivityAddCmd{Category: "Weight_Training", Count: 0}).Validate())
}

func TestActivityEditCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	e, _ := ctx.Engine()
	added, _ := e.AddActivity(models.Activity{Name: "Walk", Category: models.CategoryWalking, Count: 100, Timestamp: now})

	count := 250
	note := "around the park"
	require.NoError(t, (&ActivityEditCmd{ID: added.ID, Count: &count, Note: &note}).Run(ctx))

	got, ok := e.Activity(added.ID)
	require.True(t, ok)
	assert.Equal(t, 250, got.Count)
	assert.Equal(t, "around the park", got.Note)
	assert.Equal(t, "Walk", got.Name)

	assert.Error(t, (&ActivityEditCmd{ID: "missing", Count: &count}).Run(ctx))

	bad := -5
	assert.Error(t, (&ActivityEditCmd{ID: added.ID, Count: &bad}).Run(ctx))
}

func TestActivityEditCmd_RefusesSyncedEntries(t *testing.T) {
	ctx, _ := setupTestDB(t)
	e, _ := ctx.Engine()
	added, _ := e.AddActivity(models.Activity{Name: "Synced walking data", Category: models.CategoryWalking, Count: 100, Timestamp: now, External: true})

	count := 1
	err := (&ActivityEditCmd{ID: added.ID, Count: &count}).Run(ctx)
	assert.ErrorContains(t, err, "cannot be edited")
}

func TestActivityDeleteCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	e, _ := ctx.Engine()
	a, _ := e.AddActivity(models.Activity{Name: "A", Category: models.CategorySquats, Count: 10, Timestamp: now})
	b, _ := e.AddActivity(models.Activity{Name: "B", Category: models.CategorySquats, Count: 10, Timestamp: now})

	require.NoError(t, (&ActivityDeleteCmd{IDs: []string{a.ID, b.ID, "missing"}}).Run(ctx))
	assert.Contains(t, out.String(), "Deleted 2 activities")
	assert.Empty(t, e.Activities())

	assert.Error(t, (&ActivityDeleteCmd{IDs: []string{"missing"}}).Run(ctx))
}

func TestActivityListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	e, _ := ctx.Engine()
	e.AddActivity(models.Activity{Name: "This week", Category: models.CategoryWalking, Count: 100, Timestamp: now.Add(-24 * time.Hour)})
	e.AddActivity(models.Activity{Name: "Last week", Category: models.CategoryWalking, Count: 200, Timestamp: now.AddDate(0, 0, -7)})
	e.AddActivity(models.Activity{Name: "Squats", Category: models.CategorySquats, Count: 20, Timestamp: now})

	tests := []struct {
		name     string
		cmd      ActivityListCmd
		contains []string
		excludes []string
	}{
		{
			name:     "all",
			cmd:      ActivityListCmd{},
			contains: []string{"This week", "Last week", "Squats"},
		},
		{
			name:     "category",
			cmd:      ActivityListCmd{Category: "squats"},
			contains: []string{"Squats: 20 reps"},
			excludes: []string{"This week"},
		},
		{
			name:     "current week",
			cmd:      ActivityListCmd{Period: "week"},
			contains: []string{"Activities 2024-05-13 to 2024-05-19", "This week"},
			excludes: []string{"Last week"},
		},
		{
			name:     "last week",
			cmd:      ActivityListCmd{LastWeek: true},
			contains: []string{"Activities 2024-05-06 to 2024-05-12", "Last week"},
			excludes: []string{"This week"},
		},
		{
			name:     "external only",
			cmd:      ActivityListCmd{External: true},
			contains: []string{"No activities found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			require.NoError(t, tt.cmd.Run(ctx))
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out.String(), s)
			}
		})
	}

	assert.Error(t, (&ActivityListCmd{Period: "decade"}).Run(ctx))
}

func TestDescribe(t *testing.T) {
	a := models.Activity{
		Name:        "Run",
		Category:    models.CategoryRunning,
		Count:       5000,
		DistanceKm:  models.Float64(4.5),
		DurationMin: models.Int(30),
		Calories:    models.Int(300),
		Note:        "easy",
		External:    true,
	}
	assert.Equal(t, "Run: 5000 steps, 4.50 km, 30 min, 300 kcal [synced] (easy)", describe(a))
}
