package system

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/models"
)

// enterAfter advances the clock by d and then returns a single newline,
// standing in for a user pressing Enter.
type enterAfter struct {
	clk  *clock
	d    time.Duration
	done bool
}

func (r *enterAfter) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	r.done = true
	r.clk.Advance(r.d)
	return copy(p, "\n"), nil
}

func TestStopwatchCmd_RecordsMinutes(t *testing.T) {
	clk := &clock{t: now}
	ctx, out := setupTestDB(t, engine.WithClock(clk.Now))
	ctx.In = &enterAfter{clk: clk, d: 31*time.Minute + 20*time.Second}

	require.NoError(t, (&StopwatchCmd{Category: "yoga", Interval: time.Hour}).Run(ctx))

	e, _ := ctx.Engine()
	all := e.Activities()
	require.Len(t, all, 1)
	assert.Equal(t, "Yoga", all[0].Name)
	assert.Equal(t, 31, all[0].Count)
	require.NotNil(t, all[0].DurationMin)
	assert.Equal(t, 31, *all[0].DurationMin)
	assert.True(t, all[0].Timestamp.Equal(now))
	assert.Contains(t, out.String(), "Elapsed: 00:31:20")
}

func TestStopwatchCmd_CountAndDiscard(t *testing.T) {
	clk := &clock{t: now}
	ctx, _ := setupTestDB(t, engine.WithClock(clk.Now))

	ctx.In = &enterAfter{clk: clk, d: 10 * time.Minute}
	count := 40
	require.NoError(t, (&StopwatchCmd{Category: "squats", Count: &count, Interval: time.Hour}).Run(ctx))

	ctx.In = &enterAfter{clk: clk, d: 5 * time.Minute}
	require.NoError(t, (&StopwatchCmd{Category: "running", Discard: true, Interval: time.Hour}).Run(ctx))

	e, _ := ctx.Engine()
	all := e.Activities()
	require.Len(t, all, 1)
	assert.Equal(t, models.CategorySquats, all[0].Category)
	assert.Equal(t, 40, all[0].Count)
	assert.Equal(t, 10, *all[0].DurationMin)
}

func TestStopwatchCmd_Validate(t *testing.T) {
	neg := -1
	assert.Error(t, (&StopwatchCmd{Category: "yoga", Count: &neg}).Validate())
	assert.Error(t, (&StopwatchCmd{Category: "knitting"}).Validate())
	assert.NoError(t, (&StopwatchCmd{Category: "yoga"}).Validate())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", formatElapsed(0))
	assert.Equal(t, "01:02:03", formatElapsed(time.Hour+2*time.Minute+3*time.Second+400*time.Millisecond))
}
