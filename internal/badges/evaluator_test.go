package badges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

var (
	cal = period.New(models.WeekStartMonday, time.UTC)
	now = time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)
)

func byID(bs []models.Badge, id string) models.Badge {
	for _, b := range bs {
		if b.ID == id {
			return b
		}
	}
	return models.Badge{}
}

func TestFirstEntryWithoutWeeklyVolume(t *testing.T) {
	e := NewEvaluator(DefaultBadges(), nil)
	activities := []models.Activity{{ID: "a", Category: models.CategoryWalking, Count: 1000, Timestamp: now}}

	newly := e.Evaluate(activities, now, cal)
	require.Len(t, newly, 1)
	assert.Equal(t, constants.BadgeFirstEntryID, newly[0].ID)

	badges := e.Badges()
	first := byID(badges, constants.BadgeFirstEntryID)
	assert.True(t, first.Achieved)
	require.NotNil(t, first.AchievedAt)
	assert.Equal(t, now, *first.AchievedAt)
	assert.False(t, byID(badges, constants.BadgeWalkingMasterID).Achieved)
	assert.False(t, byID(badges, constants.BadgeSquatChallengerID).Achieved)
}

func TestEmptyStoreAchievesNothing(t *testing.T) {
	e := NewEvaluator(DefaultBadges(), nil)
	assert.Empty(t, e.Evaluate(nil, now, cal))
	achieved, pending := e.Partition()
	assert.Empty(t, achieved)
	assert.Len(t, pending, 3)
}

func TestAchievementIsMonotonic(t *testing.T) {
	e := NewEvaluator(DefaultBadges(), nil)
	activities := []models.Activity{{Category: models.CategorySquats, Count: 100, Timestamp: now}}
	newly := e.Evaluate(activities, now, cal)
	require.Len(t, newly, 2)

	later := now.Add(48 * time.Hour)
	assert.Empty(t, e.Evaluate(nil, later, cal))

	squat := byID(e.Badges(), constants.BadgeSquatChallengerID)
	assert.True(t, squat.Achieved)
	assert.Equal(t, now, *squat.AchievedAt, "achieved date must be set exactly once")
}

func TestWeeklyVolumeUsesTrailingWindow(t *testing.T) {
	b := models.Badge{Category: models.CategoryWalking, Threshold: 50000}
	rule := WeeklyVolume(b, cal)

	// Wednesday: the calendar week began Monday, but the trailing window
	// reaches back to the previous Wednesday.
	prevWeek := []models.Activity{
		{Category: models.CategoryWalking, Count: 30000, Timestamp: now.AddDate(0, 0, -6)},
		{Category: models.CategoryWalking, Count: 20000, Timestamp: now.Add(-time.Hour)},
	}
	assert.True(t, rule(prevWeek, now))

	stale := []models.Activity{
		{Category: models.CategoryWalking, Count: 30000, Timestamp: now.AddDate(0, 0, -8)},
		{Category: models.CategoryWalking, Count: 20000, Timestamp: now},
	}
	assert.False(t, rule(stale, now))

	otherCategory := []models.Activity{{Category: models.CategoryRunning, Count: 60000, Timestamp: now}}
	assert.False(t, rule(otherCategory, now))
}

func TestDailyVolumeUsesCalendarDay(t *testing.T) {
	rule := DailyVolume(models.Badge{Category: models.CategorySquats, Threshold: 100}, cal)

	split := []models.Activity{
		{Category: models.CategorySquats, Count: 60, Timestamp: now.Add(-17 * time.Hour)}, // 01:00 same day
		{Category: models.CategorySquats, Count: 40, Timestamp: now},
	}
	assert.True(t, rule(split, now))

	yesterday := []models.Activity{
		{Category: models.CategorySquats, Count: 60, Timestamp: now.Add(-19 * time.Hour)},
		{Category: models.CategorySquats, Count: 40, Timestamp: now},
	}
	assert.False(t, rule(yesterday, now))
}

func TestRegistryExtension(t *testing.T) {
	reg := NewRegistry()
	reg.Register("distance_total", func(b models.Badge, _ period.Calendar) Rule {
		return func(as []models.Activity, _ time.Time) bool {
			km := 0.0
			for _, a := range as {
				km += a.Distance()
			}
			return km >= float64(b.Threshold)
		}
	})

	e := NewEvaluator([]models.Badge{{ID: "10k", Threshold: 10, Rule: "distance_total"}}, reg)
	assert.Empty(t, e.Evaluate([]models.Activity{{DistanceKm: models.Float64(4)}}, now, cal))
	newly := e.Evaluate([]models.Activity{{DistanceKm: models.Float64(4)}, {DistanceKm: models.Float64(6)}}, now, cal)
	require.Len(t, newly, 1)
	assert.Equal(t, "10k", newly[0].ID)
}

func TestUnknownRuleIsSkipped(t *testing.T) {
	e := NewEvaluator([]models.Badge{{ID: "mystery", Rule: "nope"}}, nil)
	assert.Empty(t, e.Evaluate([]models.Activity{{Count: 1}}, now, cal))
	assert.False(t, e.Badges()[0].Achieved)
}

func TestBadgesReturnsCopies(t *testing.T) {
	e := NewEvaluator(DefaultBadges(), nil)
	e.Evaluate([]models.Activity{{Count: 1, Timestamp: now}}, now, cal)

	bs := e.Badges()
	*bs[0].AchievedAt = time.Time{}
	bs[0].Achieved = false

	first := byID(e.Badges(), constants.BadgeFirstEntryID)
	assert.True(t, first.Achieved)
	assert.Equal(t, now, *first.AchievedAt)
}
