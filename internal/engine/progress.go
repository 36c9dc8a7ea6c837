package engine

import (
	"fmt"
	"time"

	"github.com/julianstephens/trackfit/internal/activity"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/observability"
	"github.com/julianstephens/trackfit/internal/period"
)

func (e *Engine) Goals() []models.Goal {
	return e.goals.Goals()
}

// SetGoal inserts or replaces a goal by ID and persists the profile.
func (e *Engine) SetGoal(g models.Goal) models.Goal {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g.StartDate.IsZero() {
		g.StartDate = e.now()
	}
	if g.Unit == "" {
		g.Unit = g.Category.DefaultUnit()
	}
	saved := e.goals.Upsert(g)
	observability.RecordMutation("goal")
	e.persistErr = e.persistProfile()
	return saved
}

func (e *Engine) DeleteGoal(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.goals.Delete(id) {
		return false
	}
	observability.RecordMutation("goal")
	e.persistErr = e.persistProfile()
	return true
}

// ProgressFor is min(achieved/target, 1) for c's goal over ref's week.
func (e *Engine) ProgressFor(c models.Category, ref time.Time) float64 {
	return e.goals.ProgressFor(c, ref)
}

func (e *Engine) OverallProgress(ref time.Time) float64 {
	return e.goals.OverallProgress(ref)
}

// GoalStatus is one goal with its progress for a week.
type GoalStatus struct {
	Goal     models.Goal `json:"goal"`
	Achieved int         `json:"achieved"`
	Progress float64     `json:"progress"`
}

// GoalStatuses reports every goal in list order for ref's week.
func (e *Engine) GoalStatuses(ref time.Time) []GoalStatus {
	gs := e.goals.Goals()
	out := make([]GoalStatus, 0, len(gs))
	for _, g := range gs {
		out = append(out, GoalStatus{
			Goal:     g,
			Achieved: e.goals.Achieved(g.Category, ref),
			Progress: e.goals.GoalProgress(g, ref),
		})
	}
	return out
}

// HomeEntry is one item of the home summary.
type HomeEntry struct {
	Item     models.HomeItem `json:"item"`
	Label    string          `json:"label"`
	Value    float64         `json:"value"`
	Target   float64         `json:"target"`
	Unit     string          `json:"unit"`
	Progress float64         `json:"progress"`
}

// HomeSummary evaluates the profile's home items, in their configured order,
// for ref's week.
func (e *Engine) HomeSummary(ref time.Time) []HomeEntry {
	prefs := e.prefs.Get()
	out := make([]HomeEntry, 0, len(prefs.HomeItems))
	for _, item := range prefs.HomeItems {
		out = append(out, e.homeEntry(item, prefs.WeeklyDistanceTargetKm, ref))
	}
	return out
}

func (e *Engine) homeEntry(item models.HomeItem, distanceTarget float64, ref time.Time) HomeEntry {
	switch item {
	case models.HomeOverall:
		p := e.goals.OverallProgress(ref)
		return HomeEntry{Item: item, Label: "Overall", Value: p * 100, Target: 100, Unit: "%", Progress: p}
	case models.HomeDistance:
		km, p := e.goals.DistanceProgress(distanceTarget, ref)
		return HomeEntry{Item: item, Label: "Distance", Value: km, Target: distanceTarget, Unit: "km", Progress: p}
	}

	c, _ := item.Category()
	entry := HomeEntry{
		Item:  item,
		Label: c.Label(),
		Value: float64(e.goals.Achieved(c, ref)),
		Unit:  c.DefaultUnit(),
	}
	if item == models.HomeSteps {
		entry.Label = "Steps"
	}
	if g, ok := e.goals.ForCategory(c); ok {
		entry.Target = float64(g.WeeklyTarget)
		entry.Unit = g.Unit
		entry.Progress = e.goals.GoalProgress(g, ref)
	}
	return entry
}

// Summary aggregates one period.
type Summary struct {
	Kind                period.Kind     `json:"kind"`
	Category            models.Category `json:"category,omitempty"`
	Range               period.Range    `json:"range"`
	Entries             int             `json:"entries"`
	TotalCount          int             `json:"total_count"`
	TotalCalories       int             `json:"total_calories"`
	TotalDistanceKm     float64         `json:"total_distance_km"`
	ActiveDays          int             `json:"active_days"`
	AveragePerActiveDay float64         `json:"average_per_active_day"`
}

// Summary totals the entries of category c (all categories when empty) in
// the kind period containing ref. Calories only count recorded values.
func (e *Engine) Summary(kind period.Kind, c models.Category, ref time.Time) Summary {
	cal := e.Calendar()
	rng := cal.Period(kind, ref, e.now())
	entries := e.Query(c, &rng)

	s := Summary{Kind: kind, Category: c, Range: rng, Entries: len(entries)}
	days := make(map[time.Time]struct{})
	for _, a := range entries {
		s.TotalCount += a.Count
		s.TotalCalories += a.CaloriesOrZero()
		days[cal.StartOfDay(a.Timestamp)] = struct{}{}
	}
	s.TotalDistanceKm = activity.SumDistance(entries)
	s.ActiveDays = len(days)
	if s.ActiveDays > 0 {
		s.AveragePerActiveDay = float64(s.TotalCount) / float64(s.ActiveDays)
	}
	return s
}

// Metric selects what a series sums.
type Metric string

const (
	MetricCount    Metric = "count"
	MetricDistance Metric = "distance"
	MetricCalories Metric = "calories"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCount, MetricDistance, MetricCalories:
		return Metric(s), nil
	}
	return "", fmt.Errorf("invalid metric %q (expected count, distance or calories)", s)
}

// Point is one chart bucket.
type Point struct {
	Start time.Time `json:"start"`
	Value float64   `json:"value"`
}

// Series buckets the kind period containing ref: per day for week and month,
// per month for year.
func (e *Engine) Series(kind period.Kind, c models.Category, metric Metric, ref time.Time) []Point {
	buckets := e.Calendar().Buckets(kind, ref)
	out := make([]Point, len(buckets))
	for i, b := range buckets {
		out[i] = Point{Start: b.Start, Value: sumMetric(e.Query(c, &b), metric)}
	}
	return out
}

func sumMetric(entries []models.Activity, metric Metric) float64 {
	switch metric {
	case MetricDistance:
		return activity.SumDistance(entries)
	case MetricCalories:
		total := 0
		for _, a := range entries {
			total += a.CaloriesOrZero()
		}
		return float64(total)
	default:
		return float64(activity.SumCount(entries))
	}
}
