// Package goals tracks weekly targets and computes progress against them.
package goals

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/trackfit/internal/activity"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

// Activities is the read side of the activity store.
type Activities interface {
	InRange(r period.Range) []models.Activity
}

// CalendarSource supplies the current week convention.
type CalendarSource interface {
	Calendar() period.Calendar
}

// Manager owns the goal list. Goals are keyed by ID, so two goals may share a
// category; per-category lookups use the first one in list order.
type Manager struct {
	mu         sync.RWMutex
	goals      []models.Goal
	activities Activities
	calendar   CalendarSource
}

func NewManager(goals []models.Goal, activities Activities, calendar CalendarSource) *Manager {
	m := &Manager{activities: activities, calendar: calendar}
	m.goals = append([]models.Goal(nil), goals...)
	return m
}

// Upsert replaces the goal with the same ID or appends it. A missing ID is
// generated.
func (m *Manager) Upsert(g models.Goal) models.Goal {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			m.goals[i] = g
			return g
		}
	}
	m.goals = append(m.goals, g)
	return g
}

// Delete removes the goal with id and reports whether it existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the whole list, used on load and reset.
func (m *Manager) Replace(goals []models.Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append([]models.Goal(nil), goals...)
}

func (m *Manager) Goals() []models.Goal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Goal(nil), m.goals...)
}

// ForCategory returns the first goal for c.
func (m *Manager) ForCategory(c models.Category) (models.Goal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.goals {
		if g.Category == c {
			return g, true
		}
	}
	return models.Goal{}, false
}

// Achieved sums Count for c over ref's week.
func (m *Manager) Achieved(c models.Category, ref time.Time) int {
	week := m.calendar.Calendar().Week(ref)
	total := 0
	for _, a := range m.activities.InRange(week) {
		if a.Category == c {
			total += a.Count
		}
	}
	return total
}

// ProgressFor returns min(achieved/target, 1) for c's goal over ref's week,
// or 0 when there is no goal or its target is not positive.
func (m *Manager) ProgressFor(c models.Category, ref time.Time) float64 {
	g, ok := m.ForCategory(c)
	if !ok {
		return 0
	}
	return m.GoalProgress(g, ref)
}

// GoalProgress is ProgressFor for a specific goal.
func (m *Manager) GoalProgress(g models.Goal, ref time.Time) float64 {
	return Ratio(float64(m.Achieved(g.Category, ref)), float64(g.WeeklyTarget))
}

// OverallProgress is the mean progress over every defined goal, 0 with none.
func (m *Manager) OverallProgress(ref time.Time) float64 {
	goals := m.Goals()
	if len(goals) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range goals {
		sum += m.GoalProgress(g, ref)
	}
	return sum / float64(len(goals))
}

// DistanceProgress compares ref's weekly walking distance against targetKm.
func (m *Manager) DistanceProgress(targetKm float64, ref time.Time) (float64, float64) {
	week := m.calendar.Calendar().Week(ref)
	km := activity.SumDistance(filter(m.activities.InRange(week), models.CategoryWalking))
	return km, Ratio(km, targetKm)
}

// Ratio returns achieved/target clamped to [0, 1], and 0 for a non-positive target.
func Ratio(achieved, target float64) float64 {
	if target <= 0 || achieved <= 0 {
		return 0
	}
	if r := achieved / target; r < 1 {
		return r
	}
	return 1
}

func filter(entries []models.Activity, c models.Category) []models.Activity {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
