package engine

import (
	"time"

	"github.com/julianstephens/trackfit/internal/activity"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/observability"
	"github.com/julianstephens/trackfit/internal/period"
)

// AddActivity stores a and returns it with its assigned ID, plus any badges
// the addition achieved.
func (e *Engine) AddActivity(a models.Activity) (models.Activity, []models.Badge) {
	e.mu.Lock()
	defer e.mu.Unlock()
	added := e.store.Add(a)
	observability.RecordMutation("add")
	return added, e.takeAchieved()
}

// UpdateActivity replaces the entry with a's ID. ok is false for an unknown ID.
func (e *Engine) UpdateActivity(a models.Activity) (ok bool, achieved []models.Badge) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ok = e.store.Update(a)
	if ok {
		observability.RecordMutation("update")
	}
	return ok, e.takeAchieved()
}

// DeleteActivities removes the listed entries and returns how many existed.
func (e *Engine) DeleteActivities(ids ...string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.store.DeleteBatch(ids)
	if n > 0 {
		observability.RecordMutation("delete")
	}
	e.takeAchieved()
	return n
}

func (e *Engine) Activity(id string) (models.Activity, bool) {
	return e.store.Get(id)
}

// Activities returns every entry ordered by timestamp.
func (e *Engine) Activities() []models.Activity {
	return e.store.All()
}

func (e *Engine) ActivitiesOn(day time.Time) []models.Activity {
	return e.store.ForDate(day, e.Calendar())
}

func (e *Engine) ActivitiesIn(r period.Range) []models.Activity {
	return e.store.InRange(r)
}

func (e *Engine) ActivitiesFor(c models.Category) []models.Activity {
	return e.store.ForCategory(c)
}

// Query filters by an optional category inside an optional range.
func (e *Engine) Query(c models.Category, r *period.Range) []models.Activity {
	return e.store.Query(func(a models.Activity) bool {
		if c != "" && a.Category != c {
			return false
		}
		return r == nil || r.Contains(a.Timestamp)
	})
}

// ThisWeek lists the entries in ref's week.
func (e *Engine) ThisWeek(ref time.Time) []models.Activity {
	return e.store.InRange(e.Calendar().Week(ref))
}

// LastWeek lists the entries in the week before ref's.
func (e *Engine) LastWeek(ref time.Time) []models.Activity {
	return e.store.InRange(e.Calendar().PreviousWeek(ref))
}

// ExternalActivities lists the entries created by health sync.
func (e *Engine) ExternalActivities() []models.Activity {
	return e.store.Query(activity.IsExternal)
}
