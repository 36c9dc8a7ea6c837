package badges

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

// Rule reports whether a badge's condition holds for the given entries at now.
type Rule func(activities []models.Activity, now time.Time) bool

// Factory builds the rule for a specific badge from its threshold and category.
type Factory func(b models.Badge, cal period.Calendar) Rule

// Registry maps rule kinds to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[models.RuleKind]Factory
}

// NewRegistry returns a registry with the built-in rules.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[models.RuleKind]Factory)}
	r.Register(models.RuleFirstEntry, FirstEntry)
	r.Register(models.RuleWeeklyVolume, WeeklyVolume)
	r.Register(models.RuleDailyVolume, DailyVolume)
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind models.RuleKind, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Rule resolves the rule for b.
func (r *Registry) Rule(b models.Badge, cal period.Calendar) (Rule, error) {
	r.mu.RLock()
	f, ok := r.factories[b.Rule]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no rule registered for kind %q (badge %s)", b.Rule, b.ID)
	}
	return f(b, cal), nil
}

// FirstEntry holds once any entry exists.
func FirstEntry(models.Badge, period.Calendar) Rule {
	return func(activities []models.Activity, _ time.Time) bool {
		return len(activities) > 0
	}
}

// WeeklyVolume holds when the category's count over the trailing seven days
// ending at now reaches the threshold. The window is rolling, not the
// calendar week.
func WeeklyVolume(b models.Badge, _ period.Calendar) Rule {
	return func(activities []models.Activity, now time.Time) bool {
		return sumIn(activities, b.Category, period.Trailing(now, 7)) >= b.Threshold
	}
}

// DailyVolume holds when the category's count on now's calendar day reaches
// the threshold.
func DailyVolume(b models.Badge, cal period.Calendar) Rule {
	return func(activities []models.Activity, now time.Time) bool {
		return sumIn(activities, b.Category, cal.Day(now)) >= b.Threshold
	}
}

func sumIn(activities []models.Activity, c models.Category, r period.Range) int {
	total := 0
	for _, a := range activities {
		if a.Category == c && r.Contains(a.Timestamp) {
			total += a.Count
		}
	}
	return total
}
