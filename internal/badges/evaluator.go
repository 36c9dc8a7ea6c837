// Package badges evaluates milestone rules against the activity log.
package badges

import (
	"sync"
	"time"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

// Evaluator owns the badge list. Achievement is one-way: once a badge is
// achieved its rule is never run again and its date never changes.
type Evaluator struct {
	mu       sync.RWMutex
	badges   []models.Badge
	registry *Registry
}

func NewEvaluator(badges []models.Badge, registry *Registry) *Evaluator {
	if registry == nil {
		registry = NewRegistry()
	}
	e := &Evaluator{registry: registry}
	e.badges = cloneBadges(badges)
	return e
}

// Evaluate runs every unachieved badge's rule and returns the ones that
// flipped on this call.
func (e *Evaluator) Evaluate(activities []models.Activity, now time.Time, cal period.Calendar) []models.Badge {
	e.mu.Lock()
	defer e.mu.Unlock()

	var newly []models.Badge
	for i := range e.badges {
		b := &e.badges[i]
		if b.Achieved {
			continue
		}
		rule, err := e.registry.Rule(*b, cal)
		if err != nil {
			logger.Warn("Skipping badge with unknown rule", "badge", b.ID, "error", err)
			continue
		}
		if rule(activities, now) {
			at := now
			b.Achieved = true
			b.AchievedAt = &at
			newly = append(newly, cloneBadge(*b))
		}
	}
	return newly
}

// Badges returns a copy of every badge.
func (e *Evaluator) Badges() []models.Badge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneBadges(e.badges)
}

// Partition splits badges into achieved and pending, keeping list order.
func (e *Evaluator) Partition() (achieved, pending []models.Badge) {
	for _, b := range e.Badges() {
		if b.Achieved {
			achieved = append(achieved, b)
		} else {
			pending = append(pending, b)
		}
	}
	return achieved, pending
}

// Replace swaps the whole list, used on load and reset.
func (e *Evaluator) Replace(badges []models.Badge) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.badges = cloneBadges(badges)
}

// DefaultBadges is the starter set for a fresh profile.
func DefaultBadges() []models.Badge {
	return []models.Badge{
		{
			ID:          constants.BadgeFirstEntryID,
			Name:        "First Record",
			Description: "Log your first activity",
			Icon:        "star",
			Threshold:   1,
			Category:    models.CategoryWalking,
			Rule:        models.RuleFirstEntry,
		},
		{
			ID:          constants.BadgeWalkingMasterID,
			Name:        "Walking Master",
			Description: "Walk 50,000 steps in 7 days",
			Icon:        "figure.walk",
			Threshold:   constants.WalkingMasterThreshold,
			Category:    models.CategoryWalking,
			Rule:        models.RuleWeeklyVolume,
		},
		{
			ID:          constants.BadgeSquatChallengerID,
			Name:        "Squat Challenger",
			Description: "Do 100 squats in one day",
			Icon:        "flame",
			Threshold:   constants.SquatChallengerThreshold,
			Category:    models.CategorySquats,
			Rule:        models.RuleDailyVolume,
		},
	}
}

func cloneBadge(b models.Badge) models.Badge {
	if b.AchievedAt != nil {
		at := *b.AchievedAt
		b.AchievedAt = &at
	}
	return b
}

func cloneBadges(in []models.Badge) []models.Badge {
	out := make([]models.Badge, len(in))
	for i, b := range in {
		out[i] = cloneBadge(b)
	}
	return out
}
