// Package profile holds user preferences and the starter profile.
package profile

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/trackfit/internal/badges"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

// Holder guards the preferences. It computes nothing beyond the calendar the
// preferences imply.
type Holder struct {
	mu    sync.RWMutex
	prefs models.Preferences
}

func NewHolder(p models.Preferences) *Holder {
	models.ApplyDefaultPreferences(&p)
	return &Holder{prefs: clonePrefs(p)}
}

// Get returns a copy of the current preferences.
func (h *Holder) Get() models.Preferences {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clonePrefs(h.prefs)
}

// Update applies fn to a copy and stores the result if fn succeeds.
func (h *Holder) Update(fn func(*models.Preferences) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := clonePrefs(h.prefs)
	if err := fn(&next); err != nil {
		return err
	}
	models.ApplyDefaultPreferences(&next)
	h.prefs = next
	return nil
}

func (h *Holder) Set(p models.Preferences) {
	models.ApplyDefaultPreferences(&p)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prefs = clonePrefs(p)
}

func (h *Holder) SetWeekStart(ws models.WeekStart) {
	_ = h.Update(func(p *models.Preferences) error {
		p.WeekStart = ws
		return nil
	})
}

func (h *Holder) SetHomeItems(items []models.HomeItem) {
	_ = h.Update(func(p *models.Preferences) error {
		p.HomeItems = append([]models.HomeItem{}, items...)
		return nil
	})
}

func (h *Holder) SetPreferredCategories(cats []models.Category) {
	_ = h.Update(func(p *models.Preferences) error {
		p.PreferredCategories = append([]models.Category{}, cats...)
		return nil
	})
}

// Location resolves the configured zone, falling back to local time.
func (h *Holder) Location() *time.Location {
	tz := h.Get().Timezone
	loc, err := period.LoadLocation(tz)
	if err != nil {
		logger.Warn("Invalid timezone in profile, using local time", "timezone", tz, "error", err)
		return time.Local
	}
	return loc
}

// Calendar returns the calendar for the current week convention and zone.
func (h *Holder) Calendar() period.Calendar {
	return period.New(h.Get().WeekStart, h.Location())
}

// DefaultPreferences is what a fresh profile starts with.
func DefaultPreferences() models.Preferences {
	p := models.Preferences{
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		WeeklyReportEnabled:  constants.DefaultWeeklyReportEnabled,
	}
	models.ApplyDefaultPreferences(&p)
	return p
}

// DefaultGoals are the starter weekly targets.
func DefaultGoals(now time.Time) []models.Goal {
	return []models.Goal{
		{
			ID:           uuid.New().String(),
			Category:     models.CategoryWalking,
			WeeklyTarget: constants.DefaultWalkingWeeklyTarget,
			Unit:         models.CategoryWalking.DefaultUnit(),
			StartDate:    now,
		},
		{
			ID:           uuid.New().String(),
			Category:     models.CategorySquats,
			WeeklyTarget: constants.DefaultSquatsWeeklyTarget,
			Unit:         models.CategorySquats.DefaultUnit(),
			StartDate:    now,
		},
	}
}

// DefaultProfile builds a fresh profile with starter goals and badges.
func DefaultProfile(now time.Time) models.Profile {
	return models.Profile{
		Preferences: DefaultPreferences(),
		Goals:       DefaultGoals(now),
		Badges:      badges.DefaultBadges(),
	}
}

func clonePrefs(p models.Preferences) models.Preferences {
	out := p
	if p.Age != nil {
		v := *p.Age
		out.Age = &v
	}
	if p.HeightCm != nil {
		v := *p.HeightCm
		out.HeightCm = &v
	}
	if p.WeightKg != nil {
		v := *p.WeightKg
		out.WeightKg = &v
	}
	if p.PreferredCategories != nil {
		out.PreferredCategories = append([]models.Category{}, p.PreferredCategories...)
	}
	if p.HomeItems != nil {
		out.HomeItems = append([]models.HomeItem{}, p.HomeItems...)
	}
	return out
}
