package engine

import (
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/observability"
	"github.com/julianstephens/trackfit/internal/profile"
)

func (e *Engine) Preferences() models.Preferences {
	return e.prefs.Get()
}

// Profile is the document as it would be persisted now.
func (e *Engine) Profile() models.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profileLocked()
}

// UpdatePreferences applies fn atomically; nothing changes when fn fails.
func (e *Engine) UpdatePreferences(fn func(*models.Preferences) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefs.Update(fn); err != nil {
		return err
	}
	observability.RecordMutation("preferences")
	e.persistErr = e.persistProfile()
	return nil
}

// SetPreference sets one preference by key, see models.PreferenceKeys.
func (e *Engine) SetPreference(key, value string) error {
	return e.UpdatePreferences(func(p *models.Preferences) error {
		return models.SetPreference(p, key, value)
	})
}

// SetWeekStart switches the week convention. Stored entries are untouched;
// every week boundary computed afterwards moves.
func (e *Engine) SetWeekStart(ws models.WeekStart) {
	_ = e.UpdatePreferences(func(p *models.Preferences) error {
		p.WeekStart = ws
		return nil
	})
}

func (e *Engine) SetHomeItems(items []models.HomeItem) {
	_ = e.UpdatePreferences(func(p *models.Preferences) error {
		p.HomeItems = append([]models.HomeItem{}, items...)
		return nil
	})
}

func (e *Engine) SetPreferredCategories(cats []models.Category) {
	_ = e.UpdatePreferences(func(p *models.Preferences) error {
		p.PreferredCategories = append([]models.Category{}, cats...)
		return nil
	})
}

func (e *Engine) Badges() []models.Badge {
	return e.badges.Badges()
}

// BadgePartition splits badges into achieved and pending.
func (e *Engine) BadgePartition() (achieved, pending []models.Badge) {
	return e.badges.Partition()
}

// Reset clears every activity and restores the starter profile.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := profile.DefaultProfile(e.now())
	e.prefs.Set(p.Preferences)
	e.goals.Replace(p.Goals)
	e.badges.Replace(p.Badges)
	// the store observer persists both documents
	e.store.Reset()
	e.takeAchieved()
	observability.RecordMutation("reset")
}
