package models

import (
	"fmt"
	"strings"
	"time"
)

// WeekStart is the first-day-of-week convention.
type WeekStart string

const (
	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

func ParseWeekStart(s string) (WeekStart, error) {
	switch WeekStart(strings.ToLower(strings.TrimSpace(s))) {
	case WeekStartMonday, "mon":
		return WeekStartMonday, nil
	case WeekStartSunday, "sun":
		return WeekStartSunday, nil
	}
	return "", fmt.Errorf("invalid week start %q (expected monday or sunday)", s)
}

// Weekday maps the convention onto time.Weekday. Unknown values fall back to Monday.
func (w WeekStart) Weekday() time.Weekday {
	if w == WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}

// HomeItem is a key in the ordered home summary.
type HomeItem string

const (
	HomeOverall  HomeItem = "overall"
	HomeSteps    HomeItem = "steps"
	HomeDistance HomeItem = "distance"
)

// ParseHomeItem accepts "overall", "steps", "distance" or any category key.
func ParseHomeItem(s string) (HomeItem, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch HomeItem(key) {
	case HomeOverall, HomeSteps, HomeDistance:
		return HomeItem(key), nil
	}
	c, err := ParseCategory(key)
	if err != nil {
		return "", fmt.Errorf("invalid home item %q", s)
	}
	return HomeItem(c), nil
}

// Category is the category whose data backs the item. ok is false for the
// synthetic overall item.
func (h HomeItem) Category() (Category, bool) {
	switch h {
	case HomeOverall:
		return "", false
	case HomeSteps, HomeDistance:
		return CategoryWalking, true
	}
	c := Category(h)
	return c, c.Valid()
}

// Preferences is the user-editable part of the profile.
type Preferences struct {
	Name                   string     `json:"name"`                      // display name
	Age                    *int       `json:"age,omitempty"`             // years
	HeightCm               *float64   `json:"height_cm,omitempty"`       // centimeters
	WeightKg               *float64   `json:"weight_kg,omitempty"`       // kilograms
	PreferredCategories    []Category `json:"preferred_categories"`      // display order only, never filters data
	NotificationsEnabled   bool       `json:"notifications_enabled"`     // badge and reminder notifications
	ReminderTime           string     `json:"reminder_time"`             // daily reminder, HH:MM
	WeeklyReportEnabled    bool       `json:"weekly_report_enabled"`     // weekly summary notification
	HomeItems              []HomeItem `json:"home_items"`                // ordered home summary keys
	WeekStart              WeekStart  `json:"week_start"`                // monday or sunday
	Timezone               string     `json:"timezone"`                  // IANA timezone name or "Local"
	WeeklyDistanceTargetKm float64    `json:"weekly_distance_target_km"` // target for the distance home item
}

// Profile is persisted as a single document with its goals and badges.
type Profile struct {
	Preferences
	Goals  []Goal  `json:"goals"`
	Badges []Badge `json:"badges"`
}
