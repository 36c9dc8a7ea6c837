package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/trackfit/internal/constants"
)

// Preference keys accepted by SetPreference.
const (
	PrefName                 = "name"
	PrefAge                  = "age"
	PrefHeight               = "height"
	PrefWeight               = "weight"
	PrefNotificationsEnabled = "notifications_enabled"
	PrefReminderTime         = "reminder_time"
	PrefWeeklyReportEnabled  = "weekly_report_enabled"
	PrefWeekStart            = "week_start"
	PrefTimezone             = "timezone"
	PrefDistanceTarget       = "distance_target_km"
	PrefPreferredCategories  = "preferred_categories"
	PrefHomeItems            = "home_items"
)

// PreferenceKeys lists the keys SetPreference understands.
func PreferenceKeys() []string {
	return []string{
		PrefName, PrefAge, PrefHeight, PrefWeight,
		PrefNotificationsEnabled, PrefReminderTime, PrefWeeklyReportEnabled,
		PrefWeekStart, PrefTimezone, PrefDistanceTarget,
		PrefPreferredCategories, PrefHomeItems,
	}
}

// SetPreference parses value and assigns it to the field named by key.
// An empty value clears optional body metrics.
func SetPreference(p *Preferences, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case PrefName:
		p.Name = value
	case PrefAge:
		if value == "" {
			p.Age = nil
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("parsing age: expected a positive integer, got %q", value)
		}
		p.Age = &n
	case PrefHeight, PrefWeight:
		var target **float64
		if key == PrefHeight {
			target = &p.HeightCm
		} else {
			target = &p.WeightKg
		}
		if value == "" {
			*target = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("parsing %s: expected a positive number, got %q", key, value)
		}
		*target = &f
	case PrefNotificationsEnabled, PrefWeeklyReportEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		if key == PrefNotificationsEnabled {
			p.NotificationsEnabled = b
		} else {
			p.WeeklyReportEnabled = b
		}
	case PrefReminderTime:
		if _, err := time.Parse(constants.TimeFormat, value); err != nil {
			return fmt.Errorf("parsing reminder_time: expected HH:MM, got %q", value)
		}
		p.ReminderTime = value
	case PrefWeekStart:
		ws, err := ParseWeekStart(value)
		if err != nil {
			return err
		}
		p.WeekStart = ws
	case PrefTimezone:
		if value != "" && value != "Local" {
			if _, err := time.LoadLocation(value); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", value, err)
			}
		}
		p.Timezone = value
	case PrefDistanceTarget:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("parsing distance_target_km: expected a positive number, got %q", value)
		}
		p.WeeklyDistanceTargetKm = f
	case PrefPreferredCategories:
		cats, err := ParseCategoryList(value)
		if err != nil {
			return err
		}
		p.PreferredCategories = cats
	case PrefHomeItems:
		items, err := ParseHomeItemList(value)
		if err != nil {
			return err
		}
		p.HomeItems = items
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}

// ParseCategoryList parses a comma-separated list, dropping duplicates.
func ParseCategoryList(s string) ([]Category, error) {
	var out []Category
	seen := make(map[Category]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCategory(part)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// ParseHomeItemList parses a comma-separated list, dropping duplicates.
func ParseHomeItemList(s string) ([]HomeItem, error) {
	var out []HomeItem
	seen := make(map[HomeItem]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		h, err := ParseHomeItem(part)
		if err != nil {
			return nil, err
		}
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out, nil
}

// ApplyDefaultPreferences fills fields a stored document may be missing.
func ApplyDefaultPreferences(p *Preferences) {
	if p.WeekStart == "" {
		p.WeekStart = WeekStart(constants.DefaultWeekStart)
	}
	if p.Timezone == "" {
		p.Timezone = constants.DefaultTimezone
	}
	if p.ReminderTime == "" {
		p.ReminderTime = constants.DefaultReminderTime
	}
	if p.WeeklyDistanceTargetKm <= 0 {
		p.WeeklyDistanceTargetKm = constants.DefaultWeeklyDistanceTargetKm
	}
	if p.HomeItems == nil {
		p.HomeItems = []HomeItem{HomeDistance, HomeSteps, HomeOverall, HomeItem(CategorySquats)}
	}
	if p.PreferredCategories == nil {
		p.PreferredCategories = []Category{CategoryWalking, CategoryRunning, CategorySquats}
	}
}
