package models

import "time"

// Goal is a weekly target for one category.
type Goal struct {
	ID           string    `json:"id"`
	Category     Category  `json:"category"`
	WeeklyTarget int       `json:"weekly_target"`
	Unit         string    `json:"unit"`
	StartDate    time.Time `json:"start_date"`
}

// RuleKind selects the badge rule that evaluates a badge.
type RuleKind string

const (
	RuleFirstEntry   RuleKind = "first_entry"
	RuleWeeklyVolume RuleKind = "weekly_volume"
	RuleDailyVolume  RuleKind = "daily_volume"
)

// Badge is a milestone. Achieved and AchievedAt only ever move forward.
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Achieved    bool       `json:"achieved"`
	AchievedAt  *time.Time `json:"achieved_at,omitempty"`
	Threshold   int        `json:"threshold"`
	Category    Category   `json:"category"`
	Rule        RuleKind   `json:"rule"`
}
