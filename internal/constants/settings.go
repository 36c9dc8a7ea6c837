package constants

const (
	// Preference defaults
	DefaultWeekStart              = "monday"
	DefaultTimezone               = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled   = true
	DefaultReminderTime           = "20:00"
	DefaultWeeklyReportEnabled    = true
	DefaultWeeklyDistanceTargetKm = 35.0

	// Starter goals
	DefaultWalkingWeeklyTarget = 70000
	DefaultSquatsWeeklyTarget  = 100

	// Starter badges
	BadgeFirstEntryID      = "first-entry"
	BadgeWalkingMasterID   = "walking-master"
	BadgeSquatChallengerID = "squat-challenger"

	WalkingMasterThreshold   = 50000
	SquatChallengerThreshold = 100

	// Calorie estimates per unit used when an entry has no explicit value
	CaloriesPerStep = 0.04
	CaloriesPerRep  = 0.3
)
