package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/trackfit/internal/constants"
)

// Category is the closed set of activity kinds an entry can belong to.
type Category string

const (
	CategoryWalking        Category = "walking"
	CategoryRunning        Category = "running"
	CategoryCycling        Category = "cycling"
	CategorySwimming       Category = "swimming"
	CategorySquats         Category = "squats"
	CategoryPushups        Category = "pushups"
	CategorySitups         Category = "situps"
	CategoryWeightTraining Category = "weight_training"
	CategoryYoga           Category = "yoga"
	CategoryOther          Category = "other"
)

var allCategories = []Category{
	CategoryWalking,
	CategoryRunning,
	CategoryCycling,
	CategorySwimming,
	CategorySquats,
	CategoryPushups,
	CategorySitups,
	CategoryWeightTraining,
	CategoryYoga,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryWalking:        "Walking",
	CategoryRunning:        "Running",
	CategoryCycling:        "Cycling",
	CategorySwimming:       "Swimming",
	CategorySquats:         "Squats",
	CategoryPushups:        "Push-ups",
	CategorySitups:         "Sit-ups",
	CategoryWeightTraining: "Weight training",
	CategoryYoga:           "Yoga",
	CategoryOther:          "Other",
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory accepts the canonical key as well as "weight-training" and
// case variations.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	c := Category(key)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// DefaultUnit is the unit label a count is expressed in for the category.
func (c Category) DefaultUnit() string {
	switch c {
	case CategoryWalking, CategoryRunning:
		return "steps"
	case CategoryCycling, CategorySwimming:
		return "m"
	case CategoryWeightTraining, CategoryYoga:
		return "min"
	default:
		return "reps"
	}
}

// EstimateCalories returns a rough calorie figure for count units of c, or
// zero when the category has no per-unit estimate.
func EstimateCalories(c Category, count int) int {
	switch c {
	case CategoryWalking, CategoryRunning:
		return int(math.Round(float64(count) * constants.CaloriesPerStep))
	case CategorySquats, CategoryPushups, CategorySitups:
		return int(math.Round(float64(count) * constants.CaloriesPerRep))
	default:
		return 0
	}
}

// Activity is a single logged entry.
type Activity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Count       int       `json:"count"`
	DistanceKm  *float64  `json:"distance_km,omitempty"`
	DurationMin *int      `json:"duration_min,omitempty"`
	Calories    *int      `json:"calories,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Note        string    `json:"note,omitempty"`
	// External marks entries created by health-data sync rather than the user.
	External bool `json:"external"`
}

// Validate rejects entries the engine must never see. The engine itself
// trusts its input; surfaces call this first.
func (a Activity) Validate() error {
	switch {
	case !a.Category.Valid():
		return fmt.Errorf("unknown category %q", a.Category)
	case a.Count < 0:
		return fmt.Errorf("count must not be negative, got %d", a.Count)
	case a.DistanceKm != nil && *a.DistanceKm < 0:
		return fmt.Errorf("distance must not be negative, got %g", *a.DistanceKm)
	case a.DurationMin != nil && *a.DurationMin < 0:
		return fmt.Errorf("duration must not be negative, got %d", *a.DurationMin)
	case a.Calories != nil && *a.Calories < 0:
		return fmt.Errorf("calories must not be negative, got %d", *a.Calories)
	case a.Timestamp.IsZero():
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// Distance returns the distance in km, or zero when unset.
func (a Activity) Distance() float64 {
	if a.DistanceKm == nil {
		return 0
	}
	return *a.DistanceKm
}

// CaloriesOrZero returns the recorded calories, or zero when unset.
func (a Activity) CaloriesOrZero() int {
	if a.Calories == nil {
		return 0
	}
	return *a.Calories
}

// Clone returns a deep copy so callers can't alias optional fields.
func (a Activity) Clone() Activity {
	out := a
	if a.DistanceKm != nil {
		d := *a.DistanceKm
		out.DistanceKm = &d
	}
	if a.DurationMin != nil {
		d := *a.DurationMin
		out.DurationMin = &d
	}
	if a.Calories != nil {
		c := *a.Calories
		out.Calories = &c
	}
	return out
}

// Float64 and Int return pointers for optional fields.
func Float64(v float64) *float64 { return &v }
func Int(v int) *int             { return &v }
