// Package healthsync merges health-data aggregates into the activity store.
//
// Every sync replaces the whole externally sourced subset: existing synced
// entries are removed and one fresh entry is inserted per non-empty sample.
// Running it twice with the same upstream data leaves the same content, and
// entries the user logged by hand are never touched.
package healthsync

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/trackfit/internal/activity"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/health"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

// Sample is the aggregate fetched for one category over the sync range.
type Sample struct {
	Category models.Category
	health.Aggregate
	Range period.Range
	// Err is the fetch error that was degraded to a zero aggregate, if any.
	Err error
}

// Result describes one applied sync.
type Result struct {
	Samples  []Sample
	Removed  int
	Inserted []models.Activity
	At       time.Time
}

// Target is the write side of the activity store used by Apply.
type Target interface {
	Replace(pred activity.Predicate, entries []models.Activity) int
}

// Reconciler fetches from a health source and applies the full-replace policy.
type Reconciler struct {
	source     health.Source
	categories []models.Category
}

// New builds a reconciler. With no categories it syncs walking only.
func New(source health.Source, categories ...models.Category) *Reconciler {
	if len(categories) == 0 {
		categories = []models.Category{models.CategoryWalking}
	}
	return &Reconciler{source: source, categories: categories}
}

func (r *Reconciler) Categories() []models.Category {
	return append([]models.Category(nil), r.categories...)
}

// Fetch asks the source for every category. Any failure, including a
// missing source, degrades to a zero aggregate so reconciliation still runs.
func (r *Reconciler) Fetch(ctx context.Context, rng period.Range) []Sample {
	samples := make([]Sample, 0, len(r.categories))
	for _, c := range r.categories {
		s := Sample{Category: c, Range: rng}
		if r.source == nil {
			s.Err = errors.New("no health source configured")
		} else {
			agg, err := r.source.FetchAggregate(ctx, c, rng.Start, rng.End)
			if err != nil {
				s.Err = err
			} else {
				s.Aggregate = agg
			}
		}
		if s.Err != nil {
			if errors.Is(s.Err, health.ErrNoData) {
				logger.Debug("No health data for category", "category", c)
			} else {
				logger.Warn("Health fetch failed, treating as no activity", "category", c, "error", s.Err)
			}
			s.Aggregate = health.Aggregate{}
		}
		samples = append(samples, s)
	}
	return samples
}

// Entries converts samples into externally flagged activities stamped at now.
// Empty samples produce no entry. Each entry gets its ID here so the result
// reported to callers matches what the store keeps.
func Entries(samples []Sample, now time.Time) []models.Activity {
	var out []models.Activity
	for _, s := range samples {
		if s.Empty() {
			continue
		}
		a := models.Activity{
			ID:        uuid.New().String(),
			Name:      fmt.Sprintf(constants.ExternalEntryNameFormat, s.Category),
			Category:  s.Category,
			Count:     s.Count,
			Timestamp: now,
			External:  true,
		}
		if s.DistanceKm > 0 {
			a.DistanceKm = models.Float64(s.DistanceKm)
			a.Calories = models.Int(int(math.Round(s.DistanceKm * constants.CaloriesPerKmWalked)))
		}
		out = append(out, a)
	}
	return out
}

// Apply removes every external entry from target and inserts the entries
// built from samples, as a single mutation.
func Apply(target Target, samples []Sample, now time.Time) Result {
	entries := Entries(samples, now)
	removed := target.Replace(activity.IsExternal, entries)
	logger.Info("Health sync applied", "removed", removed, "inserted", len(entries))
	return Result{Samples: samples, Removed: removed, Inserted: entries, At: now}
}

// Sync fetches and applies in one call. The engine splits the two so the
// fetch runs outside its mutation lock. A cancelled ctx is not "no data":
// target is left untouched and ctx's error is returned.
func (r *Reconciler) Sync(ctx context.Context, target Target, rng period.Range, now time.Time) (Result, error) {
	samples := r.Fetch(ctx, rng)
	if err := ctx.Err(); err != nil {
		logger.Info("Health sync cancelled, keeping synced entries", "error", err)
		return Result{Samples: samples}, err
	}
	return Apply(target, samples, now), nil
}
