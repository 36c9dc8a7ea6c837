// Package health provides the health-data collaborators that sync pulls
// aggregate step and distance figures from.
package health

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/trackfit/internal/models"
)

// ErrNoData is returned when a source has no samples for the request.
var ErrNoData = errors.New("no health data for range")

// Aggregate is the summed count and distance for one category over a range.
type Aggregate struct {
	Count      int     `json:"count"`
	DistanceKm float64 `json:"distance_km"`
}

// Empty reports whether there is nothing to record.
func (a Aggregate) Empty() bool {
	return a.Count <= 0 && a.DistanceKm <= 0
}

// Source fetches aggregates. Implementations should honour ctx cancellation.
type Source interface {
	FetchAggregate(ctx context.Context, category models.Category, start, end time.Time) (Aggregate, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, category models.Category, start, end time.Time) (Aggregate, error)

func (f SourceFunc) FetchAggregate(ctx context.Context, category models.Category, start, end time.Time) (Aggregate, error) {
	return f(ctx, category, start, end)
}
