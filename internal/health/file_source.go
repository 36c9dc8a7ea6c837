package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/trackfit/internal/models"
)

// Sample is one record in an exported health-data file.
type Sample struct {
	Category   models.Category `json:"category"`
	Timestamp  time.Time       `json:"timestamp"`
	Count      int             `json:"count"`
	DistanceKm float64         `json:"distance_km"`
}

// FileSource sums samples from a JSON export, re-reading the file on every
// fetch so a phone export can be dropped in place between syncs.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) FetchAggregate(ctx context.Context, category models.Category, start, end time.Time) (Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return Aggregate{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Aggregate{}, ErrNoData
		}
		return Aggregate{}, fmt.Errorf("failed to read health export: %w", err)
	}

	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return Aggregate{}, fmt.Errorf("failed to parse health export %s: %w", s.path, err)
	}

	var agg Aggregate
	found := false
	for _, smp := range samples {
		if smp.Category != category || smp.Timestamp.Before(start) || smp.Timestamp.After(end) {
			continue
		}
		found = true
		agg.Count += smp.Count
		agg.DistanceKm += smp.DistanceKm
	}
	if !found {
		return Aggregate{}, ErrNoData
	}
	return agg, nil
}
