package engine

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/trackfit/internal/healthsync"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/observability"
	"github.com/julianstephens/trackfit/internal/period"
)

var ErrClosed = errors.New("engine is closed")

// SyncResult is delivered once per Sync call.
type SyncResult struct {
	healthsync.Result
	Achieved []models.Badge
	Err      error
}

// SyncRange is the window a sync asks for: the start of the current week
// up to now, inclusive.
func (e *Engine) SyncRange() period.Range {
	now := e.now()
	return period.Range{Start: e.Calendar().WeekStart(now), End: now, Inclusive: true}
}

// Sync fetches from the health source in the background and applies the
// result on the mutation path. The fetch holds no lock, so a slow source
// never blocks other writers. Overlapping syncs each apply a full
// replacement; the last to finish wins. If ctx is done when the fetch
// returns, nothing is applied and Err carries ctx's error. The channel
// receives exactly one value and is then closed.
func (e *Engine) Sync(ctx context.Context) <-chan SyncResult {
	out := make(chan SyncResult, 1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		out <- SyncResult{Err: ErrClosed}
		close(out)
		return out
	}
	e.bg.Add(1)
	e.mu.Unlock()

	rng := e.SyncRange()
	go func() {
		defer e.bg.Done()
		defer close(out)

		start := time.Now()
		samples := e.reconciler.Fetch(ctx, rng)
		fetched := time.Since(start)

		// a caller that gave up is not a service with no data
		if err := ctx.Err(); err != nil {
			e.log.Info("Sync cancelled, keeping synced entries", "error", err)
			out <- SyncResult{Result: healthsync.Result{Samples: samples}, Err: err}
			return
		}

		e.mu.Lock()
		res := healthsync.Apply(e.store, samples, e.now())
		achieved := e.takeAchieved()
		e.mu.Unlock()

		degraded := false
		for _, s := range samples {
			if s.Err != nil {
				degraded = true
			}
		}
		observability.RecordSync(res.At, fetched, degraded)
		observability.RecordMutation("sync")
		out <- SyncResult{Result: res, Achieved: achieved}
	}()
	return out
}

// SyncNow runs Sync and waits for it.
func (e *Engine) SyncNow(ctx context.Context) SyncResult {
	return <-e.Sync(ctx)
}

// SyncCategories lists the categories a sync asks the health source for.
func (e *Engine) SyncCategories() []models.Category {
	return e.reconciler.Categories()
}
