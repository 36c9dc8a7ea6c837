// Package activity holds the in-memory collection of logged entries.
package activity

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

// Predicate selects entries in Query.
type Predicate func(models.Activity) bool

// Observer receives a snapshot of the collection after each mutation.
type Observer func(snapshot []models.Activity)

// Store owns the activity entries. Readers share the lock; writers exclude.
// Every query returns a fresh slice so callers never see later mutations.
type Store struct {
	mu       sync.RWMutex
	entries  []models.Activity
	observer Observer
}

func NewStore(entries []models.Activity) *Store {
	s := &Store{}
	s.entries = cloneAll(entries)
	return s
}

// SetObserver registers the callback run after every mutation. The callback
// runs after the store lock is released.
func (s *Store) SetObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// Add appends an entry, assigning an ID when it has none. Input is not
// validated; callers reject negative counts before calling.
func (s *Store) Add(entry models.Activity) models.Activity {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry = entry.Clone()
	s.mutate(func() bool {
		s.entries = append(s.entries, entry)
		return true
	})
	return entry
}

// Update replaces the entry with the same ID. It reports false, and changes
// nothing, when no such entry exists.
func (s *Store) Update(entry models.Activity) bool {
	entry = entry.Clone()
	return s.mutate(func() bool {
		for i := range s.entries {
			if s.entries[i].ID == entry.ID {
				s.entries[i] = entry
				return true
			}
		}
		return false
	})
}

// Delete removes the entry with id. Unknown ids are a no-op.
func (s *Store) Delete(id string) bool {
	return s.DeleteBatch([]string{id}) > 0
}

// DeleteBatch removes every entry whose ID is listed and returns how many were removed.
func (s *Store) DeleteBatch(ids []string) int {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return s.RemoveWhere(func(a models.Activity) bool {
		_, ok := set[a.ID]
		return ok
	})
}

// RemoveWhere removes every entry matching pred and returns the count.
func (s *Store) RemoveWhere(pred Predicate) int {
	removed := 0
	s.mutate(func() bool {
		removed = s.removeLocked(pred)
		return removed > 0
	})
	return removed
}

// Replace removes every entry matching pred and appends entries as one
// mutation, so the observer never sees the intermediate state. It returns
// the number of entries removed.
func (s *Store) Replace(pred Predicate, entries []models.Activity) int {
	fresh := make([]models.Activity, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		fresh = append(fresh, e.Clone())
	}
	removed := 0
	s.mutate(func() bool {
		removed = s.removeLocked(pred)
		s.entries = append(s.entries, fresh...)
		return true
	})
	return removed
}

// Load swaps in entries read from storage. It is not a mutation: the
// observer does not run.
func (s *Store) Load(entries []models.Activity) {
	fresh := cloneAll(entries)
	s.mu.Lock()
	s.entries = fresh
	s.mu.Unlock()
}

// Reset drops every entry.
func (s *Store) Reset() {
	s.mutate(func() bool {
		s.entries = nil
		return true
	})
}

func (s *Store) removeLocked(pred Predicate) int {
	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if pred(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	// clear the tail so dropped entries can be collected
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = models.Activity{}
	}
	s.entries = kept
	return removed
}

// mutate runs fn under the write lock and notifies the observer when fn
// reports a change.
func (s *Store) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	obs := s.observer
	var snap []models.Activity
	if changed && obs != nil {
		snap = cloneAll(s.entries)
	}
	s.mu.Unlock()

	if changed && obs != nil {
		obs(snap)
	}
	return changed
}

// Query returns entries matching pred, ordered by timestamp.
func (s *Store) Query(pred Predicate) []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Activity, 0)
	for _, e := range s.entries {
		if pred == nil || pred(e) {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// All returns every entry, ordered by timestamp.
func (s *Store) All() []models.Activity {
	return s.Query(nil)
}

// Get returns the entry with id.
func (s *Store) Get(id string) (models.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return models.Activity{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ForDate returns entries on d's calendar day in cal's zone.
func (s *Store) ForDate(d time.Time, cal period.Calendar) []models.Activity {
	return s.InRange(cal.Day(d))
}

// ForRange returns entries with start <= timestamp < end, or <= end when inclusive.
func (s *Store) ForRange(start, end time.Time, inclusive bool) []models.Activity {
	return s.InRange(period.Range{Start: start, End: end, Inclusive: inclusive})
}

func (s *Store) InRange(r period.Range) []models.Activity {
	return s.Query(func(a models.Activity) bool { return r.Contains(a.Timestamp) })
}

func (s *Store) ForCategory(c models.Category) []models.Activity {
	return s.Query(func(a models.Activity) bool { return a.Category == c })
}

// External returns the entries created by health-data sync.
func (s *Store) External() []models.Activity {
	return s.Query(IsExternal)
}

// IsExternal matches synced entries.
func IsExternal(a models.Activity) bool { return a.External }

// InCategory matches entries of category c.
func InCategory(c models.Category) Predicate {
	return func(a models.Activity) bool { return a.Category == c }
}

// SumCount adds up Count over entries.
func SumCount(entries []models.Activity) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}

// SumDistance adds up distance in km over entries.
func SumDistance(entries []models.Activity) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Distance()
	}
	return total
}

func cloneAll(entries []models.Activity) []models.Activity {
	if entries == nil {
		return nil
	}
	out := make([]models.Activity, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
