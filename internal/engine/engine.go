// Package engine wires the activity store, goals, badges, preferences and
// health sync behind one serialized mutation path.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"

	"github.com/julianstephens/trackfit/internal/activity"
	"github.com/julianstephens/trackfit/internal/badges"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/goals"
	"github.com/julianstephens/trackfit/internal/health"
	"github.com/julianstephens/trackfit/internal/healthsync"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/notifier"
	"github.com/julianstephens/trackfit/internal/observability"
	"github.com/julianstephens/trackfit/internal/period"
	"github.com/julianstephens/trackfit/internal/profile"
	"github.com/julianstephens/trackfit/internal/storage"
)

// Notifier delivers a badge notification. *notifier.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHealthSource sets where Sync fetches from and which categories it asks for.
func WithHealthSource(src health.Source, categories ...models.Category) Option {
	return func(e *Engine) { e.reconciler = healthsync.New(src, categories...) }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithRegistry supplies a badge rule registry with extra rules.
func WithRegistry(r *badges.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// Engine is the single owner of tracking state. Every writer (surface
// calls, sync completions, stopwatch ticks) goes through mu; readers use the
// components' own read locks and never block on a running sync fetch.
type Engine struct {
	mu sync.Mutex

	provider   storage.Provider
	store      *activity.Store
	goals      *goals.Manager
	badges     *badges.Evaluator
	prefs      *profile.Holder
	registry   *badges.Registry
	reconciler *healthsync.Reconciler
	notifier   Notifier
	now        func() time.Time
	log        *log.Logger

	achieved   []models.Badge
	persistErr error
	watch      *stopwatch

	bg     sync.WaitGroup
	closed bool
}

func New(provider storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:   provider,
		now:        time.Now,
		reconciler: healthsync.New(nil),
		log:        logger.Component("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.prefs = profile.NewHolder(profile.DefaultPreferences())
	e.store = activity.NewStore(nil)
	e.goals = goals.NewManager(nil, e.store, e.prefs)
	e.badges = badges.NewEvaluator(nil, e.registry)
	e.store.SetObserver(e.onActivitiesChanged)
	return e
}

// Open loads both documents into the components built by New. The
// components are never swapped out, so readers may run alongside it.
// Unreadable or missing activities start empty; a missing or unreadable
// profile is replaced by the starter profile, which is written back
// immediately.
func (e *Engine) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.store.Load(e.loadActivities())

	p, fresh := e.loadProfile(now)
	e.prefs.Set(p.Preferences)
	e.goals.Replace(p.Goals)
	e.badges.Replace(mergeBadges(p.Badges, badges.DefaultBadges()))

	e.recordState(e.store.All(), now)
	if fresh {
		return e.persistProfile()
	}
	return nil
}

func (e *Engine) loadActivities() []models.Activity {
	data, err := e.provider.GetDocument(constants.DocumentActivities)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.log.Warn("Failed to read activities, starting empty", "error", err)
		}
		return nil
	}
	var out []models.Activity
	if err := json.Unmarshal(data, &out); err != nil {
		e.log.Warn("Activities document is corrupt, starting empty", "error", err)
		return nil
	}
	return out
}

// loadProfile reports fresh when the starter profile had to be used.
func (e *Engine) loadProfile(now time.Time) (models.Profile, bool) {
	data, err := e.provider.GetDocument(constants.DocumentProfile)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.log.Warn("Failed to read profile, using defaults", "error", err)
		}
		return profile.DefaultProfile(now), true
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		e.log.Warn("Profile document is corrupt, using defaults", "error", err)
		return profile.DefaultProfile(now), true
	}
	models.ApplyDefaultPreferences(&p.Preferences)
	return p, false
}

// mergeBadges keeps every stored badge and appends starter badges the
// stored list does not know yet.
func mergeBadges(stored, defaults []models.Badge) []models.Badge {
	seen := make(map[string]bool, len(stored))
	out := append([]models.Badge(nil), stored...)
	for _, b := range stored {
		seen[b.ID] = true
	}
	for _, b := range defaults {
		if !seen[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

// onActivitiesChanged runs after every store mutation, outside the store's
// lock but inside the engine's.
func (e *Engine) onActivitiesChanged(snapshot []models.Activity) {
	now := e.now()
	newly := e.badges.Evaluate(snapshot, now, e.prefs.Calendar())
	e.achieved = append(e.achieved, newly...)

	e.persistErr = multierr.Combine(e.persistActivities(snapshot), e.persistProfile())
	e.recordState(snapshot, now)

	for _, b := range newly {
		e.log.Debug("Badge achieved", "badge", b.ID)
		observability.RecordBadgeAchieved(b.ID)
	}
	if len(newly) > 0 {
		e.notify(newly)
	}
}

func (e *Engine) recordState(snapshot []models.Activity, now time.Time) {
	external := 0
	for _, a := range snapshot {
		if a.External {
			external++
		}
	}
	observability.RecordActivities(len(snapshot)-external, external)
	observability.RecordOverallProgress(e.goals.OverallProgress(now))
}

func (e *Engine) notify(newly []models.Badge) {
	if e.closed || e.notifier == nil || !e.prefs.Get().NotificationsEnabled {
		return
	}
	msgs := make([]string, len(newly))
	for i, b := range newly {
		msgs[i] = notifier.BadgeMessage(b)
	}

	e.bg.Add(1)
	go func() {
		defer e.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultHTTPTimeout)
		defer cancel()
		for _, msg := range msgs {
			if err := e.notifier.Notify(ctx, msg); err != nil {
				if errors.Is(err, notifier.ErrTrayNotRunning) {
					e.log.Debug("Skipping badge notification", "error", err)
				} else {
					e.log.Warn("Failed to send badge notification", "error", err)
				}
				return
			}
		}
	}()
}

// takeAchieved returns and clears the badges achieved since the last call.
// Callers hold mu.
func (e *Engine) takeAchieved() []models.Badge {
	out := e.achieved
	e.achieved = nil
	return out
}

func (e *Engine) persistActivities(snapshot []models.Activity) error {
	if snapshot == nil {
		snapshot = []models.Activity{}
	}
	return e.put(constants.DocumentActivities, snapshot)
}

func (e *Engine) persistProfile() error {
	return e.put(constants.DocumentProfile, e.profileLocked())
}

func (e *Engine) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err == nil {
		err = e.provider.PutDocument(key, data)
	}
	if err != nil {
		e.log.Warn("Failed to persist document", "document", key, "error", err)
		observability.RecordPersistError(key)
	}
	return err
}

func (e *Engine) profileLocked() models.Profile {
	return models.Profile{
		Preferences: e.prefs.Get(),
		Goals:       e.goals.Goals(),
		Badges:      e.badges.Badges(),
	}
}

// PersistError is the write error from the most recent mutation, if any.
// Mutations never fail on persistence; surfaces use this to warn the user.
func (e *Engine) PersistError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistErr
}

// Now is the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Calendar reflects the current week convention and time zone.
func (e *Engine) Calendar() period.Calendar {
	return e.prefs.Calendar()
}

// Close stops the stopwatch, waits for background syncs and notifications,
// retries a failed write once and closes the provider.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	w := e.watch
	e.watch = nil
	e.mu.Unlock()

	if w != nil {
		w.halt()
	}
	e.bg.Wait()

	var err error
	e.mu.Lock()
	if e.persistErr != nil {
		err = multierr.Combine(e.persistActivities(e.store.All()), e.persistProfile())
	}
	e.mu.Unlock()
	return multierr.Append(err, e.provider.Close())
}
