package engine

import (
	"errors"
	"time"
)

var ErrStopwatchRunning = errors.New("stopwatch is already running")

// TickFunc receives the elapsed time on every stopwatch tick.
type TickFunc func(elapsed time.Duration)

type stopwatch struct {
	started time.Time
	ticks   int
	stop    chan struct{}
	done    chan struct{}
}

// halt stops the ticker goroutine and waits for it. Callers must not hold
// the engine lock.
func (w *stopwatch) halt() {
	close(w.stop)
	<-w.done
}

// StartStopwatch starts timing a new entry. Every interval a tick is posted
// onto the mutation path and onTick, when set, is called with the elapsed
// time while the engine lock is held.
func (e *Engine) StartStopwatch(interval time.Duration, onTick TickFunc) error {
	if interval <= 0 {
		interval = time.Second
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.watch != nil {
		return ErrStopwatchRunning
	}

	w := &stopwatch{
		started: e.now(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	e.watch = w

	go func() {
		defer close(w.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-t.C:
				e.tick(w, onTick)
			}
		}
	}()
	return nil
}

func (e *Engine) tick(w *stopwatch, onTick TickFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// stale tick from a stopwatch that was stopped in the meantime
	if e.watch != w {
		return
	}
	w.ticks++
	if onTick != nil {
		onTick(e.now().Sub(w.started))
	}
}

// StopwatchElapsed is zero when no stopwatch is running.
func (e *Engine) StopwatchElapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.watch == nil {
		return 0
	}
	return e.now().Sub(e.watch.started)
}

// StopStopwatch stops the running stopwatch and returns the elapsed whole
// seconds. ok is false when nothing was running.
func (e *Engine) StopStopwatch() (seconds int, ok bool) {
	e.mu.Lock()
	w := e.watch
	if w == nil {
		e.mu.Unlock()
		return 0, false
	}
	e.watch = nil
	seconds = int(e.now().Sub(w.started).Seconds())
	e.mu.Unlock()

	w.halt()
	return seconds, true
}
