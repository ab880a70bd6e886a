package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/logger"
	"github.com/tabdeck/tabdeck/internal/notify"
)

// StateStore is the slice of the store the engine needs.
type StateStore interface {
	GetTimerState(ctx context.Context) (*domain.TimerState, error)
	SaveTimerState(ctx context.Context, state *domain.TimerState) error
	DeleteTimerState(ctx context.Context) error
}

// Broadcaster fans countdown updates out to connected UI surfaces.
type Broadcaster interface {
	Publish(ev bus.Event)
}

// Status is a point-in-time view of the countdown for request/response use.
type Status struct {
	Title       string        `json:"title"`
	TimeLeft    time.Duration `json:"timeLeft"`
	IsPaused    bool          `json:"isPaused"`
	IsCompleted bool          `json:"isCompleted"`
}

// Engine owns the singleton countdown. State is persisted on every
// transition so the timer survives UI reloads and daemon restarts; the
// periodic tick recomputes time left and broadcasts it.
//
// Pause semantics: pausing freezes the countdown. Resume shifts the stored
// deadline forward by the paused duration, so time spent paused never
// counts against the timer.
type Engine struct {
	store    StateStore
	events   Broadcaster
	notifier notify.Notifier
	logger   logger.Logger
	tick     time.Duration
	timeNow  func() time.Time

	mu    sync.Mutex
	state *domain.TimerState
	alarm *time.Timer

	// lifeCtx outlives any caller's request context: alarm callbacks and
	// ticks persist state with it, so a finished HTTP request cannot
	// cancel the completion write.
	lifeCtx    context.Context
	lifeCancel context.CancelFunc

	stopCh chan struct{}
	done   chan struct{}
}

// New creates an engine. timeNow may be nil (defaults to time.Now).
func New(store StateStore, events Broadcaster, notifier notify.Notifier, log logger.Logger, tick time.Duration, timeNow func() time.Time) *Engine {
	if timeNow == nil {
		timeNow = time.Now
	}
	if tick <= 0 {
		tick = time.Second
	}
	lifeCtx, lifeCancel := context.WithCancel(context.Background())
	return &Engine{
		store:      store,
		events:     events,
		notifier:   notifier,
		logger:     log,
		tick:       tick,
		timeNow:    timeNow,
		lifeCtx:    lifeCtx,
		lifeCancel: lifeCancel,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Restore adopts a persisted countdown at startup, so a timer set before a
// restart keeps running. A completed-but-unacknowledged timer is kept as-is
// and must not re-fire its notification.
func (e *Engine) Restore(ctx context.Context) error {
	state, err := e.store.GetTimerState(ctx)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	e.mu.Lock()
	e.state = state
	e.mu.Unlock()

	e.logger.Info("restored persisted timer",
		logger.String("title", state.Title),
		logger.Bool("paused", state.IsPaused),
		logger.Bool("completed", state.IsCompleted))
	return nil
}

// Start launches the periodic tick loop.
func (e *Engine) Start(ctx context.Context) error {
	ticker := time.NewTicker(e.tick)
	go func() {
		defer ticker.Stop()
		defer close(e.done)
		for {
			select {
			case <-ticker.C:
				e.tickOnce(e.lifeCtx)
			case <-e.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop halts the tick loop and clears any pending alarm. The persisted
// state is left alone so the countdown resumes on next start.
func (e *Engine) Stop() {
	close(e.stopCh)
	<-e.done
	e.ClearAlarm()
	e.lifeCancel()
}

// StartTimer begins a new countdown, replacing any existing one.
func (e *Engine) StartTimer(ctx context.Context, title string, duration time.Duration) (Status, error) {
	if duration < 0 {
		return Status{}, fmt.Errorf("timer duration must not be negative, got %v", duration)
	}

	now := e.timeNow()
	state := &domain.TimerState{
		Title:   title,
		EndTime: now.Add(duration).UnixMilli(),
	}
	if err := e.store.SaveTimerState(ctx, state); err != nil {
		return Status{}, err
	}

	e.mu.Lock()
	e.state = state
	status := e.statusLocked(now)
	e.mu.Unlock()

	e.broadcast(status)
	return status, nil
}

// SetPaused pauses or resumes the countdown.
func (e *Engine) SetPaused(ctx context.Context, paused bool) (Status, error) {
	now := e.timeNow()

	e.mu.Lock()
	if e.state == nil {
		e.mu.Unlock()
		return Status{}, fmt.Errorf("no timer is running")
	}
	if e.state.IsCompleted {
		e.mu.Unlock()
		return Status{}, fmt.Errorf("timer already completed")
	}

	if paused && !e.state.IsPaused {
		e.state.IsPaused = true
		e.state.PausedAt = now.UnixMilli()
	} else if !paused && e.state.IsPaused {
		// Shift the deadline by the paused interval so the countdown
		// resumes exactly where it froze.
		e.state.EndTime += now.UnixMilli() - e.state.PausedAt
		e.state.IsPaused = false
		e.state.PausedAt = 0
	}
	state := *e.state
	status := e.statusLocked(now)
	e.mu.Unlock()

	if err := e.store.SaveTimerState(ctx, &state); err != nil {
		return Status{}, err
	}
	e.broadcast(status)
	return status, nil
}

// Cancel deletes the countdown without any completion side effect.
func (e *Engine) Cancel(ctx context.Context) error {
	e.mu.Lock()
	e.state = nil
	e.mu.Unlock()
	e.ClearAlarm()

	return e.store.DeleteTimerState(ctx)
}

// Acknowledge clears a completed timer, returning the engine to idle.
func (e *Engine) Acknowledge(ctx context.Context) error {
	e.mu.Lock()
	if e.state == nil || !e.state.IsCompleted {
		e.mu.Unlock()
		return fmt.Errorf("no completed timer to acknowledge")
	}
	e.state = nil
	e.mu.Unlock()

	return e.store.DeleteTimerState(ctx)
}

// Status reports the current countdown; ok is false when idle.
func (e *Engine) Status() (Status, bool) {
	now := e.timeNow()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return Status{}, false
	}
	return e.statusLocked(now), true
}

// SetAlarm schedules a one-shot completion check at the given instant, the
// wake-up UI surfaces request alongside a timer so a missed tick cannot
// delay completion. The callback runs on the engine's own context: the
// request that set the alarm is long gone when it fires.
func (e *Engine) SetAlarm(when time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.alarm != nil {
		e.alarm.Stop()
	}
	delay := when.Sub(e.timeNow())
	if delay < 0 {
		delay = 0
	}
	e.alarm = time.AfterFunc(delay, func() { e.tickOnce(e.lifeCtx) })
}

// AlarmFired forces an immediate completion check, for when the platform
// alarm wakes the engine between ticks.
func (e *Engine) AlarmFired(ctx context.Context) {
	e.tickOnce(ctx)
}

// ClearAlarm cancels a pending alarm.
func (e *Engine) ClearAlarm() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.alarm != nil {
		e.alarm.Stop()
		e.alarm = nil
	}
}

// tickOnce recomputes time left, transitions to completed exactly once, and
// broadcasts the countdown to all surfaces.
func (e *Engine) tickOnce(ctx context.Context) {
	now := e.timeNow()

	e.mu.Lock()
	if e.state == nil {
		e.mu.Unlock()
		return
	}

	var completedNow bool
	if !e.state.IsPaused && !e.state.IsCompleted && now.UnixMilli() >= e.state.EndTime {
		e.state.IsCompleted = true
		completedNow = true
	}
	state := *e.state
	status := e.statusLocked(now)
	e.mu.Unlock()

	if completedNow {
		// Persist the flag first so a crash between persist and notify
		// cannot re-fire the notification on restore.
		if err := e.store.SaveTimerState(ctx, &state); err != nil {
			e.logger.Error("failed to persist timer completion",
				logger.Error(err))
		}
		e.notifier.TimerFinished(state.Title)
	}

	e.broadcast(status)
}

func (e *Engine) statusLocked(now time.Time) Status {
	var timeLeft time.Duration
	if e.state.IsPaused {
		// Frozen at the pause instant.
		timeLeft = time.Duration(e.state.EndTime-e.state.PausedAt) * time.Millisecond
	} else {
		timeLeft = time.Duration(e.state.EndTime-now.UnixMilli()) * time.Millisecond
	}
	if timeLeft < 0 {
		timeLeft = 0
	}
	return Status{
		Title:       e.state.Title,
		TimeLeft:    timeLeft,
		IsPaused:    e.state.IsPaused,
		IsCompleted: e.state.IsCompleted,
	}
}

func (e *Engine) broadcast(status Status) {
	e.events.Publish(bus.TimerUpdate{
		Title:       status.Title,
		TimeLeft:    status.TimeLeft,
		IsPaused:    status.IsPaused,
		IsCompleted: status.IsCompleted,
	})
}
