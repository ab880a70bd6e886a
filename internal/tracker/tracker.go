package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/logger"
)

const dayFormat = "2006-01-02"

// EntryStore is the slice of the store the tracker needs.
type EntryStore interface {
	GetTimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
	SaveTimeEntries(ctx context.Context, entries []domain.TimeEntry) error
}

// session is one closed span of dwell time on a domain.
type session struct {
	Domain string
	Start  time.Time
	End    time.Time
}

// activeTab is the in-memory tracking state for the currently focused tab.
type activeTab struct {
	ID         int
	Domain     string
	StartTime  time.Time
	LastUpdate time.Time
}

// DomainTotal is an aggregated dwell figure for the analytics view.
type DomainTotal struct {
	Domain   string `json:"domain"`
	Duration int64  `json:"duration"` // milliseconds
	Minutes  int64  `json:"minutes"`
}

// Tracker accumulates per-domain dwell time into day-bucketed entries.
//
// Every persisted write is a full read-modify-write of the entry list, so
// all writes are funneled through a single worker goroutine; event handlers
// only enqueue. The active-tab state is process-wide and never persisted.
type Tracker struct {
	store      EntryStore
	logger     logger.Logger
	retention  time.Duration
	minSession time.Duration
	timeNow    func() time.Time

	mu     sync.Mutex
	active *activeTab
	idle   bool

	jobs   chan session
	stopCh chan struct{}
	done   chan struct{}
}

// New creates a tracker. timeNow may be nil (defaults to time.Now).
func New(store EntryStore, log logger.Logger, retention, minSession time.Duration, timeNow func() time.Time) *Tracker {
	if timeNow == nil {
		timeNow = time.Now
	}
	return &Tracker{
		store:      store,
		logger:     log,
		retention:  retention,
		minSession: minSession,
		timeNow:    timeNow,
		jobs:       make(chan session, 64),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the single write worker. The worker's lifetime is bound to
// Stop, not to ctx: shutdown signals cancel the caller's context before Stop
// flushes the final session, and that flush still has to be written.
func (t *Tracker) Start(ctx context.Context) error {
	writeCtx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(t.done)
		defer cancel()
		for {
			select {
			case s := <-t.jobs:
				if err := t.record(writeCtx, s); err != nil {
					t.logger.Error("failed to record session",
						logger.String("domain", s.Domain),
						logger.Error(err))
				}
			case <-t.stopCh:
				t.drain(writeCtx)
				return
			}
		}
	}()
	return nil
}

// Stop flushes the open tracking session and waits for queued writes.
func (t *Tracker) Stop() {
	t.FlushActive()
	close(t.stopCh)
	<-t.done
}

func (t *Tracker) drain(ctx context.Context) {
	for {
		select {
		case s := <-t.jobs:
			if err := t.record(ctx, s); err != nil {
				t.logger.Error("failed to record session during drain",
					logger.String("domain", s.Domain),
					logger.Error(err))
			}
		default:
			return
		}
	}
}

// RecordSession queues one dwell span for persistence.
func (t *Tracker) RecordSession(dom string, start, end time.Time) {
	t.enqueue(session{Domain: dom, Start: start, End: end})
}

func (t *Tracker) enqueue(s session) {
	select {
	case t.jobs <- s:
	default:
		// Never block the event loop on a full queue; dwell data is
		// best-effort analytics.
		t.logger.Warn("tracker queue full, dropping session",
			logger.String("domain", s.Domain))
	}
}

// TabActivated closes the previous session and starts tracking the domain
// shown by the newly focused tab.
func (t *Tracker) TabActivated(tabID int, rawURL string) {
	now := t.timeNow()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeActiveLocked(now)
	t.idle = false

	dom := domain.NormalizeHost(rawURL)
	if dom == "" {
		t.active = nil
		return
	}
	t.active = &activeTab{ID: tabID, Domain: dom, StartTime: now, LastUpdate: now}
}

// TabUpdated handles in-tab navigation: a domain change closes the running
// session and starts a fresh one, same-domain updates just touch LastUpdate.
func (t *Tracker) TabUpdated(tabID int, rawURL string) {
	now := t.timeNow()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil || t.active.ID != tabID {
		return
	}

	dom := domain.NormalizeHost(rawURL)
	if dom == t.active.Domain {
		t.active.LastUpdate = now
		return
	}

	t.closeActiveLocked(now)
	if dom == "" {
		t.active = nil
		return
	}
	t.active = &activeTab{ID: tabID, Domain: dom, StartTime: now, LastUpdate: now}
}

// TabRemoved ends tracking if the closed tab was the tracked one.
func (t *Tracker) TabRemoved(tabID int) {
	now := t.timeNow()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil || t.active.ID != tabID {
		return
	}
	t.closeActiveLocked(now)
	t.active = nil
}

// IdleStateChanged flushes dwell time when the browser leaves the "active"
// state; on return, tracking restarts from a fresh start time.
func (t *Tracker) IdleStateChanged(state string) {
	now := t.timeNow()

	t.mu.Lock()
	defer t.mu.Unlock()

	if state == "active" {
		if t.idle {
			t.idle = false
			if t.active != nil {
				t.active.StartTime = now
				t.active.LastUpdate = now
			}
		}
		return
	}

	t.closeActiveLocked(now)
	t.idle = true
}

// FlushActive closes and queues the open session without forgetting the tab,
// used on daemon shutdown.
func (t *Tracker) FlushActive() {
	now := t.timeNow()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeActiveLocked(now)
	if t.active != nil {
		t.active.StartTime = now
	}
}

// ActiveDomain reports what is currently being tracked, for diagnostics.
func (t *Tracker) ActiveDomain() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil || t.idle {
		return "", false
	}
	return t.active.Domain, true
}

func (t *Tracker) closeActiveLocked(now time.Time) {
	if t.active == nil || t.idle {
		return
	}
	t.enqueue(session{Domain: t.active.Domain, Start: t.active.StartTime, End: now})
}

// record applies one session to the persisted entry list: discard noise,
// bucket by the session's start day, accumulate per (domain, date), and
// prune anything older than the retention window.
func (t *Tracker) record(ctx context.Context, s session) error {
	duration := s.End.Sub(s.Start)
	if duration < t.minSession {
		return nil
	}

	entries, err := t.store.GetTimeEntries(ctx)
	if err != nil {
		return err
	}

	kept := t.pruneExpired(entries)

	date := s.Start.Format(dayFormat)
	found := false
	for i, entry := range kept {
		if entry.Domain == s.Domain && entry.Date == date {
			kept[i].Duration += duration.Milliseconds()
			kept[i].LastUpdate = s.End.UnixMilli()
			found = true
			break
		}
	}
	if !found {
		kept = append(kept, domain.TimeEntry{
			Domain:     s.Domain,
			Date:       date,
			Duration:   duration.Milliseconds(),
			StartTime:  s.Start.UnixMilli(),
			LastUpdate: s.End.UnixMilli(),
		})
	}

	return t.store.SaveTimeEntries(ctx, kept)
}

// Prune drops expired entries outside of a session write, for the periodic
// retention job. Returns how many entries were removed.
func (t *Tracker) Prune(ctx context.Context) (int, error) {
	entries, err := t.store.GetTimeEntries(ctx)
	if err != nil {
		return 0, err
	}

	kept := t.pruneExpired(entries)
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, t.store.SaveTimeEntries(ctx, kept)
}

func (t *Tracker) pruneExpired(entries []domain.TimeEntry) []domain.TimeEntry {
	cutoff := t.timeNow().Add(-t.retention)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, cutoff.Location())

	kept := make([]domain.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		day, err := time.ParseInLocation(dayFormat, entry.Date, cutoff.Location())
		if err != nil {
			// Malformed entry: drop rather than carry garbage forever.
			t.logger.Warn("dropping time entry with invalid date",
				logger.String("domain", entry.Domain),
				logger.String("date", entry.Date))
			continue
		}
		if day.Before(cutoffDay) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// TopDomains aggregates dwell time per domain for entries on or after since,
// sorted by total descending and capped at limit.
func (t *Tracker) TopDomains(ctx context.Context, since time.Time, limit int) ([]DomainTotal, error) {
	entries, err := t.store.GetTimeEntries(ctx)
	if err != nil {
		return nil, err
	}

	sinceDay := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())
	totals := make(map[string]int64)
	for _, entry := range entries {
		day, err := time.ParseInLocation(dayFormat, entry.Date, since.Location())
		if err != nil {
			continue
		}
		if day.Before(sinceDay) {
			continue
		}
		totals[entry.Domain] += entry.Duration
	}

	result := make([]DomainTotal, 0, len(totals))
	for dom, ms := range totals {
		result = append(result, DomainTotal{
			Domain:   dom,
			Duration: ms,
			Minutes:  ms / 60000,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Duration != result[j].Duration {
			return result[i].Duration > result[j].Duration
		}
		return result[i].Domain < result[j].Domain
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
