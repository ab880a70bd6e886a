package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/logger"
)

type fakePruner struct {
	mu      sync.Mutex
	calls   int
	removed int
	err     error
}

func (f *fakePruner) Prune(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.removed, f.err
}

func (f *fakePruner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) RefreshBlocklist(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRetentionPrunerRunsOnStart(t *testing.T) {
	log := logger.New("error", false)
	pruner := &fakePruner{removed: 3}

	rp := NewRetentionPruner(pruner, log, time.Hour, nil)
	if err := rp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer rp.Stop()

	if pruner.callCount() != 1 {
		t.Errorf("expected 1 prune on start, got %d", pruner.callCount())
	}
}

func TestRetentionPrunerManualTrigger(t *testing.T) {
	log := logger.New("error", false)
	pruner := &fakePruner{}
	trigger := make(chan struct{})

	rp := NewRetentionPruner(pruner, log, time.Hour, trigger)
	if err := rp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer rp.Stop()

	trigger <- struct{}{}

	deadline := time.After(2 * time.Second)
	for pruner.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("manual trigger did not run a prune, calls = %d", pruner.callCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRetentionPrunerSurvivesErrors(t *testing.T) {
	log := logger.New("error", false)
	pruner := &fakePruner{err: errors.New("store down")}
	trigger := make(chan struct{})

	rp := NewRetentionPruner(pruner, log, time.Hour, trigger)
	if err := rp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer rp.Stop()

	// A failing prune must not kill the loop.
	trigger <- struct{}{}

	deadline := time.After(2 * time.Second)
	for pruner.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("loop stopped after error, calls = %d", pruner.callCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// slowPruner returns immediately from the startup run, then parks every
// later prune until released.
type slowPruner struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (p *slowPruner) Prune(ctx context.Context) (int, error) {
	p.mu.Lock()
	p.calls++
	n := p.calls
	p.mu.Unlock()
	if n == 1 {
		return 0, nil
	}
	close(p.entered)
	<-p.release
	return 0, nil
}

func TestRetentionPrunerStopWaitsForInFlightPrune(t *testing.T) {
	log := logger.New("error", false)
	pruner := &slowPruner{entered: make(chan struct{}), release: make(chan struct{})}
	trigger := make(chan struct{})

	rp := NewRetentionPruner(pruner, log, time.Hour, trigger)
	if err := rp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	trigger <- struct{}{}
	<-pruner.entered

	stopped := make(chan struct{})
	go func() {
		rp.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a prune was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(pruner.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the prune finished")
	}
}

func TestBlocklistSyncerInitialSync(t *testing.T) {
	log := logger.New("error", false)
	events := bus.New(log)
	refresher := &fakeRefresher{}

	bs := NewBlocklistSyncer(refresher, events, log)
	if err := bs.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer bs.Stop()

	if refresher.callCount() != 1 {
		t.Errorf("expected 1 sync on start, got %d", refresher.callCount())
	}
}

func TestBlocklistSyncerInitialSyncError(t *testing.T) {
	log := logger.New("error", false)
	events := bus.New(log)
	refresher := &fakeRefresher{err: errors.New("redis down")}

	bs := NewBlocklistSyncer(refresher, events, log)
	if err := bs.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the initial sync fails")
	}
}

func TestBlocklistSyncerReactsToStorageChanges(t *testing.T) {
	log := logger.New("error", false)
	events := bus.New(log)
	refresher := &fakeRefresher{}

	bs := NewBlocklistSyncer(refresher, events, log)
	if err := bs.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer bs.Stop()

	events.Publish(bus.StorageChanged{Key: "blocklist"})

	deadline := time.After(2 * time.Second)
	for refresher.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("blocklist write did not trigger a refresh, calls = %d", refresher.callCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestBlocklistSyncerIgnoresOtherKeys(t *testing.T) {
	log := logger.New("error", false)
	events := bus.New(log)
	refresher := &fakeRefresher{}

	bs := NewBlocklistSyncer(refresher, events, log)
	if err := bs.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events.Publish(bus.StorageChanged{Key: "todos"})
	events.Publish(bus.TimerUpdate{Title: "Focus"})

	// Stop drains the goroutine, so after Stop the count is final.
	bs.Stop()

	if refresher.callCount() != 1 {
		t.Errorf("unrelated events triggered refreshes, calls = %d", refresher.callCount())
	}
}
