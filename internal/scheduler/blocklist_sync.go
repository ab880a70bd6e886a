package scheduler

import (
	"context"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Refresher reloads the in-memory blocklist snapshot from the store.
type Refresher interface {
	RefreshBlocklist(ctx context.Context) error
}

// BlocklistSyncer keeps the in-memory blocklist snapshot in step with the
// store: one sync at startup, then one after every blocklist write seen on
// the event bus.
type BlocklistSyncer struct {
	refresher Refresher
	events    *bus.Bus
	logger    logger.Logger
	stopCh    chan struct{}
	done      chan struct{}
}

// NewBlocklistSyncer creates a new blocklist syncer.
func NewBlocklistSyncer(
	refresher Refresher,
	events *bus.Bus,
	log logger.Logger,
) *BlocklistSyncer {
	return &BlocklistSyncer{
		refresher: refresher,
		events:    events,
		logger:    log,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Sync loads the blocklist from the store into the memory snapshot.
func (bs *BlocklistSyncer) Sync(ctx context.Context) error {
	bs.logger.Info("syncing blocklist from store to memory")
	return bs.refresher.RefreshBlocklist(ctx)
}

// Start performs an initial sync and then watches storage-change events for
// blocklist writes.
func (bs *BlocklistSyncer) Start(ctx context.Context) error {
	if err := bs.Sync(ctx); err != nil {
		return err
	}

	ch, cancel := bs.events.Subscribe()
	go func() {
		defer close(bs.done)
		defer cancel()
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				changed, isStorage := ev.(bus.StorageChanged)
				if !isStorage || changed.Key != "blocklist" {
					continue
				}
				if err := bs.refresher.RefreshBlocklist(ctx); err != nil {
					bs.logger.Error("failed to refresh blocklist snapshot",
						logger.Error(err))
				}
			case <-bs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the syncer.
func (bs *BlocklistSyncer) Stop() {
	close(bs.stopCh)
	<-bs.done
}
