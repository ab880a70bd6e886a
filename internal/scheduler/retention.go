package scheduler

import (
	"context"
	"time"

	"github.com/tabdeck/tabdeck/internal/logger"
)

// Pruner is the slice of the tracker the retention loop needs.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

// RetentionPruner periodically drops time entries older than the retention
// window so the analytics store cannot grow without bound.
type RetentionPruner struct {
	pruner        Pruner
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	manualTrigger chan struct{}
}

// NewRetentionPruner creates a new retention pruner. manualTrigger lets the
// HTTP layer force a prune outside the schedule.
func NewRetentionPruner(
	pruner Pruner,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *RetentionPruner {
	return &RetentionPruner{
		pruner:        pruner,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic prune process.
func (rp *RetentionPruner) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := rp.pruner.Prune(ctx); err != nil {
		rp.logger.Warn("initial retention prune failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(rp.interval)
	go func() {
		defer ticker.Stop()
		defer close(rp.done)
		for {
			select {
			case <-ticker.C:
				rp.runOnce(ctx)
			case <-rp.manualTrigger:
				rp.logger.Info("manual retention prune triggered")
				rp.runOnce(ctx)
			case <-rp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the pruner and waits for any in-flight prune to finish.
func (rp *RetentionPruner) Stop() {
	close(rp.stopCh)
	<-rp.done
}

func (rp *RetentionPruner) runOnce(ctx context.Context) {
	removed, err := rp.pruner.Prune(ctx)
	if err != nil {
		rp.logger.Error("retention prune failed",
			logger.Error(err))
		return
	}
	if removed > 0 {
		rp.logger.Info("retention prune completed",
			logger.Int("entries_removed", removed))
	} else {
		rp.logger.Debug("no time entries to prune")
	}
}
