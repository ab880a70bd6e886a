package notify

import (
	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Notifier raises user-visible alerts.
type Notifier interface {
	// TimerFinished announces a completed countdown. Must be safe to call
	// from the timer tick goroutine.
	TimerFinished(title string)
}

// BusNotifier delivers notifications to connected UI surfaces over the
// event bus; the surfaces render the system notification and speak the
// message aloud. The daemon itself has no display to draw on.
type BusNotifier struct {
	events *bus.Bus
	logger logger.Logger
}

func NewBusNotifier(events *bus.Bus, log logger.Logger) *BusNotifier {
	return &BusNotifier{
		events: events,
		logger: log,
	}
}

func (n *BusNotifier) TimerFinished(title string) {
	n.logger.Info("timer finished",
		logger.String("title", title))
	n.events.Publish(bus.Notification{
		Title:   "Timer Finished",
		Message: title + " timer has finished!",
		Speak:   true,
	})
}
