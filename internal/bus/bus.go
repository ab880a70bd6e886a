package bus

import (
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Event is anything broadcast to connected UI surfaces.
type Event interface {
	// Kind is the wire-level action tag, e.g. "updateTimer".
	Kind() string
}

// TimerUpdate is the periodic countdown broadcast.
type TimerUpdate struct {
	Title       string        `json:"title"`
	TimeLeft    time.Duration `json:"timeLeft"`
	IsPaused    bool          `json:"isPaused"`
	IsCompleted bool          `json:"isCompleted"`
}

func (TimerUpdate) Kind() string { return "updateTimer" }

// StorageChanged tells surfaces a persisted key was written, so they can
// re-read whatever views depend on it.
type StorageChanged struct {
	Key string `json:"key"`
}

func (StorageChanged) Kind() string { return "storageChanged" }

// Notification is a user-visible alert. Speak asks the surface to also read
// the message aloud (timer completion does).
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Speak   bool   `json:"speak,omitempty"`
}

func (Notification) Kind() string { return "notification" }

// BookmarkAdded is sent after a context-menu bookmark save so the page that
// triggered it can confirm without re-reading storage.
type BookmarkAdded struct {
	Bookmark domain.Bookmark `json:"bookmark"`
}

func (BookmarkAdded) Kind() string { return "bookmarkAdded" }

// subscriberBuffer is how many events a slow subscriber may lag before it is
// considered dead and dropped.
const subscriberBuffer = 16

// Bus is the pub-sub channel between the coordinator and UI surfaces.
// Publishing never blocks and never fails: a subscriber whose buffer is full
// is assumed gone (tab closed) and silently deregistered.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	logger logger.Logger
}

func New(log logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]chan Event),
		logger: log,
	}
}

// Subscribe registers a new consumer and returns its event channel plus an
// unsubscribe func. The channel is closed on unsubscribe or drop.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	return ch, func() { b.drop(id) }
}

// Publish delivers ev to every live subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Buffer full: the surface stopped reading. Deregister instead
			// of failing the broadcast.
			delete(b.subs, id)
			close(ch)
			b.logger.Debug("dropped unresponsive subscriber",
				logger.Int("subscriber_id", id),
				logger.String("event", ev.Kind()))
		}
	}
}

// Count returns the number of live subscribers.
func (b *Bus) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) drop(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}
