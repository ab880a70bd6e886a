package coordinator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/index"
	"github.com/tabdeck/tabdeck/internal/logger"
	"github.com/tabdeck/tabdeck/internal/notify"
	"github.com/tabdeck/tabdeck/internal/timer"
	"github.com/tabdeck/tabdeck/internal/tracker"
)

// Store is the slice of the persistence layer the coordinator needs.
type Store interface {
	EnsureBlocklist(ctx context.Context) (bool, error)
	MigrateBlocklist(ctx context.Context) (int, error)
	GetBlocklist(ctx context.Context) ([]domain.BlockedItem, error)
	GetBookmarks(ctx context.Context) ([]domain.Bookmark, error)
	AddBookmark(ctx context.Context, url, title, folderID string) (domain.Bookmark, error)
}

// Coordinator wires browser lifecycle events and UI messages to the
// blocklist, tracker and timer. It owns all session state — registered
// tabs, the active-tab tracker — as one instance constructed at startup
// instead of module-level globals.
type Coordinator struct {
	store           Store
	blocklist       *index.BlocklistIndex
	tracker         *tracker.Tracker
	timer           *timer.Engine
	events          *bus.Bus
	notifier        notify.Notifier
	logger          logger.Logger
	blockedPagePath string
	timeNow         func() time.Time

	mu             sync.Mutex
	registeredTabs map[int]time.Time
}

// New creates a coordinator. timeNow may be nil (defaults to time.Now).
func New(
	store Store,
	blocklist *index.BlocklistIndex,
	trk *tracker.Tracker,
	eng *timer.Engine,
	events *bus.Bus,
	notifier notify.Notifier,
	log logger.Logger,
	blockedPagePath string,
	timeNow func() time.Time,
) *Coordinator {
	if timeNow == nil {
		timeNow = time.Now
	}
	return &Coordinator{
		store:           store,
		blocklist:       blocklist,
		tracker:         trk,
		timer:           eng,
		events:          events,
		notifier:        notifier,
		logger:          log,
		blockedPagePath: blockedPagePath,
		timeNow:         timeNow,
		registeredTabs:  make(map[int]time.Time),
	}
}

// HandleEvent dispatches one browser lifecycle event. Only navigation
// events produce a non-zero result.
func (c *Coordinator) HandleEvent(ctx context.Context, ev BrowserEvent) (EventResult, error) {
	switch e := ev.(type) {
	case Installed:
		return EventResult{}, c.handleInstall(ctx)

	case ContextMenuClicked:
		return EventResult{}, c.handleContextMenu(ctx, e)

	case TabCreated:
		c.logger.Debug("tab created",
			logger.Int("tab_id", e.TabID))
		return EventResult{}, nil

	case TabActivated:
		c.tracker.TabActivated(e.TabID, e.URL)
		return EventResult{}, nil

	case TabUpdated:
		c.tracker.TabUpdated(e.TabID, e.URL)
		return EventResult{}, nil

	case TabRemoved:
		c.tracker.TabRemoved(e.TabID)
		c.deregisterTab(e.TabID)
		return EventResult{}, nil

	case NavigationBefore:
		return c.handleNavigation(e), nil

	case IdleStateChanged:
		c.tracker.IdleStateChanged(e.State)
		return EventResult{}, nil

	case AlarmFired:
		c.timer.AlarmFired(ctx)
		return EventResult{}, nil
	}
	// DecodeBrowserEvent only produces the variants above.
	return EventResult{}, nil
}

// HandleMessage dispatches one UI request and returns its response payload.
func (c *Coordinator) HandleMessage(ctx context.Context, msg Message) (interface{}, error) {
	switch m := msg.(type) {
	case RegisterTab:
		c.registerTab(m.TabID)
		return OKResponse{OK: true}, nil

	case GetBookmarks:
		bookmarks, err := c.store.GetBookmarks(ctx)
		if err != nil {
			return nil, err
		}
		if bookmarks == nil {
			bookmarks = []domain.Bookmark{}
		}
		return BookmarksResponse{Bookmarks: bookmarks}, nil

	case CreateTimerNotification:
		c.notifier.TimerFinished(m.Title)
		return OKResponse{OK: true}, nil

	case SetTimerAlarm:
		c.timer.SetAlarm(time.UnixMilli(m.When))
		return OKResponse{OK: true}, nil

	case ClearTimerAlarm:
		c.timer.ClearAlarm()
		return OKResponse{OK: true}, nil

	case UpdateTimerPause:
		return c.timer.SetPaused(ctx, m.IsPaused)

	case CancelTimer:
		if err := c.timer.Cancel(ctx); err != nil {
			return nil, err
		}
		return OKResponse{OK: true}, nil

	case CheckSearchResults:
		return c.checkSearchResults(m.URLs), nil
	}
	// DecodeMessage only produces the variants above.
	return OKResponse{OK: true}, nil
}

// handleInstall seeds an empty blocklist on first install and migrates
// legacy string-only entries exactly once.
func (c *Coordinator) handleInstall(ctx context.Context) error {
	created, err := c.store.EnsureBlocklist(ctx)
	if err != nil {
		return err
	}
	if created {
		c.logger.Info("initialized empty blocklist")
	}

	migrated, err := c.store.MigrateBlocklist(ctx)
	if err != nil {
		return err
	}
	if migrated > 0 {
		c.logger.Info("migrated legacy blocklist entries",
			logger.Int("count", migrated))
	}

	return c.RefreshBlocklist(ctx)
}

func (c *Coordinator) handleContextMenu(ctx context.Context, e ContextMenuClicked) error {
	if e.MenuItemID != "addToBookmarks" {
		c.logger.Debug("ignoring context menu item",
			logger.String("menu_item", e.MenuItemID))
		return nil
	}

	url := e.LinkURL
	if url == "" {
		url = e.PageURL
	}
	title := e.Title
	if title == "" {
		title = url
	}

	bookmark, err := c.store.AddBookmark(ctx, url, title, "")
	if err != nil {
		return err
	}
	c.logger.Info("bookmark added via context menu",
		logger.String("url", bookmark.URL))
	c.events.Publish(bus.BookmarkAdded{Bookmark: bookmark})
	return nil
}

// handleNavigation evaluates the target against the blocklist snapshot.
// Malformed URLs and navigations to our own blocked page fail open.
func (c *Coordinator) handleNavigation(e NavigationBefore) EventResult {
	if strings.HasPrefix(e.URL, c.blockedPagePath) {
		return EventResult{}
	}

	blocked, err := c.blocklist.ShouldBlockURL(e.URL)
	if err != nil {
		c.logger.Warn("invalid navigation url, allowing",
			logger.String("url", e.URL),
			logger.Error(err))
		return EventResult{}
	}
	if !blocked {
		return EventResult{}
	}

	c.logger.Info("blocking navigation",
		logger.Int("tab_id", e.TabID),
		logger.String("url", e.URL))
	return EventResult{
		Blocked:  true,
		Redirect: domain.BlockedPageURL(c.blockedPagePath, e.URL),
	}
}

func (c *Coordinator) checkSearchResults(urls []string) BlockedURLsResponse {
	blocked := []string{}
	for _, raw := range urls {
		deny, err := c.blocklist.ShouldBlockURL(raw)
		if err != nil {
			c.logger.Debug("skipping invalid search result url",
				logger.String("url", raw),
				logger.Error(err))
			continue
		}
		if deny {
			blocked = append(blocked, raw)
		}
	}
	return BlockedURLsResponse{BlockedURLs: blocked}
}

// RefreshBlocklist reloads the in-memory snapshot from the store.
func (c *Coordinator) RefreshBlocklist(ctx context.Context) error {
	list, err := c.store.GetBlocklist(ctx)
	if err != nil {
		return err
	}
	c.blocklist.Update(list)
	c.logger.Debug("blocklist snapshot refreshed",
		logger.Int("entries", len(list)))
	return nil
}

func (c *Coordinator) registerTab(tabID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registeredTabs[tabID] = c.timeNow()
}

func (c *Coordinator) deregisterTab(tabID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registeredTabs, tabID)
}

// TabCount reports how many UI tabs are registered, for diagnostics.
func (c *Coordinator) TabCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.registeredTabs)
}
