package coordinator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/index"
	"github.com/tabdeck/tabdeck/internal/logger"
	"github.com/tabdeck/tabdeck/internal/timer"
	"github.com/tabdeck/tabdeck/internal/tracker"
)

type fakeStore struct {
	blocklist      []domain.BlockedItem
	blocklistSet   bool
	bookmarks      []domain.Bookmark
	ensureCalls    int
	migrateCalls   int
	migratedLegacy int
}

func (f *fakeStore) EnsureBlocklist(ctx context.Context) (bool, error) {
	f.ensureCalls++
	if f.blocklistSet {
		return false, nil
	}
	f.blocklist = []domain.BlockedItem{}
	f.blocklistSet = true
	return true, nil
}

func (f *fakeStore) MigrateBlocklist(ctx context.Context) (int, error) {
	f.migrateCalls++
	return f.migratedLegacy, nil
}

func (f *fakeStore) GetBlocklist(ctx context.Context) ([]domain.BlockedItem, error) {
	return f.blocklist, nil
}

func (f *fakeStore) GetBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	return f.bookmarks, nil
}

func (f *fakeStore) AddBookmark(ctx context.Context, url, title, folderID string) (domain.Bookmark, error) {
	b := domain.Bookmark{ID: "b1", URL: url, Title: title, FolderID: folderID}
	f.bookmarks = append(f.bookmarks, b)
	return b, nil
}

type timerStore struct {
	mu    sync.Mutex
	state *domain.TimerState
}

func (s *timerStore) GetTimerState(ctx context.Context) (*domain.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, nil
	}
	c := *s.state
	return &c, nil
}

func (s *timerStore) SaveTimerState(ctx context.Context, state *domain.TimerState) error {
	// A real store rejects writes on a dead context.
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *state
	s.state = &c
	return nil
}

func (s *timerStore) DeleteTimerState(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}

func (s *timerStore) current() *domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	c := *s.state
	return &c
}

type entryStore struct {
	entries []domain.TimeEntry
}

func (s *entryStore) GetTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	return s.entries, nil
}

func (s *entryStore) SaveTimeEntries(ctx context.Context, entries []domain.TimeEntry) error {
	s.entries = entries
	return nil
}

type noopNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *noopNotifier) TimerFinished(title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func (n *noopNotifier) fired() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

type fixture struct {
	coord    *Coordinator
	store    *fakeStore
	timers   *timerStore
	notifier *noopNotifier
	events   *bus.Bus
	engine   *timer.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("error", false)
	events := bus.New(log)
	store := &fakeStore{}
	timers := &timerStore{}
	notifier := &noopNotifier{}
	idx := index.NewBlocklistIndex()

	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	eng := timer.New(timers, events, notifier, log, time.Second, clock)
	trk := tracker.New(&entryStore{}, log, 30*24*time.Hour, time.Second, clock)

	coord := New(store, idx, trk, eng, events, notifier, log, "/blocked", clock)
	return &fixture{coord: coord, store: store, timers: timers, notifier: notifier, events: events, engine: eng}
}

func TestInstallSeedsAndMigrates(t *testing.T) {
	f := newFixture(t)

	if _, err := f.coord.HandleEvent(context.Background(), Installed{}); err != nil {
		t.Fatalf("HandleEvent(Installed) error = %v", err)
	}

	if f.store.ensureCalls != 1 || !f.store.blocklistSet {
		t.Error("install should seed an empty blocklist")
	}
	if f.store.migrateCalls != 1 {
		t.Error("install should run the legacy migration")
	}
}

func TestNavigationBlockedAndRedirected(t *testing.T) {
	f := newFixture(t)
	f.store.blocklist = []domain.BlockedItem{{URL: "example.com", IsActive: true}}
	if err := f.coord.RefreshBlocklist(context.Background()); err != nil {
		t.Fatal(err)
	}

	result, err := f.coord.HandleEvent(context.Background(), NavigationBefore{
		TabID: 7,
		URL:   "https://mail.example.com/inbox",
	})
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if !result.Blocked {
		t.Fatal("navigation to blocklisted subdomain should be blocked")
	}
	if !strings.HasPrefix(result.Redirect, "/blocked?from=") {
		t.Errorf("Redirect = %q, want blocked-page url with from param", result.Redirect)
	}
	if !strings.Contains(result.Redirect, "mail.example.com") {
		t.Errorf("Redirect = %q, should carry the original url", result.Redirect)
	}
}

func TestNavigationSearchEngineAllowed(t *testing.T) {
	f := newFixture(t)
	f.store.blocklist = []domain.BlockedItem{{URL: "google.com", IsActive: true}}
	if err := f.coord.RefreshBlocklist(context.Background()); err != nil {
		t.Fatal(err)
	}

	result, err := f.coord.HandleEvent(context.Background(), NavigationBefore{
		URL: "https://www.google.com/search?q=x",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Blocked {
		t.Error("search engine must never be blocked")
	}
}

func TestNavigationMalformedURLFailsOpen(t *testing.T) {
	f := newFixture(t)
	f.store.blocklist = []domain.BlockedItem{{URL: "example.com", IsActive: true}}
	if err := f.coord.RefreshBlocklist(context.Background()); err != nil {
		t.Fatal(err)
	}

	result, err := f.coord.HandleEvent(context.Background(), NavigationBefore{
		URL: "http://%zz^bad",
	})
	if err != nil {
		t.Fatalf("malformed url must not error the event handler, got %v", err)
	}
	if result.Blocked {
		t.Error("malformed url should be allowed (fail open)")
	}
}

func TestNavigationToBlockedPageIgnored(t *testing.T) {
	f := newFixture(t)

	result, err := f.coord.HandleEvent(context.Background(), NavigationBefore{
		URL: "/blocked?from=x",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Blocked {
		t.Error("navigation to our own blocked page must pass through")
	}
}

func TestContextMenuAddsBookmark(t *testing.T) {
	f := newFixture(t)

	ch, cancel := f.events.Subscribe()
	defer cancel()

	_, err := f.coord.HandleEvent(context.Background(), ContextMenuClicked{
		MenuItemID: "addToBookmarks",
		PageURL:    "https://example.com/article",
		Title:      "An article",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(f.store.bookmarks) != 1 {
		t.Fatalf("got %d bookmarks, want 1", len(f.store.bookmarks))
	}
	if f.store.bookmarks[0].Title != "An article" {
		t.Errorf("Title = %q, want An article", f.store.bookmarks[0].Title)
	}

	select {
	case ev := <-ch:
		if ev.Kind() != "bookmarkAdded" {
			t.Errorf("broadcast kind = %q, want bookmarkAdded", ev.Kind())
		}
	default:
		t.Error("bookmarkAdded event not broadcast")
	}
}

func TestContextMenuOtherItemIgnored(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.HandleEvent(context.Background(), ContextMenuClicked{
		MenuItemID: "somethingElse",
		PageURL:    "https://example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.store.bookmarks) != 0 {
		t.Error("non-bookmark menu item must not create a bookmark")
	}
}

func TestRegisterAndDeregisterTab(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.coord.HandleMessage(ctx, RegisterTab{TabID: 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.coord.HandleMessage(ctx, RegisterTab{TabID: 4}); err != nil {
		t.Fatal(err)
	}
	if f.coord.TabCount() != 2 {
		t.Errorf("TabCount() = %d, want 2", f.coord.TabCount())
	}

	if _, err := f.coord.HandleEvent(ctx, TabRemoved{TabID: 3}); err != nil {
		t.Fatal(err)
	}
	if f.coord.TabCount() != 1 {
		t.Errorf("TabCount() = %d after removal, want 1", f.coord.TabCount())
	}
}

func TestGetBookmarksMessage(t *testing.T) {
	f := newFixture(t)
	f.store.bookmarks = []domain.Bookmark{{ID: "b1", URL: "https://example.com"}}

	resp, err := f.coord.HandleMessage(context.Background(), GetBookmarks{})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := resp.(BookmarksResponse)
	if !ok {
		t.Fatalf("response type = %T, want BookmarksResponse", resp)
	}
	if len(got.Bookmarks) != 1 {
		t.Errorf("got %d bookmarks, want 1", len(got.Bookmarks))
	}
}

func TestCheckSearchResults(t *testing.T) {
	f := newFixture(t)
	f.store.blocklist = []domain.BlockedItem{{URL: "example.com", IsActive: true}}
	if err := f.coord.RefreshBlocklist(context.Background()); err != nil {
		t.Fatal(err)
	}

	resp, err := f.coord.HandleMessage(context.Background(), CheckSearchResults{URLs: []string{
		"https://example.com/page",
		"https://allowed.org",
		"http://%zz^bad",
	}})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := resp.(BlockedURLsResponse)
	if !ok {
		t.Fatalf("response type = %T, want BlockedURLsResponse", resp)
	}
	if len(got.BlockedURLs) != 1 || got.BlockedURLs[0] != "https://example.com/page" {
		t.Errorf("BlockedURLs = %v, want just the example.com page", got.BlockedURLs)
	}
}

func TestCancelTimerMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.engine.StartTimer(ctx, "Focus", time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, err := f.coord.HandleMessage(ctx, CancelTimer{}); err != nil {
		t.Fatal(err)
	}
	if f.timers.current() != nil {
		t.Error("timer state should be deleted after cancelTimer message")
	}
	if f.notifier.fired() != 0 {
		t.Error("cancel must not raise a notification")
	}
}

func TestCreateTimerNotificationMessage(t *testing.T) {
	f := newFixture(t)

	if _, err := f.coord.HandleMessage(context.Background(), CreateTimerNotification{Title: "Focus"}); err != nil {
		t.Fatal(err)
	}
	if f.notifier.fired() != 1 {
		t.Errorf("notifier fired %d times, want 1", f.notifier.fired())
	}
}

func TestSetTimerAlarmOutlivesRequest(t *testing.T) {
	f := newFixture(t)

	if _, err := f.engine.StartTimer(context.Background(), "Focus", 0); err != nil {
		t.Fatal(err)
	}

	// The request that schedules the alarm finishes (and its context dies)
	// before the alarm fires. Completion must still be persisted: the fake
	// store rejects writes on a canceled context.
	reqCtx, cancelReq := context.WithCancel(context.Background())
	when := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	if _, err := f.coord.HandleMessage(reqCtx, SetTimerAlarm{When: when.UnixMilli()}); err != nil {
		t.Fatal(err)
	}
	cancelReq()

	deadline := time.After(2 * time.Second)
	for {
		if st := f.timers.current(); st != nil && st.IsCompleted {
			break
		}
		select {
		case <-deadline:
			t.Fatal("completion never persisted after the alarm fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if f.notifier.fired() != 1 {
		t.Errorf("notifier fired %d times, want 1", f.notifier.fired())
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    interface{}
		wantErr bool
	}{
		{"registerTab", `{"action":"registerTab","tabId":5}`, RegisterTab{TabID: 5}, false},
		{"getBookmarks", `{"action":"getBookmarks"}`, GetBookmarks{}, false},
		{"updateTimerPause", `{"action":"updateTimerPause","isPaused":true}`, UpdateTimerPause{IsPaused: true}, false},
		{"cancelTimer", `{"action":"cancelTimer"}`, CancelTimer{}, false},
		{"unknown action", `{"action":"selfDestruct"}`, nil, true},
		{"not json", `{{{`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessage([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Error("DecodeMessage() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeMessage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeMessage() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeBrowserEvent(t *testing.T) {
	got, err := DecodeBrowserEvent([]byte(`{"type":"navigationBefore","tabId":2,"url":"https://example.com"}`))
	if err != nil {
		t.Fatalf("DecodeBrowserEvent() error = %v", err)
	}
	nav, ok := got.(NavigationBefore)
	if !ok {
		t.Fatalf("event type = %T, want NavigationBefore", got)
	}
	if nav.TabID != 2 || nav.URL != "https://example.com" {
		t.Errorf("decoded = %+v", nav)
	}

	if _, err := DecodeBrowserEvent([]byte(`{"type":"meteorStrike"}`)); err == nil {
		t.Error("unknown event type should error")
	}
}
