package seedfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/logger"
)

type memStore struct {
	blocklist []domain.BlockedItem
	folders   []domain.Folder
	bookmarks []domain.Bookmark
	todos     []domain.Todo
	nextID    int
}

func (m *memStore) id() string {
	m.nextID++
	return string(rune('a' + m.nextID - 1))
}

func (m *memStore) GetBlocklist(ctx context.Context) ([]domain.BlockedItem, error) {
	return m.blocklist, nil
}

func (m *memStore) SaveBlocklist(ctx context.Context, list []domain.BlockedItem) error {
	m.blocklist = list
	return nil
}

func (m *memStore) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	return m.folders, nil
}

func (m *memStore) AddFolder(ctx context.Context, name string) (domain.Folder, error) {
	f := domain.Folder{ID: m.id(), Name: name}
	m.folders = append(m.folders, f)
	return f, nil
}

func (m *memStore) GetBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	return m.bookmarks, nil
}

func (m *memStore) AddBookmark(ctx context.Context, url, title, folderID string) (domain.Bookmark, error) {
	b := domain.Bookmark{ID: m.id(), URL: url, Title: title, FolderID: folderID}
	m.bookmarks = append(m.bookmarks, b)
	return b, nil
}

func (m *memStore) GetTodos(ctx context.Context) ([]domain.Todo, error) {
	return m.todos, nil
}

func (m *memStore) AddTodo(ctx context.Context, text string) (domain.Todo, error) {
	todo := domain.Todo{ID: m.id(), Text: text}
	m.todos = append(m.todos, todo)
	return todo, nil
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeSeed(t, `---
blocklist:
  - url: https://www.example.com/
  - url: distracting.net
    active: false
folders:
  - name: Work
bookmarks:
  - url: https://go.dev
    title: Go
    folder: Work
todos:
  - review the release notes
`)

	loader := NewLoader(path)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config.Blocklist) != 2 {
		t.Errorf("Blocklist len = %d, want 2", len(config.Blocklist))
	}
	if config.Blocklist[1].Active == nil || *config.Blocklist[1].Active {
		t.Error("second blocklist entry should be inactive")
	}
	if len(config.Todos) != 1 {
		t.Errorf("Todos len = %d, want 1", len(config.Todos))
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/seed.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestSeederAppliesToEmptyStore(t *testing.T) {
	path := writeSeed(t, `---
blocklist:
  - url: https://www.example.com/some/page
folders:
  - name: Work
bookmarks:
  - url: https://go.dev
    folder: Work
  - url: https://pkg.go.dev
    title: Packages
todos:
  - write tests
`)
	store := &memStore{}
	seeder := NewSeeder(path, store, logger.New("error", false))

	if err := seeder.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(store.blocklist) != 1 || store.blocklist[0].URL != "example.com" {
		t.Errorf("blocklist = %+v, want one normalized example.com entry", store.blocklist)
	}
	if !store.blocklist[0].IsActive {
		t.Error("blocklist entry without active field should default to active")
	}
	if len(store.folders) != 1 {
		t.Fatalf("folders len = %d, want 1", len(store.folders))
	}
	if len(store.bookmarks) != 2 {
		t.Fatalf("bookmarks len = %d, want 2", len(store.bookmarks))
	}
	if store.bookmarks[0].FolderID != store.folders[0].ID {
		t.Error("bookmark should be attached to the seeded folder")
	}
	if store.bookmarks[0].Title != "https://go.dev" {
		t.Errorf("Title = %q, missing title should fall back to the url", store.bookmarks[0].Title)
	}
	if len(store.todos) != 1 {
		t.Errorf("todos len = %d, want 1", len(store.todos))
	}
}

func TestSeederSkipsPopulatedKeys(t *testing.T) {
	path := writeSeed(t, `---
blocklist:
  - url: example.com
todos:
  - seeded todo
`)
	store := &memStore{
		blocklist: []domain.BlockedItem{{URL: "existing.com", IsActive: true}},
		todos:     []domain.Todo{{ID: "t1", Text: "user todo"}},
	}
	seeder := NewSeeder(path, store, logger.New("error", false))

	if err := seeder.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(store.blocklist) != 1 || store.blocklist[0].URL != "existing.com" {
		t.Errorf("seed must not clobber an existing blocklist, got %+v", store.blocklist)
	}
	if len(store.todos) != 1 || store.todos[0].Text != "user todo" {
		t.Errorf("seed must not clobber existing todos, got %+v", store.todos)
	}
}

func TestSeederUnknownFolderReference(t *testing.T) {
	path := writeSeed(t, `---
bookmarks:
  - url: https://go.dev
    folder: DoesNotExist
`)
	store := &memStore{}
	seeder := NewSeeder(path, store, logger.New("error", false))

	if err := seeder.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(store.bookmarks) != 1 {
		t.Fatalf("bookmarks len = %d, want 1", len(store.bookmarks))
	}
	if store.bookmarks[0].FolderID != "" {
		t.Error("unknown folder reference should leave the bookmark unfiled")
	}
}
