package seedfile

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/logger"
)

// Store is the slice of the persistence layer seeding needs.
type Store interface {
	GetBlocklist(ctx context.Context) ([]domain.BlockedItem, error)
	SaveBlocklist(ctx context.Context, list []domain.BlockedItem) error
	GetFolders(ctx context.Context) ([]domain.Folder, error)
	AddFolder(ctx context.Context, name string) (domain.Folder, error)
	GetBookmarks(ctx context.Context) ([]domain.Bookmark, error)
	AddBookmark(ctx context.Context, url, title, folderID string) (domain.Bookmark, error)
	GetTodos(ctx context.Context) ([]domain.Todo, error)
	AddTodo(ctx context.Context, text string) (domain.Todo, error)
}

// Loader handles loading and parsing of the seed YAML file.
type Loader struct {
	filePath string
}

// NewLoader creates a new seed file loader.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return &config, nil
}

// Seeder applies a seed config to an empty store. Keys that already hold
// data are left alone, so a seed file never clobbers user edits.
type Seeder struct {
	loader *Loader
	store  Store
	logger logger.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(seedFile string, store Store, log logger.Logger) *Seeder {
	return &Seeder{
		loader: NewLoader(seedFile),
		store:  store,
		logger: log,
	}
}

// Apply loads the seed file and fills every section whose store key is
// still empty.
func (s *Seeder) Apply(ctx context.Context) error {
	config, err := s.loader.Load()
	if err != nil {
		return err
	}

	if err := s.seedBlocklist(ctx, config.Blocklist); err != nil {
		return err
	}

	folderIDs, err := s.seedFolders(ctx, config.Folders)
	if err != nil {
		return err
	}
	if err := s.seedBookmarks(ctx, config.Bookmarks, folderIDs); err != nil {
		return err
	}

	return s.seedTodos(ctx, config.Todos)
}

func (s *Seeder) seedBlocklist(ctx context.Context, entries []BlockedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := s.store.GetBlocklist(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Debug("blocklist already populated, skipping seed")
		return nil
	}

	list := make([]domain.BlockedItem, 0, len(entries))
	for _, entry := range entries {
		host := domain.NormalizeHost(entry.URL)
		if host == "" {
			s.logger.Warn("skipping seed blocklist entry with empty host",
				logger.String("url", entry.URL))
			continue
		}
		active := true
		if entry.Active != nil {
			active = *entry.Active
		}
		list = append(list, domain.BlockedItem{URL: host, IsActive: active})
	}

	if err := s.store.SaveBlocklist(ctx, list); err != nil {
		return fmt.Errorf("failed to seed blocklist: %w", err)
	}
	s.logger.Info("seeded blocklist",
		logger.Int("count", len(list)))
	return nil
}

// seedFolders returns a name→ID map so bookmark entries can reference
// folders by name.
func (s *Seeder) seedFolders(ctx context.Context, entries []FolderEntry) (map[string]string, error) {
	folderIDs := make(map[string]string)

	existing, err := s.store.GetFolders(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range existing {
		folderIDs[f.Name] = f.ID
	}

	if len(existing) > 0 || len(entries) == 0 {
		return folderIDs, nil
	}

	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		folder, err := s.store.AddFolder(ctx, entry.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to seed folder %q: %w", entry.Name, err)
		}
		folderIDs[folder.Name] = folder.ID
	}

	s.logger.Info("seeded folders",
		logger.Int("count", len(entries)))
	return folderIDs, nil
}

func (s *Seeder) seedBookmarks(ctx context.Context, entries []BookmarkEntry, folderIDs map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := s.store.GetBookmarks(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Debug("bookmarks already populated, skipping seed")
		return nil
	}

	seeded := 0
	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}
		title := entry.Title
		if title == "" {
			title = entry.URL
		}
		folderID := ""
		if entry.Folder != "" {
			id, ok := folderIDs[entry.Folder]
			if !ok {
				s.logger.Warn("seed bookmark references unknown folder",
					logger.String("url", entry.URL),
					logger.String("folder", entry.Folder))
			} else {
				folderID = id
			}
		}
		if _, err := s.store.AddBookmark(ctx, entry.URL, title, folderID); err != nil {
			return fmt.Errorf("failed to seed bookmark %q: %w", entry.URL, err)
		}
		seeded++
	}

	s.logger.Info("seeded bookmarks",
		logger.Int("count", seeded))
	return nil
}

func (s *Seeder) seedTodos(ctx context.Context, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := s.store.GetTodos(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Debug("todos already populated, skipping seed")
		return nil
	}

	for _, text := range entries {
		if text == "" {
			continue
		}
		if _, err := s.store.AddTodo(ctx, text); err != nil {
			return fmt.Errorf("failed to seed todo %q: %w", text, err)
		}
	}

	s.logger.Info("seeded todos",
		logger.Int("count", len(entries)))
	return nil
}
