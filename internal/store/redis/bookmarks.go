package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// GetBookmarks returns all bookmarks.
func (s *Store) GetBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark
	if err := s.getJSON(ctx, KeyBookmarks, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// SaveBookmarks replaces the full bookmark list.
func (s *Store) SaveBookmarks(ctx context.Context, bookmarks []domain.Bookmark) error {
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	return s.setJSON(ctx, KeyBookmarks, bookmarks)
}

// AddBookmark appends a new bookmark. folderID may be empty (unfiled).
func (s *Store) AddBookmark(ctx context.Context, url, title, folderID string) (domain.Bookmark, error) {
	if url == "" {
		return domain.Bookmark{}, fmt.Errorf("bookmark url is required")
	}
	if title == "" {
		title = url
	}

	bookmarks, err := s.GetBookmarks(ctx)
	if err != nil {
		return domain.Bookmark{}, err
	}

	bookmark := domain.Bookmark{
		ID:       uuid.NewString(),
		URL:      url,
		Title:    title,
		FolderID: folderID,
	}
	bookmarks = append(bookmarks, bookmark)
	return bookmark, s.SaveBookmarks(ctx, bookmarks)
}

// DeleteBookmark removes the bookmark with the given ID.
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	bookmarks, err := s.GetBookmarks(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bookmarks) {
		return fmt.Errorf("bookmark not found: %s", id)
	}
	return s.SaveBookmarks(ctx, kept)
}

// GetFolders returns all folders.
func (s *Store) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	if err := s.getJSON(ctx, KeyFolders, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// SaveFolders replaces the full folder list.
func (s *Store) SaveFolders(ctx context.Context, folders []domain.Folder) error {
	if folders == nil {
		folders = []domain.Folder{}
	}
	return s.setJSON(ctx, KeyFolders, folders)
}

// AddFolder creates a new folder.
func (s *Store) AddFolder(ctx context.Context, name string) (domain.Folder, error) {
	if name == "" {
		return domain.Folder{}, fmt.Errorf("folder name is required")
	}

	folders, err := s.GetFolders(ctx)
	if err != nil {
		return domain.Folder{}, err
	}

	folder := domain.Folder{ID: uuid.NewString(), Name: name}
	folders = append(folders, folder)
	return folder, s.SaveFolders(ctx, folders)
}

// DeleteFolder removes a folder and cascades to delete its bookmarks.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	folders, err := s.GetFolders(ctx)
	if err != nil {
		return err
	}

	keptFolders := make([]domain.Folder, 0, len(folders))
	for _, f := range folders {
		if f.ID != id {
			keptFolders = append(keptFolders, f)
		}
	}
	if len(keptFolders) == len(folders) {
		return fmt.Errorf("folder not found: %s", id)
	}

	bookmarks, err := s.GetBookmarks(ctx)
	if err != nil {
		return err
	}
	keptBookmarks := make([]domain.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.FolderID != id {
			keptBookmarks = append(keptBookmarks, b)
		}
	}

	if err := s.SaveFolders(ctx, keptFolders); err != nil {
		return err
	}
	return s.SaveBookmarks(ctx, keptBookmarks)
}
