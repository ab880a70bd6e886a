package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

type bookmarksResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

type foldersResponse struct {
	Folders []domain.Folder `json:"folders"`
}

func BookmarksList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookmarks, err := d.Store.GetBookmarks(r.Context())
		if err != nil {
			d.Logger.Error("failed to read bookmarks", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read bookmarks")
			return
		}
		if bookmarks == nil {
			bookmarks = []domain.Bookmark{}
		}
		writeJSON(w, http.StatusOK, bookmarksResponse{Bookmarks: bookmarks})
	}
}

func BookmarksAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL      string `json:"url"`
			Title    string `json:"title"`
			FolderID string `json:"folderId"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		if req.Title == "" {
			req.Title = req.URL
		}

		bookmark, err := d.Store.AddBookmark(r.Context(), req.URL, req.Title, req.FolderID)
		if err != nil {
			d.Logger.Error("failed to add bookmark",
				logger.String("url", req.URL),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to add bookmark")
			return
		}
		writeJSON(w, http.StatusCreated, bookmark)
	}
}

func BookmarksDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteBookmark(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func FoldersList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := d.Store.GetFolders(r.Context())
		if err != nil {
			d.Logger.Error("failed to read folders", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read folders")
			return
		}
		if folders == nil {
			folders = []domain.Folder{}
		}
		writeJSON(w, http.StatusOK, foldersResponse{Folders: folders})
	}
}

func FoldersAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		folder, err := d.Store.AddFolder(r.Context(), req.Name)
		if err != nil {
			d.Logger.Error("failed to add folder",
				logger.String("name", req.Name),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to add folder")
			return
		}
		writeJSON(w, http.StatusCreated, folder)
	}
}

// FoldersDelete removes a folder and every bookmark filed under it.
func FoldersDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteFolder(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
