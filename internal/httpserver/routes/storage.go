package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/httpserver/handlers"
	"github.com/tabdeck/tabdeck/internal/httpserver/mw"
)

func init() { Register(registerStorage) }

func registerStorage(r chi.Router, d deps.Deps) {
	g := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		middleware.Timeout(5*time.Second),
	)

	g.Get("/api/blocklist", handlers.BlocklistList(d))
	g.Post("/api/blocklist", handlers.BlocklistAdd(d))
	g.Patch("/api/blocklist/{host}/toggle", handlers.BlocklistToggle(d))
	g.Delete("/api/blocklist/{host}", handlers.BlocklistDelete(d))

	g.Get("/api/bookmarks", handlers.BookmarksList(d))
	g.Post("/api/bookmarks", handlers.BookmarksAdd(d))
	g.Delete("/api/bookmarks/{id}", handlers.BookmarksDelete(d))

	g.Get("/api/folders", handlers.FoldersList(d))
	g.Post("/api/folders", handlers.FoldersAdd(d))
	g.Delete("/api/folders/{id}", handlers.FoldersDelete(d))

	g.Get("/api/todos", handlers.TodosList(d))
	g.Post("/api/todos", handlers.TodosAdd(d))
	g.Patch("/api/todos/{id}/toggle", handlers.TodosToggle(d))
	g.Delete("/api/todos/{id}", handlers.TodosDelete(d))

	g.Get("/api/background", handlers.BackgroundGet(d))
	g.Put("/api/background", handlers.BackgroundPut(d))
}
