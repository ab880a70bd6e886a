package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/httpserver/handlers"
)

func init() { Register(registerBlocked) }

// The blocked page stays un-guarded by the CIDR filter: the browser itself
// lands here after a redirect, and it serves no data worth protecting.
func registerBlocked(r chi.Router, d deps.Deps) {
	r.With(middleware.Timeout(5 * time.Second)).
		Get(d.BlockedPagePath, handlers.Blocked(d))
}
