package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/httpserver/handlers"
	"github.com/tabdeck/tabdeck/internal/httpserver/mw"
)

func init() { Register(registerCoordinator) }

func registerCoordinator(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		middleware.Timeout(5*time.Second),
	)
	guarded.Post("/api/events", handlers.Events(d))
	guarded.Post("/api/message", handlers.Message(d))

	// No timeout on the stream route: SSE connections are long-lived.
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).
		Get("/api/stream", handlers.Stream(d))
}
