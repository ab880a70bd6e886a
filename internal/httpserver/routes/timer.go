package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/httpserver/handlers"
	"github.com/tabdeck/tabdeck/internal/httpserver/mw"
)

func init() { Register(registerTimer) }

func registerTimer(r chi.Router, d deps.Deps) {
	g := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		middleware.Timeout(5*time.Second),
	)

	g.Get("/api/timer", handlers.TimerStatus(d))
	g.Post("/api/timer", handlers.TimerStart(d))
	g.Post("/api/timer/pause", handlers.TimerPause(d))
	g.Post("/api/timer/resume", handlers.TimerResume(d))
	g.Post("/api/timer/cancel", handlers.TimerCancel(d))
	g.Post("/api/timer/ack", handlers.TimerAck(d))
}
