package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/httpserver/handlers"
	"github.com/tabdeck/tabdeck/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	g := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		middleware.Timeout(5*time.Second),
	)

	g.Get("/healthz", handlers.Healthz(d))
	g.Get("/readyz", handlers.Readyz(d))
	g.Get("/infra", handlers.Infra(d))
}
