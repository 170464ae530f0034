package routes

import (
	"github.com/go-chi/chi/v5"

	"medley/internal/httpserver/deps"
	"medley/internal/httpserver/handlers"
	"medley/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/readyz", handlers.Readyz(d))
}
