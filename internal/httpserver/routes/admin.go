package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"medley/internal/httpserver/deps"
	"medley/internal/httpserver/handlers"
	"medley/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             3,
			RefillPerIPPerMin: 6,
			MaxEntries:        1024,
			IdleTTL:           15 * time.Minute,
			TrustProxy:        d.TrustProxy,
		}),
	)

	guarded.Post("/admin/update-items", handlers.UpdateItems(d))
	guarded.Post("/admin/update-thumbnails", handlers.UpdateThumbnails(d))
	guarded.Post("/admin/reload", handlers.Reload(d))
}
