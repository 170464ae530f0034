package routes

import (
	"github.com/go-chi/chi/v5"

	"medley/internal/httpserver/deps"
	"medley/internal/httpserver/handlers"
)

func init() { Register(registerFiles) }

func registerFiles(r chi.Router, d deps.Deps) {
	r.Get("/serve_image/*", handlers.ServeImage(d))
}
