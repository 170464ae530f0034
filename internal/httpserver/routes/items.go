package routes

import (
	"github.com/go-chi/chi/v5"

	"medley/internal/httpserver/deps"
	"medley/internal/httpserver/handlers"
)

func init() { Register(registerItems) }

func registerItems(r chi.Router, d deps.Deps) {
	r.Get("/items", handlers.Items(d))
}
