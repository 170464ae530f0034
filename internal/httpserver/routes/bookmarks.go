package routes

import (
	"github.com/go-chi/chi/v5"

	"medley/internal/httpserver/deps"
	"medley/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/bookmarks", handlers.Bookmarks(d))
	r.Get("/bookmarks/*", handlers.Bookmarks(d))
}
