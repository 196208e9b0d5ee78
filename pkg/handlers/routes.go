package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes registers the application routes. metrics is mounted on /metrics
// when non-nil.
func (app *Application) Routes(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	r.Get("/", app.Home)
	r.Get("/search", app.Search)
	r.Get("/healthz", app.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", app.SearchJSON)
		r.Get("/thumbnail/{id}", app.Thumbnail)
		r.Get("/bookmarks", app.Bookmarks)
		r.Post("/bookmarks", app.AddBookmark)
		r.Delete("/bookmarks/{id}", app.DeleteBookmark)
		r.Get("/history", app.HistoryJSON)
	})

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	return r
}
