package siteimage

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the site image router. Reads are public; replacement
// requires an admin credential.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{key}", h.GetByKey)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Put("/{key}", h.Upsert)
	})

	return r
}
