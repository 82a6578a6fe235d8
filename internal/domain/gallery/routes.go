package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the gallery router. Reads are public (with optional identity
// so admins can see inactive items); mutations require an admin credential.
func (h *Handler) Routes(optionalAuth, authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
