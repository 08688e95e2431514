// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Organization routes under the base path
// (typically "/organizations" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeView)
	r.Delete("/{id}", h.HandleDelete)

	r.Put("/{id}/welcoming-community", h.HandleSetWelcoming)
	r.Put("/{id}/leadership-community", h.HandleSetLeadership)

	return r
}
