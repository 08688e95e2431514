// internal/app/features/communities/routes.go
package communities

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Community routes under the base path
// (typically "/communities" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeView)
	r.Delete("/{id}", h.HandleDelete)
	r.Get("/{id}/members", h.ServeMembers)

	return r
}
