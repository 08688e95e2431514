// internal/app/features/users/routes.go
package users

import (
	"github.com/dforrest/communityhub/internal/app/features/memberships"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the users subtree, including the membership mutation
// routes that address entries on the user document.
func Routes(h *Handler, m *memberships.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeView)
	r.Put("/{id}/settings", h.HandleUpdateSettings)

	memberships.Register(r, m)

	return r
}
