// internal/app/features/invites/routes.go
package invites

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Invite routes under the base path
// (typically "/invites" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Post("/accept", h.HandleAccept)

	return r
}
