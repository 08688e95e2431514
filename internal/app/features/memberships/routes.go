// internal/app/features/memberships/routes.go
package memberships

import (
	"github.com/go-chi/chi/v5"
)

// Register attaches the membership mutation routes to the /users router.
// Memberships live on user documents, so these share the users subtree
// rather than mounting their own.
func Register(r chi.Router, h *Handler) {
	r.Post("/{id}/communities", h.HandleAddToCommunity)
	r.Post("/{id}/organizations", h.HandleAddToOrganization)
	r.Delete("/{id}/memberships/{membershipID}", h.HandleRemove)
	r.Put("/{id}/roles/{entityID}", h.HandleChangeRole)
}
