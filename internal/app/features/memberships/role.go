// internal/app/features/memberships/role.go
package memberships

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type roleRequest struct {
	Role string `json:"role"`
}

// HandleChangeRole flips a member's role inside a community or
// organization. The entity id may name either kind.
//
// Route: PUT /users/{id}/roles/{entityID}
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad user id")
		return
	}
	entityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "entityID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad entity id")
		return
	}
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Memberships.ChangeRole(ctx, userID, entityID, req.Role); err != nil {
		h.Log.Warn("change role failed",
			zap.String("user_id", userID.Hex()),
			zap.String("entity_id", entityID.Hex()),
			zap.String("role", req.Role),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
