// internal/app/features/memberships/remove.go
package memberships

import (
	"context"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleRemove deletes one membership by its opaque id. The entry is
// gone from the user document afterward regardless of how it was added.
//
// Route: DELETE /users/{id}/memberships/{membershipID}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad user id")
		return
	}
	membershipID := chi.URLParam(r, "membershipID")
	if membershipID == "" {
		respond.Error(w, http.StatusBadRequest, "membership id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Memberships.RemoveByMembershipID(ctx, userID, membershipID); err != nil {
		h.Log.Warn("remove membership failed",
			zap.String("user_id", userID.Hex()),
			zap.String("membership_id", membershipID),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
