// internal/app/features/communities/delete.go
package communities

import (
	"context"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a community, stripping every user's reference to
// it first so no membership entry outlives the community document.
//
// Route: DELETE /communities/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	cid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad community id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Cascader.DeleteCommunity(ctx, cid); err != nil {
		h.Log.Error("delete community failed", zap.String("community_id", idHex), zap.Error(err))
		respond.Fault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
