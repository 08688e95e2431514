// internal/app/features/organizations/delete.go
package organizations

import (
	"context"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete cascades the organization away: its communities, every
// user reference to them, and finally the organization document.
//
// Route: DELETE /organizations/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Cascader.DeleteOrganization(ctx, oid); err != nil {
		h.Log.Error("delete organization failed", zap.String("org_id", idHex), zap.Error(err))
		respond.Fault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
