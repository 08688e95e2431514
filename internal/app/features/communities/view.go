// internal/app/features/communities/view.go
package communities

import (
	"context"
	"errors"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeView returns one community.
//
// Route: GET /communities/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	cid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad community id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := communitystore.New(h.DB).GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "community not found")
			return
		}
		h.Log.Error("load community failed", zap.String("community_id", cid.Hex()), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, c)
}
