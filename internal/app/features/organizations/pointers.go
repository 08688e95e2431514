// internal/app/features/organizations/pointers.go
package organizations

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

type setCommunityRequest struct {
	CommunityID string `json:"community_id"`
}

// HandleSetWelcoming repoints the organization's welcoming community.
//
// Route: PUT /organizations/{id}/welcoming-community
func (h *Handler) HandleSetWelcoming(w http.ResponseWriter, r *http.Request) {
	h.setPointer(w, r, h.Provisioner.SetWelcomingCommunity)
}

// HandleSetLeadership repoints the organization's leadership community.
//
// Route: PUT /organizations/{id}/leadership-community
func (h *Handler) HandleSetLeadership(w http.ResponseWriter, r *http.Request) {
	h.setPointer(w, r, h.Provisioner.SetLeadershipCommunity)
}

func (h *Handler) setPointer(w http.ResponseWriter, r *http.Request, set func(context.Context, primitive.ObjectID, primitive.ObjectID) error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	var req setCommunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cid, err := primitive.ObjectIDFromHex(req.CommunityID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad community id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := set(ctx, oid, cid); err != nil {
		h.Log.Warn("set community pointer failed",
			zap.String("org_id", oid.Hex()),
			zap.String("community_id", cid.Hex()),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
