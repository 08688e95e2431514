// internal/app/features/memberships/add.go
package memberships

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type addCommunityRequest struct {
	CommunityID string `json:"community_id"`
	Role        string `json:"role"`
	Notify      *bool  `json:"notify"` // default true
}

type addOrganizationRequest struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// HandleAddToCommunity joins a user to a community and, unless the
// caller opts out, fans a notification out to the existing members.
//
// Route: POST /users/{id}/communities
func (h *Handler) HandleAddToCommunity(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad user id")
		return
	}
	var req addCommunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cid, err := primitive.ObjectIDFromHex(req.CommunityID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad community id")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	notify := req.Notify == nil || *req.Notify

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	m, err := h.Memberships.AddCommunityMembership(ctx, userID, cid, role, notify)
	if err != nil {
		h.Log.Warn("add community membership failed",
			zap.String("user_id", userID.Hex()),
			zap.String("community_id", cid.Hex()),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

// HandleAddToOrganization joins a user to an organization. Organization
// joins never notify.
//
// Route: POST /users/{id}/organizations
func (h *Handler) HandleAddToOrganization(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad user id")
		return
	}
	var req addOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	orgID, err := primitive.ObjectIDFromHex(req.OrganizationID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Memberships.AddOrganizationMembership(ctx, userID, orgID, role)
	if err != nil {
		h.Log.Warn("add organization membership failed",
			zap.String("user_id", userID.Hex()),
			zap.String("org_id", orgID.Hex()),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}
