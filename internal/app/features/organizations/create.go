// internal/app/features/organizations/create.go
package organizations

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorID   string `json:"creator_id"`
}

// HandleCreate provisions an organization with its seed communities.
//
// Route: POST /organizations
//
// Provisioning is best effort past the organization insert itself; the
// response body carries the welcoming/leadership pointers so callers can
// detect partial provisioning (a null pointer means that step failed).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	creatorID, err := primitive.ObjectIDFromHex(req.CreatorID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad creator id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	org, err := h.Provisioner.CreateOrganization(ctx, req.Name, req.Description, creatorID)
	if err != nil {
		h.Log.Error("create organization failed", zap.String("name", req.Name), zap.Error(err))
		respond.Fault(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, org)
}
