// internal/app/features/communities/create.go
package communities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	"github.com/dforrest/communityhub/internal/app/system/normalize"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Name           string `json:"name"`
	Purpose        string `json:"purpose"`
	Visibility     string `json:"visibility"`
	OrganizationID string `json:"organization_id"`
	CreatorID      string `json:"creator_id"`
}

// HandleCreate adds a community to an existing organization.
//
// Route: POST /communities
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	orgID, err := primitive.ObjectIDFromHex(req.OrganizationID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	creatorID, err := primitive.ObjectIDFromHex(req.CreatorID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad creator id")
		return
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := time.Now().UTC()
	c, err := communitystore.New(h.DB).Create(ctx, models.Community{
		Name:           name,
		Purpose:        req.Purpose,
		Visibility:     visibility,
		CreatedBy:      creatorID,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		if errors.Is(err, communitystore.ErrDuplicateCommunityName) {
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Warn("create community failed",
			zap.String("name", name),
			zap.String("org_id", orgID.Hex()),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}
