// internal/app/features/users/create.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	ExternalID string `json:"external_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
}

// HandleCreate mirrors an identity-provider account into the local
// users collection. The provider's webhook is the normal caller; the
// endpoint is idempotent on external_id so webhook redelivery returns
// the existing mirror instead of erroring.
//
// Route: POST /users
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ExternalID == "" {
		respond.Error(w, http.StatusBadRequest, "external_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	u, err := store.Create(ctx, models.User{
		ExternalID: req.ExternalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateExternalID) {
			existing, gerr := store.GetByExternalID(ctx, req.ExternalID)
			if gerr == nil {
				respond.JSON(w, http.StatusOK, existing)
				return
			}
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("mirror user failed", zap.String("external_id", req.ExternalID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusCreated, u)
}
