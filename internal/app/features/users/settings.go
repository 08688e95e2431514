// internal/app/features/users/settings.go
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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleUpdateSettings replaces the user's notification settings. The
// body is a full NotificationSettings document; omitted flags revert to
// the enabled default.
//
// Route: PUT /users/{id}/settings
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad user id")
		return
	}
	var settings models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if pc := settings.PreferredCommunication; pc != "" && pc != models.ChannelSMS && pc != models.ChannelWhatsApp {
		respond.Error(w, http.StatusBadRequest, "bad preferred_communication")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := userstore.New(h.DB).UpdateSettings(ctx, uid, settings); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("update settings failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
