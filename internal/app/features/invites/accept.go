// internal/app/features/invites/accept.go
package invites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	invitestore "github.com/dforrest/communityhub/internal/app/store/invites"
	"github.com/dforrest/communityhub/internal/app/system/ratelimit"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type acceptRequest struct {
	InviteID string `json:"invite_id"`
	Code     string `json:"code"`
}

type acceptResponse struct {
	UserID     string            `json:"user_id"`
	Membership models.Membership `json:"membership"`
}

// HandleAccept redeems a join code. The invitee's upstream identity is
// looked up by phone, the local mirror is awaited through the resolver,
// and the membership is added with fan-out enabled. Rate limited per
// client IP to slow down code guessing.
//
// Route: POST /invites/accept
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if !h.Limiter.Allow(ip) {
		respond.Error(w, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inviteID, err := primitive.ObjectIDFromHex(req.InviteID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad invite id")
		return
	}
	if req.Code == "" {
		respond.Error(w, http.StatusBadRequest, "code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := invitestore.New(h.DB)
	inv, err := store.GetPending(ctx, inviteID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "invite not found or no longer valid")
			return
		}
		h.Log.Error("load invite failed", zap.String("invite_id", req.InviteID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := store.CheckCode(inv, req.Code); err != nil {
		respond.Error(w, http.StatusForbidden, "invite code does not match")
		return
	}

	identities, err := h.Provider.GetUsersByExternalKey(ctx, inv.Phone)
	if err != nil {
		h.Log.Warn("identity lookup failed", zap.String("invite_id", req.InviteID), zap.Error(err))
		respond.Fault(w, err)
		return
	}
	if len(identities) == 0 {
		respond.Error(w, http.StatusBadGateway, "identity provider has no account for this invite")
		return
	}

	user, err := h.Resolver.ResolveLocalUser(ctx, identities[0].Key)
	if err != nil {
		h.Log.Warn("resolve local user failed",
			zap.String("invite_id", req.InviteID),
			zap.String("external_id", identities[0].Key),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}

	// Claim the invite before mutating membership so a concurrent accept
	// of the same code loses here instead of double-joining.
	if err := store.MarkAccepted(ctx, inv.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusConflict, "invite already accepted")
			return
		}
		h.Log.Error("mark invite accepted failed", zap.String("invite_id", req.InviteID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	m, err := h.Memberships.AddCommunityMembership(ctx, user.ID, inv.CommunityID, inv.Role, true)
	if err != nil {
		h.Log.Error("add membership from invite failed",
			zap.String("invite_id", req.InviteID),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
		respond.Fault(w, err)
		return
	}

	h.Limiter.Reset(ip)
	respond.JSON(w, http.StatusOK, acceptResponse{UserID: user.ID.Hex(), Membership: m})
}
