// internal/app/features/invites/create.go
package invites

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	invitestore "github.com/dforrest/communityhub/internal/app/store/invites"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// inviteTTL is how long a join code stays redeemable.
const inviteTTL = 7 * 24 * time.Hour

type createRequest struct {
	Phone       string `json:"phone"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CommunityID string `json:"community_id"`
	Role        string `json:"role"`
	CreatedBy   string `json:"created_by"`
}

// HandleCreate invites a phone number into a community. The upstream
// identity is created eagerly so its webhook mirror can start landing
// before the invitee ever redeems the code. The code itself goes out by
// SMS and is stored only as a bcrypt hash.
//
// Route: POST /invites
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cid, err := primitive.ObjectIDFromHex(req.CommunityID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad community id")
		return
	}
	createdBy, err := primitive.ObjectIDFromHex(req.CreatedBy)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad created_by id")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		respond.Error(w, http.StatusBadRequest, "bad role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	community, err := communitystore.New(h.DB).GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "community not found")
			return
		}
		h.Log.Error("load community failed", zap.String("community_id", cid.Hex()), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := h.Provider.CreateExternalIdentity(ctx, req.FirstName, req.LastName, req.Phone); err != nil {
		h.Log.Warn("create external identity failed", zap.String("phone", req.Phone), zap.Error(err))
		respond.Fault(w, err)
		return
	}

	code, err := newJoinCode()
	if err != nil {
		h.Log.Error("generate join code failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	inv, err := invitestore.New(h.DB).Create(ctx, models.Invite{
		Phone:       req.Phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CommunityID: cid,
		Role:        role,
		CreatedBy:   createdBy,
		ExpiresAt:   time.Now().UTC().Add(inviteTTL),
	}, code)
	if err != nil {
		h.Log.Error("store invite failed", zap.String("phone", req.Phone), zap.Error(err))
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	body := fmt.Sprintf("You've been invited to join %s. Your join code is %s.", community.Name, code)
	if err := h.Sender.SendSingle(ctx, inv.Phone, body); err != nil {
		// The invite stays valid; the inviter can read the id back and
		// resend out of band.
		h.Log.Warn("send invite code failed", zap.String("invite_id", inv.ID.Hex()), zap.Error(err))
	}

	respond.JSON(w, http.StatusCreated, inv)
}

// newJoinCode returns a 6-digit code with leading zeros preserved.
func newJoinCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
