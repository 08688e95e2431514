// internal/app/features/communities/members.go
package communities

import (
	"context"
	"net/http"

	"github.com/dforrest/communityhub/internal/app/features/shared/respond"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memberRow struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	MembershipID string `json:"membership_id"`
}

// ServeMembers lists a community's members with their roles.
//
// Route: GET /communities/{id}/members
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	cid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "bad community id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := userstore.New(h.DB).ListByCommunity(ctx, cid)
	if err != nil {
		h.Log.Error("list community members failed", zap.String("community_id", cid.Hex()), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]memberRow, 0, len(members))
	for i := range members {
		u := &members[i]
		m, ok := u.CommunityMembership(cid)
		if !ok {
			continue
		}
		rows = append(rows, memberRow{
			UserID:       u.ID.Hex(),
			Name:         u.FullName(),
			Role:         m.Role,
			MembershipID: m.MembershipID,
		})
	}
	respond.JSON(w, http.StatusOK, rows)
}
