package invites_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dforrest/communityhub/internal/app/features/invites"
	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	deadletterstore "github.com/dforrest/communityhub/internal/app/store/deadletters"
	invitestore "github.com/dforrest/communityhub/internal/app/store/invites"
	organizationstore "github.com/dforrest/communityhub/internal/app/store/organizations"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/identity"
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/app/system/notify"
	"github.com/dforrest/communityhub/internal/app/system/ratelimit"
	"github.com/dforrest/communityhub/internal/app/system/sms"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/dforrest/communityhub/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stubProvider answers identity lookups from a fixed map keyed by phone.
type stubProvider struct {
	byPhone map[string]identity.ExternalIdentity
}

func (p *stubProvider) GetUsersByExternalKey(ctx context.Context, key string) ([]identity.ExternalIdentity, error) {
	if id, ok := p.byPhone[key]; ok {
		return []identity.ExternalIdentity{id}, nil
	}
	return nil, nil
}

func (p *stubProvider) CreateExternalIdentity(ctx context.Context, firstName, lastName, phone string) (identity.ExternalIdentity, error) {
	id := identity.ExternalIdentity{
		Key:       "ext-" + phone,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}
	p.byPhone[phone] = id
	return id, nil
}

func newTestHandler(t *testing.T, db *mongo.Database, provider identity.Provider, limit int) *invites.Handler {
	t.Helper()
	logger := zap.NewNop()
	users := userstore.New(db)
	orgs := organizationstore.New(db)
	communities := communitystore.New(db)
	deadletters := deadletterstore.New(db)
	collector := metrics.NewCollector(prometheus.NewRegistry())
	notifier := notify.New(users, communities, deadletters, sms.NopSender{}, collector, "http://test.local", logger)
	memberships := membership.New(users, communities, orgs, notifier, collector, logger)
	resolver := identity.NewResolver(users, 2, time.Millisecond, collector, logger)
	limiter := ratelimit.New(limit, time.Hour)
	return invites.NewHandler(db, provider, resolver, memberships, sms.NopSender{}, limiter, logger)
}

func acceptRequest(inviteID primitive.ObjectID, code string) *http.Request {
	body := fmt.Sprintf(`{"invite_id":%q,"code":%q}`, inviteID.Hex(), code)
	r := httptest.NewRequest("POST", "/invites/accept", strings.NewReader(body))
	r.RemoteAddr = "192.0.2.55:4000"
	return r
}

func TestHandleAccept_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Org", "Creator")
	org := fixtures.CreateOrganization(ctx, "Test Org", creator.ID)
	community := fixtures.CreateCommunity(ctx, "Book Club", org.ID, creator.ID)

	const phone = "+15550006666"
	provider := &stubProvider{byPhone: map[string]identity.ExternalIdentity{
		phone: {Key: "ext-invitee", Phone: phone},
	}}

	// The webhook mirror already landed.
	invitee, err := userstore.New(db).Create(ctx, models.User{
		ExternalID: "ext-invitee",
		FirstName:  "Invited",
		LastName:   "Person",
		Phone:      phone,
	})
	if err != nil {
		t.Fatalf("create invitee: %v", err)
	}

	inv, err := invitestore.New(db).Create(ctx, models.Invite{
		Phone:       phone,
		CommunityID: community.ID,
		Role:        models.RoleMember,
		CreatedBy:   creator.ID,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	}, "424242")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	handler := newTestHandler(t, db, provider, 10)

	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, acceptRequest(inv.ID, "424242"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		UserID     string            `json:"user_id"`
		Membership models.Membership `json:"membership"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.UserID != invitee.ID.Hex() {
		t.Errorf("joined as %s, want %s", resp.UserID, invitee.ID.Hex())
	}

	got, err := userstore.New(db).GetByID(ctx, invitee.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if m, ok := got.CommunityMembership(community.ID); !ok || m.Role != models.RoleMember {
		t.Error("expected invitee joined as member")
	}

	// The invite is spent: a replay sees it as gone.
	rec = httptest.NewRecorder()
	handler.HandleAccept(rec, acceptRequest(inv.ID, "424242"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on replay, got %d", rec.Code)
	}
}

func TestHandleAccept_WrongCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Org", "Creator")
	org := fixtures.CreateOrganization(ctx, "Test Org", creator.ID)
	community := fixtures.CreateCommunity(ctx, "Book Club", org.ID, creator.ID)

	inv, err := invitestore.New(db).Create(ctx, models.Invite{
		Phone:       "+15550006666",
		CommunityID: community.ID,
		Role:        models.RoleMember,
		CreatedBy:   creator.ID,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	}, "424242")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	handler := newTestHandler(t, db, &stubProvider{byPhone: map[string]identity.ExternalIdentity{}}, 10)

	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, acceptRequest(inv.ID, "000000"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestHandleAccept_RateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db, &stubProvider{byPhone: map[string]identity.ExternalIdentity{}}, 2)

	id := primitive.NewObjectID()
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.HandleAccept(rec, acceptRequest(id, "1"))
		if rec.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d should not be limited", i+1)
		}
	}

	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, acceptRequest(id, "1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}

func TestHandleAccept_MirrorNeverLands(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Org", "Creator")
	org := fixtures.CreateOrganization(ctx, "Test Org", creator.ID)
	community := fixtures.CreateCommunity(ctx, "Book Club", org.ID, creator.ID)

	const phone = "+15550007777"
	provider := &stubProvider{byPhone: map[string]identity.ExternalIdentity{
		phone: {Key: "ext-unmirrored", Phone: phone},
	}}

	inv, err := invitestore.New(db).Create(ctx, models.Invite{
		Phone:       phone,
		CommunityID: community.ID,
		Role:        models.RoleMember,
		CreatedBy:   creator.ID,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	}, "424242")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	handler := newTestHandler(t, db, provider, 10)

	rec := httptest.NewRecorder()
	handler.HandleAccept(rec, acceptRequest(inv.ID, "424242"))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504 when the mirror never lands, got %d: %s", rec.Code, rec.Body.String())
	}

	// The invite survives for a later retry.
	if _, err := invitestore.New(db).GetPending(ctx, inv.ID); err != nil {
		t.Errorf("invite should still be pending: %v", err)
	}
}
