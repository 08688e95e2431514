package provision_test

import (
	"errors"
	"testing"

	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	deadletterstore "github.com/dforrest/communityhub/internal/app/store/deadletters"
	organizationstore "github.com/dforrest/communityhub/internal/app/store/organizations"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/faults"
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/app/system/notify"
	"github.com/dforrest/communityhub/internal/app/system/provision"
	"github.com/dforrest/communityhub/internal/app/system/sms"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/dforrest/communityhub/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newOrchestrator(t *testing.T, db *mongo.Database) *provision.Orchestrator {
	t.Helper()
	users := userstore.New(db)
	communities := communitystore.New(db)
	organizations := organizationstore.New(db)
	deadletters := deadletterstore.New(db)
	collector := metrics.NewCollector(prometheus.NewRegistry())
	notifier := notify.New(users, communities, deadletters, sms.NopSender{}, collector, "http://test.local", zap.NewNop())
	memberships := membership.New(users, communities, organizations, notifier, collector, zap.NewNop())
	return provision.New(organizations, communities, memberships, zap.NewNop())
}

func TestCreateOrganization_Shape(t *testing.T) {
	db := testutil.SetupTestDB(t)
	orch := newOrchestrator(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Casey", "Founder")

	org, err := orch.CreateOrganization(ctx, "Neighborhood Hub", "A place for neighbors", creator.ID)
	if err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	if org.WelcomingCommunityID == nil {
		t.Fatal("expected welcoming community pointer")
	}
	if org.LeadershipCommunityID == nil {
		t.Fatal("expected leadership community pointer")
	}

	communities := communitystore.New(db)
	welcoming, err := communities.GetByID(ctx, *org.WelcomingCommunityID)
	if err != nil {
		t.Fatalf("load welcoming community: %v", err)
	}
	if welcoming.Name != provision.WelcomingCommunityName {
		t.Errorf("welcoming name: got %q", welcoming.Name)
	}
	if welcoming.Visibility != models.VisibilityPublic {
		t.Errorf("welcoming visibility: got %q", welcoming.Visibility)
	}
	if welcoming.OrganizationID != org.ID {
		t.Error("welcoming community belongs to a different organization")
	}

	leadership, err := communities.GetByID(ctx, *org.LeadershipCommunityID)
	if err != nil {
		t.Fatalf("load leadership community: %v", err)
	}
	if leadership.Visibility != models.VisibilityPrivate {
		t.Errorf("leadership visibility: got %q", leadership.Visibility)
	}

	// Welcoming + leadership + the seed communities.
	all, err := communities.ListByOrg(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	want := 2 + len(provision.SeedCommunityNames)
	if len(all) != want {
		t.Errorf("expected %d communities, got %d", want, len(all))
	}

	// The creator leads the organization and every community.
	got, err := userstore.New(db).GetByID(ctx, creator.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if m, ok := got.OrganizationMembership(org.ID); !ok || m.Role != models.RoleLeader {
		t.Error("expected creator as organization leader")
	}
	for _, c := range all {
		if m, ok := got.CommunityMembership(c.ID); !ok || m.Role != models.RoleLeader {
			t.Errorf("expected creator as leader of %q", c.Name)
		}
	}

	// The stored document matches the returned pointers.
	stored, err := organizationstore.New(db).GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("load organization: %v", err)
	}
	if stored.WelcomingCommunityID == nil || *stored.WelcomingCommunityID != *org.WelcomingCommunityID {
		t.Error("stored welcoming pointer differs from returned one")
	}
}

func TestSetWelcomingCommunity_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	orch := newOrchestrator(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Casey", "Founder")
	org := fixtures.CreateOrganization(ctx, "Org A", creator.ID)
	otherOrg := fixtures.CreateOrganization(ctx, "Org B", creator.ID)
	own := fixtures.CreateCommunity(ctx, "Own Community", org.ID, creator.ID)
	foreign := fixtures.CreateCommunity(ctx, "Foreign Community", otherOrg.ID, creator.ID)

	if err := orch.SetWelcomingCommunity(ctx, org.ID, own.ID); err != nil {
		t.Fatalf("SetWelcomingCommunity failed: %v", err)
	}
	stored, err := organizationstore.New(db).GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("load organization: %v", err)
	}
	if stored.WelcomingCommunityID == nil || *stored.WelcomingCommunityID != own.ID {
		t.Error("welcoming pointer not updated")
	}

	// A community from another organization is rejected.
	if err := orch.SetWelcomingCommunity(ctx, org.ID, foreign.ID); !errors.Is(err, faults.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for cross-org pointer, got %v", err)
	}

	// Same validation on the leadership pointer.
	if err := orch.SetLeadershipCommunity(ctx, org.ID, foreign.ID); !errors.Is(err, faults.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for cross-org pointer, got %v", err)
	}
}
