package notify_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	deadletterstore "github.com/dforrest/communityhub/internal/app/store/deadletters"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/app/system/notify"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/dforrest/communityhub/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// recordingSender captures batch sends and optionally fails them.
type recordingSender struct {
	batches [][]string
	bodies  []string
	fail    error
}

func (s *recordingSender) SendSingle(ctx context.Context, to, body string) error {
	return s.fail
}

func (s *recordingSender) SendBatch(ctx context.Context, recipients []string, body string) error {
	cp := make([]string, len(recipients))
	copy(cp, recipients)
	s.batches = append(s.batches, cp)
	s.bodies = append(s.bodies, body)
	return s.fail
}

func newNotifier(t *testing.T, db *mongo.Database, sender *recordingSender) *notify.Notifier {
	t.Helper()
	collector := metrics.NewCollector(prometheus.NewRegistry())
	return notify.New(userstore.New(db), communitystore.New(db), deadletterstore.New(db), sender, collector, "http://test.local", zap.NewNop())
}

func optOut() *bool {
	v := false
	return &v
}

func TestNotifyCommunityOfNewMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sender := &recordingSender{}
	notifier := newNotifier(t, db, sender)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Org", "Creator")
	org := fixtures.CreateOrganization(ctx, "Test Org", creator.ID)
	community := fixtures.CreateCommunity(ctx, "Book Club", org.ID, creator.ID)

	// Eligible members.
	a := fixtures.CreateUserWithPhone(ctx, "Alpha", "Member", "+15550000001")
	fixtures.AddCommunityMembership(ctx, a.ID, community.ID, models.RoleMember)
	b := fixtures.CreateUserWithPhone(ctx, "Beta", "Member", "+15550000002")
	fixtures.AddCommunityMembership(ctx, b.ID, community.ID, models.RoleLeader)

	// Opted out of new-member notifications.
	c := fixtures.CreateUserWithPhone(ctx, "Gamma", "Quiet", "+15550000003")
	fixtures.AddCommunityMembership(ctx, c.ID, community.ID, models.RoleMember)
	if _, err := db.Collection("users").UpdateByID(ctx, c.ID,
		bson.M{"$set": bson.M{"settings": models.NotificationSettings{NewMemberInCommunity: optOut()}}}); err != nil {
		t.Fatalf("set settings: %v", err)
	}

	// No usable phone.
	d := fixtures.CreateUserWithPhone(ctx, "Delta", "Phoneless", "")
	fixtures.AddCommunityMembership(ctx, d.ID, community.ID, models.RoleMember)

	// The new member, already holding an entry, must be excluded.
	newMember := fixtures.CreateUserWithPhone(ctx, "Echo", "Newcomer", "+15550000005")
	fixtures.AddCommunityMembership(ctx, newMember.ID, community.ID, models.RoleMember)

	notifier.NotifyCommunityOfNewMember(ctx, community.ID, &newMember, newMember.ID)

	if len(sender.batches) != 1 {
		t.Fatalf("expected exactly one batch, got %d", len(sender.batches))
	}
	got := sender.batches[0]
	sort.Strings(got)
	want := []string{"+15550000001", "+15550000002"}
	if len(got) != len(want) {
		t.Fatalf("recipients: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recipients: got %v, want %v", got, want)
		}
	}
}

func TestNotifyCommunityOfNewMember_NoRecipients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sender := &recordingSender{}
	notifier := newNotifier(t, db, sender)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Org", "Creator")
	org := fixtures.CreateOrganization(ctx, "Test Org", creator.ID)
	community := fixtures.CreateCommunity(ctx, "Empty Club", org.ID, creator.ID)

	newMember := fixtures.CreateUser(ctx, "Only", "Member")
	fixtures.AddCommunityMembership(ctx, newMember.ID, community.ID, models.RoleMember)

	notifier.NotifyCommunityOfNewMember(ctx, community.ID, &newMember, newMember.ID)

	if len(sender.batches) != 0 {
		t.Errorf("expected no batch for an empty recipient set, got %d", len(sender.batches))
	}
}

func TestNotifyCommunityOfNewMember_ProviderFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sender := &recordingSender{fail: errors.New("gateway down")}
	notifier := newNotifier(t, db, sender)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Org", "Creator")
	org := fixtures.CreateOrganization(ctx, "Test Org", creator.ID)
	community := fixtures.CreateCommunity(ctx, "Book Club", org.ID, creator.ID)

	member := fixtures.CreateUserWithPhone(ctx, "Alpha", "Member", "+15550000001")
	fixtures.AddCommunityMembership(ctx, member.ID, community.ID, models.RoleMember)
	newMember := fixtures.CreateUserWithPhone(ctx, "Echo", "Newcomer", "+15550000005")
	fixtures.AddCommunityMembership(ctx, newMember.ID, community.ID, models.RoleMember)

	// Must not panic or surface the failure.
	notifier.NotifyCommunityOfNewMember(ctx, community.ID, &newMember, newMember.ID)

	// The failed batch lands in the dead-letter collection.
	letters, err := deadletterstore.New(db).ListByCommunity(ctx, community.ID)
	if err != nil {
		t.Fatalf("ListByCommunity failed: %v", err)
	}
	if len(letters) != 1 {
		t.Fatalf("expected 1 dead letter, got %d", len(letters))
	}
	if letters[0].Error != "gateway down" {
		t.Errorf("dead letter error: got %q", letters[0].Error)
	}
	if len(letters[0].Recipients) != 1 || letters[0].Recipients[0] != "+15550000001" {
		t.Errorf("dead letter recipients: got %v", letters[0].Recipients)
	}
}
