package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/dforrest/communityhub/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newEntry(role string) models.Membership {
	return models.Membership{
		MembershipID: uuid.NewString(),
		Role:         role,
		AddedAt:      time.Now().UTC(),
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		ExternalID: "ext-abc",
		FirstName:  "  Ana ",
		LastName:   "García",
		Phone:      "+1 (555) 000-1234",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FirstName != "Ana" {
		t.Errorf("expected normalized first name, got %q", created.FirstName)
	}
	if created.FullNameCI == "" {
		t.Error("expected FullNameCI to be set")
	}
	if created.Phone != "+15550001234" {
		t.Errorf("expected normalized phone, got %q", created.Phone)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_DuplicateExternalID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{ExternalID: "ext-dup", FirstName: "First"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{ExternalID: "ext-dup", FirstName: "Second"})
	if !errors.Is(err, userstore.ErrDuplicateExternalID) {
		t.Errorf("expected ErrDuplicateExternalID, got %v", err)
	}
}

func TestStore_GetByExternalID_NotMirrored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByExternalID(ctx, "ext-missing")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_SetMembership_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Pat", "Member")
	communityID := primitive.NewObjectID()

	first := newEntry(models.RoleMember)
	added, err := store.SetMembership(ctx, u.ID, "communities", communityID, first)
	if err != nil {
		t.Fatalf("SetMembership failed: %v", err)
	}
	if !added {
		t.Fatal("expected first SetMembership to add")
	}

	// Second add for the same community must not clobber the entry.
	added, err = store.SetMembership(ctx, u.ID, "communities", communityID, newEntry(models.RoleLeader))
	if err != nil {
		t.Fatalf("second SetMembership failed: %v", err)
	}
	if added {
		t.Error("expected second SetMembership to report not added")
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	m, ok := got.CommunityMembership(communityID)
	if !ok {
		t.Fatal("expected membership entry to exist")
	}
	if m.MembershipID != first.MembershipID {
		t.Error("expected original entry to survive the duplicate add")
	}
	if m.Role != models.RoleMember {
		t.Errorf("expected role %q, got %q", models.RoleMember, m.Role)
	}
}

func TestStore_SetMembershipRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Role", "Changer")
	communityID := primitive.NewObjectID()
	fixtures.AddCommunityMembership(ctx, u.ID, communityID, models.RoleMember)

	changed, err := store.SetMembershipRole(ctx, u.ID, "communities", communityID, models.RoleLeader)
	if err != nil {
		t.Fatalf("SetMembershipRole failed: %v", err)
	}
	if !changed {
		t.Fatal("expected role change to match the entry")
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if m, _ := got.CommunityMembership(communityID); m.Role != models.RoleLeader {
		t.Errorf("expected role %q, got %q", models.RoleLeader, m.Role)
	}

	// A role change never creates an entry.
	changed, err = store.SetMembershipRole(ctx, u.ID, "communities", primitive.NewObjectID(), models.RoleLeader)
	if err != nil {
		t.Fatalf("SetMembershipRole failed: %v", err)
	}
	if changed {
		t.Error("expected no change for an absent entry")
	}
}

func TestStore_RemoveMembershipByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Leaving", "Soon")
	communityID := primitive.NewObjectID()
	m := fixtures.AddCommunityMembership(ctx, u.ID, communityID, models.RoleMember)

	kind, entityHex, err := store.RemoveMembershipByID(ctx, u.ID, m.MembershipID)
	if err != nil {
		t.Fatalf("RemoveMembershipByID failed: %v", err)
	}
	if kind != "communities" || entityHex != communityID.Hex() {
		t.Errorf("got (%q, %q), want (communities, %s)", kind, entityHex, communityID.Hex())
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if _, ok := got.CommunityMembership(communityID); ok {
		t.Error("expected entry to be gone")
	}

	// Unknown membership id reports (empty, empty, nil).
	kind, entityHex, err = store.RemoveMembershipByID(ctx, u.ID, uuid.NewString())
	if err != nil {
		t.Fatalf("RemoveMembershipByID failed: %v", err)
	}
	if kind != "" || entityHex != "" {
		t.Errorf("expected empty result for unknown membership id, got (%q, %q)", kind, entityHex)
	}
}

func TestStore_StripMembershipRefs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c1 := primitive.NewObjectID()
	c2 := primitive.NewObjectID()
	other := primitive.NewObjectID()

	u1 := fixtures.CreateUser(ctx, "One", "User")
	fixtures.AddCommunityMembership(ctx, u1.ID, c1, models.RoleMember)
	fixtures.AddCommunityMembership(ctx, u1.ID, other, models.RoleMember)

	u2 := fixtures.CreateUser(ctx, "Two", "User")
	fixtures.AddCommunityMembership(ctx, u2.ID, c1, models.RoleLeader)
	fixtures.AddCommunityMembership(ctx, u2.ID, c2, models.RoleMember)

	modified, err := store.StripMembershipRefs(ctx, "communities", []primitive.ObjectID{c1, c2})
	if err != nil {
		t.Fatalf("StripMembershipRefs failed: %v", err)
	}
	if modified != 2 {
		t.Errorf("expected 2 users modified, got %d", modified)
	}

	got1, err := store.GetByID(ctx, u1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if _, ok := got1.CommunityMembership(c1); ok {
		t.Error("expected c1 stripped from u1")
	}
	if _, ok := got1.CommunityMembership(other); !ok {
		t.Error("expected unrelated membership to survive")
	}

	got2, err := store.GetByID(ctx, u2.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got2.Communities) != 0 {
		t.Errorf("expected u2 communities emptied, got %d entries", len(got2.Communities))
	}
}

func TestStore_ListByCommunity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	communityID := primitive.NewObjectID()

	in1 := fixtures.CreateUser(ctx, "In", "One")
	fixtures.AddCommunityMembership(ctx, in1.ID, communityID, models.RoleMember)
	in2 := fixtures.CreateUser(ctx, "In", "Two")
	fixtures.AddCommunityMembership(ctx, in2.ID, communityID, models.RoleLeader)
	fixtures.CreateUser(ctx, "Out", "Sider")

	members, err := store.ListByCommunity(ctx, communityID)
	if err != nil {
		t.Fatalf("ListByCommunity failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	for _, m := range members {
		if _, ok := m.CommunityMembership(communityID); !ok {
			t.Errorf("member %s missing the community entry", m.ID.Hex())
		}
	}
}
