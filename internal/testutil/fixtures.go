package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user mirror with the given name. The external id
// is derived from the name so repeated calls stay unique.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		ExternalID: fmt.Sprintf("ext-%s", primitive.NewObjectID().Hex()),
		FirstName:  firstName,
		LastName:   lastName,
		FullNameCI: text.Fold(firstName + " " + lastName),
		Phone:      "+15550001234",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture: insert user: %v", err)
	}
	return u
}

// CreateUserWithPhone is CreateUser with an explicit phone number
// (empty means no phone on the document).
func (f *Fixtures) CreateUserWithPhone(ctx context.Context, firstName, lastName, phone string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, firstName, lastName)
	if phone == "" {
		if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$unset": bson.M{"phone": ""}}); err != nil {
			f.t.Fatalf("fixture: unset phone: %v", err)
		}
		u.Phone = ""
		return u
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"phone": phone}}); err != nil {
		f.t.Fatalf("fixture: set phone: %v", err)
	}
	u.Phone = phone
	return u
}

// CreateOrganization inserts an organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, createdBy primitive.ObjectID) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("fixture: insert organization: %v", err)
	}
	return org
}

// CreateCommunity inserts a public community in the given organization.
func (f *Fixtures) CreateCommunity(ctx context.Context, name string, orgID, createdBy primitive.ObjectID) models.Community {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Community{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Visibility:     models.VisibilityPublic,
		CreatedBy:      createdBy,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("communities").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("fixture: insert community: %v", err)
	}
	return c
}

// AddCommunityMembership writes a membership entry directly on the user
// document, bypassing the service layer.
func (f *Fixtures) AddCommunityMembership(ctx context.Context, userID, communityID primitive.ObjectID, role string) models.Membership {
	f.t.Helper()

	m := models.Membership{
		MembershipID: uuid.NewString(),
		Role:         role,
		AddedAt:      time.Now().UTC(),
	}
	path := "communities." + communityID.Hex()
	if _, err := f.db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": bson.M{path: m}}); err != nil {
		f.t.Fatalf("fixture: add community membership: %v", err)
	}
	return m
}
