// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dforrest/communityhub/internal/app/system/htmlsanitize"
	"github.com/dforrest/communityhub/internal/app/system/normalize"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateOrganization = errors.New("an organization with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.Name = normalize.Name(org.Name)
	org.NameCI = text.Fold(org.Name)
	org.Description = htmlsanitize.Sanitize(org.Description)
	org.CreatedAt = now
	org.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, org)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// SetWelcomingCommunity assigns the welcoming pointer. Idempotent.
func (s *Store) SetWelcomingCommunity(ctx context.Context, orgID, communityID primitive.ObjectID) error {
	return s.setPointer(ctx, orgID, "welcoming_community_id", communityID)
}

// SetLeadershipCommunity assigns the leadership pointer. Idempotent.
func (s *Store) SetLeadershipCommunity(ctx context.Context, orgID, communityID primitive.ObjectID) error {
	return s.setPointer(ctx, orgID, "leadership_community_id", communityID)
}

func (s *Store) setPointer(ctx context.Context, orgID primitive.ObjectID, field string, communityID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, orgID, bson.M{"$set": bson.M{
		field:        communityID,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ClearCommunityPointers unsets whichever of the welcoming/leadership
// pointers reference the given community. Used when that community is
// deleted so the organization never points at a missing document.
func (s *Store) ClearCommunityPointers(ctx context.Context, communityID primitive.ObjectID) error {
	now := time.Now().UTC()
	if _, err := s.c.UpdateMany(ctx,
		bson.M{"welcoming_community_id": communityID},
		bson.M{"$unset": bson.M{"welcoming_community_id": ""}, "$set": bson.M{"updated_at": now}}); err != nil {
		return err
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"leadership_community_id": communityID},
		bson.M{"$unset": bson.M{"leadership_community_id": ""}, "$set": bson.M{"updated_at": now}})
	return err
}

// Delete removes an organization by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns organizations matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.Organization, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Count returns the number of organizations matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
