// internal/app/store/communities/communitystore.go
package communitystore

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

var (
	ErrDuplicateCommunityName = errors.New("a community with this name already exists in the organization")
	errBadVisibility          = errors.New(`visibility must be "public" or "private"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("communities")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Community, error) {
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Community{}, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c models.Community) (models.Community, error) {
	if !models.ValidVisibility(c.Visibility) {
		return models.Community{}, errBadVisibility
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Purpose = htmlsanitize.Sanitize(c.Purpose)
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Community{}, ErrDuplicateCommunityName
		}
		return models.Community{}, err
	}
	return c, nil
}

// ListByOrg returns all communities belonging to an organization.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Community, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var communities []models.Community
	if err := cur.All(ctx, &communities); err != nil {
		return nil, err
	}
	return communities, nil
}

// Delete removes a community by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByIDs bulk-deletes the given communities. Returns the number deleted.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByOrg returns the number of communities in an organization.
func (s *Store) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}
