// internal/app/store/deadletters/deadletterstore.go
package deadletterstore

import (
	"context"
	"time"

	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notification_deadletters")}
}

// Record persists a failed notification batch for later inspection.
func (s *Store) Record(ctx context.Context, dl models.NotificationDeadLetter) error {
	dl.ID = primitive.NewObjectID()
	dl.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, dl)
	return err
}

// ListByCommunity returns dead letters for one community, newest first.
func (s *Store) ListByCommunity(ctx context.Context, communityID primitive.ObjectID) ([]models.NotificationDeadLetter, error) {
	cur, err := s.c.Find(ctx, bson.M{"community_id": communityID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.NotificationDeadLetter
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
