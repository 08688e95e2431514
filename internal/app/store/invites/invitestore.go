// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"errors"
	"time"

	"github.com/dforrest/communityhub/internal/app/system/normalize"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrCodeMismatch is returned when the presented join code does not
	// match the stored hash.
	ErrCodeMismatch = errors.New("invite code does not match")
	errBadPhone     = errors.New("invite requires a dialable phone number")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invites")}
}

// Create inserts an invite, storing only the bcrypt hash of the code.
func (s *Store) Create(ctx context.Context, inv models.Invite, code string) (models.Invite, error) {
	if !normalize.ValidPhone(inv.Phone) {
		return models.Invite{}, errBadPhone
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return models.Invite{}, err
	}
	inv.ID = primitive.NewObjectID()
	inv.CodeHash = hash
	inv.Phone = normalize.Phone(inv.Phone)
	inv.FirstName = normalize.Name(inv.FirstName)
	inv.LastName = normalize.Name(inv.LastName)
	inv.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// GetPending loads an invite that has not been accepted or expired.
func (s *Store) GetPending(ctx context.Context, id primitive.ObjectID) (models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{
		"_id":         id,
		"accepted_at": bson.M{"$exists": false},
		"expires_at":  bson.M{"$gt": time.Now().UTC()},
	}).Decode(&inv)
	if err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// CheckCode compares the presented code against the stored hash.
func (s *Store) CheckCode(inv models.Invite, code string) error {
	if err := bcrypt.CompareHashAndPassword(inv.CodeHash, []byte(code)); err != nil {
		return ErrCodeMismatch
	}
	return nil
}

// MarkAccepted stamps the invite. Returns mongo.ErrNoDocuments when the
// invite was already accepted (first acceptance wins).
func (s *Store) MarkAccepted(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "accepted_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"accepted_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CleanupExpired removes expired, unaccepted invites. A backup for when
// MongoDB's TTL monitor is delayed.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"accepted_at": bson.M{"$exists": false},
		"expires_at":  bson.M{"$lt": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
