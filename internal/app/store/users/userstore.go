// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - ExternalID / external_id: The opaque key issued by the identity provider

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dforrest/communityhub/internal/app/system/normalize"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateExternalID is returned when creating a user whose
	// external identity key is already mirrored locally.
	ErrDuplicateExternalID = errors.New("a user with this external identity already exists")
	errMissingExternalID   = errors.New("external_id is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByExternalID looks up the local mirror of an identity-provider key.
// Returns mongo.ErrNoDocuments while the mirroring webhook has not landed yet.
func (s *Store) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing name and phone fields.
// Membership maps start empty; they are only ever written through the
// membership service.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ExternalID == "" {
		return models.User{}, errMissingExternalID
	}
	u.ID = primitive.NewObjectID()
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)
	u.FullNameCI = text.Fold(normalize.Name(u.FirstName + " " + u.LastName))
	u.Phone = normalize.Phone(u.Phone)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateExternalID
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateSettings replaces the user's notification settings.
func (s *Store) UpdateSettings(ctx context.Context, id primitive.ObjectID, settings models.NotificationSettings) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"settings":   settings,
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

// membershipPath builds the dotted field path for one entry; kind is
// "communities" or "organizations".
func membershipPath(kind string, entityID primitive.ObjectID) string {
	return kind + "." + entityID.Hex()
}

// SetMembership writes a membership entry under the given map field.
// The filter requires the key to be absent, so a concurrent duplicate
// add matches zero documents instead of clobbering the existing entry.
// Returns (false, nil) when the user already holds the key.
func (s *Store) SetMembership(ctx context.Context, userID primitive.ObjectID, kind string, entityID primitive.ObjectID, m models.Membership) (bool, error) {
	path := membershipPath(kind, entityID)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, path: bson.M{"$exists": false}},
		bson.M{"$set": bson.M{
			path:         m,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// SetMembershipRole mutates the role of an existing entry in place.
// Returns (false, nil) when no entry exists for the entity.
func (s *Store) SetMembershipRole(ctx context.Context, userID primitive.ObjectID, kind string, entityID primitive.ObjectID, role string) (bool, error) {
	path := membershipPath(kind, entityID)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, path: bson.M{"$exists": true}},
		bson.M{"$set": bson.M{
			path + ".role": role,
			"updated_at":   time.Now().UTC(),
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// RemoveMembershipByID unsets whichever map entry carries the given
// membership id. Returns the map ("communities"/"organizations") and
// entity hex key that was removed, or ("", "", nil) when the user holds
// no such entry.
func (s *Store) RemoveMembershipByID(ctx context.Context, userID primitive.ObjectID, membershipID string) (kind, entityHex string, err error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	for hex, m := range u.Communities {
		if m.MembershipID == membershipID {
			kind, entityHex = "communities", hex
		}
	}
	for hex, m := range u.Organizations {
		if m.MembershipID == membershipID {
			kind, entityHex = "organizations", hex
		}
	}
	if kind == "" {
		return "", "", nil
	}

	// Guard on the membership id so a concurrent remove-and-readd of the
	// same entity does not delete the newer entry.
	path := kind + "." + entityHex
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": userID, path + ".membership_id": membershipID},
		bson.M{"$unset": bson.M{path: ""}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return "", "", err
	}
	return kind, entityHex, nil
}

// StripMembershipRefs removes every entry for the given entity ids from
// all users in one bulk update; kind selects which map is stripped.
// Used only by cascade deletion. One UpdateMany bounds latency no matter
// how many users hold references.
func (s *Store) StripMembershipRefs(ctx context.Context, kind string, entityIDs []primitive.ObjectID) (int64, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}
	unset := bson.M{}
	or := make([]bson.M, 0, len(entityIDs))
	for _, id := range entityIDs {
		path := membershipPath(kind, id)
		unset[path] = ""
		or = append(or, bson.M{path: bson.M{"$exists": true}})
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"$or": or},
		bson.M{"$unset": unset, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListByCommunity returns every user holding a membership entry for the
// community. This reverse query stands in for a member list on the
// community document.
func (s *Store) ListByCommunity(ctx context.Context, communityID primitive.ObjectID) ([]models.User, error) {
	return s.list(ctx, bson.M{membershipPath("communities", communityID): bson.M{"$exists": true}})
}

// ListByOrganization returns every user holding a membership entry for
// the organization.
func (s *Store) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error) {
	return s.list(ctx, bson.M{membershipPath("organizations", orgID): bson.M{"$exists": true}})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
