// internal/domain/models/invite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite is a pending request for someone (identified by phone) to join a
// community. The join code is stored only as a bcrypt hash; ExpiresAt is
// backed by a TTL index so stale invites age out of the collection.
type Invite struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CodeHash    []byte             `bson:"code_hash" json:"-"`
	Phone       string             `bson:"phone" json:"phone"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastName    string             `bson:"last_name" json:"last_name"`
	CommunityID primitive.ObjectID `bson:"community_id" json:"community_id"`
	Role        string             `bson:"role" json:"role"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`

	ExpiresAt  time.Time  `bson:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
}
