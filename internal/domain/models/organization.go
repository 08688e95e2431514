// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the top-level tenant. The welcoming and leadership
// pointers are nullable on purpose: provisioning is best-effort, and a
// partially provisioned organization is detected by a nil pointer here.
type Organization struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"` // ← always stored
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`

	WelcomingCommunityID  *primitive.ObjectID `bson:"welcoming_community_id,omitempty" json:"welcoming_community_id,omitempty"`
	LeadershipCommunityID *primitive.ObjectID `bson:"leadership_community_id,omitempty" json:"leadership_community_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
