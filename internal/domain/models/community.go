// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Community is a group of users inside an organization.
//
// NOTE:
//   - No member list is stored here. Membership lives on User documents;
//     listing a community's members is a reverse query on users.
//   - OrganizationID is required for all new communities. A handful of
//     legacy documents predate organizations and carry a nil value, so
//     readers must tolerate NilObjectID.
type Community struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"name_ci"`
	Purpose        string             `bson:"purpose,omitempty" json:"purpose,omitempty"`
	Visibility     string             `bson:"visibility" json:"visibility"` // "public" | "private"
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"created_by"`
	OrganizationID primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidVisibility reports whether v is a known visibility value.
func ValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}
