// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the local mirror of an identity-provider account plus the
// membership graph hanging off it.
//
// NOTE:
//   - Organization and community memberships are embedded as maps keyed
//     by the hex of the other entity's ObjectID. The map key makes the
//     one-entry-per-(user, entity) invariant structural and lets writers
//     use atomic $set / $unset on a single field path.
//   - Communities and Organizations hold no member lists; member lookup
//     by entity is a reverse query on these map keys.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID string             `bson:"external_id" json:"external_id"` // identity-provider key, unique
	FirstName  string             `bson:"first_name" json:"first_name"`
	LastName   string             `bson:"last_name" json:"last_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`

	Organizations map[string]Membership `bson:"organizations,omitempty" json:"organizations,omitempty"`
	Communities   map[string]Membership `bson:"communities,omitempty" json:"communities,omitempty"`

	Settings NotificationSettings `bson:"settings,omitempty" json:"settings"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins the name parts for display and notification text.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CommunityMembership returns the membership entry for a community id, if any.
func (u *User) CommunityMembership(communityID primitive.ObjectID) (Membership, bool) {
	m, ok := u.Communities[communityID.Hex()]
	return m, ok
}

// OrganizationMembership returns the membership entry for an organization id, if any.
func (u *User) OrganizationMembership(orgID primitive.ObjectID) (Membership, bool) {
	m, ok := u.Organizations[orgID.Hex()]
	return m, ok
}
