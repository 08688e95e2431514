// internal/domain/models/membership.go
package models

import "time"

// Membership links the embedding User to one community or organization.
// The referenced entity's id is the map key on User; MembershipID is the
// stable opaque handle removal flows address entries by.
type Membership struct {
	MembershipID string    `bson:"membership_id" json:"membership_id"`
	Role         string    `bson:"role" json:"role"` // "leader" | "member"
	AddedAt      time.Time `bson:"added_at" json:"added_at"`
}

// Membership roles.
const (
	RoleMember = "member"
	RoleLeader = "leader"
)

// ValidRole reports whether r is a known membership role.
func ValidRole(r string) bool {
	return r == RoleMember || r == RoleLeader
}
