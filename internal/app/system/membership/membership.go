// internal/app/system/membership/membership.go

// Package membership owns every write to the membership maps embedded on
// users. Stores stay dumb; the add / remove / role-change preconditions
// and the notification side effect live here.
//
// State machine per (user, entity) entry:
//
//	absent → member | leader   (Add*)
//	member ↔ leader            (ChangeRole)
//	member | leader → absent   (RemoveByMembershipID, cascade strips)
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	organizationstore "github.com/dforrest/communityhub/internal/app/store/organizations"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/faults"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/app/system/notify"
	"github.com/dforrest/communityhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	kindCommunities   = "communities"
	kindOrganizations = "organizations"
)

// Service coordinates membership writes across the user store and the
// notifier.
type Service struct {
	users         *userstore.Store
	communities   *communitystore.Store
	organizations *organizationstore.Store
	notifier      *notify.Notifier
	collector     *metrics.Collector
	log           *zap.Logger
}

// New builds the membership service.
func New(users *userstore.Store, communities *communitystore.Store, organizations *organizationstore.Store, notifier *notify.Notifier, collector *metrics.Collector, logger *zap.Logger) *Service {
	return &Service{
		users:         users,
		communities:   communities,
		organizations: organizations,
		notifier:      notifier,
		collector:     collector,
		log:           logger,
	}
}

// AddCommunityMembership appends a membership entry for the community on
// the user. When notify is true the community is told about its new
// member, fire-and-continue: a notification failure never rolls the
// membership write back.
func (s *Service) AddCommunityMembership(ctx context.Context, userID, communityID primitive.ObjectID, role string, notifyMembers bool) (models.Membership, error) {
	if !models.ValidRole(role) {
		return models.Membership{}, fmt.Errorf("%w: role %q", faults.ErrInvalidReference, role)
	}
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		if isNoDocuments(err) {
			return models.Membership{}, fmt.Errorf("%w: community %s", faults.ErrInvalidReference, communityID.Hex())
		}
		return models.Membership{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNoDocuments(err) {
			return models.Membership{}, fmt.Errorf("%w: user %s", faults.ErrNotFound, userID.Hex())
		}
		return models.Membership{}, err
	}

	entry := models.Membership{
		MembershipID: uuid.NewString(),
		Role:         role,
		AddedAt:      time.Now().UTC(),
	}
	added, err := s.users.SetMembership(ctx, userID, kindCommunities, communityID, entry)
	if err != nil {
		return models.Membership{}, err
	}
	if !added {
		return models.Membership{}, fmt.Errorf("%w: user %s in community %s", faults.ErrAlreadyMember, userID.Hex(), communityID.Hex())
	}
	s.collector.RecordMembershipAdded()
	s.log.Info("community membership added",
		zap.String("user_id", userID.Hex()),
		zap.String("community_id", communityID.Hex()),
		zap.String("role", role))

	if notifyMembers {
		s.notifier.NotifyCommunityOfNewMember(ctx, communityID, user, userID)
	}
	return entry, nil
}

// AddOrganizationMembership appends a membership entry for the
// organization on the user. No notification: organization joins only
// happen inside provisioning flows.
func (s *Service) AddOrganizationMembership(ctx context.Context, userID, orgID primitive.ObjectID, role string) (models.Membership, error) {
	if !models.ValidRole(role) {
		return models.Membership{}, fmt.Errorf("%w: role %q", faults.ErrInvalidReference, role)
	}
	if _, err := s.organizations.GetByID(ctx, orgID); err != nil {
		if isNoDocuments(err) {
			return models.Membership{}, fmt.Errorf("%w: organization %s", faults.ErrInvalidReference, orgID.Hex())
		}
		return models.Membership{}, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if isNoDocuments(err) {
			return models.Membership{}, fmt.Errorf("%w: user %s", faults.ErrNotFound, userID.Hex())
		}
		return models.Membership{}, err
	}

	entry := models.Membership{
		MembershipID: uuid.NewString(),
		Role:         role,
		AddedAt:      time.Now().UTC(),
	}
	added, err := s.users.SetMembership(ctx, userID, kindOrganizations, orgID, entry)
	if err != nil {
		return models.Membership{}, err
	}
	if !added {
		return models.Membership{}, fmt.Errorf("%w: user %s in organization %s", faults.ErrAlreadyMember, userID.Hex(), orgID.Hex())
	}
	s.collector.RecordMembershipAdded()
	s.log.Info("organization membership added",
		zap.String("user_id", userID.Hex()),
		zap.String("org_id", orgID.Hex()),
		zap.String("role", role))
	return entry, nil
}

// RemoveByMembershipID deletes the entry carrying membershipID from the
// user. A missing entry reports faults.ErrNotFound so cleanup callers
// can treat the removal as idempotent.
func (s *Service) RemoveByMembershipID(ctx context.Context, userID primitive.ObjectID, membershipID string) error {
	kind, entityHex, err := s.users.RemoveMembershipByID(ctx, userID, membershipID)
	if err != nil {
		if isNoDocuments(err) {
			return fmt.Errorf("%w: user %s", faults.ErrNotFound, userID.Hex())
		}
		return err
	}
	if kind == "" {
		return fmt.Errorf("%w: membership %s on user %s", faults.ErrNotFound, membershipID, userID.Hex())
	}
	s.collector.RecordMembershipRemoved()
	s.log.Info("membership removed",
		zap.String("user_id", userID.Hex()),
		zap.String("membership_id", membershipID),
		zap.String("kind", kind),
		zap.String("entity_id", entityHex))
	return nil
}

// ChangeRole mutates the role of the user's entry for the community or
// organization entityID in place. faults.ErrNotAMember when no entry
// exists; an absent membership is never created by a role change.
func (s *Service) ChangeRole(ctx context.Context, userID, entityID primitive.ObjectID, newRole string) error {
	if !models.ValidRole(newRole) {
		return fmt.Errorf("%w: role %q", faults.ErrInvalidReference, newRole)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if isNoDocuments(err) {
			return fmt.Errorf("%w: user %s", faults.ErrNotFound, userID.Hex())
		}
		return err
	}

	for _, kind := range []string{kindCommunities, kindOrganizations} {
		changed, err := s.users.SetMembershipRole(ctx, userID, kind, entityID, newRole)
		if err != nil {
			return err
		}
		if changed {
			s.collector.RecordRoleChange()
			s.log.Info("membership role changed",
				zap.String("user_id", userID.Hex()),
				zap.String("entity_id", entityID.Hex()),
				zap.String("role", newRole))
			return nil
		}
	}
	return fmt.Errorf("%w: user %s has no membership for %s", faults.ErrNotAMember, userID.Hex(), entityID.Hex())
}

// StripCommunityRefs bulk-removes every user's entries for the given
// communities. Cascade-only.
func (s *Service) StripCommunityRefs(ctx context.Context, communityIDs []primitive.ObjectID) (int64, error) {
	return s.users.StripMembershipRefs(ctx, kindCommunities, communityIDs)
}

// StripOrgRefs bulk-removes every user's entries for the given
// organizations. Cascade-only.
func (s *Service) StripOrgRefs(ctx context.Context, orgIDs []primitive.ObjectID) (int64, error) {
	return s.users.StripMembershipRefs(ctx, kindOrganizations, orgIDs)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
