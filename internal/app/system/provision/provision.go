// internal/app/system/provision/provision.go

// Package provision creates organizations together with their seed
// communities. Provisioning is a best-effort step sequence: after the
// organization document exists, each further step's failure is logged
// and skipped rather than unwound. Callers needing all-or-nothing must
// check the returned organization's pointer fields and, if unhappy,
// hand the id to the cascade manager.
package provision

import (
	"context"
	"errors"
	"fmt"

	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	organizationstore "github.com/dforrest/communityhub/internal/app/store/organizations"
	"github.com/dforrest/communityhub/internal/app/system/faults"
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Fixed community names every new organization starts with.
const (
	WelcomingCommunityName  = "Welcoming"
	LeadershipCommunityName = "Leadership"
)

// SeedCommunityNames are the role-oriented default groups created after
// the welcoming and leadership communities.
var SeedCommunityNames = []string{"Volunteers", "Hosts", "Mentors"}

// Orchestrator provisions organizations.
type Orchestrator struct {
	organizations *organizationstore.Store
	communities   *communitystore.Store
	memberships   *membership.Service
	log           *zap.Logger
}

// New builds an Orchestrator.
func New(organizations *organizationstore.Store, communities *communitystore.Store, memberships *membership.Service, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		organizations: organizations,
		communities:   communities,
		memberships:   memberships,
		log:           logger,
	}
}

// step is one named unit of the provisioning sequence. Steps run in
// order; a failure is recorded against the step name and the sequence
// continues.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// CreateOrganization creates the organization document, attaches the
// creator as leader, then builds the welcoming community (public), the
// leadership community (private) and the seed communities, attaching the
// creator as leader of each. Only the organization insert can fail the
// call; everything after is best effort.
func (o *Orchestrator) CreateOrganization(ctx context.Context, name, description string, creatorUserID primitive.ObjectID) (models.Organization, error) {
	org, err := o.organizations.Create(ctx, models.Organization{
		Name:        name,
		Description: description,
		CreatedBy:   creatorUserID,
	})
	if err != nil {
		return models.Organization{}, err
	}
	log := o.log.With(zap.String("org_id", org.ID.Hex()))

	steps := []step{
		{"attach creator to organization", func(ctx context.Context) error {
			_, err := o.memberships.AddOrganizationMembership(ctx, creatorUserID, org.ID, models.RoleLeader)
			return err
		}},
		{"create welcoming community", func(ctx context.Context) error {
			c, err := o.seedCommunity(ctx, org.ID, creatorUserID, WelcomingCommunityName, models.VisibilityPublic)
			if err != nil {
				return err
			}
			if err := o.organizations.SetWelcomingCommunity(ctx, org.ID, c.ID); err != nil {
				return err
			}
			org.WelcomingCommunityID = &c.ID
			return nil
		}},
		{"create leadership community", func(ctx context.Context) error {
			c, err := o.seedCommunity(ctx, org.ID, creatorUserID, LeadershipCommunityName, models.VisibilityPrivate)
			if err != nil {
				return err
			}
			if err := o.organizations.SetLeadershipCommunity(ctx, org.ID, c.ID); err != nil {
				return err
			}
			org.LeadershipCommunityID = &c.ID
			return nil
		}},
	}
	for _, n := range SeedCommunityNames {
		name := n
		steps = append(steps, step{"create seed community " + name, func(ctx context.Context) error {
			_, err := o.seedCommunity(ctx, org.ID, creatorUserID, name, models.VisibilityPublic)
			return err
		}})
	}

	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			log.Error("provisioning step failed; continuing",
				zap.String("step", st.name), zap.Error(err))
		}
	}
	return org, nil
}

// seedCommunity creates one community under the organization and makes
// the creator its leader. notify is off: there is nobody to tell on a
// freshly bootstrapped organization.
func (o *Orchestrator) seedCommunity(ctx context.Context, orgID, creatorUserID primitive.ObjectID, name, visibility string) (models.Community, error) {
	c, err := o.communities.Create(ctx, models.Community{
		Name:           name,
		Visibility:     visibility,
		CreatedBy:      creatorUserID,
		OrganizationID: orgID,
	})
	if err != nil {
		return models.Community{}, err
	}
	if _, err := o.memberships.AddCommunityMembership(ctx, creatorUserID, c.ID, models.RoleLeader, false); err != nil {
		// The community exists; the missing leader membership is the
		// inspectable partial state provisioning accepts.
		o.log.Error("seed community leader attachment failed",
			zap.String("community_id", c.ID.Hex()), zap.Error(err))
	}
	return c, nil
}

// SetWelcomingCommunity repoints the organization's welcoming community.
// The target must belong to the organization.
func (o *Orchestrator) SetWelcomingCommunity(ctx context.Context, orgID, communityID primitive.ObjectID) error {
	if err := o.validatePointerTarget(ctx, orgID, communityID); err != nil {
		return err
	}
	if err := o.organizations.SetWelcomingCommunity(ctx, orgID, communityID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: organization %s", faults.ErrNotFound, orgID.Hex())
		}
		return err
	}
	return nil
}

// SetLeadershipCommunity repoints the organization's leadership
// community. The target must belong to the organization.
func (o *Orchestrator) SetLeadershipCommunity(ctx context.Context, orgID, communityID primitive.ObjectID) error {
	if err := o.validatePointerTarget(ctx, orgID, communityID); err != nil {
		return err
	}
	if err := o.organizations.SetLeadershipCommunity(ctx, orgID, communityID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: organization %s", faults.ErrNotFound, orgID.Hex())
		}
		return err
	}
	return nil
}

// validatePointerTarget enforces community.organization_id == orgID so a
// welcoming/leadership pointer can never cross organizations.
func (o *Orchestrator) validatePointerTarget(ctx context.Context, orgID, communityID primitive.ObjectID) error {
	c, err := o.communities.GetByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: community %s", faults.ErrInvalidReference, communityID.Hex())
		}
		return err
	}
	if c.OrganizationID != orgID {
		return fmt.Errorf("%w: community %s belongs to organization %s, not %s",
			faults.ErrInvalidReference, communityID.Hex(), c.OrganizationID.Hex(), orgID.Hex())
	}
	return nil
}
