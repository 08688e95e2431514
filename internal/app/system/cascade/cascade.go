// internal/app/system/cascade/cascade.go

// Package cascade propagates deletes across dependent documents by hand,
// since the store has no referential integrity. The step order inside
// each delete is load-bearing: dependents and their user references go
// first, so a crash mid-sequence leaves at worst dangling communities
// pointing at a dead organization, never users referencing documents
// that no longer exist while the parent still looks alive.
package cascade

import (
	"context"
	"errors"
	"fmt"

	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	organizationstore "github.com/dforrest/communityhub/internal/app/store/organizations"
	"github.com/dforrest/communityhub/internal/app/system/faults"
	"github.com/dforrest/communityhub/internal/app/system/membership"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Manager performs cascading deletes.
type Manager struct {
	organizations *organizationstore.Store
	communities   *communitystore.Store
	memberships   *membership.Service
	collector     *metrics.Collector
	log           *zap.Logger
}

// New builds a Manager.
func New(organizations *organizationstore.Store, communities *communitystore.Store, memberships *membership.Service, collector *metrics.Collector, logger *zap.Logger) *Manager {
	return &Manager{
		organizations: organizations,
		communities:   communities,
		memberships:   memberships,
		collector:     collector,
		log:           logger,
	}
}

// DeleteOrganization removes the organization, all of its communities,
// and every user reference to either. Sequence: delete community
// documents → strip community refs → strip org refs → delete the org
// document. Not parallelizable without losing the crash-ordering
// property described in the package comment.
func (m *Manager) DeleteOrganization(ctx context.Context, orgID primitive.ObjectID) error {
	if _, err := m.organizations.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: organization %s", faults.ErrNotFound, orgID.Hex())
		}
		return err
	}

	communities, err := m.communities.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	communityIDs := make([]primitive.ObjectID, len(communities))
	for i, c := range communities {
		communityIDs[i] = c.ID
	}

	deleted, err := m.communities.DeleteByIDs(ctx, communityIDs)
	if err != nil {
		return err
	}
	strippedCommunities, err := m.memberships.StripCommunityRefs(ctx, communityIDs)
	if err != nil {
		return err
	}
	strippedOrgs, err := m.memberships.StripOrgRefs(ctx, []primitive.ObjectID{orgID})
	if err != nil {
		return err
	}
	if _, err := m.organizations.Delete(ctx, orgID); err != nil {
		return err
	}

	m.collector.RecordOrgCascade()
	m.log.Info("organization cascade complete",
		zap.String("org_id", orgID.Hex()),
		zap.Int64("communities_deleted", deleted),
		zap.Int64("users_stripped_of_communities", strippedCommunities),
		zap.Int64("users_stripped_of_org", strippedOrgs))
	return nil
}

// DeleteCommunity removes one community: strip user references, delete
// the document, then clear any welcoming/leadership pointer on the
// parent organization that referenced it. The parent organization
// itself is untouched.
func (m *Manager) DeleteCommunity(ctx context.Context, communityID primitive.ObjectID) error {
	if _, err := m.communities.GetByID(ctx, communityID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: community %s", faults.ErrNotFound, communityID.Hex())
		}
		return err
	}

	stripped, err := m.memberships.StripCommunityRefs(ctx, []primitive.ObjectID{communityID})
	if err != nil {
		return err
	}
	if _, err := m.communities.Delete(ctx, communityID); err != nil {
		return err
	}
	if err := m.organizations.ClearCommunityPointers(ctx, communityID); err != nil {
		// The community is gone; a stale pointer is repairable, so log
		// rather than fail the delete.
		m.log.Error("clearing organization pointers failed",
			zap.String("community_id", communityID.Hex()), zap.Error(err))
	}

	m.collector.RecordCommunityCascade()
	m.log.Info("community cascade complete",
		zap.String("community_id", communityID.Hex()),
		zap.Int64("users_stripped", stripped))
	return nil
}
