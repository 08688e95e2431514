// internal/app/system/notify/fanout.go

// Package notify computes eligible recipients for membership events and
// dispatches one batched message per event. Everything here is best
// effort: a notification failure must never surface to the membership
// write that triggered it.
package notify

import (
	"context"
	"fmt"

	communitystore "github.com/dforrest/communityhub/internal/app/store/communities"
	deadletterstore "github.com/dforrest/communityhub/internal/app/store/deadletters"
	userstore "github.com/dforrest/communityhub/internal/app/store/users"
	"github.com/dforrest/communityhub/internal/app/system/metrics"
	"github.com/dforrest/communityhub/internal/app/system/normalize"
	"github.com/dforrest/communityhub/internal/app/system/sms"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier fans membership events out to eligible community members.
type Notifier struct {
	users       *userstore.Store
	communities *communitystore.Store
	deadletters *deadletterstore.Store
	sender      sms.Sender
	collector   *metrics.Collector
	baseURL     string
	log         *zap.Logger
}

// New builds a Notifier. baseURL is used for deep links in message bodies.
func New(users *userstore.Store, communities *communitystore.Store, deadletters *deadletterstore.Store, sender sms.Sender, collector *metrics.Collector, baseURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		users:       users,
		communities: communities,
		deadletters: deadletters,
		sender:      sender,
		collector:   collector,
		baseURL:     baseURL,
		log:         logger,
	}
}

// NotifyCommunityOfNewMember tells the community's members (minus the
// new member) that someone joined. Settings and phone numbers are read
// fresh from the member documents at dispatch time. Errors are logged
// and swallowed; failed batches land in the dead-letter collection.
func (n *Notifier) NotifyCommunityOfNewMember(ctx context.Context, communityID primitive.ObjectID, newMember *models.User, excludeUserID primitive.ObjectID) {
	community, err := n.communities.GetByID(ctx, communityID)
	if err != nil {
		n.log.Warn("fan-out: community lookup failed",
			zap.String("community_id", communityID.Hex()), zap.Error(err))
		return
	}

	members, err := n.users.ListByCommunity(ctx, communityID)
	if err != nil {
		n.log.Warn("fan-out: member query failed",
			zap.String("community_id", communityID.Hex()), zap.Error(err))
		return
	}

	recipients := make([]string, 0, len(members))
	for i := range members {
		m := &members[i]
		if m.ID == excludeUserID {
			continue
		}
		if !m.Settings.NotifyOnNewMemberInCommunity() {
			continue
		}
		if !normalize.ValidPhone(m.Phone) {
			continue
		}
		recipients = append(recipients, m.Phone)
	}
	if len(recipients) == 0 {
		n.log.Debug("fan-out: no eligible recipients",
			zap.String("community_id", communityID.Hex()))
		return
	}

	body := newMemberBody(newMember.FullName(), community.Name, n.deepLink(communityID))
	if err := n.sender.SendBatch(ctx, recipients, body); err != nil {
		n.collector.RecordFanoutFailure()
		n.log.Error("fan-out: batch send failed",
			zap.String("community_id", communityID.Hex()),
			zap.Int("recipients", len(recipients)),
			zap.Error(err))
		if dlErr := n.deadletters.Record(ctx, models.NotificationDeadLetter{
			CommunityID: communityID,
			Recipients:  recipients,
			Body:        body,
			Error:       err.Error(),
		}); dlErr != nil {
			n.log.Error("fan-out: dead-letter write failed", zap.Error(dlErr))
		}
		return
	}

	n.collector.RecordFanoutSent()
	n.log.Info("fan-out: batch sent",
		zap.String("community_id", communityID.Hex()),
		zap.Int("recipients", len(recipients)))
}

func (n *Notifier) deepLink(communityID primitive.ObjectID) string {
	return n.baseURL + "/communities/" + communityID.Hex()
}

func newMemberBody(memberName, communityName, link string) string {
	return fmt.Sprintf("%s just joined %s. Say hello: %s", memberName, communityName, link)
}
