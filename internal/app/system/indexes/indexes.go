// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}
	if err := ensureCommunities(ctx, db); err != nil {
		problems = append(problems, "communities: "+err.Error())
	}
	if err := ensureInvites(ctx, db); err != nil {
		problems = append(problems, "invites: "+err.Error())
	}
	if err := ensureDeadLetters(ctx, db); err != nil {
		problems = append(problems, "notification_deadletters: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetName("uniq_external_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("by_full_name_ci"),
		},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("organizations"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
	})
}

func ensureCommunities(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("communities"), []mongo.IndexModel{
		{
			// Unique per organization, not globally: two organizations
			// can both have a "Welcoming" community.
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_org_name_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}},
			Options: options.Index().SetName("by_organization"),
		},
	})
}

func ensureInvites(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("invites"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("by_phone"),
		},
	})
}

func ensureDeadLetters(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("notification_deadletters"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "community_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_community_recent"),
		},
	})
}

// createAll creates each index, tolerating "already exists" responses so
// repeated startups are clean. Conflicting definitions (same keys,
// different options) are dropped and recreated.
func createAll(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		start := time.Now()

		_, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil && isOptionsConflictErr(err) && name != "" {
			zap.L().Info("index options conflict; recreating",
				zap.String("collection", coll.Name()),
				zap.String("name", name))
			if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr == nil {
				_, err = coll.Indexes().CreateOne(ctx, m)
			}
		}
		if err != nil {
			zap.L().Warn("create index failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.Error(err))
			errs = append(errs, coll.Name()+"("+name+"): "+err.Error())
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("took", time.Since(start).String()))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with
// the same keys already exists under a different name or options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") ||
		strings.Contains(err.Error(), "IndexKeySpecsConflict")
}
