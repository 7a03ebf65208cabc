// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCommunities(ctx, db); err != nil {
		problems = append(problems, "communities: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}
	if err := ensureComments(ctx, db); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureReports(ctx, db); err != nil {
		problems = append(problems, "reports: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func named(name string) *options.IndexOptions {
	return options.Index().SetName(name)
}

func uniqueNamed(name string) *options.IndexOptions {
	return options.Index().SetName(name).SetUnique(true)
}

// ensureIndexSet creates each index, tolerating "already exists" style
// conflicts so repeated startups are clean.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Info("index exists with different options; leaving as-is",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: uniqueNamed("ux_users_email_ci")},
		{Keys: bson.D{{Key: "community_ids", Value: 1}}, Options: named("ix_users_community_ids")},
		{Keys: bson.D{{Key: "bookmarked_post_ids", Value: 1}}, Options: named("ix_users_bookmarked_post_ids")},
	})
}

func ensureCommunities(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("communities"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: uniqueNamed("ux_communities_name_ci")},
		{Keys: bson.D{{Key: "member_ids", Value: 1}}, Options: named("ix_communities_member_ids")},
		{Keys: bson.D{{Key: "pending_member_ids", Value: 1}}, Options: named("ix_communities_pending_member_ids")},
	})
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("posts"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "_id", Value: -1}}, Options: named("ix_posts_community_recent")},
		{Keys: bson.D{{Key: "author_id", Value: 1}}, Options: named("ix_posts_author")},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("comments"), []mongo.IndexModel{
		// The delete cascade's first step is DeleteMany on this key.
		{Keys: bson.D{{Key: "post_id", Value: 1}}, Options: named("ix_comments_post")},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("events"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "starts_at", Value: 1}}, Options: named("ix_events_community_start")},
	})
}

func ensureReports(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("reports"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: 1}}, Options: named("ix_reports_status_queue")},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("notifications"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: -1}}, Options: named("ix_notifications_user_recent")},
	})
}
