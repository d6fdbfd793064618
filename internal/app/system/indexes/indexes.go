// internal/app/system/indexes/indexes.go
//
// Package indexes declares every MongoDB index the application relies on
// and ensures them at startup. Uniqueness rules the stores depend on
// (subject code, user email, bookmark tuple) live here.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates all required indexes. Safe to run on every startup;
// existing matching indexes are left alone.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	sets := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "subjects",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "code_ci", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("uniq_code_ci"),
				},
				{
					Keys:    bson.D{{Key: "created_by", Value: 1}},
					Options: options.Index().SetName("by_owner"),
				},
				{
					Keys:    bson.D{{Key: "units.materials._id", Value: 1}},
					Options: options.Index().SetName("by_material_id"),
				},
			},
		},
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email_ci", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("uniq_email_ci"),
				},
				{
					Keys:    bson.D{{Key: "role", Value: 1}},
					Options: options.Index().SetName("by_role"),
				},
			},
		},
		{
			collection: "bookmarks",
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "student_id", Value: 1},
						{Key: "subject_id", Value: 1},
						{Key: "unit_id", Value: 1},
						{Key: "material_id", Value: 1},
					},
					Options: options.Index().SetUnique(true).SetName("uniq_bookmark_tuple"),
				},
				{
					Keys: bson.D{
						{Key: "student_id", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("by_student_recency"),
				},
			},
		},
		{
			collection: "material_requests",
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "status", Value: 1},
						{Key: "subject_id", Value: 1},
					},
					Options: options.Index().SetName("by_status_subject"),
				},
				{
					Keys: bson.D{
						{Key: "student_id", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("by_student_recency"),
				},
			},
		},
		{
			collection: "activity_events",
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "actor_id", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("by_actor_recency"),
				},
				{
					Keys:    bson.D{{Key: "created_at", Value: -1}},
					Options: options.Index().SetName("by_recency"),
				},
			},
		},
	}

	for _, set := range sets {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", set.collection, err)
		}
		logger.Debug("indexes ensured",
			zap.String("collection", set.collection),
			zap.Int("count", len(set.models)))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, c *mongo.Collection, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := c.Indexes().CreateMany(ctx, models)
	return err
}
