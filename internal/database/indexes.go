package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureIndexes creates the indexes the query paths depend on. Index
// creation is idempotent, so this runs on every startup in place of a
// migration step.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	products := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		// Compound index for the common category + newest listing
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if err := createIndexes(ctx, db.Collection(CollectionProducts), products); err != nil {
		return fmt.Errorf("products indexes: %w", err)
	}

	categories := []mongo.IndexModel{
		// (name, parentId) is the uniqueness scope: sibling categories may
		// not share a name, categories under different parents may.
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "parentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if err := createIndexes(ctx, db.Collection(CollectionCategories), categories); err != nil {
		return fmt.Errorf("categories indexes: %w", err)
	}

	orders := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if err := createIndexes(ctx, db.Collection(CollectionOrders), orders); err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}

	admins := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if err := createIndexes(ctx, db.Collection(CollectionAdmins), admins); err != nil {
		return fmt.Errorf("admins indexes: %w", err)
	}

	logger.Info("Database indexes ensured")
	return nil
}

func createIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
