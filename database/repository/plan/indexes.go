package planRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the plan collection indexes.
func (r *MongoPlanRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startDate", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create plan indexes: %w", err)
	}
	return nil
}

// EnsureIndexes creates the meal collection indexes.
func (r *MongoMealRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "planId", Value: 1}, {Key: "dayId", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "completedAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create meal indexes: %w", err)
	}
	return nil
}
