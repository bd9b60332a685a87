package planRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coachhub/models"
	"coachhub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMealRepo implements MealRepository using MongoDB. Categories and
// options live embedded in their meal document.
type MongoMealRepo struct {
	coll *mongo.Collection
}

// NewMongoMealRepo creates a new instance of MealRepository using MongoDB.
func NewMongoMealRepo(db *mongo.Database) *MongoMealRepo {
	return &MongoMealRepo{coll: db.Collection("meals")}
}

// Create inserts a new meal document.
func (r *MongoMealRepo) Create(ctx context.Context, meal *models.Meal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	if meal.Categories == nil {
		meal.Categories = []models.MealCategory{}
	}

	if _, err := r.coll.InsertOne(ctx, meal); err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

// GetByID retrieves a meal by its ID.
func (r *MongoMealRepo) GetByID(ctx context.Context, id string) (*models.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var meal models.Meal
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&meal); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch meal %s: %w", id, err)
	}
	return &meal, nil
}

// ListByPlan returns a plan's meals in creation order.
func (r *MongoMealRepo) ListByPlan(ctx context.Context, planID, dayID string) ([]models.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"planId": planID}
	if dayID != "" {
		filter["dayId"] = dayID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals for plan %s: %w", planID, err)
	}
	defer cursor.Close(ctx)

	meals := []models.Meal{}
	if err := cursor.All(ctx, &meals); err != nil {
		return nil, fmt.Errorf("failed to decode meals: %w", err)
	}
	return meals, nil
}

func (r *MongoMealRepo) updateOne(ctx context.Context, id string, update bson.M, opts ...*options.UpdateOptions) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update, opts...)
	if err != nil {
		return fmt.Errorf("failed to update meal %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
	}
	return nil
}

// Replace overwrites a meal document.
func (r *MongoMealRepo) Replace(ctx context.Context, meal *models.Meal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	meal.UpdatedAt = time.Now().UTC()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": meal.ID}, meal)
	if err != nil {
		return fmt.Errorf("failed to replace meal %s: %w", meal.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("meal %s: %w", meal.ID, utils.ErrNotFound)
	}
	return nil
}

// Delete removes a meal by its ID.
func (r *MongoMealRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete meal %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
	}
	return nil
}

// DeleteByPlan removes every meal of a plan.
func (r *MongoMealRepo) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{"planId": planID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete meals of plan %s: %w", planID, err)
	}
	return result.DeletedCount, nil
}

// SetCompletion updates isCompleted and completedAt. A nil at clears the timestamp.
func (r *MongoMealRepo) SetCompletion(ctx context.Context, id string, done bool, at *time.Time) error {
	update := bson.M{
		"$set": bson.M{"isCompleted": done, "updatedAt": time.Now().UTC()},
	}
	if at != nil {
		update["$set"].(bson.M)["completedAt"] = *at
	} else {
		update["$unset"] = bson.M{"completedAt": ""}
	}
	return r.updateOne(ctx, id, update)
}

// SetOptionSelected flips one option's selected flag using array filters.
func (r *MongoMealRepo) SetOptionSelected(ctx context.Context, id, category, option string, selected bool) error {
	update := bson.M{"$set": bson.M{
		"categories.$[c].options.$[o].selected": selected,
		"updatedAt":                             time.Now().UTC(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
		bson.M{"c.name": category},
		bson.M{"o.name": option},
	}})
	return r.updateOne(ctx, id, update, opts)
}

// CompletionStats counts total and completed meals matching q.
func (r *MongoMealRepo) CompletionStats(ctx context.Context, q MealStatsQuery) (models.CompletionStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	match := bson.M{}
	if len(q.ClientIDs) > 0 {
		match["clientId"] = bson.M{"$in": q.ClientIDs}
	}
	if q.PlanID != "" {
		match["planId"] = q.PlanID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "completed", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{completedIn(q.From, q.To), 1, 0}},
			}}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.CompletionStats{}, fmt.Errorf("failed to aggregate meal completion: %w", err)
	}
	defer cursor.Close(ctx)

	var stats models.CompletionStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.CompletionStats{}, fmt.Errorf("failed to decode meal completion: %w", err)
		}
	}
	return stats, cursor.Err()
}

// completedIn is the aggregation condition for a meal completed within [from, to).
func completedIn(from, to time.Time) interface{} {
	conds := bson.A{"$isCompleted"}
	if !from.IsZero() {
		conds = append(conds, bson.D{{Key: "$gte", Value: bson.A{"$completedAt", from}}})
	}
	if !to.IsZero() {
		conds = append(conds, bson.D{{Key: "$lt", Value: bson.A{"$completedAt", to}}})
	}
	if len(conds) == 1 {
		return "$isCompleted"
	}
	return bson.D{{Key: "$and", Value: conds}}
}

// CompletedBetween returns the client's meals completed in [from, to).
func (r *MongoMealRepo) CompletedBetween(ctx context.Context, clientID string, from, to time.Time) ([]models.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"clientId":    clientID,
		"isCompleted": true,
		"completedAt": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed meals for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	meals := []models.Meal{}
	if err := cursor.All(ctx, &meals); err != nil {
		return nil, fmt.Errorf("failed to decode completed meals: %w", err)
	}
	return meals, nil
}
