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

// MongoPlanRepo implements PlanRepository using MongoDB.
type MongoPlanRepo struct {
	coll *mongo.Collection
}

// NewMongoPlanRepo creates a new instance of PlanRepository using MongoDB.
func NewMongoPlanRepo(db *mongo.Database) *MongoPlanRepo {
	return &MongoPlanRepo{coll: db.Collection("plans")}
}

// Create inserts a new plan document.
func (r *MongoPlanRepo) Create(ctx context.Context, plan *models.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan by its ID.
func (r *MongoPlanRepo) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var plan models.Plan
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("plan %s: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch plan %s: %w", id, err)
	}
	return &plan, nil
}

// ListByClient returns the client's plans, newest start date first.
func (r *MongoPlanRepo) ListByClient(ctx context.Context, clientID string) ([]models.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	plans := []models.Plan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	return plans, nil
}

// Active returns the most recently started plan, or ErrNotFound.
func (r *MongoPlanRepo) Active(ctx context.Context, clientID string, now time.Time) (*models.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"clientId": clientID, "startDate": bson.M{"$lte": now}}
	opts := options.FindOne().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})

	var plan models.Plan
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("active plan for client %s: %w", clientID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch active plan for client %s: %w", clientID, err)
	}
	return &plan, nil
}

// Replace overwrites a plan document.
func (r *MongoPlanRepo) Replace(ctx context.Context, plan *models.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	plan.UpdatedAt = time.Now().UTC()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": plan.ID}, plan)
	if err != nil {
		return fmt.Errorf("failed to update plan %s: %w", plan.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("plan %s: %w", plan.ID, utils.ErrNotFound)
	}
	return nil
}

// Delete removes a plan document by its ID.
func (r *MongoPlanRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("plan %s: %w", id, utils.ErrNotFound)
	}
	return nil
}
