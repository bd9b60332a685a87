package checkinRepo

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

// MongoCheckInRepo implements CheckInRepository using MongoDB.
type MongoCheckInRepo struct {
	coll *mongo.Collection
}

// NewMongoCheckInRepo creates a new instance of CheckInRepository using MongoDB.
func NewMongoCheckInRepo(db *mongo.Database) *MongoCheckInRepo {
	return &MongoCheckInRepo{coll: db.Collection("checkins")}
}

func dateRange(from, to time.Time) bson.M {
	r := bson.M{}
	if !from.IsZero() {
		r["$gte"] = from
	}
	if !to.IsZero() {
		r["$lt"] = to
	}
	return r
}

// Create inserts a new check-in document.
func (r *MongoCheckInRepo) Create(ctx context.Context, checkIn *models.CheckIn) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	checkIn.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, checkIn); err != nil {
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}

// List returns the client's check-ins ordered by date.
func (r *MongoCheckInRepo) List(ctx context.Context, clientID string, from, to time.Time) ([]models.CheckIn, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"clientId": clientID}
	if dr := dateRange(from, to); len(dr) > 0 {
		filter["date"] = dr
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	out := []models.CheckIn{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode check-ins: %w", err)
	}
	return out, nil
}

// Latest returns the client's most recent check-in.
func (r *MongoCheckInRepo) Latest(ctx context.Context, clientID string) (*models.CheckIn, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	var c models.CheckIn
	if err := r.coll.FindOne(ctx, bson.M{"clientId": clientID}, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("latest check-in of %s: %w", clientID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch latest check-in of %s: %w", clientID, err)
	}
	return &c, nil
}

// CountForDoctor counts check-ins submitted to the doctor in [from, to).
func (r *MongoCheckInRepo) CountForDoctor(ctx context.Context, doctorID string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctorId": doctorID}
	if dr := dateRange(from, to); len(dr) > 0 {
		filter["date"] = dr
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count check-ins for doctor %s: %w", doctorID, err)
	}
	return n, nil
}

// EnsureIndexes creates the check-in collection indexes.
func (r *MongoCheckInRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create check-in indexes: %w", err)
	}
	return nil
}
