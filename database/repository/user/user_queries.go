// File: database/repository/user/user_queries.go
package userRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"coachhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// clientFilter builds the Mongo filter selecting a doctor's clients.
func clientFilter(doctorID string, f models.ClientFilter) bson.M {
	filter := bson.M{
		"role":            models.RoleClient,
		"client.doctorId": doctorID,
	}
	if f.Status != "" {
		filter["client.status"] = f.Status
	}
	if f.Tag != "" {
		filter["client.tags"] = f.Tag
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"email": pattern},
		}
	}
	return filter
}

// clientSort maps a sort key onto a Mongo sort document. Unknown keys sort by name.
func clientSort(key string) bson.D {
	switch key {
	case "-name":
		return bson.D{{Key: "name", Value: -1}}
	case "recent":
		return bson.D{{Key: "client.lastCheckIn", Value: -1}, {Key: "name", Value: 1}}
	case "newest":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "name", Value: 1}}
	}
}

// ListClients returns the doctor's clients matching f.
func (r *MongoUserRepo) ListClients(ctx context.Context, doctorID string, f models.ClientFilter) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(clientSort(f.Sort)).
		SetProjection(bson.M{"passwordHash": 0, "devices": 0})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Offset > 0 {
		opts.SetSkip(f.Offset)
	}

	cursor, err := r.coll.Find(ctx, clientFilter(doctorID, f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients for doctor %s: %w", doctorID, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	return users, nil
}

// ListClientIDs returns the IDs of the doctor's clients.
func (r *MongoUserRepo) ListClientIDs(ctx context.Context, doctorID string, status models.ClientStatus) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1})
	cursor, err := r.coll.Find(ctx, clientFilter(doctorID, models.ClientFilter{Status: status}), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list client ids for doctor %s: %w", doctorID, err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var u struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode client id: %w", err)
		}
		ids = append(ids, u.ID)
	}
	return ids, cursor.Err()
}

// CountClients counts the doctor's clients.
func (r *MongoUserRepo) CountClients(ctx context.Context, doctorID string, status models.ClientStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, clientFilter(doctorID, models.ClientFilter{Status: status}))
	if err != nil {
		return 0, fmt.Errorf("failed to count clients for doctor %s: %w", doctorID, err)
	}
	return n, nil
}
