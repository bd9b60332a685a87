package userRepo

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

const collectionName = "users"

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(collectionName)}
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with email %s: %w", user.Email, utils.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", what, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", what, err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id}, id)
}

// GetByEmail retrieves a user by its email address.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *MongoUserRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, utils.ErrNotFound)
	}
	return nil
}

// UpdateFields applies set to the user and bumps updatedAt.
func (r *MongoUserRepo) UpdateFields(ctx context.Context, id string, set bson.M) error {
	doc := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		doc[k] = v
	}
	return r.updateOne(ctx, id, bson.M{"$set": doc})
}

// UpsertDevice drops any previous entry for the device, then appends the new one.
func (r *MongoUserRepo) UpsertDevice(ctx context.Context, userID string, device models.Device) error {
	if err := r.RemoveDevice(ctx, userID, device.DeviceID); err != nil {
		return err
	}
	return r.updateOne(ctx, userID, bson.M{"$push": bson.M{"devices": device}})
}

// RemoveDevice pulls the device from the user's device list.
func (r *MongoUserRepo) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	return r.updateOne(ctx, userID, bson.M{"$pull": bson.M{"devices": bson.M{"deviceId": deviceID}}})
}

// GetDeviceTokenHash returns the token hash stored for a device.
func (r *MongoUserRepo) GetDeviceTokenHash(ctx context.Context, userID, deviceID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"id": 1, "devices": 1})
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": userID}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", fmt.Errorf("user %s: %w", userID, utils.ErrNotFound)
		}
		return "", fmt.Errorf("failed to fetch devices for user %s: %w", userID, err)
	}
	for _, d := range user.Devices {
		if d.DeviceID == deviceID {
			return d.TokenHash, nil
		}
	}
	return "", nil
}

// SetLastCheckIn records the time of the client's latest check-in.
func (r *MongoUserRepo) SetLastCheckIn(ctx context.Context, clientID string, at time.Time) error {
	return r.updateOne(ctx, clientID, bson.M{"$max": bson.M{"client.lastCheckIn": at}})
}
