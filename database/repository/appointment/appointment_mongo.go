package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

const lockCollection = "appointment_locks"

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{coll: db.Collection("appointments")}
}

func queryFilter(q models.AppointmentQuery) bson.M {
	filter := bson.M{}
	if q.DoctorID != "" {
		filter["doctorId"] = q.DoctorID
	}
	if q.ClientID != "" {
		filter["clientId"] = q.ClientID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	startsAt := bson.M{}
	if !q.From.IsZero() {
		startsAt["$gte"] = q.From
	}
	if !q.To.IsZero() {
		startsAt["$lt"] = q.To
	}
	if len(startsAt) > 0 {
		filter["startsAt"] = startsAt
	}
	return filter
}

// Create inserts a new appointment document.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID.
func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("appointment %s: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

// List returns appointments matching q ordered by start time.
func (r *MongoAppointmentRepo) List(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, queryFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// Count counts appointments matching q.
func (r *MongoAppointmentRepo) Count(ctx context.Context, q models.AppointmentQuery) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, queryFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

// HasOverlap reports whether a scheduled appointment of the doctor intersects [start, end).
func (r *MongoAppointmentRepo) HasOverlap(ctx context.Context, doctorID string, start, end time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId": doctorID,
		"status":   models.AppointmentScheduled,
		"startsAt": bson.M{"$lt": end},
		"endsAt":   bson.M{"$gt": start},
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check appointment overlap: %w", err)
	}
	return n > 0, nil
}

// CreateIfFree runs the overlap check and the insert in one transaction. Every booking for a doctor
// also bumps that doctor's row in appointment_locks, so two concurrent bookings write-conflict and
// the retried one sees the other's appointment.
func (r *MongoAppointmentRepo) CreateIfFree(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	locks := r.coll.Database().Collection(lockCollection)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := locks.UpdateOne(sc,
			bson.M{"doctorId": appt.DoctorID},
			bson.M{"$inc": bson.M{"seq": 1}},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("lock doctor schedule: %w", err)
		}
		overlap, err := r.HasOverlap(sc, appt.DoctorID, appt.StartsAt, appt.EndsAt)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, fmt.Errorf("doctor %s is busy in this slot: %w", appt.DoctorID, utils.ErrConflict)
		}
		return nil, r.Create(sc, appt)
	})
	if err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return err
		}
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) set(ctx context.Context, filter bson.M, set bson.M) (*mongo.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment %v: %w", filter["id"], err)
	}
	return result, nil
}

// UpdateStatus moves the appointment from one status to another in a single guarded write.
func (r *MongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error {
	result, err := r.set(ctx, bson.M{"id": id, "status": from}, bson.M{"status": to})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s is not %s: %w", id, from, utils.ErrConflict)
	}
	return nil
}

// SetReminderID stores the id of the queued reminder task.
func (r *MongoAppointmentRepo) SetReminderID(ctx context.Context, id, reminderID string) error {
	result, err := r.set(ctx, bson.M{"id": id}, bson.M{"reminderId": reminderID})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s: %w", id, utils.ErrNotFound)
	}
	return nil
}

// EnsureIndexes creates the appointment collection indexes.
func (r *MongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "startsAt", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startsAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	_, err = r.coll.Database().Collection(lockCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "doctorId", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment lock index: %w", err)
	}
	return nil
}
