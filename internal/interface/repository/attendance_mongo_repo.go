package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// upsertAttempts bounds retries of an upsert that lost an insert race
const upsertAttempts = 2

// MongoAttendanceRepository implements AttendanceRepository on MongoDB
type MongoAttendanceRepository struct {
	collection *mongo.Collection
}

var _ repository.AttendanceRepository = (*MongoAttendanceRepository)(nil)

// NewMongoAttendanceRepository creates the repository and its indexes.
// The unique {personId, day} index is what makes UpsertArrival safe, so
// failing to build it is an error.
func NewMongoAttendanceRepository(ctx context.Context, db *mongo.Database) (*MongoAttendanceRepository, error) {
	collection := db.Collection("time_records")

	personDayIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "personId", Value: 1},
			{Key: "day", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("person_day_unique"),
	}

	// Index on day for the daily views
	dayIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "day", Value: 1}, {Key: "createdAt", Value: 1}},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{personDayIndex, dayIndex}); err != nil {
		return nil, fmt.Errorf("failed to create time_records indexes: %w", err)
	}

	return &MongoAttendanceRepository{
		collection: collection,
	}, nil
}

func mapMongoError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, entity.ErrRecordNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, entity.ErrConflict)
	default:
		return entity.NewStorageError(op, err)
	}
}

// FindByID finds a record by id
func (r *MongoAttendanceRepository) FindByID(ctx context.Context, id string) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		return nil, mapMongoError("find record "+id, err)
	}
	return &record, nil
}

// FindByPersonAndDay finds the record of a person on a day
func (r *MongoAttendanceRepository) FindByPersonAndDay(ctx context.Context, personID string, day time.Time) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := r.collection.FindOne(ctx, bson.M{"personId": personID, "day": day}).Decode(&record)
	if err != nil {
		return nil, mapMongoError("find record of "+personID, err)
	}
	return &record, nil
}

// Create inserts a new record
func (r *MongoAttendanceRepository) Create(ctx context.Context, record *entity.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return mapMongoError("create record", err)
}

// UpsertArrival creates the (personId, day) record or stamps a new arrival
// on it in a single findAndModify. Two concurrent upserts may both try the
// insert path; the unique index rejects one and the retry turns it into an update.
func (r *MongoAttendanceRepository) UpsertArrival(ctx context.Context, personID string, day, arrivalTime time.Time, remarks string) (*entity.AttendanceRecord, error) {
	filter := bson.M{"personId": personID, "day": day}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var err error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		set := bson.M{
			"arrivalTime":   arrivalTime,
			"departureTime": nil,
			"isPresent":     true,
			"updatedAt":     arrivalTime,
		}
		setOnInsert := bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"createdAt": arrivalTime,
		}
		if remarks != "" {
			set["remarks"] = remarks
		} else {
			setOnInsert["remarks"] = ""
		}

		var record entity.AttendanceRecord
		err = r.collection.FindOneAndUpdate(
			ctx,
			filter,
			bson.M{"$set": set, "$setOnInsert": setOnInsert},
			opts,
		).Decode(&record)
		if err == nil {
			return &record, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	return nil, mapMongoError("upsert arrival of "+personID, err)
}

// UpdateByID applies patch to a record. The ordering guard of an Ordered
// patch is part of the filter, so it is checked against the stored document.
func (r *MongoAttendanceRepository) UpdateByID(ctx context.Context, id string, patch entity.RecordPatch, updatedAt time.Time) (*entity.AttendanceRecord, error) {
	guard, ok := patch.Guard()
	if !ok {
		return nil, entity.NewOrderingError()
	}
	filter := bson.M{"_id": id}
	if guard.ArrivalAtMost != nil {
		filter["$or"] = bson.A{
			bson.M{"arrivalTime": nil},
			bson.M{"arrivalTime": bson.M{"$lte": *guard.ArrivalAtMost}},
		}
	}
	if guard.DepartureAtLeast != nil {
		filter["$or"] = bson.A{
			bson.M{"departureTime": nil},
			bson.M{"departureTime": bson.M{"$gte": *guard.DepartureAtLeast}},
		}
	}

	set := bson.M{"updatedAt": updatedAt}
	if patch.ArrivalTime != nil {
		set["arrivalTime"] = patch.ArrivalTime.Value
	}
	if patch.DepartureTime != nil {
		set["departureTime"] = patch.DepartureTime.Value
	}
	if patch.Remarks != nil {
		set["remarks"] = *patch.Remarks
	}

	var record entity.AttendanceRecord
	err := r.collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) && !guard.IsZero() {
		// the guard, not the id, may be what failed to match
		if _, findErr := r.FindByID(ctx, id); findErr == nil {
			return nil, fmt.Errorf("update record %s: %w", id, entity.NewOrderingError())
		}
	}
	if err != nil {
		return nil, mapMongoError("update record "+id, err)
	}
	return &record, nil
}

// DeleteByID removes a record
func (r *MongoAttendanceRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoError("delete record "+id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete record %s: %w", id, entity.ErrRecordNotFound)
	}
	return nil
}

// FindByDay returns the records of a day in creation order
func (r *MongoAttendanceRepository) FindByDay(ctx context.Context, day time.Time) ([]*entity.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	return r.find(ctx, "find records by day", bson.M{"day": day}, opts)
}

// FindByPersonAndRange returns a person's records within [start, end], newest first
func (r *MongoAttendanceRepository) FindByPersonAndRange(ctx context.Context, personID string, start, end *time.Time) ([]*entity.AttendanceRecord, error) {
	filter := bson.M{"personId": personID}
	dayRange := bson.M{}
	if start != nil {
		dayRange["$gte"] = *start
	}
	if end != nil {
		dayRange["$lte"] = *end
	}
	if len(dayRange) > 0 {
		filter["day"] = dayRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "day", Value: -1}})
	return r.find(ctx, "find records of "+personID, filter, opts)
}

func (r *MongoAttendanceRepository) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]*entity.AttendanceRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(op, err)
	}
	defer cursor.Close(ctx)

	records := make([]*entity.AttendanceRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, mapMongoError(op, err)
	}
	return records, nil
}
