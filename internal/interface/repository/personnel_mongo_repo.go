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

// MongoPersonnelRepository implements PersonnelRepository on MongoDB
type MongoPersonnelRepository struct {
	collection *mongo.Collection
}

var _ repository.PersonnelRepository = (*MongoPersonnelRepository)(nil)

// NewMongoPersonnelRepository creates a new MongoDB personnel repository
func NewMongoPersonnelRepository(db *mongo.Database) *MongoPersonnelRepository {
	collection := db.Collection("personnel")

	// Index for the active list sorted by name
	ctx := context.Background()
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "name", Value: 1}},
	})

	return &MongoPersonnelRepository{
		collection: collection,
	}
}

func mapPersonError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, entity.ErrPersonNotFound)
	}
	return entity.NewStorageError(op, err)
}

// FindByID finds a person by id
func (r *MongoPersonnelRepository) FindByID(ctx context.Context, id string) (*entity.Personnel, error) {
	var person entity.Personnel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&person)
	if err != nil {
		return nil, mapPersonError("find person "+id, err)
	}
	return &person, nil
}

// FindByIDs finds all known persons among ids
func (r *MongoPersonnelRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Personnel, error) {
	result := make(map[string]*entity.Personnel, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, entity.NewStorageError("find personnel", err)
	}
	defer cursor.Close(ctx)

	var people []*entity.Personnel
	if err := cursor.All(ctx, &people); err != nil {
		return nil, entity.NewStorageError("decode personnel", err)
	}
	for _, person := range people {
		result[person.ID] = person
	}
	return result, nil
}

// ListActive returns active persons sorted by name
func (r *MongoPersonnelRepository) ListActive(ctx context.Context) ([]*entity.Personnel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, entity.NewStorageError("list personnel", err)
	}
	defer cursor.Close(ctx)

	people := make([]*entity.Personnel, 0)
	if err := cursor.All(ctx, &people); err != nil {
		return nil, entity.NewStorageError("decode personnel", err)
	}
	return people, nil
}

// Create saves a new active person
func (r *MongoPersonnelRepository) Create(ctx context.Context, person *entity.Personnel) error {
	now := time.Now()
	if person.ID == "" {
		person.ID = primitive.NewObjectID().Hex()
	}
	person.IsActive = true
	person.CreatedAt = now
	person.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, person)
	if err != nil {
		return entity.NewStorageError("create person", err)
	}
	return nil
}

// Update replaces the editable fields of a person
func (r *MongoPersonnelRepository) Update(ctx context.Context, person *entity.Personnel) error {
	set := bson.M{
		"name":        person.Name,
		"role":        person.Role,
		"description": person.Description,
		"updatedAt":   time.Now(),
	}
	if person.Photo != "" {
		set["photo"] = person.Photo
	}

	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": person.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(person)
	if err != nil {
		return mapPersonError("update person "+person.ID, err)
	}
	return nil
}

// Delete deactivates (soft) or removes (hard) a person
func (r *MongoPersonnelRepository) Delete(ctx context.Context, id string, mode entity.DeleteMode) error {
	if mode == entity.DeleteHard {
		result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return entity.NewStorageError("delete person "+id, err)
		}
		if result.DeletedCount == 0 {
			return fmt.Errorf("delete person %s: %w", id, entity.ErrPersonNotFound)
		}
		return nil
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return entity.NewStorageError("deactivate person "+id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("deactivate person %s: %w", id, entity.ErrPersonNotFound)
	}
	return nil
}
