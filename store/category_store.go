package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/netmovies/netmovies-server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoCategoryStore implements CategoryStore over the categories collection.
type MongoCategoryStore struct {
	coll *mongo.Collection
}

func NewMongoCategoryStore(coll *mongo.Collection) *MongoCategoryStore {
	return &MongoCategoryStore{coll: coll}
}

func (s *MongoCategoryStore) FindAll(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

func (s *MongoCategoryStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var category models.Category
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

func (s *MongoCategoryStore) Insert(ctx context.Context, category *models.Category) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.coll.InsertOne(ctx, category)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		category.ID = id
	}
	return nil
}

func (s *MongoCategoryStore) Save(ctx context.Context, category *models.Category) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *MongoCategoryStore) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
