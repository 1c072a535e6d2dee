package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/netmovies/netmovies-server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoMovieStore implements MovieStore over the movies collection.
type MongoMovieStore struct {
	coll *mongo.Collection
}

func NewMongoMovieStore(coll *mongo.Collection) *MongoMovieStore {
	return &MongoMovieStore{coll: coll}
}

func (s *MongoMovieStore) List(ctx context.Context, filter MovieFilter) ([]models.Movie, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Time > 0 {
		query["time"] = filter.Time
	}
	if filter.Language != "" {
		query["language"] = filter.Language
	}
	if filter.Year > 0 {
		query["year"] = filter.Year
	}
	if filter.Rate > 0 {
		query["rate"] = filter.Rate
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * MoviePageSize

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(MoviePageSize)
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find movies: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, 0, fmt.Errorf("decode movies: %w", err)
	}
	return movies, total, nil
}

func (s *MongoMovieStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find movie by id: %w", err)
	}
	return &movie, nil
}

func (s *MongoMovieStore) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if len(ids) == 0 {
		return []models.Movie{}, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find movies by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return movies, nil
}

func (s *MongoMovieStore) TopRated(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "rate", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find top rated movies: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return movies, nil
}

func (s *MongoMovieStore) Random(ctx context.Context, size int) ([]models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample movies: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return movies, nil
}

func (s *MongoMovieStore) Insert(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	movie.Version = 1
	if movie.Reviews == nil {
		movie.Reviews = []models.Review{}
	}
	result, err := s.coll.InsertOne(ctx, movie)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		movie.ID = id
	}
	return nil
}

func (s *MongoMovieStore) InsertMany(ctx context.Context, movies []models.Movie) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	docs := make([]any, 0, len(movies))
	now := time.Now().UTC()
	for i := range movies {
		movies[i].CreatedAt = now
		movies[i].UpdatedAt = now
		movies[i].Version = 1
		docs = append(docs, movies[i])
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert movies: %w", err)
	}
	return nil
}

// Save replaces the whole movie document only if the stored version still
// matches the one this writer read. A mismatch means another request saved
// in between; callers re-read and retry.
func (s *MongoMovieStore) Save(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	readVersion := movie.Version
	movie.Version = readVersion + 1
	movie.UpdatedAt = time.Now().UTC()

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": movie.ID, "version": readVersion}, movie)
	if err != nil {
		movie.Version = readVersion
		return fmt.Errorf("save movie: %w", err)
	}
	if result.MatchedCount == 0 {
		movie.Version = readVersion
		return models.ErrVersionMismatch
	}
	return nil
}

func (s *MongoMovieStore) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *MongoMovieStore) DeleteAll(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete movies: %w", err)
	}
	return nil
}
