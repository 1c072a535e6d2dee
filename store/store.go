// Package store wraps the MongoDB collections behind small interfaces so
// controllers and middleware can be exercised against in-memory fakes.
package store

import (
	"context"
	"time"

	"github.com/netmovies/netmovies-server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MoviePageSize is the fixed page length for catalog listings.
const MoviePageSize = 12

// opTimeout bounds a single Mongo operation so a stalled server cannot hold
// a request open indefinitely.
const opTimeout = 10 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// MovieFilter narrows a catalog listing. Zero values mean "no constraint".
type MovieFilter struct {
	Category string
	Time     int
	Language string
	Year     int
	Rate     float64
	Search   string
	Page     int
}

// UserStore is the persistence surface for accounts.
type UserStore interface {
	// FindByID resolves a user with the password hash excluded.
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	// FindByEmail resolves a user including the password hash, for login.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// MovieStore is the persistence surface for the catalog.
type MovieStore interface {
	List(ctx context.Context, filter MovieFilter) ([]models.Movie, int64, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Movie, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Movie, error)
	TopRated(ctx context.Context) ([]models.Movie, error)
	Random(ctx context.Context, size int) ([]models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) error
	InsertMany(ctx context.Context, movies []models.Movie) error
	// Save replaces the whole document, guarded by the version counter.
	// A concurrent writer surfaces as models.ErrVersionMismatch.
	Save(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteAll(ctx context.Context) error
}

// CategoryStore is the persistence surface for genre labels.
type CategoryStore interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Category, error)
	Insert(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id bson.ObjectID) error
}
