package controllers_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netmovies/netmovies-server/controllers"
	"github.com/netmovies/netmovies-server/models"
	"github.com/netmovies/netmovies-server/routes"
	"github.com/netmovies/netmovies-server/store"
	"github.com/netmovies/netmovies-server/token"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testSecret = "test-secret-key-for-unit-tests"

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[bson.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[bson.ObjectID]models.User)}
}

func (f *fakeUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	user.Password = ""
	return &user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) FindAll(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		user.Password = ""
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return models.ErrConflict
		}
	}
	user.ID = bson.NewObjectID()
	if user.LikedMovies == nil {
		user.LikedMovies = []bson.ObjectID{}
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) Save(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[user.ID]
	if !ok {
		return models.ErrNotFound
	}
	for id, existing := range f.users {
		if id != user.ID && existing.Email == user.Email {
			return models.ErrConflict
		}
	}
	if user.Password == "" {
		user.Password = stored.Password
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeMovieStore is an in-memory store.MovieStore with version-checked
// saves. saveHook, when set, runs before each Save and can simulate a
// concurrent writer.
type fakeMovieStore struct {
	mu       sync.Mutex
	movies   map[bson.ObjectID]models.Movie
	saveHook func()
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: make(map[bson.ObjectID]models.Movie)}
}

func (f *fakeMovieStore) List(_ context.Context, filter store.MovieFilter) ([]models.Movie, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Movie
	for _, movie := range f.movies {
		if filter.Category != "" && movie.Category != filter.Category {
			continue
		}
		if filter.Year > 0 && movie.Year != filter.Year {
			continue
		}
		out = append(out, movie)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMovieStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	movie, ok := f.movies[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := movie
	clone.Reviews = append([]models.Review(nil), movie.Reviews...)
	return &clone, nil
}

func (f *fakeMovieStore) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Movie{}
	for _, id := range ids {
		if movie, ok := f.movies[id]; ok {
			out = append(out, movie)
		}
	}
	return out, nil
}

func (f *fakeMovieStore) TopRated(_ context.Context) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Movie, 0, len(f.movies))
	for _, movie := range f.movies {
		out = append(out, movie)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out, nil
}

func (f *fakeMovieStore) Random(_ context.Context, size int) ([]models.Movie, error) {
	movies, err := f.FindByIDs(context.Background(), f.allIDs())
	if err != nil {
		return nil, err
	}
	if len(movies) > size {
		movies = movies[:size]
	}
	return movies, nil
}

func (f *fakeMovieStore) allIDs() []bson.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]bson.ObjectID, 0, len(f.movies))
	for id := range f.movies {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeMovieStore) Insert(_ context.Context, movie *models.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	movie.ID = bson.NewObjectID()
	movie.Version = 1
	if movie.Reviews == nil {
		movie.Reviews = []models.Review{}
	}
	f.movies[movie.ID] = *movie
	return nil
}

func (f *fakeMovieStore) InsertMany(ctx context.Context, movies []models.Movie) error {
	for i := range movies {
		if err := f.Insert(ctx, &movies[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMovieStore) Save(_ context.Context, movie *models.Movie) error {
	if f.saveHook != nil {
		f.saveHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.movies[movie.ID]
	if !ok {
		return models.ErrNotFound
	}
	if stored.Version != movie.Version {
		return models.ErrVersionMismatch
	}
	movie.Version++
	f.movies[movie.ID] = *movie
	return nil
}

func (f *fakeMovieStore) Delete(_ context.Context, id bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movies[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.movies, id)
	return nil
}

func (f *fakeMovieStore) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies = make(map[bson.ObjectID]models.Movie)
	return nil
}

// fakeCategoryStore is an in-memory store.CategoryStore.
type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[bson.ObjectID]models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[bson.ObjectID]models.Category)}
}

func (f *fakeCategoryStore) FindAll(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCategoryStore) Insert(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category.ID = bson.NewObjectID()
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) Save(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[category.ID]; !ok {
		return models.ErrNotFound
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id bson.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// fakeBlobStore records uploads without touching disk.
type fakeBlobStore struct {
	saved []string
}

func (f *fakeBlobStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.saved = append(f.saved, name)
	return "/uploads/" + name, nil
}

type testServer struct {
	router     *gin.Engine
	users      *fakeUserStore
	movies     *fakeMovieStore
	categories *fakeCategoryStore
	blobs      *fakeBlobStore
	maker      *token.Maker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		users:      newFakeUserStore(),
		movies:     newFakeMovieStore(),
		categories: newFakeCategoryStore(),
		blobs:      &fakeBlobStore{},
		maker:      token.NewMaker(testSecret, time.Hour),
	}

	router := gin.New()
	routes.Setup(router,
		controllers.NewUserController(ts.users, ts.movies, ts.maker),
		controllers.NewMovieController(ts.movies),
		controllers.NewCategoryController(ts.categories),
		controllers.NewUploadController(ts.blobs),
		ts.maker,
		ts.users,
	)
	ts.router = router
	return ts
}

// seedUser inserts a user directly into the fake store and returns it with
// a valid bearer token.
func (ts *testServer) seedUser(t *testing.T, name string, admin bool) (*models.User, string) {
	t.Helper()
	user := &models.User{
		FullName: name,
		Email:    name + "@example.com",
		Password: "irrelevant-hash",
		IsAdmin:  admin,
	}
	if err := ts.users.Insert(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	tok, err := ts.maker.Generate(user.ID.Hex())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, tok
}

// seedMovie inserts a movie directly into the fake store.
func (ts *testServer) seedMovie(t *testing.T, name string) *models.Movie {
	t.Helper()
	movie := &models.Movie{Name: name, Category: "Drama", Year: 2020}
	if err := ts.movies.Insert(context.Background(), movie); err != nil {
		t.Fatalf("seed movie: %v", err)
	}
	return movie
}
