package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/netmovies/netmovies-server/middleware"
	"github.com/netmovies/netmovies-server/models"
	"github.com/netmovies/netmovies-server/store"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// saveRetries bounds how often a review submission re-reads and retries
// after losing a version race on the movie document.
const saveRetries = 3

const randomSampleSize = 8

// MovieController handles catalog listing, review submission and the admin
// mutations.
type MovieController struct {
	movies   store.MovieStore
	validate *validator.Validate
}

func NewMovieController(movies store.MovieStore) *MovieController {
	return &MovieController{movies: movies, validate: validator.New()}
}

// GetMovies handles GET /api/movies with filters and pagination.
func (mc *MovieController) GetMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.MovieFilter{
			Category: c.Query("category"),
			Language: c.Query("language"),
			Search:   c.Query("search"),
		}
		if v, err := strconv.Atoi(c.Query("time")); err == nil {
			filter.Time = v
		}
		if v, err := strconv.Atoi(c.Query("year")); err == nil {
			filter.Year = v
		}
		if v, err := strconv.ParseFloat(c.Query("rate"), 64); err == nil {
			filter.Rate = v
		}
		filter.Page = 1
		if v, err := strconv.Atoi(c.Query("pageNumber")); err == nil && v > 0 {
			filter.Page = v
		}

		movies, total, err := mc.movies.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"movies":      movies,
			"page":        filter.Page,
			"pages":       int(math.Ceil(float64(total) / float64(store.MoviePageSize))),
			"totalMovies": total,
		})
	}
}

// GetMovie handles GET /api/movies/:id.
func (mc *MovieController) GetMovie() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid movie id", models.ErrInvalidInput))
			return
		}
		movie, err := mc.movies.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: movie not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, movie)
	}
}

// GetTopRatedMovies handles GET /api/movies/rated/top.
func (mc *MovieController) GetTopRatedMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		movies, err := mc.movies.TopRated(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, movies)
	}
}

// GetRandomMovies handles GET /api/movies/random.
func (mc *MovieController) GetRandomMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		movies, err := mc.movies.Random(c.Request.Context(), randomSampleSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, movies)
	}
}

// CreateMovieReview handles POST /api/movies/:id/reviews. One review per
// user per movie; the aggregate rating is recomputed from the full review
// set and the save is version-checked, retrying on concurrent writes.
//
// The rating range is intentionally not validated; out-of-range values are
// folded into the mean unchanged.
func (mc *MovieController) CreateMovieReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid movie id", models.ErrInvalidInput))
			return
		}

		var req struct {
			Rating  float64 `json:"rating"`
			Comment string  `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}

		ctx := c.Request.Context()
		for attempt := 0; attempt < saveRetries; attempt++ {
			movie, err := mc.movies.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					respondError(c, fmt.Errorf("%w: movie not found", models.ErrNotFound))
					return
				}
				respondError(c, err)
				return
			}

			if err := movie.AddReview(user, req.Rating, req.Comment); err != nil {
				respondError(c, fmt.Errorf("%w: movie already reviewed", models.ErrConflict))
				return
			}

			err = mc.movies.Save(ctx, movie)
			if errors.Is(err, models.ErrVersionMismatch) {
				continue
			}
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"message": "review added successfully"})
			return
		}
		respondError(c, fmt.Errorf("%w: movie was modified concurrently, try again", models.ErrConflict))
	}
}

// CreateMovie handles POST /api/movies (admin).
func (mc *MovieController) CreateMovie() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}

		var movie models.Movie
		if err := c.ShouldBindJSON(&movie); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}
		if err := mc.validate.Struct(movie); err != nil {
			respondError(c, fmt.Errorf("%w: %s", models.ErrInvalidInput, validationMessage(err)))
			return
		}

		movie.ID = bson.ObjectID{}
		movie.UserID = user.ID
		movie.Reviews = []models.Review{}
		movie.NumberOfReviews = 0
		if err := mc.movies.Insert(c.Request.Context(), &movie); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, movie)
	}
}

// UpdateMovie handles PUT /api/movies/:id (admin). Zero-valued fields in
// the body leave the stored value alone, matching merge-update semantics.
func (mc *MovieController) UpdateMovie() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid movie id", models.ErrInvalidInput))
			return
		}

		var req struct {
			Name       string        `json:"name"`
			Desc       string        `json:"desc"`
			Image      string        `json:"image"`
			TitleImage string        `json:"title_image"`
			Category   string        `json:"category"`
			Time       int           `json:"time"`
			Language   string        `json:"language"`
			Year       int           `json:"year"`
			Video      string        `json:"video"`
			Casts      []models.Cast `json:"casts"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}

		ctx := c.Request.Context()
		movie, err := mc.movies.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: movie not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}

		if req.Name != "" {
			movie.Name = req.Name
		}
		if req.Desc != "" {
			movie.Desc = req.Desc
		}
		if req.Image != "" {
			movie.Image = req.Image
		}
		if req.TitleImage != "" {
			movie.TitleImage = req.TitleImage
		}
		if req.Category != "" {
			movie.Category = req.Category
		}
		if req.Time != 0 {
			movie.Time = req.Time
		}
		if req.Language != "" {
			movie.Language = req.Language
		}
		if req.Year != 0 {
			movie.Year = req.Year
		}
		if req.Video != "" {
			movie.Video = req.Video
		}
		if req.Casts != nil {
			movie.Casts = req.Casts
		}

		if err := mc.movies.Save(ctx, movie); err != nil {
			if errors.Is(err, models.ErrVersionMismatch) {
				respondError(c, fmt.Errorf("%w: movie was modified concurrently, try again", models.ErrConflict))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, movie)
	}
}

// DeleteMovie handles DELETE /api/movies/:id (admin).
func (mc *MovieController) DeleteMovie() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid movie id", models.ErrInvalidInput))
			return
		}
		if err := mc.movies.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: movie not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "movie deleted successfully"})
	}
}

// DeleteAllMovies handles DELETE /api/movies (admin).
func (mc *MovieController) DeleteAllMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := mc.movies.DeleteAll(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "all movies deleted successfully"})
	}
}

// ImportMovies handles POST /api/movies/import: replaces the whole catalog
// with the posted seed data.
func (mc *MovieController) ImportMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		var movies []models.Movie
		if err := c.ShouldBindJSON(&movies); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}

		ctx := c.Request.Context()
		if err := mc.movies.DeleteAll(ctx); err != nil {
			respondError(c, err)
			return
		}
		if err := mc.movies.InsertMany(ctx, movies); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, movies)
	}
}
