package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/netmovies/netmovies-server/middleware"
	"github.com/netmovies/netmovies-server/models"
	"github.com/netmovies/netmovies-server/store"
	"github.com/netmovies/netmovies-server/token"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

// UserController handles registration, login, profile and favorites.
type UserController struct {
	users    store.UserStore
	movies   store.MovieStore
	maker    *token.Maker
	validate *validator.Validate
}

func NewUserController(users store.UserStore, movies store.MovieStore, maker *token.Maker) *UserController {
	return &UserController{
		users:    users,
		movies:   movies,
		maker:    maker,
		validate: validator.New(),
	}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Image    string `json:"image"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the profile plus a fresh credential, returned by register,
// login and profile update alike.
type authResponse struct {
	ID       bson.ObjectID `json:"_id"`
	FullName string        `json:"full_name"`
	Email    string        `json:"email"`
	Image    string        `json:"image,omitempty"`
	IsAdmin  bool          `json:"is_admin"`
	Token    string        `json:"token"`
}

func (uc *UserController) authResponseFor(user *models.User) (authResponse, error) {
	tok, err := uc.maker.Generate(user.ID.Hex())
	if err != nil {
		return authResponse{}, fmt.Errorf("generate token: %w", err)
	}
	return authResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Image:    user.Image,
		IsAdmin:  user.IsAdmin,
		Token:    tok,
	}, nil
}

// RegisterUser handles POST /api/users.
func (uc *UserController) RegisterUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}
		if err := uc.validate.Struct(req); err != nil {
			respondError(c, fmt.Errorf("%w: %s", models.ErrInvalidInput, validationMessage(err)))
			return
		}

		ctx := c.Request.Context()
		if _, err := uc.users.FindByEmail(ctx, req.Email); err == nil {
			respondError(c, fmt.Errorf("%w: user already exists", models.ErrConflict))
			return
		} else if !errors.Is(err, models.ErrNotFound) {
			respondError(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, fmt.Errorf("hash password: %w", err))
			return
		}

		user := &models.User{
			FullName: req.FullName,
			Email:    req.Email,
			Password: string(hash),
			Image:    req.Image,
		}
		if err := uc.users.Insert(ctx, user); err != nil {
			if errors.Is(err, models.ErrConflict) {
				respondError(c, fmt.Errorf("%w: user already exists", models.ErrConflict))
				return
			}
			respondError(c, err)
			return
		}

		resp, err := uc.authResponseFor(user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// LoginUser handles POST /api/users/login.
func (uc *UserController) LoginUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}
		if err := uc.validate.Struct(req); err != nil {
			respondError(c, fmt.Errorf("%w: %s", models.ErrInvalidInput, validationMessage(err)))
			return
		}

		user, err := uc.users.FindByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized))
				return
			}
			respondError(c, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			respondError(c, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized))
			return
		}

		resp, err := uc.authResponseFor(user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateUserProfile handles PUT /api/users/profile.
func (uc *UserController) UpdateUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}

		var req struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Image    string `json:"image"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}

		if req.FullName != "" {
			user.FullName = req.FullName
		}
		if req.Email != "" {
			user.Email = req.Email
		}
		if req.Image != "" {
			user.Image = req.Image
		}

		if err := uc.users.Save(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}

		resp, err := uc.authResponseFor(user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ChangeUserPassword handles PUT /api/users/password.
func (uc *UserController) ChangeUserPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}

		var req struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password" validate:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}
		if err := uc.validate.Struct(req); err != nil {
			respondError(c, fmt.Errorf("%w: %s", models.ErrInvalidInput, validationMessage(err)))
			return
		}

		// The context identity has no hash; re-read by email for the compare.
		ctx := c.Request.Context()
		full, err := uc.users.FindByEmail(ctx, user.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(full.Password), []byte(req.OldPassword)) != nil {
			respondError(c, fmt.Errorf("%w: invalid old password", models.ErrUnauthorized))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, fmt.Errorf("hash password: %w", err))
			return
		}
		full.Password = string(hash)
		if err := uc.users.Save(ctx, full); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
	}
}

// DeleteUserProfile handles DELETE /api/users. Admin accounts refuse
// self-deletion.
func (uc *UserController) DeleteUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}
		if user.IsAdmin {
			respondError(c, fmt.Errorf("%w: cannot delete admin user", models.ErrInvalidInput))
			return
		}
		if err := uc.users.Delete(c.Request.Context(), user.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
	}
}

// GetLikedMovies handles GET /api/users/favorites.
func (uc *UserController) GetLikedMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}
		movies, err := uc.movies.FindByIDs(c.Request.Context(), user.LikedMovies)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, movies)
	}
}

// AddLikedMovie handles POST /api/users/favorites. Liking the same movie
// twice is a conflict.
func (uc *UserController) AddLikedMovie() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}

		var req struct {
			MovieID string `json:"movie_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}
		movieID, err := bson.ObjectIDFromHex(req.MovieID)
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid movie id", models.ErrInvalidInput))
			return
		}

		ctx := c.Request.Context()
		if _, err := uc.movies.FindByID(ctx, movieID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: movie not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}

		if err := user.LikeMovie(movieID); err != nil {
			respondError(c, fmt.Errorf("%w: movie already liked", models.ErrConflict))
			return
		}
		if err := uc.users.Save(ctx, user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user.LikedMovies)
	}
}

// DeleteLikedMovies handles DELETE /api/users/favorites.
func (uc *UserController) DeleteLikedMovies() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			respondError(c, models.ErrUnauthorized)
			return
		}
		user.LikedMovies = []bson.ObjectID{}
		if err := uc.users.Save(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "favorites cleared successfully"})
	}
}

// GetUsers handles GET /api/users (admin).
func (uc *UserController) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := uc.users.FindAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// DeleteUser handles DELETE /api/users/:id (admin). Admin accounts cannot be
// deleted.
func (uc *UserController) DeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid user id", models.ErrInvalidInput))
			return
		}

		ctx := c.Request.Context()
		target, err := uc.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: user not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}
		if target.IsAdmin {
			respondError(c, fmt.Errorf("%w: cannot delete admin user", models.ErrInvalidInput))
			return
		}
		if err := uc.users.Delete(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field() + " failed on " + verrs[0].Tag()
	}
	return err.Error()
}
