package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/netmovies/netmovies-server/models"
	"github.com/netmovies/netmovies-server/store"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CategoryController handles genre label CRUD.
type CategoryController struct {
	categories store.CategoryStore
	validate   *validator.Validate
}

func NewCategoryController(categories store.CategoryStore) *CategoryController {
	return &CategoryController{categories: categories, validate: validator.New()}
}

// GetCategories handles GET /api/categories.
func (cc *CategoryController) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := cc.categories.FindAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// CreateCategory handles POST /api/categories (admin).
func (cc *CategoryController) CreateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}
		if err := cc.validate.Struct(category); err != nil {
			respondError(c, fmt.Errorf("%w: %s", models.ErrInvalidInput, validationMessage(err)))
			return
		}

		category.ID = bson.ObjectID{}
		if err := cc.categories.Insert(c.Request.Context(), &category); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// UpdateCategory handles PUT /api/categories/:id (admin).
func (cc *CategoryController) UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid category id", models.ErrInvalidInput))
			return
		}

		var req struct {
			Title string `json:"title"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
			return
		}

		ctx := c.Request.Context()
		category, err := cc.categories.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: category not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}

		if req.Title != "" {
			category.Title = req.Title
		}
		if err := cc.categories.Save(ctx, category); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory handles DELETE /api/categories/:id (admin).
func (cc *CategoryController) DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid category id", models.ErrInvalidInput))
			return
		}
		if err := cc.categories.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(c, fmt.Errorf("%w: category not found", models.ErrNotFound))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
	}
}
