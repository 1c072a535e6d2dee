package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/netmovies/netmovies-server/models"
	"github.com/netmovies/netmovies-server/storage"
)

// UploadController proxies multipart uploads into the blob store.
type UploadController struct {
	store storage.Store
}

func NewUploadController(store storage.Store) *UploadController {
	return &UploadController{store: store}
}

// UploadFile handles POST /api/upload. The stored name is a fresh uuid plus
// the original extension; the response body is the public URL.
func (uc *UploadController) UploadFile() gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			respondError(c, fmt.Errorf("%w: please upload a file", models.ErrInvalidInput))
			return
		}

		src, err := header.Open()
		if err != nil {
			respondError(c, fmt.Errorf("open upload: %w", err))
			return
		}
		defer src.Close()

		name := uuid.NewString() + filepath.Ext(header.Filename)
		url, err := uc.store.Save(c.Request.Context(), name, src)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, url)
	}
}
