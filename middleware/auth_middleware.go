package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/netmovies/netmovies-server/models"
	"github.com/netmovies/netmovies-server/token"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const identityKey = "netmovies/user"

// UserFinder resolves an authenticated user ID to its account. The store's
// implementation excludes the password hash from the result.
type UserFinder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

// Authenticate verifies the Bearer credential and attaches the resolved user
// to the request context. A missing or malformed header and a failed
// verification both abort with 401. A token whose user no longer exists
// passes through without an identity; downstream checks treat that as
// unauthenticated.
func Authenticate(maker *token.Maker, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
			return
		}

		subject, err := maker.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, token failed"})
			return
		}

		id, err := bson.ObjectIDFromHex(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, token failed"})
			return
		}

		if user, err := users.FindByID(c.Request.Context(), id); err == nil {
			c.Set(identityKey, user)
		}
		c.Next()
	}
}

// RequireAdmin passes only when Authenticate resolved an identity whose
// admin flag is set.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized as admin"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
