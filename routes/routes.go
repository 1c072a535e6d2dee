package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/netmovies/netmovies-server/controllers"
	"github.com/netmovies/netmovies-server/middleware"
	"github.com/netmovies/netmovies-server/token"
	"golang.org/x/time/rate"
)

// Setup registers every API route. Protected routes run Authenticate first;
// admin routes run Authenticate then RequireAdmin, in that order.
func Setup(
	router *gin.Engine,
	users *controllers.UserController,
	movies *controllers.MovieController,
	categories *controllers.CategoryController,
	uploads *controllers.UploadController,
	maker *token.Maker,
	finder middleware.UserFinder,
) {
	authenticate := middleware.Authenticate(maker, finder)
	admin := middleware.RequireAdmin()
	credentialLimit := middleware.RateLimit(rate.Limit(1), 5)

	api := router.Group("/api")

	u := api.Group("/users")
	u.POST("", credentialLimit, users.RegisterUser())
	u.POST("/login", credentialLimit, users.LoginUser())
	u.PUT("/profile", authenticate, users.UpdateUserProfile())
	u.PUT("/password", authenticate, users.ChangeUserPassword())
	u.DELETE("", authenticate, users.DeleteUserProfile())
	u.GET("/favorites", authenticate, users.GetLikedMovies())
	u.POST("/favorites", authenticate, users.AddLikedMovie())
	u.DELETE("/favorites", authenticate, users.DeleteLikedMovies())
	u.GET("", authenticate, admin, users.GetUsers())
	u.DELETE("/:id", authenticate, admin, users.DeleteUser())

	m := api.Group("/movies")
	m.GET("", movies.GetMovies())
	m.GET("/rated/top", movies.GetTopRatedMovies())
	m.GET("/random", movies.GetRandomMovies())
	m.GET("/:id", movies.GetMovie())
	m.POST("/import", movies.ImportMovies())
	m.POST("/:id/reviews", authenticate, movies.CreateMovieReview())
	m.POST("", authenticate, admin, movies.CreateMovie())
	m.PUT("/:id", authenticate, admin, movies.UpdateMovie())
	m.DELETE("/:id", authenticate, admin, movies.DeleteMovie())
	m.DELETE("", authenticate, admin, movies.DeleteAllMovies())

	cat := api.Group("/categories")
	cat.GET("", categories.GetCategories())
	cat.POST("", authenticate, admin, categories.CreateCategory())
	cat.PUT("/:id", authenticate, admin, categories.UpdateCategory())
	cat.DELETE("/:id", authenticate, admin, categories.DeleteCategory())

	api.POST("/upload", authenticate, uploads.UploadFile())
}
