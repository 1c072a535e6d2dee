package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netmovies/netmovies-server/config"
	"github.com/netmovies/netmovies-server/controllers"
	"github.com/netmovies/netmovies-server/database"
	"github.com/netmovies/netmovies-server/logging"
	"github.com/netmovies/netmovies-server/middleware"
	"github.com/netmovies/netmovies-server/routes"
	"github.com/netmovies/netmovies-server/storage"
	"github.com/netmovies/netmovies-server/store"
	"github.com/netmovies/netmovies-server/token"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	userStore := store.NewMongoUserStore(database.OpenCollection(client, cfg.DatabaseName, "users"))
	movieStore := store.NewMongoMovieStore(database.OpenCollection(client, cfg.DatabaseName, "movies"))
	categoryStore := store.NewMongoCategoryStore(database.OpenCollection(client, cfg.DatabaseName, "categories"))

	if err := userStore.EnsureIndexes(ctx); err != nil {
		logger.Error("ensure indexes", "error", err)
		os.Exit(1)
	}

	blobStore, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadBase)
	if err != nil {
		logger.Error("init upload storage", "error", err)
		os.Exit(1)
	}

	maker := token.NewMaker(cfg.JWTSecret, token.DefaultTTL)

	userController := controllers.NewUserController(userStore, movieStore, maker)
	movieController := controllers.NewMovieController(movieStore)
	categoryController := controllers.NewCategoryController(categoryStore)
	uploadController := controllers.NewUploadController(blobStore)

	router := gin.Default()
	router.Use(middleware.Metrics())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(cfg.UploadBase, cfg.UploadDir)

	routes.Setup(router, userController, movieController, categoryController, uploadController, maker, userStore)

	logger.Info("starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
