package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment. It is
// loaded once in main and read-only afterwards; in particular the JWT secret
// is injected into the token maker at construction instead of being read
// ambiently per request.
type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string
	JWTSecret    string
	UploadDir    string
	UploadBase   string
}

// Load reads the .env file if present and builds the Config from environment
// variables. MONGODB_URI and JWT_SECRET are mandatory.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: unable to find .env file")
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: getEnv("DATABASE_NAME", "netmovies"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		UploadBase:   getEnv("UPLOAD_BASE_URL", "/uploads"),
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGODB_URI not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
