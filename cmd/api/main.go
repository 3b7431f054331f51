package main

import (
	"os"

	"tokenwise/internal/routes"
	"tokenwise/pkg/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	// The API only needs the store; RPC settings are the monitor's concern.
	dbCfg := config.DatabaseConfig{
		Host:     envOr("DB_HOST", "localhost"),
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     envOr("DB_NAME", "tokenwise"),
		Port:     envOr("DB_PORT", "5432"),
	}

	db, err := config.InitDB(dbCfg)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}

	r := routes.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("TokenWise API server running on port %s", port)
	if err := r.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
