package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"transaction-reporting-backend/internal/config"
	"transaction-reporting-backend/internal/currency"
	"transaction-reporting-backend/internal/models"
	"transaction-reporting-backend/internal/routes"
	"transaction-reporting-backend/internal/store"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.UploadBatch{},
	); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	converter := currency.NewConverter(cfg.Rates())
	gormStore := store.NewGormStore(db)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Stores{
		Transactions: gormStore,
		Batches:      gormStore,
	}, converter)

	if err := r.Run(cfg.ServerAddr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
