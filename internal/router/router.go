package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/tradevault/backend/internal/handlers"
	"github.com/tradevault/backend/internal/middleware"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
	"github.com/tradevault/backend/internal/services"
	"github.com/tradevault/backend/pkg/chain"
	"github.com/tradevault/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient and verifier may be nil (no auth in local development,
// no chain endpoint configured).
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, verifier *chain.Verifier, logger *zap.Logger) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}, &models.Notification{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(cfg.MongoDatabase)
	contractLogRepo := repositories.NewMongoHistoryRepository(mongoDB, "contract_logs")
	documentLogRepo := repositories.NewMongoHistoryRepository(mongoDB, "document_logs")
	kycLogRepo := repositories.NewMongoHistoryRepository(mongoDB, "kyc_logs")
	activityRepo := repositories.NewMongoActivityRepository(mongoDB)
	aggregatedRepo := repositories.NewMongoAggregatedRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	userRepo := repositories.NewPostgresUserRepository(pgdb)

	// --- Initialize Services ---
	contractLogs := services.NewContractHistoryService(contractLogRepo)
	documentLogs := services.NewTokenHistoryService(documentLogRepo)
	kycLogs := services.NewTokenHistoryService(kycLogRepo)
	roleService := services.NewRoleService(contractLogRepo)
	activityService := services.NewActivityService(activityRepo, aggregatedRepo, logger)
	fanoutService := services.NewFanoutService(notificationRepo, cfg.AdminAccounts, logger)

	// --- Protected API group ---
	api := e.Group("/api/v1")
	if firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	} else {
		log.Println("WARNING: Firebase auth client not configured; /api/v1 is unauthenticated.")
	}

	// History log routes
	historyHandler := handlers.NewHistoryHandler(contractLogs, documentLogs, kycLogs, roleService, activityService, fanoutService, verifier, logger)
	historyHandler.RegisterHistoryRoutes(api)
	log.Println("History log routes configured.")

	// Activity log routes
	activityHandler := handlers.NewActivityHandler(activityService, activityRepo, aggregatedRepo)
	activityHandler.RegisterActivityRoutes(api)
	log.Println("Activity log routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")
}
