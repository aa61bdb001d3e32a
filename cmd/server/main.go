package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/tradevault/backend/internal/router"
	"github.com/tradevault/backend/pkg/chain"
	"github.com/tradevault/backend/pkg/config"
	"github.com/tradevault/backend/pkg/firebase"
	"github.com/tradevault/backend/validators"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase; local development may run without it
	ctx := context.Background()
	var firebaseApp *firebase.App
	if firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath); err != nil {
		log.Printf("Firebase disabled: %v", err)
	}

	// Optional on-chain verification endpoint
	var verifier *chain.Verifier
	if cfg.ChainRPCURL != "" {
		if verifier, err = chain.NewVerifier(cfg.ChainRPCURL); err != nil {
			log.Fatalf("Failed to connect to chain RPC: %v", err)
		}
		defer verifier.Close()
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	var authClient *auth.Client
	if firebaseApp != nil {
		authClient = firebaseApp.AuthClient
	}
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, authClient, verifier, logger)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
