package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aidynbek/account-service/internal/config"
	"github.com/aidynbek/account-service/internal/database"
	"github.com/aidynbek/account-service/internal/handlers"
	"github.com/aidynbek/account-service/internal/repository"
	"github.com/aidynbek/account-service/internal/services"
	"github.com/aidynbek/account-service/pkg/email"
	"github.com/aidynbek/account-service/pkg/logger"
	"github.com/aidynbek/account-service/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("Index creation error: %v", err)
	}
	cancel()

	// --- Notifier ---
	// A nil notifier selects the development fallback: the reset code comes
	// back in the response body.
	var notifier services.Notifier
	if mailer := email.NewMailer(cfg); mailer != nil {
		notifier = mailer
		logger.Log.Info("SMTP mailer configured")
	} else {
		logger.Log.Warn("SMTP not configured, reset codes will be returned in responses")
	}

	// --- Services ---
	userService := services.NewUserService(userRepo)
	resetService := services.NewResetService(userRepo, notifier)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, resetService, cfg)
	userHandler := handlers.NewUserHandler(userService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	router.HandleFunc("/", handlers.RootHandler).Methods("GET")
	router.HandleFunc("/ping", handlers.PingHandler).Methods("GET")

	// Public auth routes
	authRoutes := router.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/register", authHandler.RegisterHandler).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.LoginHandler).Methods("POST")
	authRoutes.HandleFunc("/forgot-password", authHandler.ForgotPasswordHandler).Methods("POST")
	authRoutes.HandleFunc("/reset-password", authHandler.ResetPasswordHandler).Methods("POST")

	// Protected user routes (only authenticated users can access)
	protectedUserRoutes := router.PathPrefix("/api/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/me", userHandler.UpdateMeHandler).Methods("PUT")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Cross-origin requests are universally permitted.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	handler := c.Handler(router)

	port := cfg.Port
	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
