package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/igsuryas/raksha-backend/internal/config"
	"github.com/igsuryas/raksha-backend/internal/database"
	"github.com/igsuryas/raksha-backend/internal/handlers"
	"github.com/igsuryas/raksha-backend/internal/middleware"
	"github.com/igsuryas/raksha-backend/internal/routes"
	"github.com/igsuryas/raksha-backend/internal/services"
	"github.com/igsuryas/raksha-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.SMSAPIKey == "" {
		log.Println("⚠️  WARNING: FAST2SMS_API_KEY not set. SOS text messages will fail.")
	}
	if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		log.Println("⚠️  WARNING: SMTP credentials not set. Guardian emails will fail.")
	}

	// Connect to PostgreSQL (users, guardians, trusted contacts)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (location samples, alert history)
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Stores
	locationStore := store.NewMongoLocationStore(database.DB)
	alertStore := store.NewMongoAlertStore(database.DB)
	userStore := store.NewPostgresUserStore(database.PostgresDB)
	contactStore := store.NewPostgresContactStore(database.PostgresDB)
	guardianStore := store.NewPostgresGuardianStore(database.PostgresDB)

	if err := locationStore.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure location indexes: %v", err)
	}
	if err := alertStore.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure alert indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Services
	userService := services.NewUserService(userStore)
	locationService := services.NewLocationService(locationStore, userStore)
	contactService := services.NewContactService(contactStore, guardianStore, userStore)
	alertService := services.NewAlertService(
		userStore, contactStore, guardianStore, alertStore,
		services.NewFast2SMSClient(cfg.SMSAPIKey, cfg.SMSRoute),
		services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom),
	)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimitMiddleware)

	routes.SetupRoutes(r, routes.Handlers{
		Auth:     handlers.NewAuthHandler(userService),
		Location: handlers.NewLocationHandler(locationService),
		Contact:  handlers.NewContactHandler(contactService),
		Guardian: handlers.NewGuardianHandler(guardianStore),
		SOS:      handlers.NewSOSHandler(alertService),
	})

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/logout")
	log.Println("  POST /api/location")
	log.Println("  GET  /api/location")
	log.Println("  GET  /api/location/history")
	log.Println("  GET  /api/location/nearby")
	log.Println("  POST /api/contacts")
	log.Println("  GET  /api/contacts")
	log.Println("  PUT  /api/contacts/{id}")
	log.Println("  POST /api/contacts/{id}/deactivate")
	log.Println("  DELETE /api/contacts/{id}")
	log.Println("  POST /api/guardians")
	log.Println("  GET  /api/guardians")
	log.Println("  PUT  /api/guardians/{id}")
	log.Println("  DELETE /api/guardians/{id}")
	log.Println("  POST /api/sos")
	log.Println("  GET  /api/sos/history")

	log.Printf("🚀 Raksha backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
