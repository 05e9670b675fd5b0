package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sihmcb/backend/auth"
	"github.com/sihmcb/backend/config"
	"github.com/sihmcb/backend/database"
	"github.com/sihmcb/backend/handlers"
	"github.com/sihmcb/backend/natsserver"
	"github.com/sihmcb/backend/repository"
	"github.com/sihmcb/backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadServer()

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepository(db.DB())
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(users, issuer)

	// Optional bootstrap admin row; provisioning via cmd/seed is preferred.
	if cfg.SeedAdminUser != "" && cfg.SeedAdminPass != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authService.EnsureSeedAdmin(ctx, cfg.SeedAdminUser, cfg.SeedAdminPass); err != nil {
			log.Printf("⚠️ Failed to ensure seed admin: %v", err)
		} else {
			log.Printf("👤 Seed admin %q ensured", cfg.SeedAdminUser)
		}
		cancel()
	}

	// Start the embedded NATS server for the audit bus
	var audit *services.AuditPublisher
	if !cfg.AuditDisabled {
		natsServer, err := natsserver.New(natsserver.Config{Port: cfg.NATSPort})
		if err != nil {
			log.Fatalf("❌ Failed to start NATS server: %v", err)
		}
		defer natsServer.Shutdown()

		audit = services.NewAuditPublisher(natsServer)

		auditHub := services.NewAuditHub(natsServer.Conn())
		go auditHub.Run()
		handlers.SetAuditHub(auditHub)
		handlers.SetAuditServer(natsServer)
		log.Println("📜 Audit hub initialized")
	}

	authHandler := handlers.NewAuthHandler(authService, audit)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Root banner and health check
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "SIH MCB Testing System API", "status": "running"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "message": "API is running correctly"})
	})

	// WebSocket route for the audit stream (admin only)
	router.GET("/ws/audit", authHandler.AuthMiddleware(), handlers.RequireRole("admin"), handlers.HandleAuditWebSocket)

	// API Routes
	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.GET("/me", authHandler.AuthMiddleware(), authHandler.Me)
		}

		dashboard := api.Group("/dashboard", authHandler.AuthMiddleware())
		{
			dashboard.GET("/stats", handlers.GetDashboardStats)
		}

		auditRoutes := api.Group("/audit", authHandler.AuthMiddleware(), handlers.RequireRole("admin"))
		{
			auditRoutes.GET("/stats", handlers.GetAuditStats)
		}
	}

	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
