package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"taskhive/config"
	"taskhive/middleware"
	"taskhive/models"
	"taskhive/routes"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Bootstrap the super admin account if configured
	if err := models.SeedSuperAdmin(
		config.DB,
		config.AppConfig.SeedSuperAdminEmail,
		config.AppConfig.SeedSuperAdminPassword,
		config.AppConfig.SeedSuperAdminName,
	); err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = []string{config.AppConfig.ClientOrigin}
	app.Use(middleware.CORS(corsConfig))

	// Setup routes
	routes.SetupRoutes(app, config.DB, log)

	// Start server
	log.Infof("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
