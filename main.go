package main

import (
	"log"
	"net/http"

	"github.com/gee-graphics/gee-graphics-api/config"
	"github.com/gee-graphics/gee-graphics-api/controllers"
	"github.com/gee-graphics/gee-graphics-api/middleware"
	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/gee-graphics/gee-graphics-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("Starting GEE Graphics API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wire the order store for the configured backend
	switch cfg.StorageBackend {
	case config.StorageBackendDatabase:
		if err := config.ConnectDatabase(); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		db := config.GetDB()
		if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.PriceTable{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Database migration completed successfully")

		services.InitOrderStore(services.NewDatabaseStore(db))

	case config.StorageBackendLocal:
		// Accounts still live in the database even when orders are kept
		// on disk, so the database connection is not optional
		if err := config.ConnectDatabase(); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		db := config.GetDB()
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		store, err := services.NewLocalStore(cfg.LocalStorePath)
		if err != nil {
			log.Fatalf("Failed to open local store at %s: %v", cfg.LocalStorePath, err)
		}
		services.InitOrderStore(store)
		log.Printf("Using local order store at %s", cfg.LocalStorePath)
	}

	// Initialize mockup storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitMockupService(s3Service)

	router := setupRouter()

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all middleware and routes.
// Separated from main so tests can exercise the full routing table.
func setupRouter() *gin.Engine {
	router := gin.Default()

	// CORS for the dashboard frontend
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestMetrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		v1.GET("/health", healthCheck)
		v1.POST("/auth/signup", controllers.Signup)
		v1.POST("/auth/login", controllers.Login)

		// Authenticated endpoints
		authorized := v1.Group("")
		authorized.Use(middleware.EnsureValidToken(config.GetConfig()))
		{
			authorized.GET("/users/me", controllers.GetMyProfile)

			authorized.POST("/orders", controllers.CreateOrder)
			authorized.GET("/orders", controllers.ListOrders)
			authorized.GET("/orders/stream", controllers.StreamOrders)
			authorized.GET("/orders/:id", controllers.GetOrder)
			authorized.PUT("/orders/:id", controllers.UpdateOrder)
			authorized.DELETE("/orders/:id", controllers.DeleteOrder)
			authorized.POST("/orders/:id/transitions", controllers.Transition)
			authorized.PUT("/orders/:id/sizing", controllers.UpdateSizing)
			authorized.PUT("/orders/:id/delivery", controllers.UpdateDelivery)
			authorized.POST("/orders/:id/image", controllers.UploadMockup)
			authorized.GET("/orders/:id/image", controllers.GetMockup)

			authorized.GET("/prices", controllers.GetPrices)
			authorized.PUT("/prices", controllers.UpdatePrices)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "GEE Graphics API is running",
	})
}
